// Package bowling validates ten-frame scorecards and computes running
// totals using standard bowling rules, including tenth-frame bonus rolls.
// Input arrives as raw string tokens straight from a score form; parsing is
// kept separate from scoring so both can be tested on their own.
package bowling

import (
	"fmt"
	"strings"
)

// Summarize validates a complete scorecard and computes cumulative frame
// scores and the final total. It fails fast on the first rule violation with
// a *ValidationError naming the player and frame.
func Summarize(frames [][]string, opts Options) (*Result, error) {
	if len(frames) != FrameCount {
		return nil, &ValidationError{
			Player: opts.PlayerLabel,
			Msg:    fmt.Sprintf("a scorecard needs exactly %d frames, got %d", FrameCount, len(frames)),
		}
	}

	parsed := make([][]int, FrameCount)
	for i := range frames {
		rolls, verr := parseFrame(frames[i], i)
		if verr != nil {
			verr.Player = opts.PlayerLabel
			return nil, verr
		}
		parsed[i] = rolls
	}

	scores := make([]int, FrameCount)
	running := 0
	for i := 0; i < FrameCount; i++ {
		running += frameValue(parsed, i, !opts.DisableTenthFrameBonus)
		scores[i] = running
	}

	return &Result{Frames: parsed, FrameScores: scores, Total: running}, nil
}

// PreviewTotals computes running totals for a card that is still being
// entered. It never fails: frames that are incomplete, invalid, or waiting
// on lookahead rolls yield nil totals instead. The input is not modified.
func PreviewTotals(frames [][]string) Preview {
	p := Preview{FrameTotals: make([]*int, FrameCount)}
	if len(frames) != FrameCount {
		return p
	}

	cards := make([][]int, FrameCount)
	complete := make([]bool, FrameCount)
	for i := range cards {
		cards[i], complete[i] = previewFrame(frames[i], i)
	}

	running := 0
	for i := 0; i < FrameCount; i++ {
		v, ok := previewValue(cards, complete, i)
		if !ok {
			break
		}
		running += v
		total := running
		p.FrameTotals[i] = &total
	}
	p.Total = p.FrameTotals[FrameCount-1]
	return p
}

// parseFrame validates one frame strictly, returning the parsed pin counts.
// idx is 0-based; the returned error carries the 1-based frame number.
func parseFrame(raw []string, idx int) ([]int, *ValidationError) {
	fail := func(msg string, args ...any) ([]int, *ValidationError) {
		return nil, &ValidationError{Frame: idx + 1, Msg: fmt.Sprintf(msg, args...)}
	}

	allowed := 2
	if idx == FrameCount-1 {
		allowed = 3
	}
	for j := allowed; j < len(raw); j++ {
		if trimmed(raw, j) != "" {
			return fail("only %d rolls allowed in this frame", allowed)
		}
	}

	r1 := trimmed(raw, 0)
	if r1 == "" {
		return fail("roll 1 is required")
	}
	v1, err := ParseRoll(r1, 0, false)
	if err != nil {
		return fail("roll 1: %v", err)
	}

	if idx < FrameCount-1 {
		if v1 == MaxPins {
			if trimmed(raw, 1) != "" {
				return fail("leave roll 2 empty after a strike")
			}
			return []int{v1}, nil
		}
		r2 := trimmed(raw, 1)
		if r2 == "" {
			return fail("roll 2 is required")
		}
		v2, err := ParseRoll(r2, v1, true)
		if err != nil {
			return fail("roll 2: %v", err)
		}
		if v1+v2 > MaxPins {
			return fail("the two rolls cannot knock down more than %d pins", MaxPins)
		}
		return []int{v1, v2}, nil
	}

	// Tenth frame: both opening rolls are required; a strike or spare earns
	// a third.
	r2 := trimmed(raw, 1)
	if r2 == "" {
		return fail("roll 2 is required")
	}
	v2, err := ParseRoll(r2, v1, v1 < MaxPins)
	if err != nil {
		return fail("roll 2: %v", err)
	}
	if v1 != MaxPins && v1+v2 > MaxPins {
		return fail("the two rolls cannot knock down more than %d pins", MaxPins)
	}

	needThird := v1 == MaxPins || v1+v2 == MaxPins
	r3 := trimmed(raw, 2)
	if !needThird {
		if r3 != "" {
			return fail("roll 3 is only allowed after a strike or spare")
		}
		return []int{v1, v2}, nil
	}
	if r3 == "" {
		return fail("roll 3 is required after a strike or spare")
	}
	v3, err := ParseRoll(r3, v2, v1 == MaxPins && v2 < MaxPins)
	if err != nil {
		return fail("roll 3: %v", err)
	}
	// After an opening strike, rolls 2 and 3 form a fresh frame and are
	// bound by the pin count unless roll 2 was itself a strike.
	if v1 == MaxPins && v2 < MaxPins && v2+v3 > MaxPins {
		return fail("rolls 2 and 3 cannot knock down more than %d pins", MaxPins)
	}
	return []int{v1, v2, v3}, nil
}

// frameValue computes the point value of a single frame on a fully
// validated card. Strikes and spares look ahead into subsequent frames.
func frameValue(parsed [][]int, i int, tenthBonus bool) int {
	rolls := parsed[i]
	if i == FrameCount-1 {
		if !tenthBonus {
			return rolls[0] + rolls[1]
		}
		sum := 0
		for _, r := range rolls {
			sum += r
		}
		return sum
	}
	if rolls[0] == MaxPins {
		next := lookahead(parsed, i+1, 2, nil)
		return MaxPins + next[0] + next[1]
	}
	if rolls[0]+rolls[1] == MaxPins {
		next := lookahead(parsed, i+1, 1, nil)
		return MaxPins + next[0]
	}
	return rolls[0] + rolls[1]
}

// lookahead flattens up to n rolls starting at frame `from`. When complete
// is non-nil (preview mode) it stops at the first frame whose rolls may
// still grow, since the position of later rolls is not yet fixed.
func lookahead(parsed [][]int, from, n int, complete []bool) []int {
	out := make([]int, 0, n)
	for j := from; j < FrameCount && len(out) < n; j++ {
		for _, r := range parsed[j] {
			out = append(out, r)
			if len(out) == n {
				return out
			}
		}
		if complete != nil && !complete[j] {
			break
		}
	}
	return out
}

// previewFrame parses one frame leniently: incomplete frames return the
// rolls entered so far with complete=false, frames that break a rule return
// nothing at all so no score is derived from bad data.
func previewFrame(raw []string, idx int) ([]int, bool) {
	v1, err := ParseRoll(trimmed(raw, 0), 0, false)
	if err != nil {
		return nil, false
	}

	if idx < FrameCount-1 {
		if v1 == MaxPins {
			if trimmed(raw, 1) != "" {
				return nil, false
			}
			return []int{v1}, true
		}
		v2, err := ParseRoll(trimmed(raw, 1), v1, true)
		if err != nil {
			return []int{v1}, false
		}
		if v1+v2 > MaxPins {
			return nil, false
		}
		return []int{v1, v2}, true
	}

	v2, err := ParseRoll(trimmed(raw, 1), v1, v1 < MaxPins)
	if err != nil {
		return []int{v1}, false
	}
	if v1 != MaxPins && v1+v2 > MaxPins {
		return nil, false
	}
	needThird := v1 == MaxPins || v1+v2 == MaxPins
	if !needThird {
		if trimmed(raw, 2) != "" {
			return nil, false
		}
		return []int{v1, v2}, true
	}
	v3, err := ParseRoll(trimmed(raw, 2), v2, v1 == MaxPins && v2 < MaxPins)
	if err != nil {
		return []int{v1, v2}, false
	}
	if v1 == MaxPins && v2 < MaxPins && v2+v3 > MaxPins {
		return nil, false
	}
	return []int{v1, v2, v3}, true
}

// previewValue computes a frame's own point value in preview mode, reporting
// whether it is determinable yet.
func previewValue(cards [][]int, complete []bool, i int) (int, bool) {
	if !complete[i] {
		return 0, false
	}
	rolls := cards[i]
	if i == FrameCount-1 {
		sum := 0
		for _, r := range rolls {
			sum += r
		}
		return sum, true
	}
	if rolls[0] == MaxPins {
		next := lookahead(cards, i+1, 2, complete)
		if len(next) < 2 {
			return 0, false
		}
		return MaxPins + next[0] + next[1], true
	}
	if rolls[0]+rolls[1] == MaxPins {
		next := lookahead(cards, i+1, 1, complete)
		if len(next) < 1 {
			return 0, false
		}
		return MaxPins + next[0], true
	}
	return rolls[0] + rolls[1], true
}

func trimmed(raw []string, j int) string {
	if j >= len(raw) {
		return ""
	}
	return strings.TrimSpace(raw[j])
}
