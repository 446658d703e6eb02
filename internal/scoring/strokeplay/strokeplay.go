// Package strokeplay scores disc golf rounds: every player records a total
// stroke count and the lowest total wins. Ties are allowed and produce
// shared winners.
package strokeplay

import (
	"fmt"
	"strconv"
	"strings"
)

// Entry is one player's raw stroke total from the score form.
type Entry struct {
	Player  string `json:"player"`
	Strokes string `json:"strokes"`
}

// PlayerTotal is a parsed, validated stroke total.
type PlayerTotal struct {
	Player  string `json:"player"`
	Strokes int    `json:"strokes"`
}

// Result is the validated round outcome.
type Result struct {
	Totals []PlayerTotal `json:"totals"`
	// Winners holds every player sharing the lowest total.
	Winners []string `json:"winners"`
}

// ValidationError describes the first problem found in a round entry.
type ValidationError struct {
	Player string
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Player != "" {
		return fmt.Sprintf("%s: %s", e.Player, e.Msg)
	}
	return e.Msg
}

// Normalize validates the entered stroke totals and determines the winners.
func Normalize(entries []Entry) (*Result, error) {
	if len(entries) == 0 {
		return nil, &ValidationError{Msg: "enter strokes for at least one player"}
	}

	seen := make(map[string]bool, len(entries))
	totals := make([]PlayerTotal, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Player)
		if name == "" {
			return nil, &ValidationError{Msg: "every entry needs a player name"}
		}
		if seen[name] {
			return nil, &ValidationError{Player: name, Msg: "appears more than once"}
		}
		seen[name] = true

		n, err := strconv.Atoi(strings.TrimSpace(e.Strokes))
		if err != nil || n < 1 {
			return nil, &ValidationError{Player: name, Msg: fmt.Sprintf("%q is not a valid stroke total", e.Strokes)}
		}
		totals = append(totals, PlayerTotal{Player: name, Strokes: n})
	}

	best := totals[0].Strokes
	for _, t := range totals[1:] {
		if t.Strokes < best {
			best = t.Strokes
		}
	}
	var winners []string
	for _, t := range totals {
		if t.Strokes == best {
			winners = append(winners, t.Player)
		}
	}

	return &Result{Totals: totals, Winners: winners}, nil
}
