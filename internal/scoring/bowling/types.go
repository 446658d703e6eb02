package bowling

import "fmt"

const (
	// FrameCount is the number of frames on a scorecard.
	FrameCount = 10
	// MaxPins is the number of pins standing at the start of a frame.
	MaxPins = 10
)

// Options controls how a scorecard is summarized.
type Options struct {
	// PlayerLabel is used in validation error messages only.
	PlayerLabel string
	// DisableTenthFrameBonus scores the tenth frame as roll1+roll2 instead
	// of applying bonus-roll scoring.
	DisableTenthFrameBonus bool
}

// Result is a fully validated, fully scored card.
type Result struct {
	// Frames holds the parsed pin counts per frame (1 entry for a strike in
	// frames 1-9, otherwise 2; the tenth frame holds 2 or 3).
	Frames [][]int `json:"frames"`
	// FrameScores holds the cumulative total through each frame.
	FrameScores []int `json:"frame_scores"`
	Total       int   `json:"total"`
}

// Preview holds running totals for a card that is still being entered.
// A nil entry means that frame's score cannot be determined yet.
type Preview struct {
	FrameTotals []*int `json:"frame_totals"`
	Total       *int   `json:"total"`
}

// ValidationError describes the first rule violation found on a card.
type ValidationError struct {
	Player string
	Frame  int // 1-based, 0 when not tied to a frame
	Msg    string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Player != "" && e.Frame > 0:
		return fmt.Sprintf("%s: frame %d: %s", e.Player, e.Frame, e.Msg)
	case e.Frame > 0:
		return fmt.Sprintf("frame %d: %s", e.Frame, e.Msg)
	case e.Player != "":
		return fmt.Sprintf("%s: %s", e.Player, e.Msg)
	default:
		return e.Msg
	}
}
