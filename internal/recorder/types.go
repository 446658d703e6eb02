package recorder

import (
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/strokeplay"
)

// StorageError wraps database failures so transport code can tell them apart
// from validation problems in the submitted scores.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// BowlingSheet is one player's raw bowling card as entered on the score form.
// Each inner slice holds the roll tokens for one frame.
type BowlingSheet struct {
	Player string     `json:"player"`
	Frames [][]string `json:"frames"`
}

// Submission is a raw match entry. Sport decides which score fields apply:
// series sports use SideA/SideB/Games, bowling uses Sheets, disc golf uses
// Rounds.
type Submission struct {
	Sport    string `json:"sport"`
	PlayedAt int64  `json:"played_at,omitempty"`

	// ID overrides the generated match ID. Set by importers so re-imported
	// matches upsert instead of duplicating; not settable over HTTP.
	ID string `json:"-"`

	SideA []string     `json:"side_a,omitempty"`
	SideB []string     `json:"side_b,omitempty"`
	Games []series.Row `json:"games,omitempty"`

	Sheets []BowlingSheet `json:"sheets,omitempty"`

	Rounds []strokeplay.Entry `json:"rounds,omitempty"`
}
