package series

import "fmt"

// Row is one game's raw score entry for the two sides, straight from the
// score form. Both sides empty marks a blank row.
type Row struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Config is the ruleset for one sport's game series.
type Config struct {
	// MaxGames caps the number of games in the series.
	MaxGames int
	// GamesNeededOptions lists the valid win thresholds, e.g. {2} for a
	// best-of-three, {2, 3} when both best-of-three and best-of-five are
	// played.
	GamesNeededOptions []int
	// MaxPointsPerGame is the regulation point cap per game; 0 means no cap.
	MaxPointsPerGame int
	// AllowScoresBeyondMax permits overtime scores past the cap once both
	// sides have reached MaxPointsPerGame-1.
	AllowScoresBeyondMax bool
	// RequiredWinningMargin is the minimum point gap a game must be won by;
	// 0 disables the check.
	RequiredWinningMargin int
	// OvertimeCap is a hard ceiling on any score; 0 means no ceiling. A game
	// won exactly at the cap is decided by a single point, so
	// RequiredWinningMargin does not apply there.
	OvertimeCap int
	// InvalidSeriesMessage overrides the generic message raised when the
	// games do not add up to a decided series.
	InvalidSeriesMessage string
}

// Normalized is the validated outcome of a series.
type Normalized struct {
	// Sets holds the scored games in order as [pointsA, pointsB] pairs.
	Sets  [][2]int `json:"sets"`
	WinsA int      `json:"wins_a"`
	WinsB int      `json:"wins_b"`
	// TargetWins is the win threshold the series satisfied.
	TargetWins int `json:"target_wins"`
}

// ValidationError describes the first problem found in a series entry.
type ValidationError struct {
	Game int // 1-based, 0 when not tied to a single game
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Game > 0 {
		return fmt.Sprintf("game %d: %s", e.Game, e.Msg)
	}
	return e.Msg
}
