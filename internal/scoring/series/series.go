// Package series validates raw per-game score entries for two sides against
// a sport ruleset and determines the series outcome: who won, with how many
// game wins, and which win threshold the series satisfied.
package series

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize validates the entered rows against cfg and returns the series
// outcome. It fails fast with a *ValidationError on the first problem found.
func Normalize(rows []Row, cfg Config) (*Normalized, error) {
	sets, err := parseRows(rows, cfg)
	if err != nil {
		return nil, err
	}

	if len(sets) == 0 {
		return nil, &ValidationError{Msg: "enter points for at least one game"}
	}
	if cfg.MaxGames > 0 && len(sets) > cfg.MaxGames {
		return nil, &ValidationError{Msg: fmt.Sprintf("too many games entered; at most %d are played", cfg.MaxGames)}
	}

	winsA, winsB := 0, 0
	for _, s := range sets {
		if s[0] > s[1] {
			winsA++
		} else {
			winsB++
		}
	}

	target, ok := matchThreshold(sets, cfg.GamesNeededOptions)
	if winsA == winsB || !ok {
		msg := cfg.InvalidSeriesMessage
		if msg == "" {
			msg = "the games entered do not form a decided series"
		}
		return nil, &ValidationError{Msg: msg}
	}

	return &Normalized{Sets: sets, WinsA: winsA, WinsB: winsB, TargetWins: target}, nil
}

// parseRows turns the raw rows into scored games, enforcing the per-game
// rules. Blank rows are allowed only after the last scored row.
func parseRows(rows []Row, cfg Config) ([][2]int, error) {
	var sets [][2]int
	seenBlank := false
	for i, row := range rows {
		a := strings.TrimSpace(row.A)
		b := strings.TrimSpace(row.B)
		game := i + 1

		if a == "" && b == "" {
			seenBlank = true
			continue
		}
		if seenBlank {
			return nil, &ValidationError{Game: game, Msg: "score entered after an empty game; enter games in order without gaps"}
		}
		if a == "" || b == "" {
			return nil, &ValidationError{Game: game, Msg: "points are required for both sides"}
		}

		av, err := parsePoints(a)
		if err != nil {
			return nil, &ValidationError{Game: game, Msg: err.Error()}
		}
		bv, err := parsePoints(b)
		if err != nil {
			return nil, &ValidationError{Game: game, Msg: err.Error()}
		}

		if verr := checkGame(av, bv, cfg); verr != nil {
			verr.Game = game
			return nil, verr
		}
		sets = append(sets, [2]int{av, bv})
	}
	return sets, nil
}

func parsePoints(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a valid point total", s)
	}
	return n, nil
}

// checkGame enforces the point-level rules for a single game.
func checkGame(a, b int, cfg Config) *ValidationError {
	win, lose := a, b
	if b > a {
		win, lose = b, a
	}

	if cfg.MaxPointsPerGame > 0 && win > cfg.MaxPointsPerGame {
		if !cfg.AllowScoresBeyondMax {
			return &ValidationError{Msg: fmt.Sprintf("points cannot exceed %d", cfg.MaxPointsPerGame)}
		}
		// Overtime only exists once both sides reached deuce.
		if lose < cfg.MaxPointsPerGame-1 {
			return &ValidationError{Msg: fmt.Sprintf("scores beyond %d are only valid once both sides reach %d", cfg.MaxPointsPerGame, cfg.MaxPointsPerGame-1)}
		}
	}
	if a == b {
		return &ValidationError{Msg: "a game cannot end in a tie"}
	}
	if cfg.RequiredWinningMargin > 0 && win-lose < cfg.RequiredWinningMargin {
		// At the overtime cap the next point decides the game regardless
		// of margin, e.g. badminton's golden point at 29-29.
		if !(cfg.OvertimeCap > 0 && win == cfg.OvertimeCap) {
			return &ValidationError{Msg: fmt.Sprintf("a game must be won by at least %d points", cfg.RequiredWinningMargin)}
		}
	}
	if cfg.OvertimeCap > 0 && win > cfg.OvertimeCap {
		return &ValidationError{Msg: fmt.Sprintf("points cannot exceed the overtime cap of %d", cfg.OvertimeCap)}
	}
	return nil
}

// matchThreshold finds the single win threshold the series satisfies: the
// winning side reaches it exactly at the final game, the losing side stays
// below it, and the series fits in 2T-1 games. Exactly one option may match.
func matchThreshold(sets [][2]int, options []int) (int, bool) {
	target := 0
	matches := 0
	for _, t := range options {
		if t > 0 && seriesEndsAt(sets, t) {
			target = t
			matches++
		}
	}
	return target, matches == 1
}

func seriesEndsAt(sets [][2]int, t int) bool {
	if len(sets) > 2*t-1 {
		return false
	}
	wa, wb := 0, 0
	for i, s := range sets {
		if s[0] > s[1] {
			wa++
		} else {
			wb++
		}
		if wa == t || wb == t {
			// The series must terminate the moment it is decided.
			return i == len(sets)-1
		}
	}
	return false
}
