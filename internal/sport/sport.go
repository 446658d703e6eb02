// Package sport is the registry of sports the club tracks, with the series
// ruleset each racket sport plays under.
package sport

import "github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"

// Sport identifies one of the tracked sports.
type Sport string

const (
	Padel       Sport = "padel"
	Bowling     Sport = "bowling"
	Pickleball  Sport = "pickleball"
	TableTennis Sport = "table_tennis"
	DiscGolf    Sport = "disc_golf"
	Badminton   Sport = "badminton"
)

// All lists every tracked sport.
var All = []Sport{Padel, Bowling, Pickleball, TableTennis, DiscGolf, Badminton}

// Parse maps a raw string onto a known sport.
func Parse(s string) (Sport, bool) {
	for _, sp := range All {
		if string(sp) == s {
			return sp, true
		}
	}
	return "", false
}

// rulesets holds the series configuration per racket/paddle sport. Bowling
// and disc golf score differently and have no entry here.
var rulesets = map[Sport]series.Config{
	// Padel sets run to 6 games, 7 via a tie-break; best of three or five.
	Padel: {
		MaxGames:             5,
		GamesNeededOptions:   []int{2, 3},
		MaxPointsPerGame:     7,
		InvalidSeriesMessage: "a padel match ends the moment a side wins 2 of 3 (or 3 of 5) sets",
	},
	// Rally scoring to 11, win by two, best of three.
	Pickleball: {
		MaxGames:              3,
		GamesNeededOptions:    []int{2},
		MaxPointsPerGame:      11,
		AllowScoresBeyondMax:  true,
		RequiredWinningMargin: 2,
		InvalidSeriesMessage:  "a pickleball match ends the moment a side wins 2 of 3 games",
	},
	// Games to 11, win by two; best of five or best of seven are both played.
	TableTennis: {
		MaxGames:              7,
		GamesNeededOptions:    []int{3, 4},
		MaxPointsPerGame:      11,
		AllowScoresBeyondMax:  true,
		RequiredWinningMargin: 2,
		InvalidSeriesMessage:  "a table tennis match ends the moment a side wins 3 of 5 (or 4 of 7) games",
	},
	// Games to 21, win by two, hard stop at 30.
	Badminton: {
		MaxGames:              3,
		GamesNeededOptions:    []int{2},
		MaxPointsPerGame:      21,
		AllowScoresBeyondMax:  true,
		RequiredWinningMargin: 2,
		OvertimeCap:           30,
		InvalidSeriesMessage:  "a badminton match ends the moment a side wins 2 of 3 games",
	},
}

// Ruleset returns the series configuration for a racket sport.
func Ruleset(sp Sport) (series.Config, bool) {
	cfg, ok := rulesets[sp]
	return cfg, ok
}

// UsesSeries reports whether the sport is scored as a game series.
func UsesSeries(sp Sport) bool {
	_, ok := rulesets[sp]
	return ok
}
