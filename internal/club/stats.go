package club

import (
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
)

type statDelta struct {
	played, won, lost, drawn int
	setsWon, setsLost        int
	pointsWon, pointsLost    int
}

// statDeltas translates a match result into per-player stat increments.
// Racket sports credit set and point splits to each side; bowling and disc
// golf credit each player's own total, with shared top scores counting as
// draws.
func statDeltas(m *match.Match) map[string]statDelta {
	switch {
	case m.Result.Series != nil:
		return seriesDeltas(m)
	case len(m.Result.Scorecards) > 0:
		return bowlingDeltas(m)
	case m.Result.StrokePlay != nil:
		return strokePlayDeltas(m)
	default:
		return nil
	}
}

func seriesDeltas(m *match.Match) map[string]statDelta {
	n := m.Result.Series
	pointsA, pointsB := 0, 0
	for _, s := range n.Sets {
		pointsA += s[0]
		pointsB += s[1]
	}

	winner := m.WinnerSide()
	deltas := make(map[string]statDelta)
	for _, p := range m.Participants {
		d := statDelta{played: 1}
		if p.Side == 1 {
			d.setsWon, d.setsLost = n.WinsA, n.WinsB
			d.pointsWon, d.pointsLost = pointsA, pointsB
		} else {
			d.setsWon, d.setsLost = n.WinsB, n.WinsA
			d.pointsWon, d.pointsLost = pointsB, pointsA
		}
		if p.Side == winner {
			d.won = 1
		} else {
			d.lost = 1
		}
		deltas[p.PlayerID] = d
	}
	return deltas
}

func bowlingDeltas(m *match.Match) map[string]statDelta {
	cards := m.Result.Scorecards
	best := cards[0].Total
	for _, c := range cards[1:] {
		if c.Total > best {
			best = c.Total
		}
	}
	topCount := 0
	for _, c := range cards {
		if c.Total == best {
			topCount++
		}
	}

	deltas := make(map[string]statDelta)
	for _, c := range cards {
		d := statDelta{played: 1, pointsWon: c.Total}
		switch {
		case c.Total == best && topCount == 1:
			d.won = 1
		case c.Total == best:
			d.drawn = 1
		default:
			d.lost = 1
		}
		deltas[c.PlayerID] = d
	}
	return deltas
}

func strokePlayDeltas(m *match.Match) map[string]statDelta {
	res := m.Result.StrokePlay
	winners := make(map[string]bool, len(res.Winners))
	for _, w := range res.Winners {
		winners[w] = true
	}

	// Stroke totals key off names; map them back to player IDs through the
	// participant list.
	idByName := make(map[string]string, len(m.Participants))
	for _, p := range m.Participants {
		idByName[p.Name] = p.PlayerID
	}

	deltas := make(map[string]statDelta)
	for _, t := range res.Totals {
		id, ok := idByName[t.Player]
		if !ok {
			continue
		}
		d := statDelta{played: 1, pointsWon: t.Strokes}
		switch {
		case winners[t.Player] && len(res.Winners) == 1:
			d.won = 1
		case winners[t.Player]:
			d.drawn = 1
		default:
			d.lost = 1
		}
		deltas[id] = d
	}
	return deltas
}
