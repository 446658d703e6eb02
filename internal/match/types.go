package match

import (
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/bowling"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/strokeplay"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
)

// Status is the internal processing state of a recorded match.
type Status string

const (
	StatusNew            Status = "NEW"
	StatusResultNotified Status = "RESULT_NOTIFIED"
	StatusStatsUpdated   Status = "STATS_UPDATED"
	StatusCompleted      Status = "COMPLETED"
)

// Participant is one player on one side of a match. Side is 1 or 2 for
// two-sided sports; bowling and disc golf use side 0 for everyone.
type Participant struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Side     int    `json:"side"`
}

// Scorecard is one bowling player's validated card.
type Scorecard struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	bowling.Result
}

// ResultPayload holds the normalized outcome for whichever scoring family
// the sport uses. Exactly one field is set.
type ResultPayload struct {
	Series     *series.Normalized `json:"series,omitempty"`
	Scorecards []Scorecard        `json:"scorecards,omitempty"`
	StrokePlay *strokeplay.Result `json:"stroke_play,omitempty"`
}

// Match is one recorded match of any sport.
type Match struct {
	ID               string        `json:"id"`
	Sport            sport.Sport   `json:"sport"`
	PlayedAt         int64         `json:"played_at"`
	CreatedAt        int64         `json:"created_at"`
	Participants     []Participant `json:"participants"`
	Result           ResultPayload `json:"result"`
	ProcessingStatus Status        `json:"processing_status"`
	ResultNotifiedTs *int64        `json:"result_notified_ts,omitempty"`
}

// Side returns the participants on the given side, in entry order.
func (m *Match) Side(side int) []Participant {
	var out []Participant
	for _, p := range m.Participants {
		if p.Side == side {
			out = append(out, p)
		}
	}
	return out
}

// WinnerSide reports which side won a two-sided match: 1, 2, or 0 when the
// match has no single winning side (bowling ties, shared disc golf wins, or
// non-sided sports).
func (m *Match) WinnerSide() int {
	if m.Result.Series == nil {
		return 0
	}
	if m.Result.Series.WinsA > m.Result.Series.WinsB {
		return 1
	}
	return 2
}

// WinnerNames lists the winning players regardless of scoring family.
func (m *Match) WinnerNames() []string {
	switch {
	case m.Result.Series != nil:
		var names []string
		for _, p := range m.Side(m.WinnerSide()) {
			names = append(names, p.Name)
		}
		return names
	case m.Result.StrokePlay != nil:
		return m.Result.StrokePlay.Winners
	case len(m.Result.Scorecards) > 0:
		best := m.Result.Scorecards[0].Total
		for _, c := range m.Result.Scorecards[1:] {
			if c.Total > best {
				best = c.Total
			}
		}
		var names []string
		for _, c := range m.Result.Scorecards {
			if c.Total == best {
				names = append(names, c.Name)
			}
		}
		return names
	default:
		return nil
	}
}
