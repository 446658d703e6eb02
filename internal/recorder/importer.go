package recorder

import (
	"fmt"
	"strconv"
	"time"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/playtomic"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	"github.com/charmbracelet/log"
)

// Importer pulls finished padel matches from Playtomic and records them
// through the normal submission path. The Playtomic match ID doubles as the
// match ID, so re-running an import upserts instead of duplicating.
type Importer struct {
	client   playtomic.PlaytomicClient
	recorder *Recorder
	metrics  metrics.Metrics
	tenantID string
}

// NewImporter creates a new Importer for one tenant (club).
func NewImporter(client playtomic.PlaytomicClient, r *Recorder, m metrics.Metrics, tenantID string) *Importer {
	return &Importer{
		client:   client,
		recorder: r,
		metrics:  m,
		tenantID: tenantID,
	}
}

// Import fetches recent matches and records every finished competitive padel
// match with confirmed results. It returns the number of matches recorded;
// matches that cannot be mapped are skipped with a warning rather than
// failing the whole run.
func (i *Importer) Import() (int, error) {
	i.metrics.IncImportRuns()

	params := &playtomic.SearchMatchesParams{
		SportID:       "PADEL",
		HasPlayers:    true,
		Sort:          "start_date,DESC",
		TenantIDs:     []string{i.tenantID},
		FromStartDate: time.Now().AddDate(0, 0, -7).Format("2006-01-02T15:04:05"),
	}
	summaries, err := i.client.GetMatches(params)
	if err != nil {
		return 0, fmt.Errorf("failed to search playtomic matches: %w", err)
	}

	recorded := 0
	for _, summary := range summaries {
		m, err := i.client.GetSpecificMatch(summary.MatchID)
		if err != nil {
			log.Warn("Failed to fetch playtomic match", "matchID", summary.MatchID, "error", err)
			continue
		}
		sub, ok := submissionFromPadelMatch(&m)
		if !ok {
			continue
		}
		if _, err := i.recorder.Record(*sub); err != nil {
			log.Warn("Failed to record imported match", "matchID", summary.MatchID, "error", err)
			continue
		}
		recorded++
	}
	log.Info("Playtomic import finished", "fetched", len(summaries), "recorded", recorded)
	return recorded, nil
}

// submissionFromPadelMatch maps a Playtomic match onto a padel submission.
// Only played competitive matches with confirmed results for exactly two
// teams are importable.
func submissionFromPadelMatch(m *playtomic.PadelMatch) (*Submission, bool) {
	if m.GameStatus != playtomic.GameStatusPlayed ||
		m.ResultsStatus != playtomic.ResultsStatusConfirmed ||
		m.MatchType != playtomic.MatchTypeCompetitive {
		return nil, false
	}
	if len(m.Teams) != 2 || len(m.Results) == 0 {
		return nil, false
	}

	teamA, teamB := m.Teams[0], m.Teams[1]
	names := func(t playtomic.Team) []string {
		var out []string
		for _, p := range t.Players {
			if p.Name != "" {
				out = append(out, p.Name)
			}
		}
		return out
	}
	sideA, sideB := names(teamA), names(teamB)
	if len(sideA) == 0 || len(sideB) == 0 {
		return nil, false
	}

	var games []series.Row
	for _, set := range m.Results {
		scoreA, okA := set.Scores[teamA.ID]
		scoreB, okB := set.Scores[teamB.ID]
		if !okA || !okB {
			return nil, false
		}
		games = append(games, series.Row{
			A: strconv.Itoa(scoreA),
			B: strconv.Itoa(scoreB),
		})
	}

	return &Submission{
		ID:       m.MatchID,
		Sport:    string(sport.Padel),
		PlayedAt: m.Start,
		SideA:    sideA,
		SideB:    sideB,
		Games:    games,
	}, true
}
