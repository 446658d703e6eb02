// Package recorder turns raw score submissions into persisted matches. It is
// the single write path for match entry: scores are validated by the scoring
// engines, players are resolved or created, and nothing is stored when
// validation fails.
package recorder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/club"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/pubsub"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/bowling"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/strokeplay"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Recorder validates and persists raw match submissions.
type Recorder struct {
	store   club.ClubStore
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
}

// MatchRecordedEvent is the payload published when a match is recorded.
type MatchRecordedEvent struct {
	MatchID string `msgpack:"match_id"`
	Sport   string `msgpack:"sport"`
}

// New creates a new Recorder.
func New(store club.ClubStore, ps pubsub.PubSubClient, m metrics.Metrics) *Recorder {
	return &Recorder{
		store:   store,
		pubsub:  ps,
		metrics: m,
	}
}

// Record validates the submission, resolves its players and persists the
// match in the NEW state. The returned error carries the engine's message
// verbatim so it can be shown to the person entering scores.
func (r *Recorder) Record(sub Submission) (*match.Match, error) {
	sp, ok := sport.Parse(sub.Sport)
	if !ok {
		return nil, fmt.Errorf("unknown sport: %q", sub.Sport)
	}

	var (
		participants []match.Participant
		payload      match.ResultPayload
		err          error
	)
	switch {
	case sport.UsesSeries(sp):
		participants, payload, err = r.buildSeries(sp, sub)
	case sp == sport.Bowling:
		participants, payload, err = r.buildBowling(sub)
	case sp == sport.DiscGolf:
		participants, payload, err = r.buildStrokePlay(sub)
	default:
		return nil, fmt.Errorf("sport %s has no scoring rules", sp)
	}
	if err != nil {
		var storageErr *StorageError
		if !errors.As(err, &storageErr) {
			r.metrics.IncValidationFailures(string(sp))
		}
		return nil, err
	}

	now := time.Now().Unix()
	playedAt := sub.PlayedAt
	if playedAt == 0 {
		playedAt = now
	}

	id := sub.ID
	if id == "" {
		id = uuid.NewString()
	}

	m := &match.Match{
		ID:               id,
		Sport:            sp,
		PlayedAt:         playedAt,
		CreatedAt:        now,
		Participants:     participants,
		Result:           payload,
		ProcessingStatus: match.StatusNew,
	}
	if err := r.store.UpsertMatch(m); err != nil {
		return nil, &StorageError{Err: fmt.Errorf("failed to store match: %w", err)}
	}
	r.metrics.IncMatchesRecorded(string(sp))

	if err := r.pubsub.SendMessage(pubsub.EventMatchRecorded, MatchRecordedEvent{MatchID: m.ID, Sport: string(sp)}); err != nil {
		// The match is persisted; the processor will still pick it up.
		log.Warn("Failed to publish match recorded event", "matchID", m.ID, "error", err)
	}

	log.Info("Recorded match", "matchID", m.ID, "sport", sp)
	return m, nil
}

// checkNames rejects blank and repeated player names before any player is
// looked up or created. Names are folded because the store lookup is
// case-insensitive: "Alice" and "alice" are the same player.
func checkNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("every entry needs a player name")
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("%s appears more than once", name)
		}
		seen[key] = true
	}
	return nil
}

// resolvePlayer finds an existing player by name or creates one.
func (r *Recorder) resolvePlayer(name string) (club.PlayerInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return club.PlayerInfo{}, fmt.Errorf("every entry needs a player name")
	}
	existing, err := r.store.GetPlayerByName(name)
	if err != nil {
		return club.PlayerInfo{}, &StorageError{Err: fmt.Errorf("failed to look up player %q: %w", name, err)}
	}
	if existing != nil {
		return *existing, nil
	}
	p := club.PlayerInfo{ID: uuid.NewString(), Name: name}
	r.store.AddPlayer(p.ID, p.Name)
	return p, nil
}

func (r *Recorder) resolveSide(names []string, side int) ([]match.Participant, error) {
	var out []match.Participant
	for _, name := range names {
		p, err := r.resolvePlayer(name)
		if err != nil {
			return nil, err
		}
		out = append(out, match.Participant{PlayerID: p.ID, Name: p.Name, Side: side})
	}
	return out, nil
}

func (r *Recorder) buildSeries(sp sport.Sport, sub Submission) ([]match.Participant, match.ResultPayload, error) {
	if len(sub.SideA) == 0 || len(sub.SideB) == 0 {
		return nil, match.ResultPayload{}, fmt.Errorf("both sides need at least one player")
	}

	cfg, _ := sport.Ruleset(sp)
	normalized, err := series.Normalize(sub.Games, cfg)
	if err != nil {
		return nil, match.ResultPayload{}, err
	}
	if err := checkNames(append(append([]string{}, sub.SideA...), sub.SideB...)); err != nil {
		return nil, match.ResultPayload{}, err
	}

	sideA, err := r.resolveSide(sub.SideA, 1)
	if err != nil {
		return nil, match.ResultPayload{}, err
	}
	sideB, err := r.resolveSide(sub.SideB, 2)
	if err != nil {
		return nil, match.ResultPayload{}, err
	}

	return append(sideA, sideB...), match.ResultPayload{Series: normalized}, nil
}

func (r *Recorder) buildBowling(sub Submission) ([]match.Participant, match.ResultPayload, error) {
	if len(sub.Sheets) == 0 {
		return nil, match.ResultPayload{}, fmt.Errorf("enter a scorecard for at least one player")
	}

	names := make([]string, len(sub.Sheets))
	for i, sheet := range sub.Sheets {
		names[i] = sheet.Player
	}
	if err := checkNames(names); err != nil {
		return nil, match.ResultPayload{}, err
	}

	// Every card is validated before any player is created so a rejected
	// submission leaves nothing behind.
	results := make([]*bowling.Result, len(sub.Sheets))
	for i, sheet := range sub.Sheets {
		result, err := bowling.Summarize(sheet.Frames, bowling.Options{PlayerLabel: strings.TrimSpace(sheet.Player)})
		if err != nil {
			return nil, match.ResultPayload{}, err
		}
		results[i] = result
	}

	var (
		participants []match.Participant
		cards        []match.Scorecard
	)
	for i, sheet := range sub.Sheets {
		p, err := r.resolvePlayer(sheet.Player)
		if err != nil {
			return nil, match.ResultPayload{}, err
		}
		participants = append(participants, match.Participant{PlayerID: p.ID, Name: p.Name})
		cards = append(cards, match.Scorecard{PlayerID: p.ID, Name: p.Name, Result: *results[i]})
	}

	return participants, match.ResultPayload{Scorecards: cards}, nil
}

func (r *Recorder) buildStrokePlay(sub Submission) ([]match.Participant, match.ResultPayload, error) {
	names := make([]string, len(sub.Rounds))
	for i, e := range sub.Rounds {
		names[i] = e.Player
	}
	if err := checkNames(names); err != nil {
		return nil, match.ResultPayload{}, err
	}

	result, err := strokeplay.Normalize(sub.Rounds)
	if err != nil {
		return nil, match.ResultPayload{}, err
	}

	var participants []match.Participant
	for _, total := range result.Totals {
		p, err := r.resolvePlayer(total.Player)
		if err != nil {
			return nil, match.ResultPayload{}, err
		}
		participants = append(participants, match.Participant{PlayerID: p.ID, Name: p.Name})
	}

	return participants, match.ResultPayload{StrokePlay: result}, nil
}
