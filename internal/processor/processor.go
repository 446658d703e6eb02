package processor

import (
	"time"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/pubsub"
	"github.com/charmbracelet/log"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// ProcessMatches fetches matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(dryRun bool) {
	log.Info("Starting match processing...")
	matches, err := p.store.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	for _, m := range matches {
		startTime := time.Now()
		p.processMatch(m, dryRun)
		duration := time.Since(startTime).Milliseconds()
		p.metrics.ObserveProcessingDuration(float64(duration))
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(m *match.Match, dryRun bool) {
	log.Info("Processing match", "matchID", m.ID, "initial_status", m.ProcessingStatus, "sport", m.Sport)
	for {
		currentState := m.ProcessingStatus
		log.Debug("Evaluating match state", "matchID", m.ID, "status", currentState)

		switch currentState {
		case match.StatusNew:
			timePlayed := time.Unix(m.PlayedAt, 0)
			timeSincePlayed := time.Since(timePlayed)
			// Matches entered more than a day after they were played are
			// backfill; updating stats without pinging the channel keeps
			// historic imports quiet.
			if timeSincePlayed < 24*time.Hour {
				log.Info("Match is new. Sending result notification.", "matchID", m.ID)
				if err := p.notifier.SendResultNotification(m, dryRun); err != nil {
					log.Error("Failed to send result notification", "error", err, "matchID", m.ID)
					return
				}
				if !dryRun {
					if err := p.store.UpdateNotificationTimestamp(m.ID, time.Now().Unix()); err != nil {
						log.Error("Failed to record notification timestamp", "error", err, "matchID", m.ID)
					}
				}
			} else {
				log.Info("Match was played more than a day ago. Skipping result notification.", "matchID", m.ID)
			}
			p.updateStatus(m, match.StatusResultNotified, dryRun)

		case match.StatusResultNotified:
			log.Info("Match result has been notified. Updating player stats.", "matchID", m.ID)
			if !dryRun {
				if err := p.pubsub.SendMessage(pubsub.EventUpdatePlayerStats, m); err != nil {
					log.Warn("Failed to publish stats update event", "error", err, "matchID", m.ID)
				}
				if err := p.store.UpdatePlayerStats(m); err != nil {
					log.Error("Failed to update player stats", "error", err, "matchID", m.ID)
					return
				}
			}
			p.updateStatus(m, match.StatusStatsUpdated, dryRun)

		case match.StatusStatsUpdated:
			log.Info("Player stats updated. Marking match as complete.", "matchID", m.ID)
			p.updateStatus(m, match.StatusCompleted, dryRun)
			p.metrics.IncMatchesProcessed()

		case match.StatusCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", m.ID)
			return // End of the line for this match

		default:
			log.Warn("Unknown processing status", "status", currentState, "matchID", m.ID)
			return // Exit if status is unknown
		}

		// If the status hasn't changed, we're done with this match for now.
		if m.ProcessingStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", m.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", m.ID, "final_status", m.ProcessingStatus)
}

// UpdatePlayerStats applies a match's result to the player stats table. It is
// the handler side of the update-player-stats event.
func (p *Processor) UpdatePlayerStats(m *match.Match) {
	log.Debug("Updating player stats", "matchID", m.ID)
	if err := p.store.UpdatePlayerStats(m); err != nil {
		log.Error("Failed to update player stats", "error", err, "matchID", m.ID)
	}
}

func (p *Processor) updateStatus(m *match.Match, newStatus match.Status, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", m.ID, "from", m.ProcessingStatus, "to", newStatus)
		m.ProcessingStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.store.UpdateProcessingStatus(m.ID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", m.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", m.ID, "from", m.ProcessingStatus, "to", newStatus)
		m.ProcessingStatus = newStatus // Keep the in-memory object in sync
	}
}
