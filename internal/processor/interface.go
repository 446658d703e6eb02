package processor

import (
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetMatchesForProcessing() ([]*match.Match, error)
	UpdateProcessingStatus(matchID string, status match.Status) error
	UpdateNotificationTimestamp(matchID string, ts int64) error
	UpdatePlayerStats(m *match.Match) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
