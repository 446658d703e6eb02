package notifier

import (
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/club"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches
	SendResultNotification(m *match.Match, dryRun bool) error
	// For slash commands
	SendLeaderboard(s sport.Sport, stats []club.PlayerStats, dryRun bool) error
	SendPlayerStats(stats *club.PlayerStats, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(s sport.Sport, stats []club.PlayerStats) (any, error)
	FormatPlayerStatsResponse(stats *club.PlayerStats, query string) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
