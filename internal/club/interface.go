package club

import (
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
)

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	AddPlayer(playerID, name string)
	UpsertPlayers(players []PlayerInfo) error
	GetAllPlayers() ([]PlayerInfo, error)
	GetPlayers(playerIDs []string) ([]PlayerInfo, error)
	GetPlayerByName(name string) (*PlayerInfo, error)
	IsKnownPlayer(playerID string) bool

	UpsertMatch(m *match.Match) error
	GetAllMatches() ([]*match.Match, error)
	GetMatch(matchID string) (*match.Match, error)
	GetMatchesForProcessing() ([]*match.Match, error)
	UpdateProcessingStatus(matchID string, status match.Status) error
	UpdateNotificationTimestamp(matchID string, ts int64) error

	UpdatePlayerStats(m *match.Match) error
	GetLeaderboard(sp sport.Sport) ([]PlayerStats, error)
	GetPlayerStatsByName(name string, sp sport.Sport) (*PlayerStats, error)

	Clear()
	ClearMatch(matchID string)
}
