package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo represents a player in the store.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// PlayerStats represents a player's accumulated statistics for one sport.
type PlayerStats struct {
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Sport         string  `json:"sport"`
	MatchesPlayed int     `json:"matches_played"`
	MatchesWon    int     `json:"matches_won"`
	MatchesLost   int     `json:"matches_lost"`
	MatchesDrawn  int     `json:"matches_drawn"`
	SetsWon       int     `json:"sets_won"`
	SetsLost      int     `json:"sets_lost"`
	PointsWon     int     `json:"points_won"`
	PointsLost    int     `json:"points_lost"`
	WinPercentage float64 `json:"win_percentage"`
}
