package club

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// AddPlayer inserts a player if they are not already known.
func (s *store) AddPlayer(playerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO players (id, name, created_at) VALUES (?, ?, ?)",
		playerID, name, time.Now().Unix(),
	)
	if err != nil {
		log.Error("Failed to add player", "error", err, "playerID", playerID)
	}
}

// UpsertPlayers inserts or updates a batch of players in one transaction.
func (s *store) UpsertPlayers(players []PlayerInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, p := range players {
		createdAt := p.CreatedAt
		if createdAt == 0 {
			createdAt = now
		}
		if _, err := stmt.Exec(p.ID, p.Name, createdAt); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at FROM players ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []PlayerInfo{}
	for rows.Next() {
		var p PlayerInfo
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return []PlayerInfo{}, nil
	}

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	rows, err := s.db.Query(
		fmt.Sprintf("SELECT id, name, created_at FROM players WHERE id IN (%s)", placeholders),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []PlayerInfo{}
	for rows.Next() {
		var p PlayerInfo
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetPlayerByName finds a player by name, case-insensitively. Returns nil
// without error when no player matches.
func (s *store) GetPlayerByName(name string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p PlayerInfo
	err := s.db.QueryRow(
		"SELECT id, name, created_at FROM players WHERE LOWER(name) = LOWER(?)",
		name,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow("SELECT 1 FROM players WHERE id = ?", playerID).Scan(&one)
	return err == nil
}

// UpsertMatch inserts a new match or updates an existing one. It is "dumb"
// and does not change the processing status of an existing match.
func (s *store) UpsertMatch(m *match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	participantsJSON, err := json.Marshal(m.Participants)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(m.Result)
	if err != nil {
		return err
	}

	// ON CONFLICT updates all fields EXCEPT processing_status.
	_, err = s.db.Exec(`
		INSERT INTO matches (id, sport, played_at, created_at, processing_status, participants_json, result_json, result_notified_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sport = excluded.sport,
			played_at = excluded.played_at,
			created_at = excluded.created_at,
			participants_json = excluded.participants_json,
			result_json = excluded.result_json;
	`, m.ID, m.Sport, m.PlayedAt, m.CreatedAt, match.StatusNew, participantsJSON, resultJSON, m.ResultNotifiedTs)
	return err
}

func (s *store) GetAllMatches() ([]*match.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(`
		SELECT id, sport, played_at, created_at, processing_status, participants_json, result_json, result_notified_ts
		FROM matches
		ORDER BY played_at DESC
	`)
}

func (s *store) GetMatch(matchID string) (*match.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, sport, played_at, created_at, processing_status, participants_json, result_json, result_notified_ts
		FROM matches
		WHERE id = ?
	`, matchID)

	m, err := s.scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetMatchesForProcessing retrieves all matches that are not yet completed.
func (s *store) GetMatchesForProcessing() ([]*match.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(`
		SELECT id, sport, played_at, created_at, processing_status, participants_json, result_json, result_notified_ts
		FROM matches
		WHERE processing_status != ?
	`, match.StatusCompleted)
}

func (s *store) queryMatches(query string, args ...any) ([]*match.Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*match.Match
	for rows.Next() {
		m, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// scanMatch is a helper function to scan a single match row.
func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*match.Match, error) {
	var m match.Match
	var sportStr string
	var participantsJSON, resultJSON sql.NullString
	var notifiedTs sql.NullInt64

	err := scanner.Scan(
		&m.ID, &sportStr, &m.PlayedAt, &m.CreatedAt, &m.ProcessingStatus,
		&participantsJSON, &resultJSON, &notifiedTs,
	)
	if err != nil {
		return nil, err
	}

	m.Sport = sport.Sport(sportStr)
	if notifiedTs.Valid {
		m.ResultNotifiedTs = &notifiedTs.Int64
	}

	if participantsJSON.Valid && participantsJSON.String != "" {
		if err := json.Unmarshal([]byte(participantsJSON.String), &m.Participants); err != nil {
			log.Error("Failed to unmarshal participants_json", "error", err, "matchID", m.ID)
		}
	}
	if resultJSON.Valid && resultJSON.String != "" {
		if err := json.Unmarshal([]byte(resultJSON.String), &m.Result); err != nil {
			log.Error("Failed to unmarshal result_json", "error", err, "matchID", m.ID)
		}
	}

	return &m, nil
}

// UpdateProcessingStatus transitions a match to a new state.
func (s *store) UpdateProcessingStatus(matchID string, status match.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", status, matchID)
	return err
}

// UpdateNotificationTimestamp records when the result notification went out.
func (s *store) UpdateNotificationTimestamp(matchID string, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET result_notified_ts = ? WHERE id = ?", ts, matchID)
	return err
}

// UpdatePlayerStats folds a match's normalized result into the per-sport
// stats of every participant.
func (s *store) UpdatePlayerStats(m *match.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deltas := statDeltas(m)
	if len(deltas) == 0 {
		log.Warn("Match produced no stat deltas", "matchID", m.ID, "sport", m.Sport)
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO player_stats (player_id, sport, matches_played, matches_won, matches_lost, matches_drawn, sets_won, sets_lost, points_won, points_lost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id, sport) DO UPDATE SET
			matches_played = matches_played + excluded.matches_played,
			matches_won = matches_won + excluded.matches_won,
			matches_lost = matches_lost + excluded.matches_lost,
			matches_drawn = matches_drawn + excluded.matches_drawn,
			sets_won = sets_won + excluded.sets_won,
			sets_lost = sets_lost + excluded.sets_lost,
			points_won = points_won + excluded.points_won,
			points_lost = points_lost + excluded.points_lost;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for playerID, d := range deltas {
		_, err := stmt.Exec(playerID, m.Sport, d.played, d.won, d.lost, d.drawn, d.setsWon, d.setsLost, d.pointsWon, d.pointsLost)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *store) GetLeaderboard(sp sport.Sport) ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT ps.player_id, p.name, ps.sport, ps.matches_played, ps.matches_won, ps.matches_lost, ps.matches_drawn,
		       ps.sets_won, ps.sets_lost, ps.points_won, ps.points_lost
		FROM player_stats ps
		JOIN players p ON p.id = ps.player_id
		WHERE ps.sport = ?
		ORDER BY ps.matches_won DESC, ps.matches_played ASC, p.name
	`, sp)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []PlayerStats{}
	for rows.Next() {
		st, err := scanPlayerStats(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// GetPlayerStatsByName finds one player's stats for a sport by player name,
// case-insensitively. Returns nil without error when no row matches.
func (s *store) GetPlayerStatsByName(name string, sp sport.Sport) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT ps.player_id, p.name, ps.sport, ps.matches_played, ps.matches_won, ps.matches_lost, ps.matches_drawn,
		       ps.sets_won, ps.sets_lost, ps.points_won, ps.points_lost
		FROM player_stats ps
		JOIN players p ON p.id = ps.player_id
		WHERE ps.sport = ? AND LOWER(p.name) = LOWER(?)
	`, sp, name)

	st, err := scanPlayerStats(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func scanPlayerStats(scanner interface{ Scan(...any) error }) (PlayerStats, error) {
	var st PlayerStats
	err := scanner.Scan(
		&st.PlayerID, &st.PlayerName, &st.Sport, &st.MatchesPlayed, &st.MatchesWon, &st.MatchesLost, &st.MatchesDrawn,
		&st.SetsWon, &st.SetsLost, &st.PointsWon, &st.PointsLost,
	)
	if err != nil {
		return PlayerStats{}, err
	}
	if st.MatchesPlayed > 0 {
		st.WinPercentage = float64(st.MatchesWon) / float64(st.MatchesPlayed) * 100
	}
	return st, nil
}

// Clear wipes every table. Used by the admin clear endpoint and tests.
func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"player_stats", "matches", "players"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
		}
	}
}

func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
	}
}
