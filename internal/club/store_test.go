package club_test

import (
	"database/sql"
	"testing"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/club"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/database"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/bowling"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/series"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := club.New(db)
	return store, db, dbTeardown
}

func seriesMatch(id string, winsA, winsB int) *match.Match {
	sets := [][2]int{}
	for i := 0; i < winsA; i++ {
		sets = append(sets, [2]int{11, 5})
	}
	for i := 0; i < winsB; i++ {
		sets = append(sets, [2]int{3, 11})
	}
	target := winsA
	if winsB > winsA {
		target = winsB
	}
	return &match.Match{
		ID:    id,
		Sport: sport.Pickleball,
		Participants: []match.Participant{
			{PlayerID: "p1", Name: "Alice", Side: 1},
			{PlayerID: "p2", Name: "Bob", Side: 2},
		},
		Result: match.ResultPayload{
			Series: &series.Normalized{Sets: sets, WinsA: winsA, WinsB: winsB, TargetWins: target},
		},
		ProcessingStatus: match.StatusNew,
	}
}

func TestAddAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("player1", "Player One")
	store.AddPlayer("player2", "Player Two")

	assert.True(t, store.IsKnownPlayer("player1"))
	assert.False(t, store.IsKnownPlayer("player3"))

	allPlayers, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, allPlayers, 2)
}

func TestGetPlayerByName(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "Alice")

	p, err := store.GetPlayerByName("alice")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p1", p.ID)

	p, err = store.GetPlayerByName("nobody")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "Player One")
	store.AddPlayer("p2", "Player Two")
	store.AddPlayer("p3", "Player Three")

	t.Run("gets multiple players", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"p1", "p3"})
		require.NoError(t, err)
		require.Len(t, players, 2)
	})

	t.Run("returns empty slice for no matches", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"p4"})
		require.NoError(t, err)
		assert.Len(t, players, 0)
	})

	t.Run("returns empty slice for empty id slice", func(t *testing.T) {
		players, err := store.GetPlayers([]string{})
		require.NoError(t, err)
		assert.Len(t, players, 0)
	})
}

func TestUpsertMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	m := seriesMatch("match1", 2, 0)
	require.NoError(t, store.UpsertMatch(m))

	matches, err := store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "match1", matches[0].ID)
	assert.Equal(t, match.StatusNew, matches[0].ProcessingStatus)
	require.NotNil(t, matches[0].Result.Series)
	assert.Equal(t, 2, matches[0].Result.Series.WinsA)

	// Re-upserting must not reset the processing status.
	require.NoError(t, store.UpdateProcessingStatus("match1", match.StatusStatsUpdated))
	require.NoError(t, store.UpsertMatch(m))

	got, err := store.GetMatch("match1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, match.StatusStatsUpdated, got.ProcessingStatus)
}

func TestGetMatchMissing(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	got, err := store.GetMatch("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetMatchesForProcessingSkipsCompleted(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertMatch(seriesMatch("m1", 2, 0)))
	require.NoError(t, store.UpsertMatch(seriesMatch("m2", 2, 1)))
	require.NoError(t, store.UpdateProcessingStatus("m1", match.StatusCompleted))

	matches, err := store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m2", matches[0].ID)
}

func TestUpdatePlayerStatsSeries(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "Alice")
	store.AddPlayer("p2", "Bob")

	m := seriesMatch("m1", 2, 1)
	require.NoError(t, store.UpdatePlayerStats(m))

	stats, err := store.GetPlayerStatsByName("Alice", sport.Pickleball)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.MatchesWon)
	assert.Equal(t, 2, stats.SetsWon)
	assert.Equal(t, 1, stats.SetsLost)
	assert.Equal(t, float64(100), stats.WinPercentage)

	stats, err = store.GetPlayerStatsByName("Bob", sport.Pickleball)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.MatchesLost)
	assert.Equal(t, 1, stats.SetsWon)

	// A second match accumulates.
	require.NoError(t, store.UpdatePlayerStats(seriesMatch("m2", 0, 2)))
	stats, err = store.GetPlayerStatsByName("Alice", sport.Pickleball)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.MatchesWon)
	assert.Equal(t, 1, stats.MatchesLost)
	assert.Equal(t, float64(50), stats.WinPercentage)
}

func TestUpdatePlayerStatsBowling(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "Alice")
	store.AddPlayer("p2", "Bob")

	m := &match.Match{
		ID:    "b1",
		Sport: sport.Bowling,
		Participants: []match.Participant{
			{PlayerID: "p1", Name: "Alice"},
			{PlayerID: "p2", Name: "Bob"},
		},
		Result: match.ResultPayload{
			Scorecards: []match.Scorecard{
				{PlayerID: "p1", Name: "Alice", Result: bowling.Result{Total: 182}},
				{PlayerID: "p2", Name: "Bob", Result: bowling.Result{Total: 147}},
			},
		},
	}
	require.NoError(t, store.UpdatePlayerStats(m))

	stats, err := store.GetPlayerStatsByName("Alice", sport.Bowling)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.MatchesWon)
	assert.Equal(t, 182, stats.PointsWon)

	stats, err = store.GetPlayerStatsByName("Bob", sport.Bowling)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.MatchesLost)
}

func TestGetLeaderboardOrdering(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "Alice")
	store.AddPlayer("p2", "Bob")

	require.NoError(t, store.UpdatePlayerStats(seriesMatch("m1", 2, 0)))
	require.NoError(t, store.UpdatePlayerStats(seriesMatch("m2", 2, 1)))

	board, err := store.GetLeaderboard(sport.Pickleball)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Alice", board[0].PlayerName)
	assert.Equal(t, 2, board[0].MatchesWon)

	board, err = store.GetLeaderboard(sport.Padel)
	require.NoError(t, err)
	assert.Len(t, board, 0)
}

func TestClear(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "Alice")
	require.NoError(t, store.UpsertMatch(seriesMatch("m1", 2, 0)))

	store.ClearMatch("m1")
	matches, err := store.GetAllMatches()
	require.NoError(t, err)
	assert.Len(t, matches, 0)

	store.Clear()
	assert.False(t, store.IsKnownPlayer("p1"))
}
