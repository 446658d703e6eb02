package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/club"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/config"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/database"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/metrics"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/notifier"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/playtomic"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/processor"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/pubsub"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/recorder"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/scoring/bowling"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, playtomicClient playtomic.PlaytomicClient, notif notifier.Notifier) (*Server, func()) {
	t.Helper()

	// For handlers that use the store, we need a real db connection for now.
	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clubStore := club.New(db)
	cfg := config.Config{TenantID: "tenant-test"}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	ps := pubsub.NewMock("TEST")
	rec := recorder.New(clubStore, ps, metricsSvc)
	importer := recorder.NewImporter(playtomicClient, rec, metricsSvc, cfg.TenantID)
	proc := processor.New(clubStore, notif, metricsSvc, ps)
	server := NewServer(clubStore, metricsSvc, metricsHandler, cfg, rec, importer, notif, proc, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, teardown
}

func postJSON(t *testing.T, server *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	// Use the server's router to serve the request, which is more robust.
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestPlayersHandler(t *testing.T) {
	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notifier.NewMock())
	defer teardown()

	t.Run("adds a player", func(t *testing.T) {
		rr := postJSON(t, server, "/players", map[string]string{"name": "Alice"})
		require.Equal(t, http.StatusCreated, rr.Code)

		var created map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, "Alice", created["name"])
		assert.NotEmpty(t, created["id"])
	})

	t.Run("rejects a duplicate name", func(t *testing.T) {
		rr := postJSON(t, server, "/players", map[string]string{"name": "alice"})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		rr := postJSON(t, server, "/players", map[string]string{"name": ""})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("lists players", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/players", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var players []club.PlayerInfo
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
		require.Len(t, players, 1)
		assert.Equal(t, "Alice", players[0].Name)
	})
}

func TestMatchesHandler(t *testing.T) {
	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notifier.NewMock())
	defer teardown()

	t.Run("records a valid padel match", func(t *testing.T) {
		rr := postJSON(t, server, "/matches", map[string]any{
			"sport":  "padel",
			"side_a": []string{"Alice", "Bob"},
			"side_b": []string{"Carol", "Dave"},
			"games": []map[string]string{
				{"a": "6", "b": "2"},
				{"a": "6", "b": "4"},
			},
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var recorded match.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recorded))
		assert.Equal(t, match.StatusNew, recorded.ProcessingStatus)
		require.NotNil(t, recorded.Result.Series)
		assert.Equal(t, 2, recorded.Result.Series.WinsA)
	})

	t.Run("returns the validation message on bad scores", func(t *testing.T) {
		rr := postJSON(t, server, "/matches", map[string]any{
			"sport":  "padel",
			"side_a": []string{"Alice"},
			"side_b": []string{"Bob"},
			"games": []map[string]string{
				{"a": "7", "b": "7"},
			},
		})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "tie")
	})

	t.Run("lists matches", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/matches", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var matches []*match.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
		require.Len(t, matches, 1)
		assert.Equal(t, "padel", string(matches[0].Sport))
	})
}

func TestPreviewBowlingHandler(t *testing.T) {
	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notifier.NewMock())
	defer teardown()

	t.Run("scores a partial card without erroring", func(t *testing.T) {
		rr := postJSON(t, server, "/matches/preview/bowling", map[string]any{
			"frames": [][]string{{"3", "4"}, {"X"}, {}, {}, {}, {}, {}, {}, {}, {}},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var preview bowling.Preview
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &preview))
		require.Len(t, preview.FrameTotals, 10)
		require.NotNil(t, preview.FrameTotals[0])
		assert.Equal(t, 7, *preview.FrameTotals[0])
		// The strike needs two more rolls before it can be scored.
		assert.Nil(t, preview.FrameTotals[1])
		assert.Nil(t, preview.Total)
	})

	t.Run("tolerates invalid entries", func(t *testing.T) {
		rr := postJSON(t, server, "/matches/preview/bowling", map[string]any{
			"frames": [][]string{{"9", "9"}, {}, {}, {}, {}, {}, {}, {}, {}, {}},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var preview bowling.Preview
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &preview))
		assert.Nil(t, preview.FrameTotals[0])
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/matches/preview/bowling", strings.NewReader("{"))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLeaderboardHandler(t *testing.T) {
	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notifier.NewMock())
	defer teardown()

	// Record and fully process a match so stats exist.
	rr := postJSON(t, server, "/matches", map[string]any{
		"sport":  "pickleball",
		"side_a": []string{"Alice"},
		"side_b": []string{"Bob"},
		"games": []map[string]string{
			{"a": "11", "b": "5"},
			{"a": "11", "b": "7"},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	req, err := http.NewRequest("GET", "/process", nil)
	require.NoError(t, err)
	server.Router.ServeHTTP(httptest.NewRecorder(), req)

	t.Run("serves the sport leaderboard", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/leaderboard?sport=pickleball", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var stats []club.PlayerStats
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
		require.Len(t, stats, 2)
		assert.Equal(t, "Alice", stats[0].PlayerName)
		assert.Equal(t, 1, stats[0].MatchesWon)
	})

	t.Run("rejects an unknown sport", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/leaderboard?sport=curling", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("serves single player stats", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/player-stats?name=Alice&sport=pickleball", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var stats club.PlayerStats
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
		assert.Equal(t, "Alice", stats.PlayerName)
		assert.Equal(t, float64(100), stats.WinPercentage)
	})

	t.Run("404s for an unknown player", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/player-stats?name=Nobody&sport=pickleball", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestProcessMatchesHandler(t *testing.T) {
	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/matches", map[string]any{
		"sport":  "badminton",
		"side_a": []string{"Alice"},
		"side_b": []string{"Bob"},
		"games": []map[string]string{
			{"a": "21", "b": "12"},
			{"a": "21", "b": "15"},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var recorded match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recorded))

	req, err := http.NewRequest("GET", "/process", nil)
	require.NoError(t, err)
	procRR := httptest.NewRecorder()
	server.Router.ServeHTTP(procRR, req)
	assert.Equal(t, http.StatusOK, procRR.Code)

	processed, err := server.Store.GetMatch(recorded.ID)
	require.NoError(t, err)
	require.NotNil(t, processed)
	assert.Equal(t, match.StatusCompleted, processed.ProcessingStatus)
}

func TestImportPlaytomicHandler(t *testing.T) {
	client := playtomic.NewMockClient()
	client.GetMatchesFunc = func(params *playtomic.SearchMatchesParams) ([]playtomic.MatchSummary, error) {
		return []playtomic.MatchSummary{{MatchID: "pm1"}}, nil
	}
	client.GetSpecificMatchFunc = func(matchID string) (playtomic.PadelMatch, error) {
		return playtomic.PadelMatch{
			MatchID:       matchID,
			Start:         1720548000,
			GameStatus:    playtomic.GameStatusPlayed,
			ResultsStatus: playtomic.ResultsStatusConfirmed,
			MatchType:     playtomic.MatchTypeCompetitive,
			Teams: []playtomic.Team{
				{ID: "t1", Players: []playtomic.Player{{UserID: "u1", Name: "Alice"}}},
				{ID: "t2", Players: []playtomic.Player{{UserID: "u2", Name: "Bob"}}},
			},
			Results: []playtomic.SetResult{
				{Name: "Set 1", Scores: map[string]int{"t1": 6, "t2": 2}},
				{Name: "Set 2", Scores: map[string]int{"t1": 6, "t2": 4}},
			},
		}, nil
	}

	server, teardown := setupTestServer(t, client, notifier.NewMock())
	defer teardown()

	req, err := http.NewRequest("POST", "/import/playtomic", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 1, result["recorded"])

	imported, err := server.Store.GetMatch("pm1")
	require.NoError(t, err)
	require.NotNil(t, imported)
	assert.Equal(t, "padel", string(imported.Sport))
}

func TestLeaderboardCommandHandler(t *testing.T) {
	notif := notifier.NewMock()
	notif.FormatLeaderboardResponseFunc = func(sp sport.Sport, stats []club.PlayerStats) (any, error) {
		assert.Equal(t, sport.Padel, sp)
		return slack.NewBlockMessage(), nil
	}

	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notif)
	defer teardown()

	form := url.Values{"text": {"padel"}}
	req, err := http.NewRequest("POST", "/slack/command/leaderboard", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestPlayerStatsCommandHandler(t *testing.T) {
	notif := notifier.NewMock()
	notif.FormatPlayerNotFoundResponseFunc = func(query string) (any, error) {
		assert.Equal(t, "Nobody", query)
		return slack.NewBlockMessage(), nil
	}

	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notif)
	defer teardown()

	form := url.Values{"text": {"Nobody"}}
	req, err := http.NewRequest("POST", "/slack/command/player-stats", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, notif.SendPlayerStatsCalls, 0)
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t, playtomic.NewMockClient(), notifier.NewMock())
	defer teardown()

	rr := postJSON(t, server, "/matches", map[string]any{
		"sport":  "padel",
		"side_a": []string{"Alice"},
		"side_b": []string{"Bob"},
		"games": []map[string]string{
			{"a": "6", "b": "2"},
			{"a": "6", "b": "4"},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	req, err := http.NewRequest("POST", "/clear", nil)
	require.NoError(t, err)
	clearRR := httptest.NewRecorder()
	server.Router.ServeHTTP(clearRR, req)
	assert.Equal(t, http.StatusOK, clearRR.Code)

	matches, err := server.Store.GetAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)
}
