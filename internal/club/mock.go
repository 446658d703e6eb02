package club

import (
	"sync"

	"github.com/HeXi037/cross-sport-tracker-sub002/internal/match"
	"github.com/HeXi037/cross-sport-tracker-sub002/internal/sport"
)

// MockClubStore is a hand-rolled mock of ClubStore for tests. Each method
// records its calls and delegates to an optional Func field; without one it
// returns zero values.
type MockClubStore struct {
	mu sync.Mutex

	AddPlayerFunc                   func(playerID, name string)
	UpsertPlayersFunc               func(players []PlayerInfo) error
	GetAllPlayersFunc               func() ([]PlayerInfo, error)
	GetPlayersFunc                  func(playerIDs []string) ([]PlayerInfo, error)
	GetPlayerByNameFunc             func(name string) (*PlayerInfo, error)
	IsKnownPlayerFunc               func(playerID string) bool
	UpsertMatchFunc                 func(m *match.Match) error
	GetAllMatchesFunc               func() ([]*match.Match, error)
	GetMatchFunc                    func(matchID string) (*match.Match, error)
	GetMatchesForProcessingFunc     func() ([]*match.Match, error)
	UpdateProcessingStatusFunc      func(matchID string, status match.Status) error
	UpdateNotificationTimestampFunc func(matchID string, ts int64) error
	UpdatePlayerStatsFunc           func(m *match.Match) error
	GetLeaderboardFunc              func(sp sport.Sport) ([]PlayerStats, error)
	GetPlayerStatsByNameFunc        func(name string, sp sport.Sport) (*PlayerStats, error)

	AddPlayerCalls              []string
	UpsertedMatches             []*match.Match
	StatusUpdates               map[string][]match.Status
	StatsUpdatedFor             []string
	NotificationTimestampCalls  []string
	ClearCalls                  int
	ClearedMatches              []string
}

var _ ClubStore = (*MockClubStore)(nil)

// NewMock creates a new mock ClubStore.
func NewMock() *MockClubStore {
	return &MockClubStore{StatusUpdates: make(map[string][]match.Status)}
}

func (m *MockClubStore) AddPlayer(playerID, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, playerID)
	if m.AddPlayerFunc != nil {
		m.AddPlayerFunc(playerID, name)
	}
}

func (m *MockClubStore) UpsertPlayers(players []PlayerInfo) error {
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *MockClubStore) GetAllPlayers() ([]PlayerInfo, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return []PlayerInfo{}, nil
}

func (m *MockClubStore) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return []PlayerInfo{}, nil
}

func (m *MockClubStore) GetPlayerByName(name string) (*PlayerInfo, error) {
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(name)
	}
	return nil, nil
}

func (m *MockClubStore) IsKnownPlayer(playerID string) bool {
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockClubStore) UpsertMatch(mt *match.Match) error {
	m.mu.Lock()
	m.UpsertedMatches = append(m.UpsertedMatches, mt)
	m.mu.Unlock()
	if m.UpsertMatchFunc != nil {
		return m.UpsertMatchFunc(mt)
	}
	return nil
}

func (m *MockClubStore) GetAllMatches() ([]*match.Match, error) {
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockClubStore) GetMatch(matchID string) (*match.Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockClubStore) GetMatchesForProcessing() ([]*match.Match, error) {
	if m.GetMatchesForProcessingFunc != nil {
		return m.GetMatchesForProcessingFunc()
	}
	return nil, nil
}

func (m *MockClubStore) UpdateProcessingStatus(matchID string, status match.Status) error {
	m.mu.Lock()
	m.StatusUpdates[matchID] = append(m.StatusUpdates[matchID], status)
	m.mu.Unlock()
	if m.UpdateProcessingStatusFunc != nil {
		return m.UpdateProcessingStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockClubStore) UpdateNotificationTimestamp(matchID string, ts int64) error {
	m.mu.Lock()
	m.NotificationTimestampCalls = append(m.NotificationTimestampCalls, matchID)
	m.mu.Unlock()
	if m.UpdateNotificationTimestampFunc != nil {
		return m.UpdateNotificationTimestampFunc(matchID, ts)
	}
	return nil
}

func (m *MockClubStore) UpdatePlayerStats(mt *match.Match) error {
	m.mu.Lock()
	m.StatsUpdatedFor = append(m.StatsUpdatedFor, mt.ID)
	m.mu.Unlock()
	if m.UpdatePlayerStatsFunc != nil {
		return m.UpdatePlayerStatsFunc(mt)
	}
	return nil
}

func (m *MockClubStore) GetLeaderboard(sp sport.Sport) ([]PlayerStats, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(sp)
	}
	return []PlayerStats{}, nil
}

func (m *MockClubStore) GetPlayerStatsByName(name string, sp sport.Sport) (*PlayerStats, error) {
	if m.GetPlayerStatsByNameFunc != nil {
		return m.GetPlayerStatsByNameFunc(name, sp)
	}
	return nil, nil
}

func (m *MockClubStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
}

func (m *MockClubStore) ClearMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearedMatches = append(m.ClearedMatches, matchID)
}
