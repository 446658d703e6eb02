package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesRecorded     map[string]int
	validationFailures  map[string]int
	importRuns          int
	matchesProcessed    int
	processingDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		matchesRecorded:     make(map[string]int),
		validationFailures:  make(map[string]int),
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded[sport]++
}

func (m *Mock) IncValidationFailures(sport string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures[sport]++
}

func (m *Mock) IncImportRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.importRuns++
}

func (m *Mock) IncMatchesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesProcessed++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the number of matches recorded for a sport.
func (m *Mock) MatchesRecorded(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded[sport]
}

// ValidationFailures returns the number of validation failures for a sport.
func (m *Mock) ValidationFailures(sport string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures[sport]
}

// ImportRuns returns the number of times IncImportRuns was called.
func (m *Mock) ImportRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.importRuns
}

// MatchesProcessed returns the number of times IncMatchesProcessed was called.
func (m *Mock) MatchesProcessed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesProcessed
}

// ProcessingDurations returns all observed processing durations.
func (m *Mock) ProcessingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.processingDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
