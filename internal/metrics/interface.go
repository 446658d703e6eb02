package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded(sport string)
	IncValidationFailures(sport string)
	IncMatchesProcessed()
	ObserveProcessingDuration(duration float64)
	IncImportRuns()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
