// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Time entry lifecycle metrics
	IncEntryCreated()
	IncEntryUpdated()
	IncEntryDeleted()

	// Invariant rejections
	IncDateConflict()
	IncEditWindowRejected()

	// Account metrics
	IncLoginSuccess()
	IncLoginFailure()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
