package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EntriesCreated     uint64
	EntriesUpdated     uint64
	EntriesDeleted     uint64
	DateConflicts      uint64
	EditWindowRejected uint64
	LoginSuccesses     uint64
	LoginFailures      uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	entriesCreated     uint64
	entriesUpdated     uint64
	entriesDeleted     uint64
	dateConflicts      uint64
	editWindowRejected uint64
	loginSuccesses     uint64
	loginFailures      uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		EntriesCreated:     atomic.LoadUint64(&m.entriesCreated),
		EntriesUpdated:     atomic.LoadUint64(&m.entriesUpdated),
		EntriesDeleted:     atomic.LoadUint64(&m.entriesDeleted),
		DateConflicts:      atomic.LoadUint64(&m.dateConflicts),
		EditWindowRejected: atomic.LoadUint64(&m.editWindowRejected),
		LoginSuccesses:     atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:      atomic.LoadUint64(&m.loginFailures),
	}
}

// IncEntryCreated increments the entry created counter.
func (m *InMemoryRecorder) IncEntryCreated() {
	atomic.AddUint64(&m.entriesCreated, 1)
}

// IncEntryUpdated increments the entry updated counter.
func (m *InMemoryRecorder) IncEntryUpdated() {
	atomic.AddUint64(&m.entriesUpdated, 1)
}

// IncEntryDeleted increments the entry deleted counter.
func (m *InMemoryRecorder) IncEntryDeleted() {
	atomic.AddUint64(&m.entriesDeleted, 1)
}

// IncDateConflict increments the duplicate-date rejection counter.
func (m *InMemoryRecorder) IncDateConflict() {
	atomic.AddUint64(&m.dateConflicts, 1)
}

// IncEditWindowRejected increments the expired-window rejection counter.
func (m *InMemoryRecorder) IncEditWindowRejected() {
	atomic.AddUint64(&m.editWindowRejected, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}
