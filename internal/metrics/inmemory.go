package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups             map[string]uint64
	Logins              map[string]uint64 // keyed "mode/status"
	PasswordHashCount   uint64
	PasswordHashTotalNs int64
	TokensIssued        uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu      sync.Mutex
	signups map[string]uint64
	logins  map[string]uint64

	passwordHashCount   uint64
	passwordHashTotalNs int64
	tokensIssued        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		signups: make(map[string]uint64),
		logins:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	signups := make(map[string]uint64, len(m.signups))
	for k, v := range m.signups {
		signups[k] = v
	}
	logins := make(map[string]uint64, len(m.logins))
	for k, v := range m.logins {
		logins[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		Signups:             signups,
		Logins:              logins,
		PasswordHashCount:   atomic.LoadUint64(&m.passwordHashCount),
		PasswordHashTotalNs: atomic.LoadInt64(&m.passwordHashTotalNs),
		TokensIssued:        atomic.LoadUint64(&m.tokensIssued),
	}
}

// IncSignup increments the sign-up counter for status.
func (m *InMemoryRecorder) IncSignup(status string) {
	m.mu.Lock()
	m.signups[status]++
	m.mu.Unlock()
}

// IncLogin increments the login counter for mode and status.
func (m *InMemoryRecorder) IncLogin(mode, status string) {
	m.mu.Lock()
	m.logins[mode+"/"+status]++
	m.mu.Unlock()
}

// ObservePasswordHash records a hash or verify duration.
func (m *InMemoryRecorder) ObservePasswordHash(duration time.Duration) {
	atomic.AddUint64(&m.passwordHashCount, 1)
	atomic.AddInt64(&m.passwordHashTotalNs, duration.Nanoseconds())
}

// IncTokenIssued increments the issued token counter.
func (m *InMemoryRecorder) IncTokenIssued() {
	atomic.AddUint64(&m.tokensIssued, 1)
}
