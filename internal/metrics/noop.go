package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup(status string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(mode, status string) {}

// ObservePasswordHash is a no-op.
func (n *NoopRecorder) ObservePasswordHash(duration time.Duration) {}

// IncTokenIssued is a no-op.
func (n *NoopRecorder) IncTokenIssued() {}
