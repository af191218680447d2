// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels shared by all recorders.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// Login modes.
const (
	ModeCredentials = "credentials"
	ModeToken       = "token"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus or keep them in memory.
type Recorder interface {
	// IncSignup counts a sign-up attempt by outcome.
	IncSignup(status string)
	// IncLogin counts a login attempt by mode and outcome.
	IncLogin(mode, status string)
	ObservePasswordHash(duration time.Duration)
	IncTokenIssued()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
