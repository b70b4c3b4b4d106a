// Package metrics defines observability hooks for engine runs and config
// reloads in watch mode.
package metrics

import "time"

// Outcome enumerates engine run result categories for counters.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines observability hooks for the watch daemon. Implementations
// may forward to Prometheus; the NoopRecorder allows optional injection.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome Outcome)
	IncConfigReload(success bool)
	SetWatchedPaths(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(Outcome)            {}
func (NoopRecorder) IncConfigReload(bool)             {}
func (NoopRecorder) SetWatchedPaths(int)              {}
