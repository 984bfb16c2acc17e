// Package metrics defines the observability hooks for staging runs.
package metrics

import "time"

// OutcomeLabel enumerates run result categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeSkipped OutcomeLabel = "skipped"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for staging runs. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for
// nil receivers when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
	AddFilesStaged(n int)
	AddBytesStaged(n int64)
	IncWatchEvent(op string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)       {}
func (NoopRecorder) AddFilesStaged(int)               {}
func (NoopRecorder) AddBytesStaged(int64)             {}
func (NoopRecorder) IncWatchEvent(string)             {}
