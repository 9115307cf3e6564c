package metrics

import "time"

// Outcome labels the final status of a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// Recorder defines observability hooks for a preprocessing run. Implementations must be
// safe for concurrent use; per-tag work runs in parallel.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome Outcome)
	AddLinks(kind string, n int)
	SetSchemaReduction(tag string, percent int)
	SetDocuments(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(Outcome)                      {}
func (NoopRecorder) AddLinks(string, int)                       {}
func (NoopRecorder) SetSchemaReduction(string, int)             {}
func (NoopRecorder) SetDocuments(int)                           {}
