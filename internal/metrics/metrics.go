// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Rejection reasons for IncFeedbackRejected.
const (
	ReasonValidation = "validation"
	ReasonStoreError = "store_error"
)

// Recorder captures metric events for the intake pipeline.
// Implementations can expose these to Prometheus, tests, etc.
type Recorder interface {
	// Intake outcomes
	IncFeedbackAccepted()
	IncFeedbackRejected(reason string)

	// Rate limiting, labelled by limiter backend ("memory" or "redis")
	IncRateLimited(backend string)

	// Store latency for InsertFeedback
	ObserveInsertDuration(duration time.Duration)
}
