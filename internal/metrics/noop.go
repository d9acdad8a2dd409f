package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncFeedbackAccepted()                         {}
func (n *NoopRecorder) IncFeedbackRejected(reason string)            {}
func (n *NoopRecorder) IncRateLimited(backend string)                {}
func (n *NoopRecorder) ObserveInsertDuration(duration time.Duration) {}
