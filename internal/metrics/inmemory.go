package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	FeedbackAccepted      uint64
	FeedbackRejected      map[string]uint64
	RateLimited           map[string]uint64
	InsertDurationCount   uint64
	InsertDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	feedbackAccepted      uint64
	insertDurationCount   uint64
	insertDurationTotalNs int64

	mu          sync.Mutex
	rejected    map[string]uint64
	rateLimited map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		rejected:    make(map[string]uint64),
		rateLimited: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	rejected := make(map[string]uint64, len(m.rejected))
	for k, v := range m.rejected {
		rejected[k] = v
	}
	limited := make(map[string]uint64, len(m.rateLimited))
	for k, v := range m.rateLimited {
		limited[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		FeedbackAccepted:      atomic.LoadUint64(&m.feedbackAccepted),
		FeedbackRejected:      rejected,
		RateLimited:           limited,
		InsertDurationCount:   atomic.LoadUint64(&m.insertDurationCount),
		InsertDurationTotalNs: atomic.LoadInt64(&m.insertDurationTotalNs),
	}
}

// IncFeedbackAccepted increments the accepted counter.
func (m *InMemoryRecorder) IncFeedbackAccepted() {
	atomic.AddUint64(&m.feedbackAccepted, 1)
}

// IncFeedbackRejected increments the rejected counter for reason.
func (m *InMemoryRecorder) IncFeedbackRejected(reason string) {
	m.mu.Lock()
	m.rejected[reason]++
	m.mu.Unlock()
}

// IncRateLimited increments the rate limited counter for backend.
func (m *InMemoryRecorder) IncRateLimited(backend string) {
	m.mu.Lock()
	m.rateLimited[backend]++
	m.mu.Unlock()
}

// ObserveInsertDuration records store insert latency.
func (m *InMemoryRecorder) ObserveInsertDuration(duration time.Duration) {
	atomic.AddUint64(&m.insertDurationCount, 1)
	atomic.AddInt64(&m.insertDurationTotalNs, duration.Nanoseconds())
}
