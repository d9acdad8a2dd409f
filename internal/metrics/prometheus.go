package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "feedback"

// PrometheusRecorder exports intake metrics through a Prometheus registry.
type PrometheusRecorder struct {
	accepted       prometheus.Counter
	rejected       *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
	insertDuration prometheus.Histogram
}

// NewPrometheus creates a PrometheusRecorder and registers its collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_accepted_total",
			Help:      "Feedback submissions persisted successfully.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_rejected_total",
			Help:      "Feedback submissions rejected, by reason.",
		}, []string{"reason"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests denied by the submission rate limiter.",
		}, []string{"backend"}),
		insertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insert_duration_seconds",
			Help:      "Latency of feedback inserts.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(r.accepted, r.rejected, r.rateLimited, r.insertDuration)
	return r
}

func (r *PrometheusRecorder) IncFeedbackAccepted() {
	r.accepted.Inc()
}

func (r *PrometheusRecorder) IncFeedbackRejected(reason string) {
	r.rejected.WithLabelValues(reason).Inc()
}

func (r *PrometheusRecorder) IncRateLimited(backend string) {
	r.rateLimited.WithLabelValues(backend).Inc()
}

func (r *PrometheusRecorder) ObserveInsertDuration(duration time.Duration) {
	r.insertDuration.Observe(duration.Seconds())
}
