package events

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for event publishing.
type Metrics struct {
	// Events accepted into the outbox, by type
	Emitted *prometheus.CounterVec

	// Events rejected because the outbox write failed
	PersistFailures prometheus.Counter

	// Latency of synchronous outbox writes
	PersistLatency prometheus.Histogram
}

// New creates a new Metrics instance with all event publishing metrics registered.
func New() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covenant_events_emitted_total",
			Help: "Total domain events accepted into the outbox by type",
		}, []string{"type"}),

		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covenant_events_persist_failures_total",
			Help: "Total events rejected because the outbox write failed",
		}),

		PersistLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "covenant_events_persist_duration_seconds",
			Help:    "Duration of synchronous outbox writes",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// IncrementEmitted records an event accepted into the outbox.
func (m *Metrics) IncrementEmitted(eventType EventType) {
	if m != nil {
		m.Emitted.WithLabelValues(string(eventType)).Inc()
	}
}

// IncrementPersistFailures records a failed outbox write.
func (m *Metrics) IncrementPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

// ObservePersistLatency records the duration of an outbox write.
func (m *Metrics) ObservePersistLatency(d time.Duration) {
	if m != nil {
		m.PersistLatency.Observe(d.Seconds())
	}
}
