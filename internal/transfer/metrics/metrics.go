package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the transfer pipeline.
type Metrics struct {
	// Commit outcomes by operation
	CommitOutcome *prometheus.CounterVec

	// Commit latency by operation, validation included
	CommitLatency *prometheus.HistogramVec

	// Diagnostic verdicts by resulting status
	CheckStatus *prometheus.CounterVec

	// Diagnostic latency across both gate shapes
	CheckLatency prometheus.Histogram
}

// New creates a new Metrics instance with all transfer metrics registered.
func New() *Metrics {
	return &Metrics{
		CommitOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covenant_transfer_commits_total",
			Help: "Total transfer commits by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "error"

		CommitLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "covenant_transfer_commit_duration_seconds",
			Help:    "Duration of transfer commits by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		CheckStatus: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covenant_transfer_checks_total",
			Help: "Total transfer diagnostics by resulting status",
		}, []string{"status"}),

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "covenant_transfer_check_duration_seconds",
			Help:    "Duration of transfer diagnostics",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCommit records the outcome and duration of a commit operation.
func (m *Metrics) ObserveCommit(operation string, err error, d time.Duration) {
	if m != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.CommitOutcome.WithLabelValues(operation, outcome).Inc()
		m.CommitLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// ObserveCheck records a completed diagnostic and its status.
func (m *Metrics) ObserveCheck(status string, d time.Duration) {
	if m != nil {
		m.CheckStatus.WithLabelValues(status).Inc()
		m.CheckLatency.Observe(d.Seconds())
	}
}
