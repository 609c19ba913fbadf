package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance engine.
type Metrics struct {
	// Verification verdicts, short-circuit path
	VerificationOutcome *prometheus.CounterVec

	// Verification latency including claim fetches
	VerificationLatency prometheus.Histogram

	// Rule mutation outcomes by operation
	MutationOutcome *prometheus.CounterVec

	// Rule mutation latency by operation
	MutationLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all compliance metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covenant_compliance_verifications_total",
			Help: "Total restriction verifications by verdict",
		}, []string{"verdict"}), // verdict: "pass", "fail", "error"

		VerificationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "covenant_compliance_verification_duration_seconds",
			Help:    "Duration of restriction verifications including claim fetches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		MutationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covenant_compliance_mutations_total",
			Help: "Total rule mutations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "error"

		MutationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "covenant_compliance_mutation_duration_seconds",
			Help:    "Duration of rule mutations by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// ObserveVerification records a completed verification.
func (m *Metrics) ObserveVerification(satisfied bool, err error, d time.Duration) {
	if m != nil {
		verdict := "pass"
		switch {
		case err != nil:
			verdict = "error"
		case !satisfied:
			verdict = "fail"
		}
		m.VerificationOutcome.WithLabelValues(verdict).Inc()
		m.VerificationLatency.Observe(d.Seconds())
	}
}

// ObserveMutation records the outcome and duration of a rule mutation.
func (m *Metrics) ObserveMutation(operation string, err error, d time.Duration) {
	if m != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.MutationOutcome.WithLabelValues(operation, outcome).Inc()
		m.MutationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
