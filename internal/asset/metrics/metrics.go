package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the asset registry.
type Metrics struct {
	// Ticker registrations accepted, including renewals
	TickersRegistered prometheus.Counter

	// Assets created on top of a ticker
	AssetsCreated prometheus.Counter

	// Registry mutation outcomes by operation
	MutationOutcome *prometheus.CounterVec

	// Registry mutation latency by operation
	MutationLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all asset registry metrics registered.
func New() *Metrics {
	return &Metrics{
		TickersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covenant_asset_tickers_registered_total",
			Help: "Total ticker registrations accepted including renewals",
		}),

		AssetsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "covenant_asset_assets_created_total",
			Help: "Total assets created",
		}),

		MutationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "covenant_asset_mutations_total",
			Help: "Total registry mutations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "error"

		MutationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "covenant_asset_mutation_duration_seconds",
			Help:    "Duration of registry mutations by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementTickersRegistered records an accepted ticker registration.
func (m *Metrics) IncrementTickersRegistered() {
	if m != nil {
		m.TickersRegistered.Inc()
	}
}

// IncrementAssetsCreated records a created asset.
func (m *Metrics) IncrementAssetsCreated() {
	if m != nil {
		m.AssetsCreated.Inc()
	}
}

// ObserveMutation records the outcome and duration of a registry mutation.
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
