package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// enrichment pipeline and the dashboard API.
type Metrics struct {
	// Pass metrics, labeled by pass name.
	PassRows        *prometheus.CounterVec   // labels: pass, outcome={enriched,failed}
	PassCheckpoints *prometheus.CounterVec   // labels: pass
	PassDuration    *prometheus.HistogramVec // labels: pass
	PassRunning     *prometheus.GaugeVec     // labels: pass

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec // labels: provider, outcome={success,error,quota}

	// Store metrics.
	StoreRows prometheus.Gauge

	// API metrics.
	HTTPRequests *prometheus.CounterVec // labels: route, status
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PassRows,
		m.PassCheckpoints,
		m.PassDuration,
		m.PassRunning,
		m.ProviderRequests,
		m.StoreRows,
		m.HTTPRequests,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, avoiding "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PassRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpintel",
			Name:      "pass_rows_total",
			Help:      "Rows processed by enrichment passes, by outcome.",
		}, []string{"pass", "outcome"}),
		PassCheckpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpintel",
			Name:      "pass_checkpoints_total",
			Help:      "Incremental merge saves performed by passes.",
		}, []string{"pass"}),
		PassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mpintel",
			Name:      "pass_duration_seconds",
			Help:      "Wall-clock duration of a full pass run.",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
		}, []string{"pass"}),
		PassRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mpintel",
			Name:      "pass_running",
			Help:      "1 while the named pass is active.",
		}, []string{"pass"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpintel",
			Name:      "provider_requests_total",
			Help:      "External provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		StoreRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mpintel",
			Name:      "store_rows",
			Help:      "Venue records in the store after the last pass.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpintel",
			Name:      "http_requests_total",
			Help:      "Dashboard API requests by route and status code.",
		}, []string{"route", "status"}),
	}
}
