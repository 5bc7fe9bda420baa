package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// rainfall service.
type Metrics struct {
	// HTTP metrics.
	RequestsTotal   *prometheus.CounterVec   // labels: route, status
	RequestDuration *prometheus.HistogramVec // labels: route

	// Dataset metrics.
	DatasetLoads       *prometheus.CounterVec // labels: outcome={success,error}
	DatasetCache       *prometheus.CounterVec // labels: result={hit,miss}
	ObservationsLoaded prometheus.Gauge

	// Report snapshot metrics.
	SnapshotsGenerated prometheus.Counter
	SnapshotDuration   prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainscope",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and response status.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rainscope",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainscope",
			Name:      "dataset_loads_total",
			Help:      "Rainfall dataset load attempts by outcome.",
		}, []string{"outcome"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainscope",
			Name:      "dataset_cache_total",
			Help:      "Rainfall dataset cache lookups by result.",
		}, []string{"result"}),
		ObservationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainscope",
			Name:      "observations_loaded",
			Help:      "Daily observations in the most recently loaded dataset.",
		}),
		SnapshotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainscope",
			Name:      "snapshots_generated_total",
			Help:      "Report snapshots written to storage.",
		}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainscope",
			Name:      "snapshot_duration_seconds",
			Help:      "Duration of a complete snapshot build and store cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.DatasetLoads,
		m.DatasetCache,
		m.ObservationsLoaded,
		m.SnapshotsGenerated,
		m.SnapshotDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RequestsTotal:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainscope", Name: "http_requests_total"}, []string{"route", "status"}),
		RequestDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "rainscope", Name: "http_request_duration_seconds"}, []string{"route"}),
		DatasetLoads:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainscope", Name: "dataset_loads_total"}, []string{"outcome"}),
		DatasetCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "rainscope", Name: "dataset_cache_total"}, []string{"result"}),
		ObservationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "rainscope", Name: "observations_loaded"}),
		SnapshotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "rainscope", Name: "snapshots_generated_total"}),
		SnapshotDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "rainscope", Name: "snapshot_duration_seconds"}),
	}
}
