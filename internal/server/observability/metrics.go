// Package observability holds the Prometheus instrumentation for the
// dashboard backend.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms shared by the HTTP
// layer, the favourites registry, and the weather gateway.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec   // labels: route, code
	FavouriteMutations *prometheus.CounterVec   // labels: op={add,remove,clear}
	UpstreamRequests   *prometheus.CounterVec   // labels: endpoint={current,history,forecast}, outcome={success,error}
	UpstreamDuration   *prometheus.HistogramVec // labels: endpoint
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherdash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		FavouriteMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherdash",
			Name:      "favourite_mutations_total",
			Help:      "Favourite set mutations by operation.",
		}, []string{"op"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherdash",
			Name:      "upstream_requests_total",
			Help:      "Upstream weather provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weatherdash",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
	}
}

// NewMetrics creates the metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RequestsTotal,
		m.FavouriteMutations,
		m.UpstreamRequests,
		m.UpstreamDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics, avoiding "already
// registered" panics when constructed from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
