// Package metrics exposes Prometheus collectors for the HTTP surface and
// record operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "karte_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "karte_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// OperationsTotal counts record operations (project.create, search, ...).
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "karte_operations_total",
			Help: "Total number of record operations",
		},
		[]string{"operation", "status"},
	)
	// SearchHits is the number of hits returned per search.
	SearchHits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "karte_search_hits",
			Help:    "Number of hits returned by a search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)
)

// ObserveOperation counts one operation as ok or error.
func ObserveOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}
