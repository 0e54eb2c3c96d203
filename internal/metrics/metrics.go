// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spendtable_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spendtable_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	OverviewBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spendtable_overview_build_duration_seconds",
			Help:    "Time spent loading and laying out a project overview",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	OverviewColumns = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spendtable_overview_columns",
			Help:    "Number of value columns in built overviews",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spendtable_auth_events_total",
			Help: "Authentication events by type",
		},
		[]string{"event"},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
