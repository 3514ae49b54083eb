// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadtrip_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadtrip_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	MapsCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadtrip_maps_calls_total",
		Help: "Calls to the places and directions service by operation and outcome.",
	}, []string{"op", "outcome"})

	MapsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadtrip_maps_cache_lookups_total",
		Help: "Redis cache lookups in front of the places service.",
	}, []string{"op", "result"})

	SegmentCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadtrip_segment_cache_total",
		Help: "Segment-time cache hits and misses.",
	}, []string{"result"})

	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadtrip_store_ops_total",
		Help: "Document store operations by collection, operation and outcome.",
	}, []string{"collection", "op", "outcome"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roadtrip_active_sessions",
		Help: "Sessions currently held in memory.",
	})

	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roadtrip_ws_clients",
		Help: "Connected change-feed WebSocket clients.",
	})
)

// Outcome labels.
const (
	OK    = "ok"
	Error = "error"
	Hit   = "hit"
	Miss  = "miss"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// OutcomeOf maps an error to an outcome label.
func OutcomeOf(err error) string {
	if err != nil {
		return Error
	}
	return OK
}
