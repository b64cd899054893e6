package volc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "volc_mcp_upstream_request_duration_seconds",
			Help:    "Duration of Volcengine API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "action", "status"},
	)

	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volc_mcp_upstream_requests_total",
			Help: "Total Volcengine API requests by outcome",
		},
		[]string{"service", "action", "status"},
	)
)

func observeUpstream(service, action, status string, d time.Duration) {
	upstreamDuration.WithLabelValues(service, action, status).Observe(d.Seconds())
	upstreamRequests.WithLabelValues(service, action, status).Inc()
}
