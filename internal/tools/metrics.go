package tools

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "volc_mcp_tool_call_duration_seconds",
			Help:    "Duration of MCP tool calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool", "status"},
	)

	toolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volc_mcp_tool_calls_total",
			Help: "Total MCP tool calls by outcome",
		},
		[]string{"tool", "status"},
	)
)

func observeToolCall(tool, status string, d time.Duration) {
	toolCallDuration.WithLabelValues(tool, status).Observe(d.Seconds())
	toolCalls.WithLabelValues(tool, status).Inc()
}
