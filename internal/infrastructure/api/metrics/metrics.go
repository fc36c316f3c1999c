// Package metrics defines and registers the Prometheus metrics emitted by
// the API request pipeline. It is the single source of truth for metric
// names, labels, and help strings; registration happens at import time via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "transit_client"

// RequestsTotal counts completed request attempts.
// Labels:
//   - method: HTTP method ("GET", "POST", …)
//   - outcome: "success", "network_error", "client_error", or "server_error"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests attempted, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// RequestDuration measures wall time from send to response classification.
// Label:
//   - method: HTTP method
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from send to classification.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionInvalidationsTotal counts 401 responses that forced a credential
// clear. A burst here usually means the token expired or was revoked.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated by a 401 response.",
	},
)
