// Package metrics declares the prometheus collectors the service exposes,
// modeled on noah-isme-sma-adp-api's internal/service/metrics_service.go
// and internal/middleware/metrics.go, retargeted at this domain's cache
// tiers, cooldown state, and upstream calls instead of generic HTTP-only
// counters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_http_requests_total",
		Help: "Total HTTP requests handled, labeled by method, path, and status.",
	}, []string{"method", "path", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CacheResult = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_cache_result_total",
		Help: "Cache lookups labeled by tier (the schedule service records \"schedule\") and result (hit/miss/stale).",
	}, []string{"tier", "result"})

	CooldownActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_cooldown_active",
		Help: "1 while the upstream cooldown flag is active, 0 otherwise.",
	})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_upstream_request_duration_seconds",
		Help:    "Upstream HTTP call latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_upstream_errors_total",
		Help: "Upstream call failures labeled by operation.",
	}, []string{"operation"})
)

// ObserveHTTPRequest records one completed HTTP request.
func ObserveHTTPRequest(method, path string, status int, latency time.Duration) {
	HTTPRequests.WithLabelValues(method, path, httpStatusLabel(status)).Inc()
	HTTPLatency.WithLabelValues(method, path).Observe(latency.Seconds())
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
