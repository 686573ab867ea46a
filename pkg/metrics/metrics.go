// Package metrics provides the centralized Prometheus metrics registry
// for the FreeVid backend. Metrics are defined in their respective
// packages (cache, pexels, ratelimit, server) via promauto to maintain
// modularity; this package documents the metric surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - freevid_cache_hits_total{backend} (Counter): Cache hits by backend (memory, redis)
//   - freevid_cache_misses_total (Counter): Cache misses (absent or expired)
//   - freevid_cache_entries{backend} (Gauge): Current entry count
//   - freevid_cache_errors_total{operation} (Counter): Backend operation errors
//
// Upstream Metrics (pkg/pexels):
//   - freevid_upstream_requests_total{endpoint, status} (Counter): Requests by endpoint and status
//   - freevid_upstream_request_duration_seconds{endpoint} (Histogram): Request duration
//   - freevid_upstream_errors_total{class} (Counter): Errors by class
//
// Retry Metrics (pkg/pexels):
//   - freevid_upstream_retries_total{error_class} (Counter): Retry attempts
//   - freevid_upstream_retry_backoff_seconds{error_class} (Histogram): Backoff duration
//   - freevid_upstream_retry_exhausted_total{error_class} (Counter): Exhausted retries
//
// HTTP Metrics (internal/server):
//   - freevid_http_requests_total{route, status} (Counter): Requests by route and status
//   - freevid_http_request_duration_seconds{route} (Histogram): Request duration
//
// Quota Metrics (pkg/ratelimit):
//   - freevid_upstream_quota_remaining (Gauge): Requests remaining in the quota window
//   - freevid_upstream_quota_blocks_total (Counter): Requests blocked at critical quota
//   - freevid_upstream_quota_throttles_total (Counter): Requests throttled at low quota
//
// Example Prometheus Queries:
//
//	# Cache Hit Rate
//	sum(rate(freevid_cache_hits_total[5m])) /
//	(sum(rate(freevid_cache_hits_total[5m])) + sum(rate(freevid_cache_misses_total[5m])))
//
//	# Upstream Error Rate
//	rate(freevid_upstream_errors_total[5m])
//
//	# P95 Upstream Latency
//	histogram_quantile(0.95, rate(freevid_upstream_request_duration_seconds_bucket[5m]))
