package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits by backend.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freevid_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"backend"}, // "memory", "redis"
	)

	// cacheMisses tracks cache misses (absent or expired).
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "freevid_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// cacheEntries tracks the current entry count by backend.
	cacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "freevid_cache_entries",
			Help: "Current number of response cache entries",
		},
		[]string{"backend"},
	)

	// cacheErrors tracks backend operation errors.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freevid_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"operation"}, // "get", "put", "clear", "size"
	)
)
