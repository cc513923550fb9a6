package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by store backend
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"store"}, // "redis", "sqlite", "memory"
	)

	// CacheMisses tracks cache misses (absent or stale entries)
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheBypasses tracks calls served without any cache interaction
	CacheBypasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_bypass_total",
			Help: "Total number of calls that bypassed the cache",
		},
	)

	// NotModifiedResponses tracks conditional requests answered with 304
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_not_modified_total",
			Help: "Total number of If-None-Match matches answered without a body",
		},
	)

	// StoredBytes tracks payload bytes written to the store
	StoredBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_stored_bytes_total",
			Help: "Total payload bytes written to the cache store",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "encode", "key"
	)
)
