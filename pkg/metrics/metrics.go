// Package metrics provides the centralized Prometheus metrics registry for
// the response cache. All metrics are defined in pkg/cache via promauto to
// maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the response cache.
// All metrics are automatically registered via promauto in pkg/cache.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Decision Metrics (pkg/cache):
//   - response_cache_hits_total{store} (Counter): Cached responses delivered, by store backend
//   - response_cache_misses_total (Counter): Operations executed and stored
//   - response_cache_bypass_total (Counter): Requests served without touching the cache
//   - response_cache_not_modified_total (Counter): 304 Not Modified deliveries
//
// Store Metrics (pkg/cache):
//   - response_cache_stored_bytes_total (Counter): Encoded payload bytes written to stores
//   - response_cache_errors_total{operation} (Counter): Store/codec failures (get, set, delete, encode, key)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(response_cache_hits_total[5m])) /
//   (sum(rate(response_cache_hits_total[5m])) + sum(rate(response_cache_misses_total[5m])))
//
//   # Conditional Request Effectiveness
//   rate(response_cache_not_modified_total[5m]) / rate(response_cache_hits_total[5m])
//
//   # Degraded Operation
//   rate(response_cache_errors_total[5m]) > 0
