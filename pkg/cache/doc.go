// Package cache provides response caching for request-handling
// operations, with Redis as the primary backend.
//
// The engine decides per call whether a previously computed response can
// be reused. It derives a deterministic cache key from the operation's
// identity and argument list, manages HTTP freshness semantics (ETag,
// If-None-Match, Cache-Control, Expires), and degrades to serving the
// call uncached whenever the caching path fails.
//
// # Basic Usage
//
//	store, err := cache.OpenRedis(ctx, "redis://localhost:6379/0")
//	if err != nil {
//		return err
//	}
//
//	engine, err := cache.New(cache.Config{Prefix: "myapi"}, store)
//	if err != nil {
//		return err
//	}
//
//	op := cache.Operation{
//		Identity: "api.get_user",
//		TTL:      cache.OneHour,
//		Params:   []cache.Param{{Name: "id", Type: "int"}},
//	}
//
//	res, err := engine.Handle(ctx, op, []cache.Arg{{Name: "id", Value: 1}}, nil,
//		func(ctx context.Context) (any, error) {
//			return loadUser(ctx, 1)
//		})
//
// The first call executes the operation and stores the result under
// "myapi:api.get_user(id=1)"; identical calls are served from the store
// until the TTL elapses.
//
// # Key Derivation
//
// Keys are content-based and stable across process restarts. Parameters
// whose declared type tag is in the configured exclusion set (by default
// ArgTypeRequest and ArgTypeResponse) are dropped, so framework-injected
// values do not fragment the cache. Custom argument types must implement
// ContentKeyer; values without a content-based representation disable
// caching for that call and are logged as a configuration defect.
//
// # Freshness
//
// Every entry carries a weak ETag derived from a hash of its serialized
// payload, so identical content always yields an identical validator.
// Remaining freshness is computed from the entry's creation time and
// TTL; once it reaches zero the entry counts as a miss even if the store
// has not evicted it yet. Requests carrying Cache-Control no-cache or
// no-store bypass both the read and the write path.
//
// # Failure Semantics
//
// Caching is best-effort relative to the primary response. A store that
// is unreachable on read counts as a cold cache; a failed write is
// logged and swallowed; a payload that cannot be serialized is returned
// uncached. Only configuration errors (invalid TTL, malformed prefix,
// duplicate exclusion registration) are fatal, and only at startup.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - response_cache_hits_total{store} - Cache hits by backend
//   - response_cache_misses_total - Cache misses (absent or stale)
//   - response_cache_bypass_total - Calls served without caching
//   - response_cache_not_modified_total - If-None-Match matches
//   - response_cache_stored_bytes_total - Payload bytes written
//   - response_cache_errors_total{operation} - Cache operation errors
package cache
