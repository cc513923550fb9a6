// Package httpcache adapts the response cache engine to net/http
// handlers that produce JSON payloads.
//
// Each route is wrapped with its own operation identity and TTL, mirroring
// per-operation cache decoration:
//
//	mux.Handle("/users", httpcache.Wrap(engine, "api.list_users", cache.OneHour)(listUsers))
//
// By default the argument set is derived from the request's query
// parameters in sorted order, so identical queries map to identical
// cache keys. Hosts with richer routing (path parameters, typed
// arguments) supply their own Extractor.
package httpcache

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/a-luna/fastapi-redis-cache/pkg/cache"
)

// errUncacheableStatus marks a downstream response the middleware must
// replay verbatim and never cache.
var errUncacheableStatus = errors.New("uncacheable response status")

// Extractor derives the declared parameters and supplied arguments for
// one request. Both slices must be deterministic for equal requests.
type Extractor func(r *http.Request) ([]cache.Param, []cache.Arg)

// QueryExtractor is the default Extractor: one string parameter per
// query key, in sorted key order; multi-valued keys join their values
// with commas.
func QueryExtractor(r *http.Request) ([]cache.Param, []cache.Arg) {
	query := r.URL.Query()
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	params := make([]cache.Param, 0, len(keys))
	args := make([]cache.Arg, 0, len(keys))
	for _, key := range keys {
		params = append(params, cache.Param{Name: key, Type: "string"})
		args = append(args, cache.Arg{Name: key, Value: strings.Join(query[key], ",")})
	}
	return params, args
}

// Option configures the middleware.
type Option func(*settings)

type settings struct {
	extract Extractor
}

// WithExtractor replaces the default query-parameter extractor.
func WithExtractor(fn Extractor) Option {
	return func(s *settings) { s.extract = fn }
}

// Wrap returns middleware that caches the wrapped handler's 200 JSON
// responses under the given operation identity. Non-GET requests pass
// through untouched; all engine failure semantics apply (a caching
// failure never changes the response).
func Wrap(engine *cache.Engine, identity string, ttl time.Duration, opts ...Option) func(http.Handler) http.Handler {
	s := settings{extract: QueryExtractor}
	for _, opt := range opts {
		opt(&s)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			params, args := s.extract(r)
			op := cache.Operation{
				Identity: identity,
				Method:   r.Method,
				TTL:      ttl,
				Params:   params,
			}
			ex := &cache.Exchange{
				RequestHeader:  r.Header,
				ResponseHeader: w.Header(),
			}

			var rec *responseRecorder
			res, err := engine.Handle(r.Context(), op, args, ex, func(ctx context.Context) (any, error) {
				rec = newResponseRecorder()
				next.ServeHTTP(rec, r.WithContext(ctx))
				if rec.status != http.StatusOK {
					return nil, errUncacheableStatus
				}
				return json.RawMessage(rec.body.Bytes()), nil
			})
			if err != nil {
				if rec != nil {
					// Downstream response was not cacheable;
					// replay it as-is.
					rec.flush(w)
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			switch {
			case res.NotModified:
				w.WriteHeader(http.StatusNotModified)
			case res.Status == cache.StatusHit:
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(res.Raw)
			default:
				// Miss or bypass: the handler ran, replay its
				// recorded response (freshness headers, if any,
				// are already on the live writer).
				rec.flush(w)
			}
		})
	}
}
