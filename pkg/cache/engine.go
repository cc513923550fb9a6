package cache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CacheStatus reports the engine's decision for one call.
type CacheStatus string

const (
	// StatusHit means the response was served from the store.
	StatusHit CacheStatus = "Hit"

	// StatusMiss means the operation executed and its response was
	// written to the store.
	StatusMiss CacheStatus = "Miss"

	// StatusBypass means the call was served without any cache
	// interaction or caching headers: request-side no-cache/no-store,
	// a non-GET operation, or a degraded caching path.
	StatusBypass CacheStatus = "Bypass"
)

// OperationFunc executes the wrapped operation on a cache miss. The
// engine never parallelizes calls; concurrent identical misses may each
// execute and each write (last-write-wins), which is safe because
// cacheable operations are required to be idempotent.
type OperationFunc func(ctx context.Context) (any, error)

// Exchange carries the optional HTTP surfaces of a call: the inbound
// header set and a mutable outbound header map the engine annotates
// with freshness headers. Both may be nil when the host dispatch has no
// request/response objects for the call.
type Exchange struct {
	RequestHeader  http.Header
	ResponseHeader http.Header
}

// Result is the outcome of one handled call.
type Result struct {
	// Payload is the response value: the operation's return on miss
	// and bypass, the decoded stored payload on hit. Nil when
	// NotModified is set.
	Payload any

	// Raw is the serialized payload. Empty on bypass.
	Raw []byte

	// Status is the cache decision.
	Status CacheStatus

	// NotModified is set when the caller's If-None-Match validator
	// matched the stored ETag; the response carries no body.
	NotModified bool

	// Freshness holds the headers' source values. Zero on bypass.
	Freshness Freshness
}

// Engine orchestrates a single call: classifies the request, derives
// the cache key, consults the store, negotiates freshness, and decides
// among bypass, hit, and miss-and-store. Caching is best-effort: a
// failure in the caching path never changes the status or payload of
// the underlying response.
type Engine struct {
	store      Store
	codec      Codec
	keys       KeyBuilder
	headerName string
	defaultTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// New builds an engine from a validated configuration and a store.
func New(cfg Config, store Store) (*Engine, error) {
	if store == nil {
		return nil, &ConfigError{Field: "Store", Reason: "store is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ignored, err := NewTypeSet(cfg.ignoredTypes()...)
	if err != nil {
		return nil, err
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultHeaderName
	}
	defaultTTL := cfg.DefaultTTL
	if defaultTTL == 0 {
		defaultTTL = DefaultTTL
	}
	return &Engine{
		store:      store,
		codec:      JSONCodec{},
		keys:       KeyBuilder{Prefix: cfg.Prefix, Ignored: ignored},
		headerName: headerName,
		defaultTTL: defaultTTL,
		logger:     log.With().Str("component", "response-cache").Logger(),
		now:        time.Now,
	}, nil
}

// Handle runs one call through the cache decision state machine.
//
// Start → {Bypass | LookupStore}; LookupStore → {Hit | Miss};
// Hit → {NotModified | DeliverCached}; Miss → Execute → StoreAndDeliver.
//
// The returned error is the operation's own error, never a caching
// error; caching failures degrade to serving the call uncached.
func (e *Engine) Handle(ctx context.Context, op Operation, args []Arg, ex *Exchange, fn OperationFunc) (*Result, error) {
	if !op.Cacheable() || (ex != nil && BypassRequested(ex.RequestHeader)) {
		CacheBypasses.Inc()
		return e.execute(ctx, fn)
	}

	key, err := e.keys.Build(op, args)
	if err != nil {
		// Configuration defect on the call site; serve uncached.
		CacheErrors.WithLabelValues("key").Inc()
		e.logger.Warn().Err(err).Str("operation", op.Identity).Msg("Key derivation failed, caching disabled for call")
		return e.execute(ctx, fn)
	}

	entry := e.lookup(ctx, key)
	if entry != nil {
		if res, ok := e.deliverCached(key, entry, ex); ok {
			return res, nil
		}
		// Corrupted entry; fall through to miss.
	}

	CacheMisses.Inc()
	payload, err := fn(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := e.codec.Encode(payload)
	if err != nil {
		CacheErrors.WithLabelValues("encode").Inc()
		e.logger.Warn().Err(err).Str("key", key).Msg("Payload not cacheable, responding without caching")
		return &Result{Payload: payload, Status: StatusBypass}, nil
	}

	ttl := op.TTL
	if ttl == 0 {
		ttl = e.defaultTTL
	}
	ttl = effectiveTTL(ttl)

	stored := &Entry{
		Payload:   raw,
		ETag:      ETagFor(raw),
		CreatedAt: e.now(),
		TTL:       ttl,
	}
	if err := e.store.Set(ctx, key, stored, ttl); err != nil {
		// Best-effort write; the response is served uncached.
		e.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed, responding without caching")
		return &Result{Payload: payload, Status: StatusBypass}, nil
	}

	fr := Compute(stored, e.now())
	e.applyHeaders(ex, StatusMiss, fr)
	e.logger.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Str("etag", stored.ETag).
		Msg("Response cached")

	return &Result{Payload: payload, Raw: raw, Status: StatusMiss, Freshness: fr}, nil
}

// execute runs the operation with no cache interaction.
func (e *Engine) execute(ctx context.Context, fn OperationFunc) (*Result, error) {
	payload, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Payload: payload, Status: StatusBypass}, nil
}

// lookup queries the store and filters out absent, stale, and
// unreadable entries. A store failure is treated as a cold cache.
func (e *Engine) lookup(ctx context.Context, key string) *Entry {
	entry, err := e.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			e.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		}
		return nil
	}
	if entry.IsStale(e.now()) {
		// Past computed max-age counts as a miss even if the store has
		// not evicted the entry yet.
		e.logger.Debug().Str("key", key).Msg("Stale entry, treating as miss")
		return nil
	}
	return entry
}

// deliverCached builds the hit-side result: freshness headers, the
// conditional-request evaluation, and the decoded payload. Returns
// ok=false when the stored payload cannot be decoded.
func (e *Engine) deliverCached(key string, entry *Entry, ex *Exchange) (*Result, bool) {
	payload, err := e.codec.Decode(entry.Payload)
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		e.logger.Warn().Err(err).Str("key", key).Msg("Stored entry unreadable, treating as miss")
		return nil, false
	}

	CacheHits.WithLabelValues(storeLabel(e.store)).Inc()
	fr := Compute(entry, e.now())
	e.applyHeaders(ex, StatusHit, fr)

	if ex != nil && NotModified(ex.RequestHeader.Get("If-None-Match"), entry.ETag) {
		NotModifiedResponses.Inc()
		e.logger.Debug().Str("key", key).Str("etag", entry.ETag).Msg("If-None-Match matched")
		return &Result{Status: StatusHit, NotModified: true, Freshness: fr}, true
	}

	return &Result{Payload: payload, Raw: entry.Payload, Status: StatusHit, Freshness: fr}, true
}

// applyHeaders annotates the outbound response with freshness headers
// and the cache-status indicator. No-op when the host supplied no
// response surface.
func (e *Engine) applyHeaders(ex *Exchange, status CacheStatus, fr Freshness) {
	if ex == nil || ex.ResponseHeader == nil {
		return
	}
	ex.ResponseHeader.Set(e.headerName, string(status))
	ex.ResponseHeader.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(fr.MaxAge.Seconds())))
	ex.ResponseHeader.Set("Expires", fr.ExpiresAt.UTC().Format(http.TimeFormat))
	ex.ResponseHeader.Set("ETag", fr.ETag)
}

// storeLabel names the backend for metrics.
func storeLabel(s Store) string {
	switch s.(type) {
	case *RedisStore:
		return "redis"
	case *SQLiteStore:
		return "sqlite"
	case *MemoryStore:
		return "memory"
	default:
		return "custom"
	}
}
