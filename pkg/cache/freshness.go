package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// Freshness describes the remaining validity of a cache entry at a given
// instant. It is derived on every read and write, never stored.
type Freshness struct {
	// ETag is the entry's weak validator.
	ETag string

	// MaxAge is the remaining freshness lifetime (0 when stale).
	MaxAge time.Duration

	// ExpiresAt is the entry's creation time plus its TTL.
	ExpiresAt time.Time
}

// Compute derives the freshness descriptor for an entry at now.
func Compute(e *Entry, now time.Time) Freshness {
	return Freshness{
		ETag:      e.ETag,
		MaxAge:    e.Remaining(now),
		ExpiresAt: e.ExpiresAt(),
	}
}

// ETagFor derives a weak validator from serialized payload content.
// Identical content always yields an identical ETag, regardless of when
// or where the entry was written.
func ETagFor(payload []byte) string {
	sum := sha256.Sum256(payload)
	return `W/"` + hex.EncodeToString(sum[:8]) + `"`
}

// NotModified evaluates the If-None-Match header value against the
// stored ETag. The header carries a comma-separated validator list; a
// lone "*" matches any stored entry.
func NotModified(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	var validators []string
	for _, v := range strings.Split(ifNoneMatch, ",") {
		if v = strings.TrimSpace(v); v != "" {
			validators = append(validators, v)
		}
	}
	if len(validators) == 1 && validators[0] == "*" {
		return true
	}
	for _, v := range validators {
		if v == etag {
			return true
		}
	}
	return false
}

// BypassRequested reports whether the inbound request's cache-control
// directives ask for caching to be skipped. Bypassed requests touch
// neither the read nor the write path and receive no caching headers.
func BypassRequested(h http.Header) bool {
	if h == nil {
		return false
	}
	directives := strings.ToLower(h.Get("Cache-Control"))
	return strings.Contains(directives, "no-cache") || strings.Contains(directives, "no-store")
}
