package cache

import (
	"time"
)

// Entry represents one cached response payload. Entries are owned by the
// store: they are created on a cache miss, read on a hit, and evicted by
// the store when their TTL elapses. The engine never retains an entry
// beyond a single request.
type Entry struct {
	// Payload is the serialized response body.
	Payload []byte `json:"payload"`

	// ETag is the weak validator derived from the payload content.
	ETag string `json:"etag"`

	// CreatedAt is when the entry was written.
	CreatedAt time.Time `json:"created_at"`

	// TTL is the freshness lifetime granted at write time.
	TTL time.Duration `json:"ttl"`
}

// ExpiresAt returns the instant the entry becomes stale.
func (e *Entry) ExpiresAt() time.Time {
	return e.CreatedAt.Add(e.TTL)
}

// Remaining returns the freshness lifetime left at now.
// Returns 0 if the entry is already stale.
func (e *Entry) Remaining(now time.Time) time.Duration {
	ttl := e.ExpiresAt().Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// IsStale reports whether the entry's computed max-age has reached zero.
// A stale entry is treated as a miss even if the store has not yet
// evicted it (the store's own expiry clock may lag).
func (e *Entry) IsStale(now time.Time) bool {
	return e.Remaining(now) <= 0
}
