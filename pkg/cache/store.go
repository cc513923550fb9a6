package cache

import (
	"context"
	"time"
)

// Store is the key/value backend the engine reads and writes entries
// through. Keys are UTF-8 strings, entries are opaque blobs owned by the
// store. A single long-lived instance is constructed at startup and
// injected into the engine.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry stored under key. Returns ErrCacheMiss if
	// the key is absent or the store has already evicted it.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set stores an entry under key and schedules its eviction after
	// ttl.
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error

	// Delete removes the entry stored under key. The engine does not
	// call Delete in normal operation; eviction is the store's job.
	Delete(ctx context.Context, key string) error
}
