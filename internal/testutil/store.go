// Package testutil provides test doubles for the response cache.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/a-luna/fastapi-redis-cache/pkg/cache"
)

// RecordingStore wraps a Store and records every call, optionally
// injecting failures. It lets tests assert exactly which store
// interactions a request triggered.
type RecordingStore struct {
	inner cache.Store

	mu sync.Mutex

	// Call counters
	GetCalls    int
	SetCalls    int
	DeleteCalls int

	// Last observed Set arguments
	LastSetKey string
	LastSetTTL time.Duration

	// Injected failures; nil means delegate to the inner store.
	FailGet error
	FailSet error
}

// NewRecordingStore wraps the given store.
func NewRecordingStore(inner cache.Store) *RecordingStore {
	return &RecordingStore{inner: inner}
}

// Get implements cache.Store.
func (s *RecordingStore) Get(ctx context.Context, key string) (*cache.Entry, error) {
	s.mu.Lock()
	s.GetCalls++
	failGet := s.FailGet
	s.mu.Unlock()

	if failGet != nil {
		return nil, failGet
	}
	return s.inner.Get(ctx, key)
}

// Set implements cache.Store.
func (s *RecordingStore) Set(ctx context.Context, key string, entry *cache.Entry, ttl time.Duration) error {
	s.mu.Lock()
	s.SetCalls++
	s.LastSetKey = key
	s.LastSetTTL = ttl
	failSet := s.FailSet
	s.mu.Unlock()

	if failSet != nil {
		return failSet
	}
	return s.inner.Set(ctx, key, entry, ttl)
}

// Delete implements cache.Store.
func (s *RecordingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.DeleteCalls++
	s.mu.Unlock()
	return s.inner.Delete(ctx, key)
}

// Reset clears all counters and recorded arguments.
func (s *RecordingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls, s.SetCalls, s.DeleteCalls = 0, 0, 0
	s.LastSetKey, s.LastSetTTL = "", 0
}

// Ensure RecordingStore implements cache.Store
var _ cache.Store = (*RecordingStore)(nil)
