package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()

	entry := testEntry(`{"test":"data"}`)
	if err := store.Set(ctx, "api.test(id=1)", entry, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "api.test(id=1)")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Payload) != string(entry.Payload) {
		t.Errorf("Payload = %s, want %s", got.Payload, entry.Payload)
	}
	if got.ETag != entry.ETag {
		t.Errorf("ETag = %s, want %s", got.ETag, entry.ETag)
	}
	if got.TTL != entry.TTL {
		t.Errorf("TTL = %v, want %v", got.TTL, entry.TTL)
	}
}

func TestSQLiteStore_Miss(t *testing.T) {
	store := setupSQLite(t)
	if _, err := store.Get(context.Background(), "absent"); err != ErrCacheMiss {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestSQLiteStore_Overwrite(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", testEntry(`{"v":1}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "k", testEntry(`{"v":2}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Payload) != `{"v":2}` {
		t.Errorf("Payload = %s, want last write", got.Payload)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", testEntry(`{}`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}
}

func TestSQLiteStore_LazyExpiry(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()

	// Unix-second granularity: a ttl below one second rounds to an
	// expiry in the past or the current second.
	if err := store.Set(ctx, "k", testEntry(`{}`), time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	if _, err := store.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}
}
