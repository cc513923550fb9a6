package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteStore is a single-node persistent Store backend. It is useful
// where a Redis instance is not available; expiry is enforced lazily on
// read, so a stale row may linger until the next lookup touches it.
type SQLiteStore struct {
	db *sql.DB

	// SQLite allows one writer at a time.
	writeMu sync.Mutex
}

// OpenSQLite opens (or creates) a SQLite-backed store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS cache (key TEXT PRIMARY KEY, expires INTEGER, entry BLOB)",
		"CREATE INDEX IF NOT EXISTS expires_idx ON cache (expires)",
		"PRAGMA journal_mode=WAL",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	var expires int64
	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT expires, entry FROM cache WHERE key = ?", key).Scan(&expires, &blob)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMiss
	}
	if err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("sqlite get: %w", err)
	}

	if time.Now().Unix() >= expires {
		// Evict lazily; the row outlived its TTL.
		_ = s.Delete(ctx, key)
		return nil, ErrCacheMiss
	}

	var entry Entry
	if err := json.Unmarshal(blob, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	if ttl <= 0 {
		return nil
	}

	blob, err := json.Marshal(entry)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cache (key, expires, entry) VALUES (?, ?, ?)",
		key, time.Now().Add(ttl).Unix(), blob)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("sqlite set: %w", err)
	}

	StoredBytes.Add(float64(len(entry.Payload)))
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
