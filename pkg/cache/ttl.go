package cache

import "time"

// Common cache lifetimes. DefaultTTL is effectively unbounded: one year.
const (
	OneMinute = time.Minute
	OneHour   = time.Hour
	OneDay    = 24 * time.Hour
	OneWeek   = 7 * OneDay
	OneMonth  = 30 * OneDay
	OneYear   = 365 * OneDay

	// DefaultTTL applies when an operation does not declare a TTL.
	DefaultTTL = OneYear
)

// effectiveTTL resolves the TTL for a write: unset falls back to
// DefaultTTL, explicit values are capped at one year.
func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	if ttl > OneYear {
		return OneYear
	}
	return ttl
}
