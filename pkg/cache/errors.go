package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheMiss indicates the requested key was not found in the store
	// or the stored entry is no longer fresh.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the stored entry is corrupted and cannot
	// be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")

	// ErrNotCacheable indicates the response payload cannot be serialized
	// and therefore cannot be cached. The response itself is unaffected.
	ErrNotCacheable = errors.New("response payload is not cacheable")

	// ErrNotConnected indicates the store did not respond during startup.
	ErrNotConnected = errors.New("cache store not connected")

	// ErrNoContentKey indicates an argument value has no content-based
	// string representation. Argument types must either implement
	// ContentKeyer, be serializable, or be registered as ignored.
	ErrNoContentKey = errors.New("argument has no content-based key representation")
)

// ConfigError describes an invalid configuration value. Configuration
// errors are raised at startup and are fatal; they never occur at
// request time.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("cache config: %s: %s", e.Field, e.Reason)
}
