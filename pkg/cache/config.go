package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultHeaderName is the response header that reports the cache
// decision ("Hit" or "Miss") unless configured otherwise.
const DefaultHeaderName = "X-FastAPI-Cache"

// Config holds the process-wide cache configuration. It is set once at
// startup and treated as immutable for the process lifetime.
type Config struct {
	// URL is the store connection URL. Required by Connect; ignored
	// when a Store is supplied directly to New.
	URL string

	// Prefix namespaces every cache key. Optional.
	Prefix string

	// HeaderName is the cache-status response header name.
	// Defaults to DefaultHeaderName.
	HeaderName string

	// Ignored lists argument types excluded from key derivation.
	// Defaults to {ArgTypeRequest, ArgTypeResponse}.
	Ignored []ArgType

	// DefaultTTL applies to operations that declare none.
	// Defaults to one year; capped at one year.
	DefaultTTL time.Duration
}

// Validate checks the configuration. Violations are *ConfigError values
// and abort startup; configuration is never validated at request time.
func (c Config) Validate() error {
	if c.DefaultTTL < 0 {
		return &ConfigError{Field: "DefaultTTL", Reason: "must not be negative"}
	}
	if c.DefaultTTL > OneYear {
		return &ConfigError{Field: "DefaultTTL", Reason: "must not exceed one year"}
	}
	if strings.ContainsAny(c.Prefix, "() \t\n") {
		return &ConfigError{Field: "Prefix", Reason: "must not contain whitespace or parentheses"}
	}
	if _, err := NewTypeSet(c.ignoredTypes()...); err != nil {
		return err
	}
	return nil
}

// ignoredTypes returns the configured exclusion list, or the default
// request/response pair when unset.
func (c Config) ignoredTypes() []ArgType {
	if c.Ignored == nil {
		return []ArgType{ArgTypeRequest, ArgTypeResponse}
	}
	return c.Ignored
}

// Connect validates the configuration, opens the Redis store at
// cfg.URL, and builds an engine on it. This is the usual entry point
// for services that cache through Redis.
func Connect(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.URL == "" {
		return nil, &ConfigError{Field: "URL", Reason: "store connection URL is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := OpenRedis(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}
	return New(cfg, store)
}
