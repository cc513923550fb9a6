package cache

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ArgType tags the declared type of an operation parameter. Exclusion
// from key derivation is decided by comparing these tags, never by
// inspecting argument values at runtime.
type ArgType string

// Built-in argument type tags for framework-injected values that carry
// no semantic effect on the response. Both are ignored by default.
const (
	ArgTypeRequest  ArgType = "http.Request"
	ArgTypeResponse ArgType = "http.ResponseWriter"
)

// ContentKeyer supplies a deterministic, content-based string for a
// domain-defined argument type. Any custom type used as a cacheable
// argument should implement it; the key builder never falls back to an
// identity- or address-based representation.
type ContentKeyer interface {
	ContentKey() string
}

// Param declares one operation parameter: its name and its static type
// tag, in declaration order.
type Param struct {
	Name string
	Type ArgType
}

// Arg is one supplied argument value for an invocation.
type Arg struct {
	Name  string
	Value any
}

// Operation describes a cacheable call site. Identity must be stable
// across process restarts (typically "package.function"); it must not
// depend on runtime addresses.
type Operation struct {
	// Identity is the stable name of the operation.
	Identity string

	// Method is the HTTP method classification. Only GET-equivalent
	// operations are eligible for caching. Empty means GET.
	Method string

	// TTL is the freshness lifetime for entries written by this
	// operation. Zero means DefaultTTL (one year).
	TTL time.Duration

	// Params are the declared parameters in declaration order.
	Params []Param
}

// Cacheable reports whether the operation's method classification is
// eligible for caching.
func (op Operation) Cacheable() bool {
	return op.Method == "" || op.Method == http.MethodGet
}

// TypeSet is the exclusion policy: the set of argument types omitted
// from key derivation. It is built once at startup and treated as
// immutable afterwards.
type TypeSet map[ArgType]struct{}

// NewTypeSet builds a TypeSet from the given tags. Registering the same
// tag twice is a configuration defect.
func NewTypeSet(types ...ArgType) (TypeSet, error) {
	set := make(TypeSet, len(types))
	for _, t := range types {
		if _, dup := set[t]; dup {
			return nil, &ConfigError{Field: "Ignored", Reason: fmt.Sprintf("argument type %q registered twice", t)}
		}
		set[t] = struct{}{}
	}
	return set, nil
}

// Contains reports whether the type tag is excluded.
func (s TypeSet) Contains(t ArgType) bool {
	_, ok := s[t]
	return ok
}

// KeyBuilder derives deterministic cache keys from an operation identity
// and its argument list.
//
// Key format: [prefix:]identity(name=repr,name2=repr2)
//
// Pairs appear in parameter declaration order. Parameters whose declared
// type is in the Ignored set are dropped, so two invocations differing
// only in excluded-type arguments produce the same key.
type KeyBuilder struct {
	// Prefix namespaces every key ("prefix:..."). Empty means none.
	Prefix string

	// Ignored is the exclusion policy.
	Ignored TypeSet
}

// Build derives the cache key for one invocation. Every non-ignored
// declared parameter must have a supplied argument with a content-based
// representation; anything else is a configuration defect and yields an
// error (the caller serves the request uncached).
func (b KeyBuilder) Build(op Operation, args []Arg) (string, error) {
	supplied := make(map[string]any, len(args))
	for _, a := range args {
		supplied[a.Name] = a.Value
	}

	var pairs []string
	for _, p := range op.Params {
		if b.Ignored.Contains(p.Type) {
			continue
		}
		value, ok := supplied[p.Name]
		if !ok {
			return "", fmt.Errorf("build key for %s: no argument supplied for parameter %q", op.Identity, p.Name)
		}
		repr, err := canonicalString(value)
		if err != nil {
			return "", fmt.Errorf("build key for %s: parameter %q: %w", op.Identity, p.Name, err)
		}
		pairs = append(pairs, p.Name+"="+repr)
	}

	key := fmt.Sprintf("%s(%s)", op.Identity, strings.Join(pairs, ","))
	if b.Prefix != "" {
		key = b.Prefix + ":" + key
	}
	return key, nil
}

// canonicalString converts an argument value to its deterministic,
// content-based representation. Primitives use their natural literal
// form, times use RFC 3339 in UTC, types implementing ContentKeyer use
// that, and everything else falls back to canonical JSON (map keys are
// sorted by the encoder). Values JSON cannot represent (funcs, channels)
// have no content-based form and yield ErrNoContentKey.
func canonicalString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case ContentKeyer:
		return v.ContentKey(), nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case time.Duration:
		return v.String(), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoContentKey, err)
		}
		return string(data), nil
	}
}
