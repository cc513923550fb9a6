package cache

import (
	"errors"
	"testing"
	"time"
)

type userID int64

func (u userID) ContentKey() string {
	return "user-" + time.Unix(int64(u), 0).UTC().Format("2006")
}

func mustTypeSet(t *testing.T, types ...ArgType) TypeSet {
	t.Helper()
	set, err := NewTypeSet(types...)
	if err != nil {
		t.Fatalf("NewTypeSet failed: %v", err)
	}
	return set
}

func TestKeyBuilder_Build(t *testing.T) {
	defaultIgnored := []ArgType{ArgTypeRequest, ArgTypeResponse}

	tests := []struct {
		name    string
		prefix  string
		ignored []ArgType
		op      Operation
		args    []Arg
		want    string
	}{
		{
			name: "single int argument",
			op: Operation{
				Identity: "api.get_user",
				Params:   []Param{{Name: "id", Type: "int"}},
			},
			args: []Arg{{Name: "id", Value: 1}},
			want: "api.get_user(id=1)",
		},
		{
			name:   "prefixed key",
			prefix: "myapi",
			op: Operation{
				Identity: "api.get_user",
				Params:   []Param{{Name: "id", Type: "int"}},
			},
			args: []Arg{{Name: "id", Value: 42}},
			want: "myapi:api.get_user(id=42)",
		},
		{
			name: "zero parameters",
			op: Operation{
				Identity: "api.list_users",
			},
			want: "api.list_users()",
		},
		{
			name: "declaration order preserved",
			op: Operation{
				Identity: "api.search",
				Params: []Param{
					{Name: "zone", Type: "string"},
					{Name: "active", Type: "bool"},
					{Name: "limit", Type: "int"},
				},
			},
			args: []Arg{
				{Name: "limit", Value: 10},
				{Name: "zone", Value: "eu-west"},
				{Name: "active", Value: true},
			},
			want: "api.search(zone=eu-west,active=true,limit=10)",
		},
		{
			name: "excluded types dropped",
			op: Operation{
				Identity: "api.get_user",
				Params: []Param{
					{Name: "req", Type: ArgTypeRequest},
					{Name: "id", Type: "int"},
					{Name: "w", Type: ArgTypeResponse},
				},
			},
			args: []Arg{
				{Name: "req", Value: "request-object-a"},
				{Name: "id", Value: 7},
				{Name: "w", Value: "writer-object-a"},
			},
			want: "api.get_user(id=7)",
		},
		{
			name:    "all parameters excluded",
			ignored: []ArgType{"session"},
			op: Operation{
				Identity: "api.whoami",
				Params:   []Param{{Name: "sess", Type: "session"}},
			},
			args: []Arg{{Name: "sess", Value: "opaque"}},
			want: "api.whoami()",
		},
		{
			name: "content keyer used for custom type",
			op: Operation{
				Identity: "api.get_profile",
				Params:   []Param{{Name: "user", Type: "userID"}},
			},
			args: []Arg{{Name: "user", Value: userID(0)}},
			want: "api.get_profile(user=user-1970)",
		},
		{
			name: "time argument uses RFC3339",
			op: Operation{
				Identity: "api.report",
				Params:   []Param{{Name: "day", Type: "time.Time"}},
			},
			args: []Arg{{Name: "day", Value: time.Date(2021, 4, 20, 7, 17, 17, 0, time.UTC)}},
			want: "api.report(day=2021-04-20T07:17:17Z)",
		},
		{
			name: "struct argument uses canonical JSON",
			op: Operation{
				Identity: "api.filter",
				Params:   []Param{{Name: "f", Type: "Filter"}},
			},
			args: []Arg{{Name: "f", Value: map[string]any{"b": 2, "a": 1}}},
			want: `api.filter(f={"a":1,"b":2})`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ignored := tt.ignored
			if ignored == nil {
				ignored = defaultIgnored
			}
			b := KeyBuilder{Prefix: tt.prefix, Ignored: mustTypeSet(t, ignored...)}
			got, err := b.Build(tt.op, tt.args)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestKeyBuilder_ExcludedArgsDoNotAffectKey checks that two invocations
// differing only in excluded-type argument values yield the same key.
func TestKeyBuilder_ExcludedArgsDoNotAffectKey(t *testing.T) {
	b := KeyBuilder{Ignored: mustTypeSet(t, ArgTypeRequest, ArgTypeResponse)}
	op := Operation{
		Identity: "api.get_user",
		Params: []Param{
			{Name: "req", Type: ArgTypeRequest},
			{Name: "id", Type: "int"},
		},
	}

	key1, err := b.Build(op, []Arg{{Name: "req", Value: "first request"}, {Name: "id", Value: 1}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	key2, err := b.Build(op, []Arg{{Name: "req", Value: "completely different"}, {Name: "id", Value: 1}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if key1 != key2 {
		t.Errorf("keys differ: %v vs %v", key1, key2)
	}
}

// TestKeyBuilder_Determinism ensures same input always produces same key.
func TestKeyBuilder_Determinism(t *testing.T) {
	b := KeyBuilder{Prefix: "p", Ignored: mustTypeSet(t, ArgTypeRequest)}
	op := Operation{
		Identity: "api.search",
		Params: []Param{
			{Name: "q", Type: "string"},
			{Name: "page", Type: "int"},
			{Name: "filter", Type: "Filter"},
		},
	}
	args := []Arg{
		{Name: "q", Value: "widgets"},
		{Name: "page", Value: 3},
		{Name: "filter", Value: map[string]any{"z": true, "a": "x", "m": 9}},
	}

	results := make([]string, 10)
	for i := 0; i < 10; i++ {
		key, err := b.Build(op, args)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		results[i] = key
	}

	first := results[0]
	for i, result := range results {
		if result != first {
			t.Errorf("result[%d] = %v, want %v (not deterministic)", i, result, first)
		}
	}
}

func TestKeyBuilder_Build_Errors(t *testing.T) {
	b := KeyBuilder{Ignored: mustTypeSet(t)}

	t.Run("missing argument", func(t *testing.T) {
		op := Operation{Identity: "api.get_user", Params: []Param{{Name: "id", Type: "int"}}}
		if _, err := b.Build(op, nil); err == nil {
			t.Error("expected error for missing argument")
		}
	})

	t.Run("unkeyable argument", func(t *testing.T) {
		op := Operation{Identity: "api.get_user", Params: []Param{{Name: "cb", Type: "func"}}}
		_, err := b.Build(op, []Arg{{Name: "cb", Value: func() {}}})
		if !errors.Is(err, ErrNoContentKey) {
			t.Errorf("expected ErrNoContentKey, got %v", err)
		}
	})
}

func TestNewTypeSet_Duplicate(t *testing.T) {
	_, err := NewTypeSet(ArgTypeRequest, ArgTypeRequest)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestOperation_Cacheable(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"", true},
		{"GET", true},
		{"POST", false},
		{"PUT", false},
		{"DELETE", false},
	}

	for _, tt := range tests {
		op := Operation{Identity: "api.op", Method: tt.method}
		if got := op.Cacheable(); got != tt.want {
			t.Errorf("Cacheable() with method %q = %v, want %v", tt.method, got, tt.want)
		}
	}
}
