package cache

import (
	"encoding/json"
	"fmt"
)

// Codec converts a response payload to a stable byte representation and
// back. Implementations must round-trip any value representable as
// structured data (objects, arrays, scalars).
type Codec interface {
	// Encode serializes a payload. Returns an error wrapping
	// ErrNotCacheable when the payload contains a non-representable
	// value (e.g., a live resource handle).
	Encode(payload any) ([]byte, error)

	// Decode deserializes a previously encoded payload.
	Decode(data []byte) (any, error)
}

// JSONCodec is the default Codec. Payloads are encoded as JSON, so the
// decoded form of a struct is its JSON shape (map[string]any, []any,
// string, float64, bool, nil).
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCacheable, err)
	}
	return data, nil
}

// Decode implements Codec.
func (JSONCodec) Decode(data []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return payload, nil
}

// Ensure JSONCodec implements Codec
var _ Codec = JSONCodec{}
