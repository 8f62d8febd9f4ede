// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON member. It separates three states that a plain
// pointer cannot: the member is absent (Set is false), the member is present
// with a null value (Null is true), or the member carries a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Present reports whether the member exists and is not null.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Present()
}

// UnmarshalJSON records presence and decodes non-null values into Value.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// DecodeField decodes a raw member into a typed Field, keeping its absent or
// null state.
func DecodeField[T any](raw Field[json.RawMessage]) (Field[T], error) {
	out := Field[T]{Set: raw.Set, Null: raw.Null}
	if !raw.Present() {
		return out, nil
	}
	if err := json.Unmarshal(raw.Value, &out.Value); err != nil {
		return Field[T]{}, err
	}
	return out, nil
}
