package domain

import (
	"bytes"
	"encoding/json"
)

// Optional carries a field of a partial update. The zero value means
// "unchanged"; Set wraps a value that must be written.
type Optional[T any] struct {
	value T
	set   bool
}

// Set returns an Optional holding v
func Set[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Unchanged returns the "leave as is" sentinel
func Unchanged[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet reports whether a value was supplied
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was supplied
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the supplied value or fallback
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// UnmarshalJSON treats an explicit null like an absent field
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Set(v)
	return nil
}

// MarshalJSON encodes unchanged fields as null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
