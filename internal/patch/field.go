// Package patch tracks which JSON keys a partial update actually carried.
package patch

import "encoding/json"

// Field records whether its key was present in the decoded object and
// whether it was an explicit null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// Ptr returns nil for an explicit null, else a pointer to the value.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}
