package events

import (
	"fmt"
	"reflect"
)

// StateNotFoundError is the panic value raised when ambient state of a type
// that was never Set is requested.
type StateNotFoundError struct {
	Type reflect.Type
}

func (e *StateNotFoundError) Error() string {
	return fmt.Sprintf("events: no ambient state of type %s registered", e.Type)
}

// Set stores value as the ambient state for its type, replacing any previous value.
func Set[T any](b *Bus, value T) {
	v := value
	b.states[reflect.TypeFor[T]()] = &v
}

// Get returns the ambient state of type T. It panics with
// *StateNotFoundError if none was set.
func Get[T any](b *Bus) T {
	return *GetMut[T](b)
}

// GetMut returns a pointer to the ambient state of type T so callers can
// update it in place. It panics with *StateNotFoundError if none was set.
func GetMut[T any](b *Bus) *T {
	key := reflect.TypeFor[T]()
	raw, ok := b.states[key]
	if !ok {
		panic(&StateNotFoundError{Type: key})
	}
	ptr, ok := raw.(*T)
	if !ok {
		panic(fmt.Sprintf("events: ambient state for %s holds %T", key, raw))
	}
	return ptr
}

// Lookup is the non-fatal variant of Get for callers that tolerate absence.
func Lookup[T any](b *Bus) (T, bool) {
	raw, ok := b.states[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return *raw.(*T), true
}
