// Package patch models partial updates: each field is either unset, and left
// alone on merge, or set to a new value.
package patch

// Field is an optionally-set value.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Unset returns an empty field.
func Unset[T any]() Field[T] {
	return Field[T]{}
}

// IsSet reports whether the field carries a value.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Get returns the value and whether it was set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// ValueOr returns the value when set and fallback otherwise.
func (f Field[T]) ValueOr(fallback T) T {
	if f.set {
		return f.value
	}
	return fallback
}

// ApplyTo overwrites *dst when the field is set.
func (f Field[T]) ApplyTo(dst *T) {
	if f.set {
		*dst = f.value
	}
}
