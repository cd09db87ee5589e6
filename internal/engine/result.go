package engine

// Result carries the outcome of a remote engine call. A call either produced
// a usable value or the engine was unavailable; there is no error branch for
// callers to handle, which keeps the degraded path an ordinary, type-checked
// code path instead of an exception to swallow.
type Result[T any] struct {
	value     T
	available bool
}

// Available wraps a value returned by the engine.
func Available[T any](value T) Result[T] {
	return Result[T]{value: value, available: true}
}

// Unavailable represents an engine that could not produce a value.
func Unavailable[T any]() Result[T] {
	return Result[T]{}
}

// Available reports whether the engine produced a value.
func (r Result[T]) Available() bool {
	return r.available
}

// Value returns the engine value, or the zero value when unavailable.
func (r Result[T]) Value() T {
	return r.value
}

// Get returns the value together with its availability flag.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.available
}
