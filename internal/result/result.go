// Package result provides the success-or-failure container every use case
// returns. Expected business outcomes travel as failures here; panics are
// reserved for entity invariant bugs surfacing through MustValue.
package result

// Result is a closed two-variant container: exactly one of value or error is
// populated, and an instance never changes after construction.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure wraps an error. A nil error is a programming mistake and panics
// immediately instead of producing a success-shaped failure.
func Failure[T any](err error) Result[T] {
	if err == nil {
		panic("result: Failure called with nil error")
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether the result holds an error.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Value returns the value or the wrapped error.
func (r Result[T]) Value() (T, error) {
	return r.value, r.err
}

// MustValue returns the value and panics on a failure. Callers that cannot
// tolerate a panic branch with Match or Value instead.
func (r Result[T]) MustValue() T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// Err returns the wrapped error, nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Match branches on the variant without exposing the other side.
func (r Result[T]) Match(onSuccess func(T), onFailure func(error)) {
	if r.err != nil {
		if onFailure != nil {
			onFailure(r.err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(r.value)
	}
}
