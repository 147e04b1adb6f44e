package restream

import (
	"errors"

	"github.com/arloliu/restream/types"
)

// Map returns a lazy source applying fn to every element of src.
//
// The returned source takes ownership of src; src must not be pulled
// elsewhere afterwards.
//
// Parameters:
//   - src: The upstream source
//   - fn: The element transform
//
// Returns:
//   - Source[U]: The transformed source
func Map[T, U any](src Source[T], fn func(T) U) Source[U] {
	return SourceFunc[U](func() (U, error) {
		v, err := src.Pull()
		if err != nil {
			var zero U

			return zero, err
		}

		return fn(v), nil
	})
}

// Filter returns a lazy source yielding only elements of src for which pred
// holds.
//
// The returned source takes ownership of src.
//
// Parameters:
//   - src: The upstream source
//   - pred: The keep predicate
//
// Returns:
//   - Source[T]: The filtered source
func Filter[T any](src Source[T], pred func(T) bool) Source[T] {
	return SourceFunc[T](func() (T, error) {
		for {
			v, err := src.Pull()
			if err != nil {
				var zero T

				return zero, err
			}
			if pred(v) {
				return v, nil
			}
		}
	})
}

// FlatMap returns a lazy source expanding every element of src into zero or
// more elements.
//
// Expansions are yielded in order, fully draining one element's expansion
// before the next upstream pull. The returned source takes ownership of src.
//
// Parameters:
//   - src: The upstream source
//   - fn: The expansion function
//
// Returns:
//   - Source[U]: The expanded source
func FlatMap[T, U any](src Source[T], fn func(T) []U) Source[U] {
	var pending []U

	return SourceFunc[U](func() (U, error) {
		for len(pending) == 0 {
			v, err := src.Pull()
			if err != nil {
				var zero U

				return zero, err
			}
			pending = fn(v)
		}

		u := pending[0]
		pending = pending[1:]

		return u, nil
	})
}

// Tee splits src into two independent cursors over a single pass.
//
// Implemented on Share, so the single-pull guarantee holds: reading both
// cursors to the end pulls each element exactly once. The shared buffer
// retains every element until both cursors have passed it (and, because
// buffers never evict, beyond); an abandoned cursor therefore keeps nothing
// extra alive but the buffer itself grows with the sequence.
//
// Parameters:
//   - src: The upstream source; owned by the underlying shared sequence
//   - opts: Optional configuration for the underlying shared sequence
//
// Returns:
//   - Cursor[T]: First independent reader
//   - Cursor[T]: Second independent reader
func Tee[T any](src Source[T], opts ...Option) (Cursor[T], Cursor[T]) {
	s := Share(src, opts...)

	return s.Fork(), s.Fork()
}

// Concat returns a lazy source yielding all elements of each source in
// turn. A fault in any source stops the whole concatenation.
//
// Parameters:
//   - sources: The sources to concatenate; each is owned by the result
//
// Returns:
//   - Source[T]: The concatenated source
func Concat[T any](sources ...Source[T]) Source[T] {
	i := 0

	return SourceFunc[T](func() (T, error) {
		for {
			if i >= len(sources) {
				var zero T

				return zero, types.ErrEndOfSequence
			}

			v, err := sources[i].Pull()
			if err == nil {
				return v, nil
			}
			if errors.Is(err, types.ErrEndOfSequence) {
				i++

				continue
			}

			var zero T

			return zero, err
		}
	})
}
