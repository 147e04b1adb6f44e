package restream

import "iter"

// Filtered is a mutable reader over one side of a Branch partition.
//
// It advances an internal fork of the shared sequence, skipping elements on
// the other side of the predicate. Skipped positions still count as reads of
// the underlying buffer, so the single-pull guarantee is unaffected: the
// sibling branch replays those positions from the buffer rather than pulling
// again.
//
// Unlike Cursor, a Filtered advances in place; use Fork on the underlying
// shared sequence if independent replays of a branch are needed.
type Filtered[T any] struct {
	cur  Cursor[T]
	pred func(T) bool
	want bool
}

// Next returns the next element on this side of the partition.
//
// Returns:
//   - T: The element (zero value when ok is false)
//   - bool: false once the underlying sequence is exhausted
//   - error: The stored fault, if the source faulted before the next match
func (f *Filtered[T]) Next() (T, bool, error) {
	for {
		v, next, ok, err := f.cur.TryNext()
		if err != nil || !ok {
			var zero T

			return zero, false, err
		}
		f.cur = next

		if f.pred(v) == f.want {
			return v, true, nil
		}
	}
}

// All returns an iterator over the remaining elements of this branch.
//
// Iteration advances the reader; ranging twice continues where the first
// range stopped. A source fault is yielded once as the final pair.
func (f *Filtered[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := f.Next()
			if err != nil {
				var zero T
				yield(zero, err)

				return
			}
			if !ok {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
