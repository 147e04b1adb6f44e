package restream

import (
	"errors"
	"iter"

	"github.com/arloliu/restream/types"
)

// Cursor is an independent, copyable read position into a shared sequence.
//
// A Cursor is a plain value: advancing one never mutates another, and
// forking is an O(1) copy with no buffer interaction. Two cursors forked
// from the same origin and advanced independently always observe identical
// values at identical positions.
//
// Cursors inherit the thread-confinement precondition of the Shared
// sequence they read.
type Cursor[T any] struct {
	buf *buffer[T]
	pos int
}

// Pos returns the cursor's 0-indexed position.
func (c Cursor[T]) Pos() int {
	return c.pos
}

// TryNext reads the element at the cursor's position.
//
// On success it returns the element and a cursor advanced by one; the
// receiver is unchanged. End of sequence is reported as ok=false with a nil
// error. A source fault at this position is returned as an error, never
// mistaken for exhaustion.
//
// Returns:
//   - T: The element (zero value when ok is false)
//   - Cursor[T]: The advanced cursor (the receiver when ok is false)
//   - bool: false once the sequence ends at this position
//   - error: The stored fault, if the source faulted at this position
func (c Cursor[T]) TryNext() (T, Cursor[T], bool, error) {
	e := c.buf.ensure(c.pos)
	if e.terminal() {
		var zero T
		if errors.Is(e.err, types.ErrEndOfSequence) {
			return zero, c, false, nil
		}

		return zero, c, false, e.err
	}

	return e.value, Cursor[T]{buf: c.buf, pos: c.pos + 1}, true, nil
}

// Peek reads the element at the cursor's position without advancing.
//
// Returns:
//   - T: The element (zero value when ok is false)
//   - bool: false once the sequence ends at this position
//   - error: The stored fault, if the source faulted at this position
func (c Cursor[T]) Peek() (T, bool, error) {
	v, _, ok, err := c.TryNext()

	return v, ok, err
}

// Lookahead reads the element offset positions ahead without advancing.
//
// Lookahead(0) is equivalent to Peek. A negative offset fails fast with
// types.ErrNegativeOffset and leaves the buffer untouched.
//
// Parameters:
//   - offset: Non-negative distance from the cursor's position
//
// Returns:
//   - T: The element (zero value when ok is false)
//   - bool: false if the sequence ends at or before the offset position
//   - error: types.ErrNegativeOffset, or the stored fault at that position
func (c Cursor[T]) Lookahead(offset int) (T, bool, error) {
	var zero T
	if offset < 0 {
		return zero, false, types.ErrNegativeOffset
	}

	e := c.buf.ensure(c.pos + offset)
	if e.terminal() {
		if errors.Is(e.err, types.ErrEndOfSequence) {
			return zero, false, nil
		}

		return zero, false, e.err
	}

	return e.value, true, nil
}

// Fork returns a copy of the cursor.
//
// Equivalent to plain assignment; provided for call-site clarity. The copy
// advances independently over the same buffer.
func (c Cursor[T]) Fork() Cursor[T] {
	return c
}

// All returns an iterator over the remaining elements from the cursor's
// position.
//
// The iteration walks its own cursor copy, so the receiver is unchanged and
// the sequence can be ranged multiple times from the same starting cursor.
// A source fault is yielded once as the final pair, after which iteration
// stops.
//
// Returns:
//   - iter.Seq2[T, error]: The remaining elements, with a trailing fault if any
func (c Cursor[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cur := c
		for {
			v, next, ok, err := cur.TryNext()
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
			cur = next
		}
	}
}
