package restream

import (
	"context"
	"errors"
	"iter"

	"github.com/arloliu/restream/types"
)

// AsyncShared is the goroutine-safe counterpart of Shared.
//
// Any number of goroutines may read through independent cursors. When a
// cursor needs an element that is not yet buffered, the first caller to
// arrive pulls it from the source; concurrent callers suspend on that single
// pull and resume with the identical outcome. The source is still pulled at
// most once per position.
//
// As with Shared, retention is unbounded and there is no backpressure:
// a slow fork keeps every element since its position buffered.
type AsyncShared[T any] struct {
	buf *asyncBuffer[T]
}

// ShareAsync creates a shared, replayable sequence over an asynchronous
// source.
//
// Parameters:
//   - src: The source to share; owned exclusively by the returned sequence
//   - opts: Optional configuration (WithName, WithLogger, WithMetrics)
//
// Returns:
//   - *AsyncShared[T]: The shared sequence
func ShareAsync[T any](src AsyncSource[T], opts ...Option) *AsyncShared[T] {
	if src == nil {
		panic(types.ErrNilSource)
	}

	return &AsyncShared[T]{buf: newAsyncBuffer(src, newConfig(opts))}
}

// Name returns the sequence display name.
func (s *AsyncShared[T]) Name() string {
	return s.buf.cfg.name
}

// Len returns the number of entries produced so far, including the terminal
// entry once the source is exhausted or has faulted.
func (s *AsyncShared[T]) Len() int {
	return s.buf.length()
}

// Fork mints a new independent cursor at position 0.
//
// Returns:
//   - AsyncCursor[T]: A cursor at position 0
func (s *AsyncShared[T]) Fork() AsyncCursor[T] {
	s.buf.cfg.metrics.IncForkTotal(s.buf.cfg.name)

	return AsyncCursor[T]{buf: s.buf}
}

// Branch partitions the sequence into two predicate-filtered readers.
//
// Semantics match Shared.Branch: a read-side projection over two forks, one
// underlying pull per position, identical fault visibility on both sides.
// The returned readers are each safe for use by one goroutine at a time.
//
// Parameters:
//   - pred: The partitioning predicate
//
// Returns:
//   - *AsyncFiltered[T]: Reader over elements where pred holds
//   - *AsyncFiltered[T]: Reader over elements where pred does not hold
func (s *AsyncShared[T]) Branch(pred func(T) bool) (*AsyncFiltered[T], *AsyncFiltered[T]) {
	match := &AsyncFiltered[T]{cur: s.Fork(), pred: pred, want: true}
	rest := &AsyncFiltered[T]{cur: s.Fork(), pred: pred, want: false}

	return match, rest
}

// AsyncCursor is an independent, copyable read position into an AsyncShared
// sequence.
//
// Like Cursor it is a plain value: forking is assignment, and advancing one
// copy never affects another. Each individual cursor value is used by one
// caller at a time; concurrency across cursors is what the buffer
// arbitrates.
type AsyncCursor[T any] struct {
	buf *asyncBuffer[T]
	pos int
}

// Pos returns the cursor's 0-indexed position.
func (c AsyncCursor[T]) Pos() int {
	return c.pos
}

// TryNext reads the element at the cursor's position, pulling from the
// source or suspending on an in-flight pull as needed.
//
// End of sequence is reported as ok=false with a nil error. A stored fault
// is returned as an error. A ctx cancellation while suspended returns
// ctx.Err() and leaves the shared pull undisturbed.
//
// Returns:
//   - T: The element (zero value when ok is false)
//   - AsyncCursor[T]: The advanced cursor (the receiver when ok is false)
//   - bool: false once the sequence ends at this position
//   - error: Fault, or cancellation error
func (c AsyncCursor[T]) TryNext(ctx context.Context) (T, AsyncCursor[T], bool, error) {
	var zero T

	e, err := c.buf.ensure(ctx, c.pos)
	if err != nil {
		return zero, c, false, err
	}
	if e.terminal() {
		if errors.Is(e.err, types.ErrEndOfSequence) {
			return zero, c, false, nil
		}

		return zero, c, false, e.err
	}

	return e.value, AsyncCursor[T]{buf: c.buf, pos: c.pos + 1}, true, nil
}

// Peek reads the element at the cursor's position without advancing.
func (c AsyncCursor[T]) Peek(ctx context.Context) (T, bool, error) {
	v, _, ok, err := c.TryNext(ctx)

	return v, ok, err
}

// Lookahead reads the element offset positions ahead without advancing.
//
// A negative offset fails fast with types.ErrNegativeOffset and leaves the
// buffer untouched.
func (c AsyncCursor[T]) Lookahead(ctx context.Context, offset int) (T, bool, error) {
	var zero T
	if offset < 0 {
		return zero, false, types.ErrNegativeOffset
	}

	e, err := c.buf.ensure(ctx, c.pos+offset)
	if err != nil {
		return zero, false, err
	}
	if e.terminal() {
		if errors.Is(e.err, types.ErrEndOfSequence) {
			return zero, false, nil
		}

		return zero, false, e.err
	}

	return e.value, true, nil
}

// Fork returns a copy of the cursor.
func (c AsyncCursor[T]) Fork() AsyncCursor[T] {
	return c
}

// All returns an iterator over the remaining elements from the cursor's
// position.
//
// The iteration walks its own cursor copy. A fault or cancellation is
// yielded once as the final pair, after which iteration stops.
func (c AsyncCursor[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cur := c
		for {
			v, next, ok, err := cur.TryNext(ctx)
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

// AsyncFiltered is a mutable reader over one side of an AsyncShared Branch
// partition. See Filtered for the partitioning semantics.
type AsyncFiltered[T any] struct {
	cur  AsyncCursor[T]
	pred func(T) bool
	want bool
}

// Next returns the next element on this side of the partition.
//
// Returns:
//   - T: The element (zero value when ok is false)
//   - bool: false once the underlying sequence is exhausted
//   - error: Fault, or cancellation error
func (f *AsyncFiltered[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		v, next, ok, err := f.cur.TryNext(ctx)
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
// Iteration advances the reader. A fault or cancellation is yielded once as
// the final pair.
func (f *AsyncFiltered[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := f.Next(ctx)
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
