package restream

import (
	"context"
	"iter"

	"github.com/arloliu/restream/types"
)

// Source produces the next element of a sequence on demand.
//
// Pull returns the next element, or types.ErrEndOfSequence once the sequence
// is exhausted. Any other error is a fault: the engine stores it as the
// sequence's terminal entry and never calls Pull again.
//
// A Source is owned exclusively by the buffer built over it. The buffer
// guarantees Pull is invoked from at most one place at a time and at most
// once per logical position, no matter how many cursors read the sequence.
type Source[T any] interface {
	// Pull produces the next element.
	//
	// Returns:
	//   - T: The next element (zero value when err != nil)
	//   - error: nil, types.ErrEndOfSequence on exhaustion, or a fault
	Pull() (T, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc[T any] func() (T, error)

// Pull calls f.
func (f SourceFunc[T]) Pull() (T, error) {
	return f()
}

// AsyncSource is the asynchronous counterpart of Source.
//
// Pull may block and perform I/O; it must honor ctx cancellation. The same
// exclusivity and exhaustion contract as Source applies, enforced by the
// async buffer rather than by the source itself.
type AsyncSource[T any] interface {
	// Pull produces the next element, honoring ctx cancellation.
	Pull(ctx context.Context) (T, error)
}

// AsyncSourceFunc adapts a plain function to the AsyncSource interface.
type AsyncSourceFunc[T any] func(ctx context.Context) (T, error)

// Pull calls f.
func (f AsyncSourceFunc[T]) Pull(ctx context.Context) (T, error) {
	return f(ctx)
}

// FromSlice creates a Source that yields the given values in order, then
// reports end of sequence.
//
// The slice is not copied; callers must not mutate it while the sequence
// is being read.
//
// Parameters:
//   - values: The elements to yield
//
// Returns:
//   - Source[T]: A source over the slice
func FromSlice[T any](values []T) Source[T] {
	return &sliceSource[T]{values: values}
}

type sliceSource[T any] struct {
	values []T
	next   int
}

func (s *sliceSource[T]) Pull() (T, error) {
	if s.next >= len(s.values) {
		var zero T
		return zero, types.ErrEndOfSequence
	}

	v := s.values[s.next]
	s.next++

	return v, nil
}

// FromSeq creates a Source over a standard iterator sequence.
//
// The iterator is consumed lazily, one element per Pull. A non-nil error
// yielded by the sequence is surfaced as a fault and stops consumption.
//
// Parameters:
//   - seq: The iterator sequence to pull from
//
// Returns:
//   - Source[T]: A source over the sequence
func FromSeq[T any](seq iter.Seq2[T, error]) Source[T] {
	next, stop := iter.Pull2(seq)

	return SourceFunc[T](func() (T, error) {
		v, err, ok := next()
		if !ok {
			stop()
			var zero T

			return zero, types.ErrEndOfSequence
		}
		if err != nil {
			stop()
			var zero T

			return zero, err
		}

		return v, nil
	})
}

// FromChannel creates an AsyncSource that receives elements from a channel.
//
// Closing the channel signals end of sequence. Pull blocks until an element
// arrives, the channel closes, or ctx is cancelled.
//
// Parameters:
//   - ch: The channel to receive from
//
// Returns:
//   - AsyncSource[T]: A source over the channel
func FromChannel[T any](ch <-chan T) AsyncSource[T] {
	return AsyncSourceFunc[T](func(ctx context.Context) (T, error) {
		var zero T
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case v, ok := <-ch:
			if !ok {
				return zero, types.ErrEndOfSequence
			}

			return v, nil
		}
	})
}

// Blocking lifts a synchronous Source into an AsyncSource.
//
// The pull itself is not interruptible; ctx is only checked before pulling.
// Intended for cheap in-memory sources used with the asynchronous engine.
//
// Parameters:
//   - src: The synchronous source to lift
//
// Returns:
//   - AsyncSource[T]: An async wrapper around src
func Blocking[T any](src Source[T]) AsyncSource[T] {
	return AsyncSourceFunc[T](func(ctx context.Context) (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T

			return zero, err
		}

		return src.Pull()
	})
}
