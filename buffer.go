package restream

import (
	"errors"
	"time"

	"github.com/arloliu/restream/types"
)

// entry is one produced element or the terminal marker of a sequence.
// A nil err holds a value; types.ErrEndOfSequence marks normal exhaustion;
// any other err is the stored fault. Entries are immutable once appended.
type entry[T any] struct {
	value T
	err   error
}

// terminal reports whether the entry ends the sequence.
func (e entry[T]) terminal() bool {
	return e.err != nil
}

// buffer is the synchronous replay buffer: an append-only store of produced
// entries plus the exclusive right to pull from the source.
//
// The buffer is thread-confined. All cursors over it must be driven from a
// single goroutine, which is why append-only growth needs no synchronization
// here. asyncBuffer carries the locked variant.
type buffer[T any] struct {
	src     Source[T]
	cfg     *config
	entries []entry[T]
	done    bool
}

func newBuffer[T any](src Source[T], cfg *config) *buffer[T] {
	return &buffer[T]{src: src, cfg: cfg}
}

// ensure guarantees entries[0..index] exist, or that a terminal entry exists
// at some position <= index, and returns the entry at min(index, terminal).
//
// Requests past the terminal entry return the terminal entry; the source is
// never re-invoked once it has reported End or faulted.
func (b *buffer[T]) ensure(index int) entry[T] {
	for index >= len(b.entries) && !b.done {
		b.pull()
	}

	if last := len(b.entries) - 1; index > last {
		index = last
	}

	return b.entries[index]
}

// pull produces exactly one more entry. Must not be called after done.
func (b *buffer[T]) pull() {
	start := time.Now()
	v, err := b.src.Pull()

	cfg := b.cfg
	cfg.metrics.IncPullTotal(cfg.name)
	cfg.metrics.ObservePullDuration(cfg.name, time.Since(start).Seconds())

	switch {
	case err == nil:
		b.entries = append(b.entries, entry[T]{value: v})
	case errors.Is(err, types.ErrEndOfSequence):
		b.done = true
		b.entries = append(b.entries, entry[T]{err: types.ErrEndOfSequence})
		cfg.logger.Debug("sequence exhausted", "sequence", cfg.name, "length", len(b.entries)-1)
	default:
		b.done = true
		fault := &types.SourceError{Sequence: cfg.name, Position: len(b.entries), Cause: err}
		b.entries = append(b.entries, entry[T]{err: fault})
		cfg.metrics.IncPullError(cfg.name)
		cfg.logger.Error("source faulted",
			"sequence", cfg.name,
			"position", fault.Position,
			"error", err.Error(),
		)
	}

	cfg.metrics.SetBufferLen(cfg.name, len(b.entries))
}
