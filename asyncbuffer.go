package restream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arloliu/restream/types"
)

// pullOp tracks one in-flight source pull. Waiters block on done; err is
// set before done is closed and only when the pull resolved as a
// cancellation of the triggering caller (in which case nothing was
// appended and the buffer returned to idle).
type pullOp struct {
	done chan struct{}
	err  error
}

// asyncBuffer is the goroutine-safe replay buffer.
//
// The entry list and the in-flight pull record are the only shared mutable
// state, guarded by mu. The locked regions cover bookkeeping only (length
// checks, append, waiter drain); the source pull itself runs outside the
// lock so slow producers do not serialize readers of already-buffered
// entries.
//
// At most one pull is in flight buffer-wide. The first caller to find the
// buffer idle becomes the puller; everyone else arriving before resolution
// blocks on the pull's done channel. Entries are therefore appended in
// strict source order.
type asyncBuffer[T any] struct {
	src AsyncSource[T]
	cfg *config

	mu       sync.Mutex
	entries  []entry[T]
	done     bool
	inflight *pullOp
}

func newAsyncBuffer[T any](src AsyncSource[T], cfg *config) *asyncBuffer[T] {
	return &asyncBuffer[T]{src: src, cfg: cfg}
}

// ensure guarantees entries[0..index] exist, or that a terminal entry exists
// at some position <= index, and returns the entry at min(index, terminal).
//
// Callers needing an unavailable index either start the pull (with their own
// ctx governing it) or suspend on the pull already in flight. A suspended
// caller whose own ctx is cancelled is released with ctx.Err() without
// affecting the shared pull or other waiters. If the pull itself resolves as
// a cancellation of its triggering caller, nothing is appended: the puller
// and all current waiters receive that cancellation error, and the next
// caller starts a fresh pull.
func (b *asyncBuffer[T]) ensure(ctx context.Context, index int) (entry[T], error) {
	for {
		b.mu.Lock()

		if index < len(b.entries) {
			e := b.entries[index]
			b.mu.Unlock()

			return e, nil
		}
		if b.done {
			e := b.entries[len(b.entries)-1]
			b.mu.Unlock()

			return e, nil
		}

		if op := b.inflight; op != nil {
			b.mu.Unlock()

			if err := b.wait(ctx, op); err != nil {
				return entry[T]{}, err
			}

			continue
		}

		op := &pullOp{done: make(chan struct{})}
		b.inflight = op
		b.mu.Unlock()

		if err := b.pull(ctx, op); err != nil {
			return entry[T]{}, err
		}
	}
}

// wait suspends the caller on an in-flight pull started by someone else.
func (b *asyncBuffer[T]) wait(ctx context.Context, op *pullOp) error {
	cfg := b.cfg
	cfg.metrics.IncWaitTotal(cfg.name)

	select {
	case <-ctx.Done():
		cfg.metrics.IncWaitCancelled(cfg.name)

		return ctx.Err()
	case <-op.done:
		// A nil op.err means the pull appended an entry (value or
		// terminal); re-check the buffer. Otherwise the shared pull was
		// cancelled by its triggering caller and that outcome is
		// observed by every waiter.
		return op.err
	}
}

// pull runs the single in-flight source pull outside the lock and publishes
// its outcome. ctx belongs to the triggering caller and governs the pull.
func (b *asyncBuffer[T]) pull(ctx context.Context, op *pullOp) error {
	cfg := b.cfg

	start := time.Now()
	v, err := b.src.Pull(ctx)

	cfg.metrics.IncPullTotal(cfg.name)
	cfg.metrics.ObservePullDuration(cfg.name, time.Since(start).Seconds())

	b.mu.Lock()

	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// The triggering caller's cancellation, not a source fault.
		// Nothing is appended; the buffer returns to idle so a later
		// caller can retry with a fresh pull.
		op.err = err
		b.inflight = nil
		close(op.done)
		b.mu.Unlock()

		return err
	}

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

	b.inflight = nil
	close(op.done)
	b.mu.Unlock()

	return nil
}

// length returns the number of entries produced so far.
func (b *asyncBuffer[T]) length() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}
