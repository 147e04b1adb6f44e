// Package restream provides replayable, forkable, branchable sequences over
// expensive single-pass sources.
//
// A source that is costly to run (a database iterator, a message consumer, a
// computation) can be consumed by any number of independent readers without
// re-running it: produced elements are retained in an append-only replay
// buffer, and each reader walks the buffer with its own cursor. A single
// pass can also be partitioned into two predicate-filtered branches.
//
// # Key Features
//
//   - Single Production: The source is pulled at most once per position, no
//     matter how many readers request it
//   - Fork: Independent O(1) cursors over the same buffer, each advancing on
//     its own
//   - Branch: Partition one pass into two filtered readers without a second
//     pass
//   - Sync and Async Engines: A thread-confined engine with zero locking, and
//     a goroutine-safe engine with single-flight pulls, cooperative
//     suspension, and context cancellation
//   - Adapters: Sources over database/sql rows, CQL iterators, and NATS
//     JetStream consumers
//
// # Basic Usage
//
//	shared := restream.Share(restream.FromSlice([]int{1, 2, 3, 4, 5}))
//
//	a := shared.Fork()
//	b := shared.Fork()
//
//	for v, err := range a.All() {
//	    // 1 2 3 4 5; err is non-nil only on a source fault
//	    _ = v
//	    _ = err
//	}
//	for v, err := range b.All() {
//	    // 1 2 3 4 5 again, replayed from the buffer: 6 pulls total,
//	    // not 12 (5 values + 1 end-of-sequence probe)
//	    _ = v
//	    _ = err
//	}
//
// Branching:
//
//	even, odd := shared.Branch(func(v int) bool { return v%2 == 0 })
//
// # Synchronous vs Asynchronous
//
// Share builds the synchronous engine: cursors are plain values, reads take
// no locks, and everything must be driven from a single goroutine. This is a
// documented precondition, not a guarded one.
//
// ShareAsync builds the goroutine-safe engine. When concurrent readers need
// an element that is not yet buffered, exactly one pull is started; the rest
// suspend on it and resume with the identical outcome:
//
//	shared := restream.ShareAsync(restream.FromChannel(ch))
//	cur := shared.Fork()
//	v, cur, ok, err := cur.TryNext(ctx)
//
// # Error Handling
//
// Sources signal exhaustion with types.ErrEndOfSequence; cursors surface it
// as ok=false, never as an error. Any other source error is a fault: it is
// captured once, stored as the sequence's terminal entry, wrapped in
// types.SourceError with the faulting position, and handed to every reader
// that reaches that position. The source is never re-invoked after a fault,
// and the engine never retries.
//
//	var srcErr *types.SourceError
//	if errors.As(err, &srcErr) {
//	    log.Printf("faulted at %d: %v", srcErr.Position, srcErr.Cause)
//	}
//
// In the asynchronous engine, cancellation is distinct from faulting: a
// reader suspended on someone else's pull whose own context is cancelled is
// released with its context error while the pull proceeds for the others,
// and a pull cancelled by its triggering caller is not recorded as a fault.
//
// # Resource Usage
//
// Buffers are intentionally unbounded: there is no eviction and no
// backpressure between the source and slow readers. If forks advance
// unevenly, everything the fastest reader has seen remains buffered until
// the sequence itself is unreachable. Bound your sequences or your forks
// accordingly.
package restream
