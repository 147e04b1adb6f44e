package restream_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/restream"
	"github.com/arloliu/restream/types"
)

// asyncCountingSource counts pulls atomically; optional delay per pull.
type asyncCountingSource struct {
	values []int
	delay  time.Duration
	pulls  atomic.Int32
}

func (s *asyncCountingSource) Pull(ctx context.Context) (int, error) {
	pos := int(s.pulls.Add(1)) - 1

	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(s.delay):
		}
	}

	if pos >= len(s.values) {
		return 0, types.ErrEndOfSequence
	}

	return s.values[pos], nil
}

func collectAsync(t *testing.T, ctx context.Context, c restream.AsyncCursor[int]) []int {
	t.Helper()

	var got []int
	for v, err := range c.All(ctx) {
		require.NoError(t, err)
		got = append(got, v)
	}

	return got
}

func TestShareAsyncSingleReader(t *testing.T) {
	src := &asyncCountingSource{values: []int{1, 2, 3}}
	shared := restream.ShareAsync[int](src)

	got := collectAsync(t, context.Background(), shared.Fork())

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, int32(4), src.pulls.Load())
}

func TestShareAsyncSingleFlight(t *testing.T) {
	src := &asyncCountingSource{values: []int{42}, delay: 50 * time.Millisecond}
	shared := restream.ShareAsync[int](src, restream.WithName("single-flight"))

	const readers = 10

	start := time.Now()

	var wg sync.WaitGroup
	values := make([]int, readers)
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			v, _, ok, err := shared.Fork().TryNext(context.Background())
			require.NoError(t, err)
			require.True(t, ok)
			values[i] = v
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)

	// Exactly one 50ms pull, not ten.
	assert.Equal(t, int32(1), src.pulls.Load())
	assert.Less(t, elapsed, 250*time.Millisecond)

	for _, v := range values {
		assert.Equal(t, 42, v)
	}
}

func TestShareAsyncConcurrentFullReads(t *testing.T) {
	src := &asyncCountingSource{values: []int{1, 2, 3, 4, 5}}
	shared := restream.ShareAsync[int](src)

	const readers = 8

	var wg sync.WaitGroup
	results := make([][]int, readers)
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = collectAsync(t, context.Background(), shared.Fork())
		}()
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	}

	// 5 values + 1 probe, across all readers.
	assert.Equal(t, int32(6), src.pulls.Load())
}

func TestShareAsyncFaultPropagation(t *testing.T) {
	cause := errors.New("producer exploded")
	pulls := atomic.Int32{}
	src := restream.AsyncSourceFunc[int](func(_ context.Context) (int, error) {
		n := pulls.Add(1)
		if n <= 2 {
			return int(n), nil
		}

		return 0, cause
	})

	shared := restream.ShareAsync(src, restream.WithName("faulty-async"))
	ctx := context.Background()

	for range 3 {
		cur := shared.Fork()

		var got []int
		var faultErr error
		for v, err := range cur.All(ctx) {
			if err != nil {
				faultErr = err

				break
			}
			got = append(got, v)
		}

		assert.Equal(t, []int{1, 2}, got)
		require.ErrorIs(t, faultErr, cause)

		var srcErr *types.SourceError
		require.ErrorAs(t, faultErr, &srcErr)
		assert.Equal(t, 2, srcErr.Position)
	}

	// Fault captured on the third pull, never re-pulled.
	assert.Equal(t, int32(3), pulls.Load())
}

func TestShareAsyncWaiterCancellation(t *testing.T) {
	release := make(chan struct{})
	src := restream.AsyncSourceFunc[int](func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-release:
			return 99, nil
		}
	})

	shared := restream.ShareAsync(src)

	// Puller with a background context: starts the pull and blocks.
	pullerDone := make(chan error, 1)
	go func() {
		_, _, _, err := shared.Fork().TryNext(context.Background())
		pullerDone <- err
	}()

	// Give the puller time to become the in-flight pull.
	time.Sleep(20 * time.Millisecond)

	// Waiter with its own cancellable context.
	waiterCtx, cancelWaiter := context.WithCancel(context.Background())
	waiterDone := make(chan error, 1)
	go func() {
		_, _, _, err := shared.Fork().TryNext(waiterCtx)
		waiterDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancelWaiter()

	// The waiter is released early with its own context error.
	select {
	case err := <-waiterDone:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter was not released")
	}

	// The shared pull is unaffected: release it and the puller succeeds.
	close(release)
	select {
	case err := <-pullerDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("puller did not complete")
	}

	// A later reader replays the pulled value from the buffer.
	v, _, ok, err := shared.Fork().TryNext(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 99, v)
}

func TestShareAsyncCancelledPullDoesNotPoisonBuffer(t *testing.T) {
	attempt := atomic.Int32{}
	src := restream.AsyncSourceFunc[int](func(ctx context.Context) (int, error) {
		if attempt.Add(1) == 1 {
			// First pull blocks until its caller cancels.
			<-ctx.Done()

			return 0, ctx.Err()
		}

		return 7, nil
	})

	shared := restream.ShareAsync(src)

	triggerCtx, cancelTrigger := context.WithCancel(context.Background())

	triggerDone := make(chan error, 1)
	go func() {
		_, _, _, err := shared.Fork().TryNext(triggerCtx)
		triggerDone <- err
	}()

	time.Sleep(20 * time.Millisecond)

	// A waiter suspended on the cancelled pull observes the cancellation.
	waiterDone := make(chan error, 1)
	go func() {
		_, _, _, err := shared.Fork().TryNext(context.Background())
		waiterDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancelTrigger()

	require.ErrorIs(t, <-triggerDone, context.Canceled)
	require.ErrorIs(t, <-waiterDone, context.Canceled)

	// Nothing was appended: a fresh caller retries and succeeds.
	v, _, ok, err := shared.Fork().TryNext(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), attempt.Load())
}

func TestShareAsyncLookaheadNegativeOffset(t *testing.T) {
	src := &asyncCountingSource{values: []int{1}}
	shared := restream.ShareAsync[int](src)

	_, ok, err := shared.Fork().Lookahead(context.Background(), -1)
	require.ErrorIs(t, err, types.ErrNegativeOffset)
	assert.False(t, ok)
	assert.Equal(t, int32(0), src.pulls.Load())
}

func TestShareAsyncBranch(t *testing.T) {
	src := &asyncCountingSource{values: []int{1, 2, 3, 4, 5, 6}}
	shared := restream.ShareAsync[int](src)
	ctx := context.Background()

	even, odd := shared.Branch(func(v int) bool { return v%2 == 0 })

	var evens []int
	for v, err := range even.All(ctx) {
		require.NoError(t, err)
		evens = append(evens, v)
	}

	var odds []int
	for v, err := range odd.All(ctx) {
		require.NoError(t, err)
		odds = append(odds, v)
	}

	assert.Equal(t, []int{2, 4, 6}, evens)
	assert.Equal(t, []int{1, 3, 5}, odds)
	assert.Equal(t, int32(7), src.pulls.Load())
}

func TestShareAsyncFromChannel(t *testing.T) {
	ch := make(chan int)
	go func() {
		for i := 1; i <= 3; i++ {
			ch <- i
		}
		close(ch)
	}()

	shared := restream.ShareAsync(restream.FromChannel(ch))

	a := collectAsync(t, context.Background(), shared.Fork())
	b := collectAsync(t, context.Background(), shared.Fork())

	assert.Equal(t, []int{1, 2, 3}, a)
	assert.Equal(t, a, b)
}

func TestShareAsyncNilSourcePanics(t *testing.T) {
	assert.Panics(t, func() {
		restream.ShareAsync[int](nil)
	})
}
