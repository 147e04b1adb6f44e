package restream_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/restream"
	"github.com/arloliu/restream/types"
)

func TestFromSlice(t *testing.T) {
	src := restream.FromSlice([]int{1, 2, 3})

	for want := 1; want <= 3; want++ {
		v, err := src.Pull()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err := src.Pull()
	require.ErrorIs(t, err, types.ErrEndOfSequence)

	// Exhaustion is stable.
	_, err = src.Pull()
	require.ErrorIs(t, err, types.ErrEndOfSequence)
}

func TestFromSliceEmpty(t *testing.T) {
	src := restream.FromSlice([]string(nil))

	_, err := src.Pull()
	require.ErrorIs(t, err, types.ErrEndOfSequence)
}

func TestFromSeq(t *testing.T) {
	seq := func(yield func(int, error) bool) {
		for i := 10; i <= 30; i += 10 {
			if !yield(i, nil) {
				return
			}
		}
	}

	src := restream.FromSeq(seq)

	var got []int
	for {
		v, err := src.Pull()
		if errors.Is(err, types.ErrEndOfSequence) {
			break
		}
		require.NoError(t, err)
		got = append(got, v)
	}

	assert.Equal(t, []int{10, 20, 30}, got)
}

func TestFromSeqFault(t *testing.T) {
	cause := errors.New("upstream broke")
	seq := func(yield func(int, error) bool) {
		if !yield(1, nil) {
			return
		}
		yield(0, cause)
	}

	src := restream.FromSeq(seq)

	v, err := src.Pull()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = src.Pull()
	require.ErrorIs(t, err, cause)
}

func TestFromChannel(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	close(ch)

	src := restream.FromChannel(ch)
	ctx := context.Background()

	v, err := src.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = src.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = src.Pull(ctx)
	require.ErrorIs(t, err, types.ErrEndOfSequence)
}

func TestFromChannelCancellation(t *testing.T) {
	ch := make(chan int) // nothing ever sent
	src := restream.FromChannel(ch)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.Pull(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBlocking(t *testing.T) {
	src := restream.Blocking(restream.FromSlice([]int{7}))
	ctx := context.Background()

	v, err := src.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = src.Pull(ctx)
	require.ErrorIs(t, err, types.ErrEndOfSequence)
}

func TestBlockingCancelledContext(t *testing.T) {
	src := restream.Blocking(restream.FromSlice([]int{7}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Pull(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
