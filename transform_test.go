package restream_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/restream"
	"github.com/arloliu/restream/types"
)

func drain[T any](t *testing.T, src restream.Source[T]) []T {
	t.Helper()

	var got []T
	for {
		v, err := src.Pull()
		if errors.Is(err, types.ErrEndOfSequence) {
			return got
		}
		require.NoError(t, err)
		got = append(got, v)
	}
}

func TestMap(t *testing.T) {
	src := restream.Map(restream.FromSlice([]int{1, 2, 3}), strconv.Itoa)

	assert.Equal(t, []string{"1", "2", "3"}, drain(t, src))
}

func TestMapPropagatesFault(t *testing.T) {
	cause := errors.New("bad input")
	upstream := restream.SourceFunc[int](func() (int, error) {
		return 0, cause
	})

	_, err := restream.Map(upstream, strconv.Itoa).Pull()
	require.ErrorIs(t, err, cause)
}

func TestFilter(t *testing.T) {
	src := restream.Filter(
		restream.FromSlice([]int{1, 2, 3, 4, 5, 6}),
		func(v int) bool { return v%3 == 0 },
	)

	assert.Equal(t, []int{3, 6}, drain(t, src))
}

func TestFilterNothingMatches(t *testing.T) {
	src := restream.Filter(
		restream.FromSlice([]int{1, 2, 3}),
		func(int) bool { return false },
	)

	assert.Empty(t, drain(t, src))
}

func TestFlatMap(t *testing.T) {
	src := restream.FlatMap(
		restream.FromSlice([]int{1, 2, 3}),
		func(v int) []int { return []int{v, v * 10} },
	)

	assert.Equal(t, []int{1, 10, 2, 20, 3, 30}, drain(t, src))
}

func TestFlatMapSkipsEmptyExpansions(t *testing.T) {
	src := restream.FlatMap(
		restream.FromSlice([]int{1, 2, 3, 4}),
		func(v int) []int {
			if v%2 == 0 {
				return []int{v}
			}

			return nil
		},
	)

	assert.Equal(t, []int{2, 4}, drain(t, src))
}

func TestTeeSinglePass(t *testing.T) {
	src := newCountingSource(1, 2, 3)

	a, b := restream.Tee[int](src)

	assert.Equal(t, []int{1, 2, 3}, collect(t, a))
	assert.Equal(t, []int{1, 2, 3}, collect(t, b))
	assert.Equal(t, 4, src.pulls)
}

func TestTeeInterleaved(t *testing.T) {
	src := newCountingSource(1, 2, 3)
	a, b := restream.Tee[int](src)

	va, a, ok, err := a.TryNext()
	require.NoError(t, err)
	require.True(t, ok)

	vb, b, ok, err := b.TryNext()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, va, vb)
	assert.Equal(t, 1, a.Pos())
	assert.Equal(t, 1, b.Pos())
	assert.Equal(t, 1, src.pulls)
}

func TestConcat(t *testing.T) {
	src := restream.Concat(
		restream.FromSlice([]int{1, 2}),
		restream.FromSlice([]int(nil)),
		restream.FromSlice([]int{3}),
	)

	assert.Equal(t, []int{1, 2, 3}, drain(t, src))
}

func TestConcatFaultStopsAll(t *testing.T) {
	cause := errors.New("middle source broke")
	src := restream.Concat(
		restream.FromSlice([]int{1}),
		restream.SourceFunc[int](func() (int, error) { return 0, cause }),
		restream.FromSlice([]int{2}),
	)

	v, err := src.Pull()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = src.Pull()
	require.ErrorIs(t, err, cause)
}

func TestTransformStackOverFork(t *testing.T) {
	// A transform stacked on a forked read still respects the single-pull
	// guarantee of the underlying buffer.
	src := newCountingSource(1, 2, 3, 4)
	shared := restream.Share[int](src)

	doubled := restream.Map(
		restream.FromSeq(shared.Fork().All()),
		func(v int) int { return v * 2 },
	)
	plain := shared.Fork()

	assert.Equal(t, []int{2, 4, 6, 8}, drain(t, doubled))
	assert.Equal(t, []int{1, 2, 3, 4}, collect(t, plain))
	assert.Equal(t, 5, src.pulls)
}
