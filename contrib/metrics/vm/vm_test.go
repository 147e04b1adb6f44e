package vm_test

import (
	"bytes"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/restream"
	"github.com/arloliu/restream/contrib/metrics/vm"
)

func newCollector() *vm.Collector {
	// A private set keeps tests from polluting the global registry.
	return vm.New(vm.WithMetricsSet(metrics.NewSet()))
}

func TestCollectorCountsPulls(t *testing.T) {
	collector := newCollector()

	shared := restream.Share(restream.FromSlice([]int{1, 2, 3}),
		restream.WithName("events"),
		restream.WithMetrics(collector),
	)

	cur := shared.Fork()
	for _, err := range cur.All() {
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	collector.WritePrometheus(&buf)
	out := buf.String()

	// 3 values plus the end-of-sequence pull.
	assert.Contains(t, out, `restream_pull_total{sequence="events"} 4`)
	assert.Contains(t, out, `restream_fork_total{sequence="events"} 1`)
	assert.Contains(t, out, `restream_buffer_len{sequence="events"} 4`)
	assert.NotContains(t, out, `restream_pull_errors_total`)
}

func TestCollectorCountsFaults(t *testing.T) {
	collector := newCollector()

	pulls := 0
	src := restream.SourceFunc[int](func() (int, error) {
		pulls++
		if pulls > 2 {
			return 0, assert.AnError
		}

		return pulls, nil
	})

	shared := restream.Share[int](src,
		restream.WithName("faulty"),
		restream.WithMetrics(collector),
	)

	cur := shared.Fork()
	var lastErr error
	for _, err := range cur.All() {
		lastErr = err
	}
	require.Error(t, lastErr)

	var buf bytes.Buffer
	collector.WritePrometheus(&buf)
	out := buf.String()

	assert.Contains(t, out, `restream_pull_total{sequence="faulty"} 3`)
	assert.Contains(t, out, `restream_pull_errors_total{sequence="faulty"} 1`)
}

func TestCollectorCustomPrefix(t *testing.T) {
	collector := vm.New(vm.WithPrefix("myapp"), vm.WithMetricsSet(metrics.NewSet()))

	collector.IncPullTotal("events")

	var buf bytes.Buffer
	collector.WritePrometheus(&buf)
	assert.Contains(t, buf.String(), `myapp_pull_total{sequence="events"} 1`)
}
