package vm

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "restream"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// Metrics are labeled by sequence name and created lazily on first use, so
// one collector can serve any number of shared sequences. Thread-safe for
// concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	mu         sync.Mutex
	bufferLens map[string]*atomic.Int64
}

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally unless
// WithMetricsSet provides one.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	shared := restream.Share(src,
//	    restream.WithName("events"),
//	    restream.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix:     "restream",
		bufferLens: make(map[string]*atomic.Int64),
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	return c
}

func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

func (c *Collector) counter(name, sequence string) *metrics.Counter {
	return c.set.GetOrCreateCounter(fmt.Sprintf(`%s_%s{sequence=%q}`, c.prefix, name, sequence))
}

func (c *Collector) histogram(name, sequence string) *metrics.Histogram {
	return c.set.GetOrCreateHistogram(fmt.Sprintf(`%s_%s{sequence=%q}`, c.prefix, name, sequence))
}

// ----------------------
// Source Pulls
// ----------------------

// IncPullTotal increments the total source pull counter.
func (c *Collector) IncPullTotal(sequence string) {
	c.counter("pull_total", sequence).Inc()
}

// IncPullError increments the pull fault counter.
func (c *Collector) IncPullError(sequence string) {
	c.counter("pull_errors_total", sequence).Inc()
}

// ObservePullDuration records a source pull duration in seconds.
func (c *Collector) ObservePullDuration(sequence string, seconds float64) {
	c.histogram("pull_duration_seconds", sequence).Update(seconds)
}

// ----------------------
// Buffer
// ----------------------

// SetBufferLen sets the buffered entry count gauge for a sequence.
func (c *Collector) SetBufferLen(sequence string, n int) {
	c.mu.Lock()
	val, ok := c.bufferLens[sequence]
	if !ok {
		val = &atomic.Int64{}
		c.bufferLens[sequence] = val
		c.set.NewGauge(fmt.Sprintf(`%s_buffer_len{sequence=%q}`, c.prefix, sequence), func() float64 {
			return float64(val.Load())
		})
	}
	c.mu.Unlock()

	val.Store(int64(n))
}

// IncForkTotal increments the counter when a new cursor is minted.
func (c *Collector) IncForkTotal(sequence string) {
	c.counter("fork_total", sequence).Inc()
}

// ----------------------
// Async Waiters
// ----------------------

// IncWaitTotal increments the counter when a caller suspends on an
// in-flight pull.
func (c *Collector) IncWaitTotal(sequence string) {
	c.counter("wait_total", sequence).Inc()
}

// IncWaitCancelled increments the counter when a suspended caller is
// released early by its own context.
func (c *Collector) IncWaitCancelled(sequence string) {
	c.counter("wait_cancelled_total", sequence).Inc()
}
