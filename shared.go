package restream

import (
	"github.com/arloliu/restream/internal/logging"
	"github.com/arloliu/restream/internal/metrics"
	"github.com/arloliu/restream/types"
	"github.com/google/uuid"
)

// config holds the ambient settings of a shared sequence.
type config struct {
	name    string
	logger  types.Logger
	metrics types.MetricsCollector
}

// Option configures a shared sequence created by Share or ShareAsync.
type Option func(*config)

// WithName sets the display name used in logs and metric labels.
//
// Default: a random UUID.
//
// Parameters:
//   - name: The sequence display name
//
// Returns:
//   - Option: Configuration option
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets the structured logger for sequence events.
//
// Default: a no-op logger.
//
// Parameters:
//   - l: The logger to use
//
// Returns:
//   - Option: Configuration option
func WithLogger(l types.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics sets the metrics collector for sequence statistics.
//
// Default: a no-op collector.
//
// Parameters:
//   - m: The metrics collector to use
//
// Returns:
//   - Option: Configuration option
func WithMetrics(m types.MetricsCollector) Option {
	return func(c *config) {
		c.metrics = m
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.name == "" {
		cfg.name = uuid.NewString()
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNopLogger()
	}
	if cfg.metrics == nil {
		cfg.metrics = metrics.NewNopMetrics()
	}

	return cfg
}

// Shared is a synchronous sequence that can be read by any number of
// independent cursors without re-running the underlying source.
//
// Elements are produced lazily: the first cursor to need a position pulls it
// from the source, and every produced element is retained so later cursors
// (and cursors positioned behind) replay it from the buffer. For N elements
// read by any number of forks, the source is pulled exactly N+1 times
// (N values plus the end-of-sequence probe).
//
// # Thread Confinement
//
// A Shared sequence and all cursors derived from it must be driven from a
// single goroutine. This is a documented precondition, not a guarded one:
// the synchronous engine takes no locks. Use ShareAsync for concurrent
// consumers.
//
// # Unbounded Retention
//
// The buffer grows without bound; there is no eviction and no backpressure.
// If forks advance unevenly, every element between the slowest and the
// source remains buffered. Retention policy is a caller concern.
type Shared[T any] struct {
	buf *buffer[T]
}

// Share creates a shared, replayable sequence over src.
//
// Parameters:
//   - src: The source to share; owned exclusively by the returned sequence
//   - opts: Optional configuration (WithName, WithLogger, WithMetrics)
//
// Returns:
//   - *Shared[T]: The shared sequence
func Share[T any](src Source[T], opts ...Option) *Shared[T] {
	if src == nil {
		panic(types.ErrNilSource)
	}

	return &Shared[T]{buf: newBuffer(src, newConfig(opts))}
}

// Name returns the sequence display name.
func (s *Shared[T]) Name() string {
	return s.buf.cfg.name
}

// Len returns the number of entries produced so far, including the terminal
// entry once the source is exhausted or has faulted.
func (s *Shared[T]) Len() int {
	return len(s.buf.entries)
}

// Fork mints a new independent cursor at position 0.
//
// Forking never touches the source: cursors from any number of forks share
// the same buffer, so reading the same prefix from two forks produces
// identical values with no additional pulls.
//
// Returns:
//   - Cursor[T]: A cursor at position 0
func (s *Shared[T]) Fork() Cursor[T] {
	s.buf.cfg.metrics.IncForkTotal(s.buf.cfg.name)

	return Cursor[T]{buf: s.buf}
}

// Branch partitions the sequence into two predicate-filtered readers.
//
// The first reader yields elements for which pred returns true, the second
// the remaining elements. Partitioning is a read-side projection over two
// forks of the same buffer: each underlying element is still pulled at most
// once, and both readers surface a source fault at the same underlying
// position.
//
// Parameters:
//   - pred: The partitioning predicate
//
// Returns:
//   - *Filtered[T]: Reader over elements where pred holds
//   - *Filtered[T]: Reader over elements where pred does not hold
func (s *Shared[T]) Branch(pred func(T) bool) (*Filtered[T], *Filtered[T]) {
	match := &Filtered[T]{cur: s.Fork(), pred: pred, want: true}
	rest := &Filtered[T]{cur: s.Fork(), pred: pred, want: false}

	return match, rest
}
