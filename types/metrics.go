package types

// MetricsCollector defines methods for collecting operational metrics.
//
// All methods accept the shared sequence's display name for labeling.
// Implementations should be thread-safe as methods may be called concurrently
// by the asynchronous engine.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	import vmmetrics "github.com/arloliu/restream/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	shared := restream.Share(src,
//	    restream.WithName("events"),
//	    restream.WithMetrics(collector),
//	)
//
//	// Expose metrics via HTTP
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// ----------------------
	// Source Pulls
	// ----------------------

	// IncPullTotal increments the total source pull counter.
	// Every pull is counted exactly once regardless of how many readers
	// requested the element.
	IncPullTotal(sequence string)

	// IncPullError increments the pull fault counter.
	// End-of-sequence is not counted as a fault.
	IncPullError(sequence string)

	// ObservePullDuration records a source pull duration in seconds.
	ObservePullDuration(sequence string, seconds float64)

	// ----------------------
	// Buffer
	// ----------------------

	// SetBufferLen sets the buffered entry count gauge, including the
	// terminal entry once one is appended.
	SetBufferLen(sequence string, n int)

	// IncForkTotal increments the counter when a new cursor is minted
	// over the shared buffer.
	IncForkTotal(sequence string)

	// ----------------------
	// Async Waiters
	// ----------------------

	// IncWaitTotal increments the counter when a caller suspends on a
	// pull that is already in flight instead of starting its own.
	IncWaitTotal(sequence string)

	// IncWaitCancelled increments the counter when a suspended caller is
	// released early by its own context, leaving the shared pull intact.
	IncWaitCancelled(sequence string)
}
