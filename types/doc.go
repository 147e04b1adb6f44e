// Package types provides shared types and error definitions for the restream library.
//
// This is a leaf package with zero restream imports to prevent import cycles.
// All packages in restream can safely import this package.
//
// # Interfaces
//
// Logger is the structured logging interface used throughout restream; the
// default implementation discards everything, and contrib/logging/zerolog
// provides a zerolog-backed one.
//
// MetricsCollector receives pull, buffer, and waiter statistics labeled by
// sequence name; contrib/metrics/vm implements it with VictoriaMetrics.
//
// # Errors
//
// Sentinel errors are provided for common outcomes:
//
//   - ErrEndOfSequence: Normal exhaustion of a source (terminal, not a fault)
//   - ErrNegativeOffset: A negative lookahead offset was supplied
//   - ErrInvalidWindow: A non-positive window size or stride was supplied
//   - ErrNilSource: A nil source was provided
//
// # SourceError
//
// SourceError wraps a fault raised by a source during production, recording
// the sequence name and the position at which it occurred:
//
//	var srcErr *types.SourceError
//	if errors.As(err, &srcErr) {
//	    log.Printf("sequence %s faulted at %d: %v",
//	        srcErr.Sequence, srcErr.Position, srcErr.Cause)
//	}
package types
