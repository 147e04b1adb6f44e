// Package types provides shared types and errors for the restream library.
//
// This is a "leaf" package with no imports from other restream packages,
// allowing it to be imported by any package without causing import cycles.
package types

import (
	"errors"
	"strconv"
)

// Logger defines the structured logging interface used throughout restream.
//
// Messages are accompanied by alternating key/value pairs, e.g.:
//
//	logger.Debug("pull completed", "sequence", name, "position", pos)
//
// Implementations must be safe for concurrent use. The library never calls
// Fatal; it is part of the interface so callers can reuse their existing
// logger implementations unchanged.
type Logger interface {
	// Debug logs a debug-level message with optional key/value pairs.
	Debug(msg string, keyvals ...any)

	// Info logs an info-level message with optional key/value pairs.
	Info(msg string, keyvals ...any)

	// Warn logs a warning-level message with optional key/value pairs.
	Warn(msg string, keyvals ...any)

	// Error logs an error-level message with optional key/value pairs.
	Error(msg string, keyvals ...any)

	// Fatal logs a fatal-level message with optional key/value pairs.
	Fatal(msg string, keyvals ...any)
}

// Sentinel errors for common outcomes.
var (
	// ErrEndOfSequence signals normal exhaustion of a source.
	//
	// Sources return it from Pull when no further elements exist. It is a
	// terminal, expected outcome rather than a fault: cursors translate it
	// into an ok=false result, never into an error.
	ErrEndOfSequence = errors.New("restream: end of sequence")

	// ErrNegativeOffset indicates a negative lookahead offset.
	//
	// Lookahead fails fast with this error instead of clamping, so the bug
	// surfaces at the call site. The buffer is never touched.
	ErrNegativeOffset = errors.New("restream: lookahead offset must not be negative")

	// ErrInvalidWindow indicates a non-positive window size or stride.
	ErrInvalidWindow = errors.New("restream: window size and stride must be positive")

	// ErrNilSource indicates that a nil source was provided.
	ErrNilSource = errors.New("restream: source cannot be nil")
)

// SourceError wraps a fault raised by a source during production.
//
// The fault is captured exactly once, stored as the sequence's terminal
// entry, and re-surfaced to every cursor that reaches Position. The
// underlying source is never invoked again after faulting.
type SourceError struct {
	// Sequence is the display name of the shared sequence.
	Sequence string

	// Position is the 0-indexed position at which the source faulted.
	Position int

	// Cause is the error returned by the source.
	Cause error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return "restream: sequence " + e.Sequence + " faulted at position " +
		strconv.Itoa(e.Position) + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *SourceError) Unwrap() error {
	return e.Cause
}
