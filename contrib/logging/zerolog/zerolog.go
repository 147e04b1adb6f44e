// Package zerolog provides a zerolog-based implementation of the Logger interface.
//
// # Basic Usage
//
// Wrap an existing zerolog.Logger:
//
//	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
//	shared := restream.Share(src,
//	    restream.WithLogger(zerologadapter.Wrap(zl)),
//	)
//
// Key/value pairs are attached as structured fields. A trailing key without
// a value is attached with a nil value.
package zerolog

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arloliu/restream/types"
)

// Logger adapts a zerolog.Logger to the types.Logger interface.
type Logger struct {
	logger zerolog.Logger
}

// Wrap creates a Logger backed by the given zerolog.Logger.
//
// Parameters:
//   - logger: The zerolog logger to emit through
//
// Returns:
//   - *Logger: A logger usable with restream.WithLogger
func Wrap(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// fields converts alternating key/value pairs into a zerolog fields map.
func fields(keyvals []any) map[string]any {
	if len(keyvals) == 0 {
		return nil
	}

	m := make(map[string]any, (len(keyvals)+1)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}

		if i+1 < len(keyvals) {
			m[key] = keyvals[i+1]
		} else {
			m[key] = nil
		}
	}

	return m
}

func (l *Logger) emit(event *zerolog.Event, msg string, keyvals []any) {
	if f := fields(keyvals); f != nil {
		event = event.Fields(f)
	}

	event.Msg(msg)
}

// Debug logs a debug-level message with optional key/value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.emit(l.logger.Debug(), msg, keyvals)
}

// Info logs an info-level message with optional key/value pairs.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.emit(l.logger.Info(), msg, keyvals)
}

// Warn logs a warning-level message with optional key/value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.emit(l.logger.Warn(), msg, keyvals)
}

// Error logs an error-level message with optional key/value pairs.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.emit(l.logger.Error(), msg, keyvals)
}

// Fatal logs a fatal-level message with optional key/value pairs.
func (l *Logger) Fatal(msg string, keyvals ...any) {
	l.emit(l.logger.Fatal(), msg, keyvals)
}

var _ types.Logger = (*Logger)(nil)
