package restream

import "github.com/arloliu/restream/types"

// Type aliases for convenience - re-export from types package.
type (
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	SourceError      = types.SourceError
)

// Re-export sentinel errors for convenience.
var (
	ErrEndOfSequence  = types.ErrEndOfSequence
	ErrNegativeOffset = types.ErrNegativeOffset
	ErrInvalidWindow  = types.ErrInvalidWindow
	ErrNilSource      = types.ErrNilSource
)
