package quadbuckets

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with quadbuckets-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// This is the default.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithKind tags every record with the primitive kind an index holds.
func (l *Logger) WithKind(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", kind),
	}
}

// LogSplit logs the subdivision of a node.
func (l *Logger) LogSplit(depth int, region BBox, moved, kept int) {
	l.Debug("node split",
		"depth", depth,
		"region", region.String(),
		"moved", moved,
		"kept", kept,
	)
}

// LogSaturated logs that a node at maximum depth exceeded its capacity.
func (l *Logger) LogSaturated(depth int, region BBox, size int) {
	l.Debug("node at max depth over capacity",
		"depth", depth,
		"region", region.String(),
		"size", size,
	)
}

// LogClear logs a whole-container clear.
func (l *Logger) LogClear(discarded int) {
	l.Debug("cleared",
		"discarded", discarded,
	)
}
