package tspcache

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with tspcache-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSource adds the coordinate source name.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// WithCities adds a city count field.
func (l *Logger) WithCities(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("cities", n),
	}
}

// LogReserve logs the creation of the memory reservation.
func (l *Logger) LogReserve(ctx context.Context, requested, mapped int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reservation failed",
			"requested", requested,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reservation mapped",
			"requested", requested,
			"mapped", mapped,
		)
	}
}

// LogSkippedRecord logs a coordinate line that was ignored.
func (l *Logger) LogSkippedRecord(ctx context.Context, source string, line int, reason string) {
	l.WarnContext(ctx, "skipped coordinate record",
		"source", source,
		"line", line,
		"reason", reason,
	)
}

// LogLoad logs a completed or failed coordinate load.
func (l *Logger) LogLoad(ctx context.Context, info LoadInfo, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"source", info.Source,
			"error", err,
		)
		return
	}
	if info.Skipped > 0 {
		l.WarnContext(ctx, "load completed with skipped records",
			"source", info.Source,
			"cities", info.Cities,
			"skipped", info.Skipped,
			"matrix_bytes", info.MatrixBytes,
			"duration", info.Duration,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"source", info.Source,
			"cities", info.Cities,
			"matrix_bytes", info.MatrixBytes,
			"duration", info.Duration,
		)
	}
}

// LogCacheFull logs a fragment that could not be memoized.
func (l *Logger) LogCacheFull(ctx context.Context, length int, err error) {
	l.WarnContext(ctx, "fragment not cached",
		"length", length,
		"error", err,
	)
}

// LogClose logs the teardown of a Context.
func (l *Logger) LogClose(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "context closed")
	}
}
