package kmcgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with kmcgo-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRunID adds a run_id field to the logger (useful when archiving runs).
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", runID),
	}
}

// WithStep adds a step field to the logger.
func (l *Logger) WithStep(step uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("step", step),
	}
}

// WithSites adds a sites (lattice size) field to the logger.
func (l *Logger) WithSites(sites int) *Logger {
	return &Logger{
		Logger: l.Logger.With("sites", sites),
	}
}

// LogStep logs a single step operation.
func (l *Logger) LogStep(ctx context.Context, step uint64, simTime float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "step failed",
			"step", step,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "step completed",
			"step", step,
			"time", simTime,
		)
	}
}

// LogRun logs a run operation.
func (l *Logger) LogRun(ctx context.Context, steps uint64, simTime float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"steps", steps,
			"time", simTime,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "run completed",
			"steps", steps,
			"time", simTime,
		)
	}
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, filename string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"filename", filename,
		)
	}
}

// LogArchive logs an archive push operation.
func (l *Logger) LogArchive(ctx context.Context, runID string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "archive push failed",
			"run_id", runID,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "run archived",
			"run_id", runID,
		)
	}
}
