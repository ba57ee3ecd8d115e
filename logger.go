package kinoplan

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with planner-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRunID adds a run id field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithSeed adds a seed field to the logger.
func (l *Logger) WithSeed(seed int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("seed", seed),
	}
}

// WithSystem adds a system name field to the logger.
func (l *Logger) WithSystem(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("system", name),
	}
}

// LogRunStart logs the start of a planning run.
func (l *Logger) LogRunStart(ctx context.Context, iterations int, cfg Config) {
	l.InfoContext(ctx, "planning started",
		"iterations", iterations,
		"goal_radius", cfg.GoalRadius,
		"delta_near", cfg.DeltaNear,
		"delta_drain", cfg.DeltaDrain,
	)
}

// LogProgress logs periodic run progress.
func (l *Logger) LogProgress(ctx context.Context, iteration, nodes, witnesses int, cost float64, solved bool) {
	if solved {
		l.InfoContext(ctx, "planning progress",
			"iteration", iteration,
			"nodes", nodes,
			"witnesses", witnesses,
			"best_cost", cost,
		)
	} else {
		l.InfoContext(ctx, "planning progress",
			"iteration", iteration,
			"nodes", nodes,
			"witnesses", witnesses,
		)
	}
}

// LogImprovement logs a new best solution.
func (l *Logger) LogImprovement(ctx context.Context, iteration int, cost float64) {
	l.DebugContext(ctx, "solution improved",
		"iteration", iteration,
		"best_cost", cost,
	)
}

// LogRunComplete logs the end of a planning run.
func (l *Logger) LogRunComplete(ctx context.Context, stats RunStats, err error) {
	if err != nil {
		l.WarnContext(ctx, "planning stopped",
			"iterations", stats.Iterations,
			"nodes", stats.Nodes,
			"elapsed", stats.Elapsed.Round(time.Millisecond),
			"error", err,
		)
		return
	}
	if stats.Solved {
		l.InfoContext(ctx, "planning completed",
			"iterations", stats.Iterations,
			"nodes", stats.Nodes,
			"best_cost", stats.BestCost,
			"elapsed", stats.Elapsed.Round(time.Millisecond),
		)
	} else {
		l.InfoContext(ctx, "planning completed without solution",
			"iterations", stats.Iterations,
			"nodes", stats.Nodes,
			"elapsed", stats.Elapsed.Round(time.Millisecond),
		)
	}
}

// LogStepError logs a failed iteration.
func (l *Logger) LogStepError(ctx context.Context, iteration int, err error) {
	l.ErrorContext(ctx, "step failed",
		"iteration", iteration,
		"error", err,
	)
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
