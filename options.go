package kinoplan

import (
	"log/slog"
	"time"

	"github.com/hupe1980/kinoplan/index"
	"github.com/hupe1980/kinoplan/sst"
	"github.com/hupe1980/kinoplan/tree"
	"github.com/hupe1980/kinoplan/witness"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	progressInterval time.Duration
	engineOptions    []sst.Option
}

// Option configures Planner construction.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kinoplan.BasicMetricsCollector{}
//	p, _ := kinoplan.New(sys, cfg, kinoplan.WithMetricsCollector(metrics))
//	// ... p.Run(ctx, 1000) ...
//	stats := metrics.GetStats()
//	fmt.Printf("Steps: %d, Avg latency: %dns\n", stats.StepCount, stats.StepAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kinoplan.NewJSONLogger(slog.LevelInfo)
//	p, _ := kinoplan.New(sys, cfg, kinoplan.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithProgressInterval sets the minimum time between progress log lines
// emitted by Run. Zero disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

// WithTreeIndex replaces the proximity index over active tree nodes.
func WithTreeIndex(f index.Factory[tree.NodeID]) Option {
	return func(o *options) {
		o.engineOptions = append(o.engineOptions, sst.WithTreeIndex(f))
	}
}

// WithWitnessIndex replaces the proximity index over witness samples.
func WithWitnessIndex(f index.Factory[witness.ID]) Option {
	return func(o *options) {
		o.engineOptions = append(o.engineOptions, sst.WithWitnessIndex(f))
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		progressInterval: 5 * time.Second,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
