package kinoplan

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/hupe1980/kinoplan/sst"
)

// MetricsCollector defines an interface for collecting planner metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordStep is called after each iteration with its outcome and latency.
	// err is non-nil when the iteration failed.
	RecordStep(outcome sst.Outcome, duration time.Duration, err error)

	// RecordTree is called after each iteration with the current tree size.
	RecordTree(nodes, activeNodes, witnesses int)

	// RecordImprovement is called whenever the best solution cost drops.
	RecordImprovement(cost float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStep(sst.Outcome, time.Duration, error) {}
func (NoopMetricsCollector) RecordTree(int, int, int)                     {}
func (NoopMetricsCollector) RecordImprovement(float64)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	StepCount       atomic.Int64
	StepErrors      atomic.Int64
	StepTotalNanos  atomic.Int64
	InfeasibleCount atomic.Int64
	RejectedCount   atomic.Int64
	InsertedCount   atomic.Int64
	ImprovedCount   atomic.Int64
	Nodes           atomic.Int64
	ActiveNodes     atomic.Int64
	Witnesses       atomic.Int64
	bestCostBits    atomic.Uint64
	hasBestCost     atomic.Bool
}

// RecordStep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStep(outcome sst.Outcome, duration time.Duration, err error) {
	b.StepCount.Add(1)
	b.StepTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.StepErrors.Add(1)
		return
	}
	switch outcome {
	case sst.OutcomeInfeasible:
		b.InfeasibleCount.Add(1)
	case sst.OutcomeRejected:
		b.RejectedCount.Add(1)
	case sst.OutcomeInserted:
		b.InsertedCount.Add(1)
	case sst.OutcomeImproved:
		b.InsertedCount.Add(1)
		b.ImprovedCount.Add(1)
	}
}

// RecordTree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTree(nodes, activeNodes, witnesses int) {
	b.Nodes.Store(int64(nodes))
	b.ActiveNodes.Store(int64(activeNodes))
	b.Witnesses.Store(int64(witnesses))
}

// RecordImprovement implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImprovement(cost float64) {
	b.bestCostBits.Store(math.Float64bits(cost))
	b.hasBestCost.Store(true)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		StepCount:       b.StepCount.Load(),
		StepErrors:      b.StepErrors.Load(),
		StepAvgNanos:    b.getAvgStepNanos(),
		InfeasibleCount: b.InfeasibleCount.Load(),
		RejectedCount:   b.RejectedCount.Load(),
		InsertedCount:   b.InsertedCount.Load(),
		ImprovedCount:   b.ImprovedCount.Load(),
		Nodes:           b.Nodes.Load(),
		ActiveNodes:     b.ActiveNodes.Load(),
		Witnesses:       b.Witnesses.Load(),
		BestCost:        math.Inf(1),
	}
	if b.hasBestCost.Load() {
		s.BestCost = math.Float64frombits(b.bestCostBits.Load())
	}
	return s
}

func (b *BasicMetricsCollector) getAvgStepNanos() int64 {
	count := b.StepCount.Load()
	if count == 0 {
		return 0
	}
	return b.StepTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
// BestCost is +Inf until a solution was found.
type BasicMetricsStats struct {
	StepCount       int64
	StepErrors      int64
	StepAvgNanos    int64
	InfeasibleCount int64
	RejectedCount   int64
	InsertedCount   int64
	ImprovedCount   int64
	Nodes           int64
	ActiveNodes     int64
	Witnesses       int64
	BestCost        float64
}
