package kinoplan

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/kinoplan/sst"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	stats := m.GetStats()
	assert.Equal(t, int64(0), stats.StepAvgNanos)
	assert.True(t, math.IsInf(stats.BestCost, 1))

	m.RecordStep(sst.OutcomeInfeasible, 10*time.Nanosecond, nil)
	m.RecordStep(sst.OutcomeRejected, 20*time.Nanosecond, nil)
	m.RecordStep(sst.OutcomeInserted, 30*time.Nanosecond, nil)
	m.RecordStep(sst.OutcomeImproved, 40*time.Nanosecond, nil)
	m.RecordStep(sst.OutcomeInfeasible, 50*time.Nanosecond, errors.New("fail"))
	m.RecordTree(12, 9, 4)
	m.RecordImprovement(3.5)

	stats = m.GetStats()
	assert.Equal(t, int64(5), stats.StepCount)
	assert.Equal(t, int64(1), stats.StepErrors)
	assert.Equal(t, int64(30), stats.StepAvgNanos)
	assert.Equal(t, int64(1), stats.InfeasibleCount)
	assert.Equal(t, int64(1), stats.RejectedCount)
	assert.Equal(t, int64(2), stats.InsertedCount)
	assert.Equal(t, int64(1), stats.ImprovedCount)
	assert.Equal(t, int64(12), stats.Nodes)
	assert.Equal(t, int64(9), stats.ActiveNodes)
	assert.Equal(t, int64(4), stats.Witnesses)
	assert.Equal(t, 3.5, stats.BestCost)
}

func TestNoopMetricsCollector(t *testing.T) {
	var m MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		m.RecordStep(sst.OutcomeInserted, time.Millisecond, nil)
		m.RecordTree(1, 1, 1)
		m.RecordImprovement(1)
	})
}

func TestWithMetricsCollector_Nil(t *testing.T) {
	o := applyOptions([]Option{WithMetricsCollector(nil), WithLogger(nil)})
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
	assert.NotNil(t, o.logger)
}
