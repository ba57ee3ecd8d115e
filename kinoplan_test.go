package kinoplan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/hupe1980/kinoplan/snapshot"
	"github.com/hupe1980/kinoplan/sst"
	"github.com/hupe1980/kinoplan/steer"
	"github.com/hupe1980/kinoplan/testutil"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Start = []float64{0}
	cfg.Goal = []float64{9}
	cfg.GoalRadius = 0.5
	cfg.Seed = 42
	cfg.MinTimeSteps = 5
	cfg.MaxTimeSteps = 50
	cfg.IntegrationStep = 0.1
	cfg.Iterations = 50
	return cfg
}

var errBoom = errors.New("boom")

type failingSystem struct {
	*testutil.Line
}

func (failingSystem) Propagate([]float64, []float64, int, float64) ([]float64, error) {
	return nil, errBoom
}

type steererFunc func(from, target []float64) (steer.Candidate, error)

func (f steererFunc) Steer(from, target []float64) (steer.Candidate, error) { return f(from, target) }

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p, err := New(testutil.NewLine(), testConfig())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.RunID())
		assert.Equal(t, 1, p.NumberOfNodes())
		assert.Equal(t, 1, p.NumberOfWitnesses())
		assert.Equal(t, 0, p.Iterations())
		assert.NotNil(t, p.Engine())

		_, ok := p.Solution()
		assert.False(t, ok)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		cfg := testConfig()
		cfg.DeltaNear = 0
		_, err := New(testutil.NewLine(), cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("DimensionAgainstSystem", func(t *testing.T) {
		cfg := testConfig()
		cfg.Start = []float64{0, 0}
		cfg.Goal = []float64{1, 1}
		_, err := New(testutil.NewLine(), cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("NilSystem", func(t *testing.T) {
		_, err := New(nil, testConfig())
		assert.Error(t, err)
	})
}

func TestPlanner_Step(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	p, err := New(testutil.NewLine(), testConfig(), WithMetricsCollector(metrics))
	require.NoError(t, err)

	for range 20 {
		_, err := p.Step()
		require.NoError(t, err)
	}

	stats := metrics.GetStats()
	assert.Equal(t, 20, p.Iterations())
	assert.Equal(t, int64(20), stats.StepCount)
	assert.Equal(t, int64(0), stats.StepErrors)
	assert.Equal(t, int64(p.NumberOfNodes()), stats.Nodes)
	assert.Equal(t, int64(p.NumberOfWitnesses()), stats.Witnesses)
	assert.Equal(t, int64(20), stats.InfeasibleCount+stats.RejectedCount+stats.InsertedCount)
}

func TestPlanner_Run(t *testing.T) {
	t.Run("Budget", func(t *testing.T) {
		p, err := New(testutil.NewLine(), testConfig())
		require.NoError(t, err)

		stats, err := p.Run(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 50, stats.Iterations)
		assert.Equal(t, 50, stats.Infeasible+stats.Rejected+stats.Inserted)
		assert.Equal(t, p.NumberOfNodes(), stats.Nodes)
		assert.Equal(t, p.NumberOfWitnesses(), stats.Witnesses)

		cost, ok := p.BestCost()
		assert.Equal(t, ok, stats.Solved)
		if ok {
			assert.Equal(t, cost, stats.BestCost)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, err := New(testutil.NewLine(), testConfig())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stats, err := p.Run(ctx, 10)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, stats.Iterations)
		assert.Equal(t, 1, stats.Nodes)
	})

	t.Run("StepError", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		p, err := New(failingSystem{testutil.NewLine()}, testConfig(), WithMetricsCollector(metrics))
		require.NoError(t, err)

		stats, err := p.Run(context.Background(), 10)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 1, stats.Iterations)
		assert.Equal(t, int64(1), metrics.GetStats().StepErrors)
	})

	t.Run("Infeasible", func(t *testing.T) {
		p, err := New(testutil.NewInfeasible(), testConfig())
		require.NoError(t, err)

		stats, err := p.Run(context.Background(), 25)
		require.NoError(t, err)
		assert.Equal(t, 25, stats.Infeasible)
		assert.Equal(t, 1, stats.Nodes)
		assert.False(t, stats.Solved)
	})

	t.Run("Deterministic", func(t *testing.T) {
		run := func() sst.Stats {
			p, err := New(testutil.NewLine(), testConfig())
			require.NoError(t, err)
			_, err = p.Run(context.Background(), 300)
			require.NoError(t, err)
			return p.Engine().Stats()
		}
		assert.Equal(t, run(), run())
	})
}

func TestPlanner_SteerStep(t *testing.T) {
	target := []float64{3}
	proposer := steer.ProposerFunc(func() []float64 { return target })

	t.Run("Inserted", func(t *testing.T) {
		p, err := New(testutil.NewLine(), testConfig())
		require.NoError(t, err)

		s := steererFunc(func(from, to []float64) (steer.Candidate, error) {
			assert.Equal(t, []float64{0}, from)
			assert.Equal(t, target, to)
			return steer.Candidate{State: []float64{1}, Control: []float64{1}, Duration: 1}, nil
		})

		out, err := p.SteerStep(proposer, s)
		require.NoError(t, err)
		assert.Equal(t, sst.OutcomeInserted, out)
		assert.Equal(t, 2, p.NumberOfNodes())
		assert.Equal(t, 1, p.Iterations())
	})

	t.Run("Infeasible", func(t *testing.T) {
		p, err := New(testutil.NewLine(), testConfig())
		require.NoError(t, err)

		s := steererFunc(func(_, _ []float64) (steer.Candidate, error) {
			return steer.Candidate{}, dynamics.ErrInfeasible
		})

		out, err := p.SteerStep(proposer, s)
		require.NoError(t, err)
		assert.Equal(t, sst.OutcomeInfeasible, out)
		assert.Equal(t, 1, p.NumberOfNodes())
	})

	t.Run("Error", func(t *testing.T) {
		p, err := New(testutil.NewLine(), testConfig())
		require.NoError(t, err)

		s := steererFunc(func(_, _ []float64) (steer.Candidate, error) {
			return steer.Candidate{}, errBoom
		})

		_, err = p.SteerStep(proposer, s)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("RandomShooting", func(t *testing.T) {
		sys := testutil.NewLine()
		p, err := New(sys, testConfig())
		require.NoError(t, err)

		shooter, err := steer.NewRandomShooting(sys, func(o *steer.ShootingOptions) { o.Seed = 7 })
		require.NoError(t, err)

		proposer := steer.NewUniform(sys, 3)
		for range 50 {
			_, err := p.SteerStep(proposer, shooter)
			require.NoError(t, err)
		}
		assert.Greater(t, p.NumberOfNodes(), 1)
		testutil.RequireValid(t, p.Engine())
	})
}

func TestPlanner_ManualInsert(t *testing.T) {
	p, err := New(testutil.NewLine(), testConfig())
	require.NoError(t, err)

	root, err := p.NearestVertex([]float64{0.1})
	require.NoError(t, err)
	assert.Equal(t, p.Engine().Root(), root)

	_, err = p.NearestVertex([]float64{0, 0})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 1, dm.Expected)
	assert.Equal(t, 2, dm.Actual)

	_, err = p.AddToTree([]float64{1}, []float64{1}, sst.NodeID(99999), 1)
	assert.ErrorIs(t, err, ErrUnknownNode)

	out, err := p.AddToTree([]float64{8.8}, []float64{1}, root, 8.8)
	require.NoError(t, err)
	assert.Equal(t, sst.OutcomeImproved, out)

	sol, ok := p.Solution()
	require.True(t, ok)
	assert.Equal(t, [][]float64{{0}, {8.8}}, sol.States)
	assert.InDelta(t, 8.8, sol.Cost, 1e-12)
}

func TestPlanner_Snapshot(t *testing.T) {
	p, err := New(testutil.NewLine(), testConfig())
	require.NoError(t, err)
	_, err = p.Run(context.Background(), 100)
	require.NoError(t, err)

	s := p.Snapshot()
	assert.Equal(t, p.RunID(), s.RunID)
	assert.Len(t, s.Nodes, p.NumberOfNodes())

	filename := filepath.Join(t.TempDir(), "tree.snap")
	require.NoError(t, p.SaveSnapshot(context.Background(), filename, snapshot.CompressionZSTD))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()

	got, err := snapshot.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, p.RunID(), got.RunID)
	assert.Len(t, got.Nodes, p.NumberOfNodes())
	assert.Len(t, got.Witnesses, p.NumberOfWitnesses())
}
