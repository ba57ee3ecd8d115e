package steer

import (
	"testing"

	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/hupe1980/kinoplan/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniform(t *testing.T) {
	sys := testutil.NewLine()
	a, b := NewUniform(sys, 1), NewUniform(sys, 1)
	for range 100 {
		s := a.Propose()
		require.True(t, dynamics.InBounds(s, sys.StateBounds()))
		require.Equal(t, s, b.Propose())
	}
}

func TestGoalBias(t *testing.T) {
	base := ProposerFunc(func() []float64 { return []float64{-3} })

	t.Run("AlwaysGoal", func(t *testing.T) {
		g, err := NewGoalBias(base, []float64{5}, 1, 0)
		require.NoError(t, err)
		for range 20 {
			assert.Equal(t, []float64{5}, g.Propose())
		}
	})

	t.Run("NeverGoal", func(t *testing.T) {
		g, err := NewGoalBias(base, []float64{5}, 0, 0)
		require.NoError(t, err)
		for range 20 {
			assert.Equal(t, []float64{-3}, g.Propose())
		}
	})

	t.Run("Mixed", func(t *testing.T) {
		g, err := NewGoalBias(base, []float64{5}, 0.5, 7)
		require.NoError(t, err)
		goals := 0
		for range 1000 {
			if g.Propose()[0] == 5 {
				goals++
			}
		}
		assert.InDelta(t, 500, goals, 100)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := NewGoalBias(base, []float64{5}, 1.5, 0)
		assert.Error(t, err)
		_, err = NewGoalBias(nil, []float64{5}, 0.5, 0)
		assert.Error(t, err)
	})
}

func TestRandomShooting(t *testing.T) {
	sys := testutil.NewLine()
	s, err := NewRandomShooting(sys, func(o *ShootingOptions) {
		o.Rollouts = 32
		o.MinSteps = 1
		o.MaxSteps = 20
		o.IntegrationStep = 0.1
		o.Seed = 5
	})
	require.NoError(t, err)

	c, err := s.Steer([]float64{0}, []float64{1})
	require.NoError(t, err)
	require.Len(t, c.State, 1)
	require.Len(t, c.Control, 1)
	assert.Greater(t, c.Duration, 0.0)
	assert.Less(t, sys.Distance(c.State, []float64{1}), 1.0)

	// The reported segment must be reproducible from its control and duration.
	end, err := sys.Propagate([]float64{0}, c.Control, int(c.Duration/0.1+0.5), 0.1)
	require.NoError(t, err)
	assert.InDelta(t, end[0], c.State[0], 1e-9)
}

func TestRandomShooting_Infeasible(t *testing.T) {
	s, err := NewRandomShooting(testutil.NewInfeasible())
	require.NoError(t, err)

	_, err = s.Steer([]float64{0}, []float64{1})
	assert.ErrorIs(t, err, dynamics.ErrInfeasible)
}

func TestNewRandomShooting_Invalid(t *testing.T) {
	sys := testutil.NewLine()
	for _, fn := range []func(o *ShootingOptions){
		func(o *ShootingOptions) { o.Rollouts = 0 },
		func(o *ShootingOptions) { o.MinSteps = 0 },
		func(o *ShootingOptions) { o.MaxSteps = 1; o.MinSteps = 2 },
		func(o *ShootingOptions) { o.IntegrationStep = 0 },
	} {
		_, err := NewRandomShooting(sys, fn)
		assert.Error(t, err)
	}
	_, err := NewRandomShooting(nil)
	assert.Error(t, err)
}
