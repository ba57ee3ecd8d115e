package testutil

import (
	"testing"

	"github.com/hupe1980/kinoplan/distance"
	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformStates(t *testing.T) {
	rng := NewRNG(4711)
	bounds := []dynamics.Bounds{{Min: -1, Max: 1}, {Min: 5, Max: 6}}

	v := rng.UniformStates(8, bounds)

	assert.Equal(t, 8, len(v))
	for _, s := range v {
		require.Len(t, s, 2)
		assert.True(t, dynamics.InBounds(s, bounds))
	}
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestExactNearest(t *testing.T) {
	points := [][]float64{{0}, {3}, {-3}}

	i, d := ExactNearest([]float64{2}, points, distance.Euclidean)
	assert.Equal(t, 1, i)
	assert.InDelta(t, 1.0, d, 1e-12)

	i, _ = ExactNearest([]float64{0}, [][]float64{{1}, {-1}}, distance.Euclidean)
	assert.Equal(t, 0, i)

	i, _ = ExactNearest([]float64{0}, nil, distance.Euclidean)
	assert.Equal(t, -1, i)

	assert.Equal(t, []int{0, 1}, ExactWithin([]float64{1.5}, points, 1.5, distance.Euclidean))
}

func TestLine(t *testing.T) {
	l := NewLine()
	require.NoError(t, dynamics.Validate(l))

	end, err := l.Propagate([]float64{0}, []float64{1}, 10, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, end[0], 1e-12)

	end, err = l.Propagate([]float64{9}, []float64{1}, 100, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, end[0], "clamped to bounds")

	assert.Equal(t, 2.0, l.Distance([]float64{-1}, []float64{1}))
	assert.Equal(t, int64(2), l.Calls())
}

func TestInfeasible(t *testing.T) {
	sys := NewInfeasible()
	require.NoError(t, dynamics.Validate(sys))

	_, err := sys.Propagate([]float64{0}, []float64{1}, 1, 1)
	assert.ErrorIs(t, err, dynamics.ErrInfeasible)
}

func TestScripted(t *testing.T) {
	sys := NewScripted(NewLine(), []float64{4}, nil)

	end, err := sys.Propagate([]float64{0}, []float64{0}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, end)

	_, err = sys.Propagate([]float64{0}, []float64{0}, 1, 1)
	assert.ErrorIs(t, err, dynamics.ErrInfeasible)

	end, err = sys.Propagate([]float64{0}, []float64{1}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, end, "falls back to the wrapped system")
}

type validatorFunc func() error

func (f validatorFunc) Validate() error { return f() }

func TestRequireValid(t *testing.T) {
	RequireValid(t, validatorFunc(func() error { return nil }))
}
