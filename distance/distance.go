package distance

import (
	"fmt"
	"math"
)

// Func is a function type for distance calculation between two states.
// Implementations must be symmetric and return a value >= 0.
type Func func(a, b []float64) float64

// Euclidean calculates the L2 distance between two states.
// Assumes states are the same length (caller's responsibility).
func Euclidean(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean(a, b))
}

// SquaredEuclidean calculates the squared L2 distance between two states.
// Assumes states are the same length (caller's responsibility).
func SquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Wrapped returns an L2 distance where dimension i wraps around with
// period periods[i]. A period <= 0 marks a linear dimension.
func Wrapped(periods []float64) Func {
	p := append([]float64(nil), periods...)
	return func(a, b []float64) float64 {
		var sum float64
		for i := range a {
			d := math.Abs(a[i] - b[i])
			if i < len(p) && p[i] > 0 {
				d = math.Mod(d, p[i])
				if d > p[i]/2 {
					d = p[i] - d
				}
			}
			sum += d * d
		}
		return math.Sqrt(sum)
	}
}

// Periods derives wraparound periods from per-dimension bounds.
// Circular dimensions get max-min, linear ones get 0.
func Periods(circular []bool, lo, hi []float64) []float64 {
	out := make([]float64, len(circular))
	for i, c := range circular {
		if c && i < len(lo) && i < len(hi) {
			out[i] = hi[i] - lo[i]
		}
	}
	return out
}

// Metric binds a distance function to a fixed state dimension.
type Metric struct {
	fn  Func
	dim int
}

// NewMetric wraps fn for states of the given dimension.
func NewMetric(fn Func, dim int) (*Metric, error) {
	if fn == nil {
		return nil, fmt.Errorf("distance: nil distance function")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("distance: invalid dimension: %d", dim)
	}
	return &Metric{fn: fn, dim: dim}, nil
}

// Dimension returns the state dimension.
func (m *Metric) Dimension() int { return m.dim }

// Func returns the underlying distance function.
func (m *Metric) Func() Func { return m.fn }

// Distance returns the distance between a and b.
func (m *Metric) Distance(a, b []float64) float64 {
	return m.fn(a, b)
}

// Within reports whether a and b are strictly closer than radius.
func (m *Metric) Within(a, b []float64, radius float64) bool {
	return m.fn(a, b) < radius
}

// Check returns an error if v does not have the metric's dimension.
func (m *Metric) Check(v []float64) error {
	if len(v) != m.dim {
		return fmt.Errorf("distance: dimension mismatch: expected %d, got %d", m.dim, len(v))
	}
	return nil
}
