package testutil

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/hupe1980/kinoplan/distance"
	"github.com/hupe1980/kinoplan/dynamics"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformStates generates num states drawn uniformly from bounds.
// Uses a single backing array for efficiency.
func (r *RNG) UniformStates(num int, bounds []dynamics.Bounds) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	dim := len(bounds)
	data := make([]float64, num*dim)
	states := make([][]float64, num)

	for i := range num {
		s := data[i*dim : (i+1)*dim]
		for j, b := range bounds {
			s[j] = b.Min + r.rand.Float64()*b.Span()
		}
		states[i] = s
	}

	return states
}

// ExactNearest returns the index of the point closest to query and its
// distance. Ties keep the lowest index. It returns -1 for an empty set.
func ExactNearest(query []float64, points [][]float64, fn distance.Func) (int, float64) {
	best, bestD := -1, math.Inf(1)
	for i, p := range points {
		if d := fn(query, p); d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}

// ExactWithin returns the indexes of every point within radius of query.
func ExactWithin(query []float64, points [][]float64, radius float64, fn distance.Func) []int {
	var out []int
	for i, p := range points {
		if fn(query, p) <= radius {
			out = append(out, i)
		}
	}
	return out
}

// Validator is implemented by structures that can check their own invariants.
type Validator interface {
	Validate() error
}

// RequireValid fails the test immediately when v reports a violation.
func RequireValid(tb testing.TB, v Validator) {
	tb.Helper()
	if err := v.Validate(); err != nil {
		tb.Fatalf("invariant check failed: %v", err)
	}
}
