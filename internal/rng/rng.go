// Package rng provides the per-planner random source.
//
// A Source is owned by exactly one engine and is never shared, so it carries
// no lock. Its sequence depends only on the seed and on the order of calls.
package rng

import (
	"math/rand"

	"github.com/hupe1980/kinoplan/dynamics"
)

// Source is a seeded pseudo-random generator.
type Source struct {
	rand *rand.Rand
	seed int64
}

// New creates a Source seeded with seed.
func New(seed int64) *Source {
	return &Source{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (s *Source) Seed() int64 { return s.seed }

// Reset rewinds the source to its initial seed.
func (s *Source) Reset() { s.rand.Seed(s.seed) }

// Float64 returns a number in [0.0, 1.0).
func (s *Source) Float64() float64 { return s.rand.Float64() }

// UniformReal returns a number in [lo, hi).
func (s *Source) UniformReal(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rand.Float64()
}

// UniformInt returns an integer in [lo, hi], both ends inclusive.
// It returns lo when hi <= lo.
func (s *Source) UniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rand.Intn(hi-lo+1)
}

// SampleState draws a state uniformly from bounds. Circular dimensions are
// wrapped back into their interval.
func (s *Source) SampleState(bounds []dynamics.Bounds, circular []bool) []float64 {
	out := make([]float64, len(bounds))
	s.FillState(out, bounds, circular)
	return out
}

// FillState is SampleState writing into dst.
func (s *Source) FillState(dst []float64, bounds []dynamics.Bounds, circular []bool) {
	for i, b := range bounds {
		v := s.UniformReal(b.Min, b.Max)
		if i < len(circular) && circular[i] {
			v = b.Wrap(v)
		}
		dst[i] = v
	}
}

// SampleControl draws a control uniformly from bounds.
func (s *Source) SampleControl(bounds []dynamics.Bounds) []float64 {
	out := make([]float64, len(bounds))
	for i, b := range bounds {
		out[i] = s.UniformReal(b.Min, b.Max)
	}
	return out
}
