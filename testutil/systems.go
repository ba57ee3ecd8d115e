package testutil

import (
	"math"
	"sync/atomic"

	"github.com/hupe1980/kinoplan/dynamics"
)

var (
	_ dynamics.System = (*Line)(nil)
	_ dynamics.System = Infeasible{}
	_ dynamics.System = (*Scripted)(nil)
)

// Line is a 1-D integrator: propagate(s, u, n, dt) = s + u*n*dt clamped to
// the state bounds, with distance |a-b|.
type Line struct {
	State   dynamics.Bounds
	Control dynamics.Bounds

	calls atomic.Int64
}

// NewLine returns a Line over [-10, 10] with controls in [-1, 1].
func NewLine() *Line {
	return &Line{
		State:   dynamics.Bounds{Min: -10, Max: 10},
		Control: dynamics.Bounds{Min: -1, Max: 1},
	}
}

// Propagate implements dynamics.System.
func (l *Line) Propagate(start, control []float64, numSteps int, dt float64) ([]float64, error) {
	l.calls.Add(1)
	return []float64{l.State.Clamp(start[0] + control[0]*float64(numSteps)*dt)}, nil
}

// Distance implements dynamics.System.
func (*Line) Distance(a, b []float64) float64 { return math.Abs(a[0] - b[0]) }

// StateBounds implements dynamics.System.
func (l *Line) StateBounds() []dynamics.Bounds { return []dynamics.Bounds{l.State} }

// ControlBounds implements dynamics.System.
func (l *Line) ControlBounds() []dynamics.Bounds { return []dynamics.Bounds{l.Control} }

// CircularTopology implements dynamics.System.
func (*Line) CircularTopology() []bool { return []bool{false} }

// Calls returns the number of Propagate calls so far.
func (l *Line) Calls() int64 { return l.calls.Load() }

// Infeasible wraps a System and fails every propagation.
type Infeasible struct {
	dynamics.System
}

// NewInfeasible returns an Infeasible over a default Line.
func NewInfeasible() Infeasible { return Infeasible{System: NewLine()} }

// Propagate always returns dynamics.ErrInfeasible.
func (Infeasible) Propagate([]float64, []float64, int, float64) ([]float64, error) {
	return nil, dynamics.ErrInfeasible
}

// Scripted wraps a System and returns a fixed sequence of end states,
// ignoring the inputs. A nil entry is reported as infeasible. Once the script
// is exhausted it delegates to the wrapped System.
type Scripted struct {
	dynamics.System

	ends [][]float64
	next int
}

// NewScripted returns a Scripted replaying ends over sys.
func NewScripted(sys dynamics.System, ends ...[]float64) *Scripted {
	return &Scripted{System: sys, ends: ends}
}

// Propagate implements dynamics.System.
func (s *Scripted) Propagate(start, control []float64, numSteps int, dt float64) ([]float64, error) {
	if s.next >= len(s.ends) {
		return s.System.Propagate(start, control, numSteps, dt)
	}
	end := s.ends[s.next]
	s.next++
	if end == nil {
		return nil, dynamics.ErrInfeasible
	}
	return append([]float64(nil), end...), nil
}
