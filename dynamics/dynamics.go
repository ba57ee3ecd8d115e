// Package dynamics defines the contract between the planner and a dynamical
// system.
//
// A System integrates equations of motion, checks validity (obstacles and
// bounds), and measures distance between states. The planner consumes it only
// through this interface; concrete systems live in subpackages (point,
// pendulum) or in caller code.
package dynamics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInfeasible signals that a propagation left the valid state space
// (collision or out of bounds). It is an expected, frequent outcome.
var ErrInfeasible = errors.New("dynamics: infeasible propagation")

// Bounds is a closed [Min, Max] interval for one dimension.
type Bounds struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Span returns Max - Min.
func (b Bounds) Span() float64 { return b.Max - b.Min }

// Contains reports whether v lies in the interval.
func (b Bounds) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// Clamp limits v to the interval.
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.Min, math.Min(b.Max, v))
}

// Wrap maps v into the interval treating it as circular.
func (b Bounds) Wrap(v float64) float64 {
	span := b.Span()
	if span <= 0 {
		return b.Min
	}
	r := math.Mod(v-b.Min, span)
	if r < 0 {
		r += span
	}
	return b.Min + r
}

// System is the dynamics collaborator consumed by the planner.
type System interface {
	// Propagate applies control for numSteps integration steps of length dt
	// starting at start. It returns the end state, or ErrInfeasible.
	// Implementations must not modify start or control and must be
	// deterministic for identical inputs.
	Propagate(start, control []float64, numSteps int, dt float64) ([]float64, error)

	// Distance measures two states, honoring circular dimensions.
	Distance(a, b []float64) float64

	// StateBounds returns one interval per state dimension.
	StateBounds() []Bounds

	// ControlBounds returns one interval per control dimension.
	ControlBounds() []Bounds

	// CircularTopology flags state dimensions that wrap around their bounds.
	CircularTopology() []bool
}

// Validate checks that sys describes a consistent state and control space.
func Validate(sys System) error {
	if sys == nil {
		return errors.New("dynamics: nil system")
	}

	sb := sys.StateBounds()
	if len(sb) == 0 {
		return errors.New("dynamics: empty state bounds")
	}
	cb := sys.ControlBounds()
	if len(cb) == 0 {
		return errors.New("dynamics: empty control bounds")
	}
	if ct := sys.CircularTopology(); len(ct) != len(sb) {
		return fmt.Errorf("dynamics: state and topology arrays have to be equal size: %d != %d", len(sb), len(ct))
	}

	if err := validateBounds("state", sb); err != nil {
		return err
	}
	return validateBounds("control", cb)
}

func validateBounds(kind string, bs []Bounds) error {
	for i, b := range bs {
		if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
			return fmt.Errorf("dynamics: %s bound %d is not finite", kind, i)
		}
		if b.Min > b.Max {
			return fmt.Errorf("dynamics: %s bound %d has min %g > max %g", kind, i, b.Min, b.Max)
		}
	}
	return nil
}

// StateDimension returns len(sys.StateBounds()).
func StateDimension(sys System) int { return len(sys.StateBounds()) }

// ControlDimension returns len(sys.ControlBounds()).
func ControlDimension(sys System) int { return len(sys.ControlBounds()) }

// InBounds reports whether every coordinate of state lies inside bounds.
func InBounds(state []float64, bounds []Bounds) bool {
	for i, b := range bounds {
		if !b.Contains(state[i]) {
			return false
		}
	}
	return true
}

// Normalize wraps circular dimensions and clamps linear ones in place.
func Normalize(state []float64, bounds []Bounds, circular []bool) {
	for i, b := range bounds {
		if i < len(circular) && circular[i] {
			state[i] = b.Wrap(state[i])
		} else {
			state[i] = b.Clamp(state[i])
		}
	}
}
