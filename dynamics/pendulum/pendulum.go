// Package pendulum implements a torque-driven damped pendulum.
//
// The angle is measured from the horizontal and wraps around [-pi, pi].
// Angular velocity is clamped to its bounds, so propagation never fails.
package pendulum

import (
	"math"

	"github.com/hupe1980/kinoplan/distance"
	"github.com/hupe1980/kinoplan/dynamics"
)

var _ dynamics.System = (*System)(nil)

// Options holds the physical parameters.
type Options struct {
	Mass      float64
	Length    float64
	Gravity   float64
	Damping   float64
	MaxOmega  float64
	MaxTorque float64
}

// DefaultOptions contains the default pendulum parameters.
var DefaultOptions = Options{
	Mass:      1,
	Length:    1,
	Gravity:   9.81,
	Damping:   0.05,
	MaxOmega:  7,
	MaxTorque: 1,
}

// System is the pendulum. State is (theta, omega); control is (torque).
type System struct {
	opts     Options
	state    []dynamics.Bounds
	control  []dynamics.Bounds
	circular []bool
	dist     distance.Func
}

// New creates a pendulum system.
func New(optFns ...func(o *Options)) *System {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	state := []dynamics.Bounds{
		{Min: -math.Pi, Max: math.Pi},
		{Min: -opts.MaxOmega, Max: opts.MaxOmega},
	}
	circular := []bool{true, false}

	return &System{
		opts:     opts,
		state:    state,
		control:  []dynamics.Bounds{{Min: -opts.MaxTorque, Max: opts.MaxTorque}},
		circular: circular,
		dist: distance.Wrapped(distance.Periods(circular,
			[]float64{state[0].Min, state[1].Min},
			[]float64{state[0].Max, state[1].Max},
		)),
	}
}

func (s *System) accel(theta, omega, torque float64) float64 {
	o := s.opts
	return (torque-o.Mass*o.Gravity*o.Length*math.Cos(theta)/2)*3/(o.Mass*o.Length*o.Length) - o.Damping*omega
}

// Propagate integrates with classic fourth-order Runge-Kutta steps.
func (s *System) Propagate(start, control []float64, numSteps int, dt float64) ([]float64, error) {
	theta, omega := start[0], start[1]
	u := control[0]

	for range numSteps {
		k1t, k1w := omega, s.accel(theta, omega, u)
		k2t, k2w := omega+dt/2*k1w, s.accel(theta+dt/2*k1t, omega+dt/2*k1w, u)
		k3t, k3w := omega+dt/2*k2w, s.accel(theta+dt/2*k2t, omega+dt/2*k2w, u)
		k4t, k4w := omega+dt*k3w, s.accel(theta+dt*k3t, omega+dt*k3w, u)

		theta += dt / 6 * (k1t + 2*k2t + 2*k3t + k4t)
		omega += dt / 6 * (k1w + 2*k2w + 2*k3w + k4w)

		theta = s.state[0].Wrap(theta)
		omega = s.state[1].Clamp(omega)
	}
	return []float64{theta, omega}, nil
}

// Distance measures the angle along the shorter arc.
func (s *System) Distance(a, b []float64) float64 { return s.dist(a, b) }

// StateBounds implements dynamics.System.
func (s *System) StateBounds() []dynamics.Bounds { return s.state }

// ControlBounds implements dynamics.System.
func (s *System) ControlBounds() []dynamics.Bounds { return s.control }

// CircularTopology implements dynamics.System.
func (s *System) CircularTopology() []bool { return s.circular }
