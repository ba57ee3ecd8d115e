// Package point implements a planar point robot with speed and heading
// controls moving among axis-aligned rectangular obstacles.
package point

import (
	"math"

	"github.com/hupe1980/kinoplan/distance"
	"github.com/hupe1980/kinoplan/dynamics"
)

var _ dynamics.System = (*System)(nil)

// Rect is an axis-aligned obstacle.
type Rect struct {
	MinX float64 `yaml:"min_x" json:"min_x"`
	MinY float64 `yaml:"min_y" json:"min_y"`
	MaxX float64 `yaml:"max_x" json:"max_x"`
	MaxY float64 `yaml:"max_y" json:"max_y"`
}

// Contains reports whether (x, y) lies inside r, borders included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Options configures the point system.
type Options struct {
	// Extent bounds both coordinates to [-Extent, Extent].
	Extent float64

	// MaxSpeed bounds the speed control to [0, MaxSpeed].
	MaxSpeed float64

	// Obstacles are the rectangles the point may not enter.
	Obstacles []Rect
}

// DefaultOptions contains the default configuration for the point system.
var DefaultOptions = Options{
	Extent:   10,
	MaxSpeed: 10,
}

// System is the point robot. State is (x, y); control is (speed, heading).
type System struct {
	opts    Options
	state   []dynamics.Bounds
	control []dynamics.Bounds
}

// New creates a point system.
func New(optFns ...func(o *Options)) *System {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Obstacles = append([]Rect(nil), opts.Obstacles...)

	return &System{
		opts: opts,
		state: []dynamics.Bounds{
			{Min: -opts.Extent, Max: opts.Extent},
			{Min: -opts.Extent, Max: opts.Extent},
		},
		control: []dynamics.Bounds{
			{Min: 0, Max: opts.MaxSpeed},
			{Min: -math.Pi, Max: math.Pi},
		},
	}
}

// Valid reports whether (x, y) is inside the workspace and outside every obstacle.
func (s *System) Valid(x, y float64) bool {
	if !s.state[0].Contains(x) || !s.state[1].Contains(y) {
		return false
	}
	for _, r := range s.opts.Obstacles {
		if r.Contains(x, y) {
			return false
		}
	}
	return true
}

// Propagate integrates with explicit Euler steps and checks validity after
// every step.
func (s *System) Propagate(start, control []float64, numSteps int, dt float64) ([]float64, error) {
	x, y := start[0], start[1]
	vx := control[0] * math.Cos(control[1])
	vy := control[0] * math.Sin(control[1])

	for range numSteps {
		x += vx * dt
		y += vy * dt
		if !s.Valid(x, y) {
			return nil, dynamics.ErrInfeasible
		}
	}
	return []float64{x, y}, nil
}

// Distance implements dynamics.System.
func (*System) Distance(a, b []float64) float64 { return distance.Euclidean(a, b) }

// StateBounds implements dynamics.System.
func (s *System) StateBounds() []dynamics.Bounds { return s.state }

// ControlBounds implements dynamics.System.
func (s *System) ControlBounds() []dynamics.Bounds { return s.control }

// CircularTopology implements dynamics.System.
func (*System) CircularTopology() []bool { return []bool{false, false} }

// Obstacles returns the configured obstacles.
func (s *System) Obstacles() []Rect { return s.opts.Obstacles }
