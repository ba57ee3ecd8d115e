// Package steer defines the optional proposal and steering collaborators.
//
// A Proposer picks a target state; a Steerer tries to drive the system from
// a tree node toward that target and reports the resulting Candidate. The
// planner then offers the candidate to the engine, which applies the usual
// sparsification and pruning.
package steer

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/hupe1980/kinoplan/internal/rng"
)

// Candidate is a trajectory segment proposed for insertion.
type Candidate struct {
	State    []float64
	Control  []float64
	Duration float64
}

// Proposer returns target states.
type Proposer interface {
	Propose() []float64
}

// Steerer connects a start state toward a target. It returns
// dynamics.ErrInfeasible when no valid segment was found.
type Steerer interface {
	Steer(from, target []float64) (Candidate, error)
}

// ProposerFunc adapts a function to Proposer.
type ProposerFunc func() []float64

// Propose implements Proposer.
func (f ProposerFunc) Propose() []float64 { return f() }

// Uniform draws targets uniformly from the state space.
type Uniform struct {
	bounds   []dynamics.Bounds
	circular []bool
	src      *rng.Source
}

// NewUniform returns a Uniform proposer over sys's state space.
func NewUniform(sys dynamics.System, seed int64) *Uniform {
	return &Uniform{
		bounds:   sys.StateBounds(),
		circular: sys.CircularTopology(),
		src:      rng.New(seed),
	}
}

// Propose implements Proposer.
func (u *Uniform) Propose() []float64 {
	return u.src.SampleState(u.bounds, u.circular)
}

// GoalBias returns the goal with probability Bias and defers to Base otherwise.
type GoalBias struct {
	base Proposer
	goal []float64
	bias float64
	src  *rng.Source
}

// NewGoalBias returns a GoalBias proposer. bias must lie in [0, 1].
func NewGoalBias(base Proposer, goal []float64, bias float64, seed int64) (*GoalBias, error) {
	if base == nil {
		return nil, errors.New("steer: nil base proposer")
	}
	if !(bias >= 0 && bias <= 1) {
		return nil, fmt.Errorf("steer: goal bias %g outside [0, 1]", bias)
	}
	return &GoalBias{
		base: base,
		goal: append([]float64(nil), goal...),
		bias: bias,
		src:  rng.New(seed),
	}, nil
}

// Propose implements Proposer.
func (g *GoalBias) Propose() []float64 {
	if g.src.Float64() < g.bias {
		return append([]float64(nil), g.goal...)
	}
	return g.base.Propose()
}

// ShootingOptions configures RandomShooting.
type ShootingOptions struct {
	// Rollouts is the number of random constant-control rollouts per call.
	Rollouts int

	// MinSteps and MaxSteps bound the integration steps of each rollout.
	MinSteps int
	MaxSteps int

	// IntegrationStep is the integration step length.
	IntegrationStep float64

	// Seed initializes the steerer's random source.
	Seed int64
}

// DefaultShootingOptions contains the default configuration for RandomShooting.
var DefaultShootingOptions = ShootingOptions{
	Rollouts:        8,
	MinSteps:        10,
	MaxSteps:        50,
	IntegrationStep: 0.02,
}

// RandomShooting steers by sampling constant controls and keeping the
// feasible rollout that ends closest to the target.
type RandomShooting struct {
	sys  dynamics.System
	opts ShootingOptions
	src  *rng.Source
}

// NewRandomShooting creates a RandomShooting steerer for sys.
func NewRandomShooting(sys dynamics.System, optFns ...func(o *ShootingOptions)) (*RandomShooting, error) {
	opts := DefaultShootingOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if sys == nil {
		return nil, errors.New("steer: nil system")
	}
	if opts.Rollouts <= 0 {
		return nil, fmt.Errorf("steer: rollouts must be positive, got %d", opts.Rollouts)
	}
	if opts.MinSteps < 1 || opts.MaxSteps < opts.MinSteps {
		return nil, fmt.Errorf("steer: invalid step range [%d, %d]", opts.MinSteps, opts.MaxSteps)
	}
	if !(opts.IntegrationStep > 0) {
		return nil, fmt.Errorf("steer: invalid integration step %g", opts.IntegrationStep)
	}

	return &RandomShooting{sys: sys, opts: opts, src: rng.New(opts.Seed)}, nil
}

// Steer implements Steerer.
func (r *RandomShooting) Steer(from, target []float64) (Candidate, error) {
	var (
		best  Candidate
		bestD = math.Inf(1)
	)
	for range r.opts.Rollouts {
		control := r.src.SampleControl(r.sys.ControlBounds())
		n := r.src.UniformInt(r.opts.MinSteps, r.opts.MaxSteps)

		end, err := r.sys.Propagate(from, control, n, r.opts.IntegrationStep)
		if err != nil {
			if errors.Is(err, dynamics.ErrInfeasible) {
				continue
			}
			return Candidate{}, err
		}
		if d := r.sys.Distance(end, target); d < bestD {
			bestD = d
			best = Candidate{State: end, Control: control, Duration: float64(n) * r.opts.IntegrationStep}
		}
	}
	if math.IsInf(bestD, 1) {
		return Candidate{}, dynamics.ErrInfeasible
	}
	return best, nil
}
