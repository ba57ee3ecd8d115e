package sst

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/kinoplan/index"
	"github.com/hupe1980/kinoplan/index/flat"
	"github.com/hupe1980/kinoplan/tree"
	"github.com/hupe1980/kinoplan/witness"
)

var (
	// ErrUnknownNode is returned when a NodeID does not reference a live node.
	ErrUnknownNode = errors.New("sst: unknown node")

	// ErrInvalidTimeSteps is returned by Step for an empty or negative step
	// range, or a non-positive integration step.
	ErrInvalidTimeSteps = errors.New("sst: invalid time steps")

	// ErrInvalidDuration is returned by AddToTree for a negative or non-finite duration.
	ErrInvalidDuration = errors.New("sst: invalid duration")

	// ErrInvalidConfig is returned by New for a malformed configuration.
	ErrInvalidConfig = errors.New("sst: invalid config")
)

// Config holds the planning problem and the sparsification parameters.
type Config struct {
	// Start is the root state.
	Start []float64

	// Goal is the center of the goal region.
	Goal []float64

	// GoalRadius is the (exclusive) radius of the goal region.
	GoalRadius float64

	// DeltaNear bounds the distance to candidate parents.
	DeltaNear float64

	// DeltaDrain is the witness radius.
	DeltaDrain float64

	// Seed initializes the engine's random source.
	Seed int64
}

func (c Config) validate(stateDim int) error {
	if len(c.Start) != stateDim {
		return fmt.Errorf("%w: start state has dimension %d, want %d", ErrInvalidConfig, len(c.Start), stateDim)
	}
	if len(c.Goal) != stateDim {
		return fmt.Errorf("%w: goal state has dimension %d, want %d", ErrInvalidConfig, len(c.Goal), stateDim)
	}
	if !finite(c.Start...) || !finite(c.Goal...) {
		return fmt.Errorf("%w: start and goal must be finite", ErrInvalidConfig)
	}
	if !(c.GoalRadius > 0) || math.IsInf(c.GoalRadius, 0) {
		return fmt.Errorf("%w: goal radius must be positive, got %g", ErrInvalidConfig, c.GoalRadius)
	}
	if !(c.DeltaNear >= 0) || math.IsInf(c.DeltaNear, 0) {
		return fmt.Errorf("%w: delta_near must be non-negative, got %g", ErrInvalidConfig, c.DeltaNear)
	}
	if !(c.DeltaDrain >= 0) || math.IsInf(c.DeltaDrain, 0) {
		return fmt.Errorf("%w: delta_drain must be non-negative, got %g", ErrInvalidConfig, c.DeltaDrain)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type options struct {
	treeIndex    index.Factory[tree.NodeID]
	witnessIndex index.Factory[witness.ID]
}

func defaultOptions() options {
	return options{
		treeIndex:    flat.Factory[tree.NodeID](),
		witnessIndex: flat.Factory[witness.ID](),
	}
}

// Option configures an Engine.
type Option func(o *options)

// WithTreeIndex sets the proximity index over active tree nodes.
func WithTreeIndex(f index.Factory[tree.NodeID]) Option {
	return func(o *options) {
		o.treeIndex = f
	}
}

// WithWitnessIndex sets the proximity index over witness samples.
func WithWitnessIndex(f index.Factory[witness.ID]) Option {
	return func(o *options) {
		o.witnessIndex = f
	}
}

func checkTimeSteps(minSteps, maxSteps int, dt float64) error {
	if minSteps < 1 || maxSteps < minSteps {
		return fmt.Errorf("%w: step range [%d, %d]", ErrInvalidTimeSteps, minSteps, maxSteps)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: integration step %g", ErrInvalidTimeSteps, dt)
	}
	return nil
}
