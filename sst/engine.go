// Package sst implements the Stable Sparse Tree kinodynamic planner.
//
// The Engine grows a tree of dynamically feasible trajectories from a start
// state. Two proximity indexes back it: one over active tree nodes and one
// over witness samples. A propagated state is only kept when it beats the
// current representative of its witness cell and the best known solution;
// every improvement of the best solution prunes leaves that can no longer
// beat it.
//
// An Engine is single threaded. Each Step or AddToTree call runs to
// completion and leaves the engine consistent.
package sst

import (
	"errors"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kinoplan/distance"
	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/hupe1980/kinoplan/index"
	"github.com/hupe1980/kinoplan/internal/rng"
	"github.com/hupe1980/kinoplan/tree"
	"github.com/hupe1980/kinoplan/witness"
)

// NodeID identifies a tree node.
type NodeID = tree.NodeID

type nodeMeta struct {
	active     bool
	handle     index.Handle // tree index entry, valid while active
	witness    witness.ID
	hasWitness bool
}

// Engine is the SST planner state.
type Engine struct {
	sys       dynamics.System
	cfg       Config
	metric    *distance.Metric
	stateDim  int
	ctrlDim   int
	stateBnds []dynamics.Bounds
	ctrlBnds  []dynamics.Bounds
	circular  []bool

	tree      *tree.Tree[nodeMeta]
	treeIdx   index.Index[tree.NodeID]
	witnesses *witness.Set
	rng       *rng.Source

	bestGoal tree.NodeID
	goalPath *roaring.Bitmap // slots from bestGoal up to, not including, the root

	stats Stats
}

// New creates an engine for sys rooted at cfg.Start.
func New(sys dynamics.System, cfg Config, optFns ...Option) (*Engine, error) {
	if err := dynamics.Validate(sys); err != nil {
		return nil, err
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	stateBnds := sys.StateBounds()
	if err := cfg.validate(len(stateBnds)); err != nil {
		return nil, err
	}

	metric, err := distance.NewMetric(sys.Distance, len(stateBnds))
	if err != nil {
		return nil, err
	}

	treeIdx, err := opts.treeIndex(metric.Dimension(), metric.Func())
	if err != nil {
		return nil, fmt.Errorf("sst: tree index: %w", err)
	}
	witnessIdx, err := opts.witnessIndex(metric.Dimension(), metric.Func())
	if err != nil {
		return nil, fmt.Errorf("sst: witness index: %w", err)
	}

	e := &Engine{
		sys:       sys,
		cfg:       cloneConfig(cfg),
		metric:    metric,
		stateDim:  len(stateBnds),
		ctrlDim:   len(sys.ControlBounds()),
		stateBnds: stateBnds,
		ctrlBnds:  sys.ControlBounds(),
		circular:  sys.CircularTopology(),
		treeIdx:   treeIdx,
		rng:       rng.New(cfg.Seed),
		goalPath:  roaring.New(),
	}

	e.tree = tree.New(e.cfg.Start, nodeMeta{})
	root := e.tree.Root()

	e.witnesses, err = witness.New(witnessIdx, cfg.DeltaDrain, e.cfg.Start, root)
	if err != nil {
		return nil, fmt.Errorf("sst: witness set: %w", err)
	}
	if err := e.activate(root, 0); err != nil {
		return nil, fmt.Errorf("sst: tree index: %w", err)
	}
	return e, nil
}

func cloneConfig(c Config) Config {
	c.Start = append([]float64(nil), c.Start...)
	c.Goal = append([]float64(nil), c.Goal...)
	return c
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return cloneConfig(e.cfg) }

// System returns the dynamics the engine plans for.
func (e *Engine) System() dynamics.System { return e.sys }

// Step runs one sample, propagate and insert iteration. The number of
// integration steps is drawn uniformly from [minSteps, maxSteps].
//
// An infeasible propagation yields OutcomeInfeasible and a nil error.
func (e *Engine) Step(minSteps, maxSteps int, dt float64) (Outcome, error) {
	if err := checkTimeSteps(minSteps, maxSteps, dt); err != nil {
		return OutcomeInfeasible, err
	}
	e.stats.Steps++

	sample := e.rng.SampleState(e.stateBnds, e.circular)
	control := e.rng.SampleControl(e.ctrlBnds)

	nearest, err := e.NearestVertex(sample)
	if err != nil {
		return OutcomeInfeasible, err
	}

	numSteps := e.rng.UniformInt(minSteps, maxSteps)
	duration := float64(numSteps) * dt

	end, err := e.sys.Propagate(e.tree.State(nearest), control, numSteps, dt)
	if err != nil {
		if errors.Is(err, dynamics.ErrInfeasible) {
			e.stats.Infeasible++
			return OutcomeInfeasible, nil
		}
		return OutcomeInfeasible, fmt.Errorf("sst: propagate: %w", err)
	}
	if err := index.CheckDimension(end, e.stateDim); err != nil {
		return OutcomeInfeasible, fmt.Errorf("sst: propagate: %w", err)
	}

	return e.insert(end, control, nearest, duration)
}

// NearestVertex returns the lowest-cost active node within delta_near of
// state. When no active node is that close it returns the closest one.
// Ties keep the node the tree index reports first.
func (e *Engine) NearestVertex(state []float64) (NodeID, error) {
	if err := index.CheckDimension(state, e.stateDim); err != nil {
		return tree.Nil, err
	}

	near, err := e.treeIdx.DeltaNear(state, e.cfg.DeltaNear)
	if err != nil {
		panic(fmt.Sprintf("sst: tree index delta-near query failed: %v", err))
	}
	if i := index.MinFunc(near, func(n index.Neighbor[tree.NodeID]) float64 {
		return e.tree.Cost(n.Payload)
	}); i >= 0 {
		return near[i].Payload, nil
	}

	// The root is never deactivated, so the index cannot be empty here.
	n, err := e.treeIdx.Nearest(state)
	if err != nil {
		panic(fmt.Sprintf("sst: tree index nearest query failed: %v", err))
	}
	return n.Payload, nil
}

// AddToTree offers a candidate reached from nearest by applying control for
// duration. It performs the same sparsification and pruning as Step.
func (e *Engine) AddToTree(state, control []float64, nearest NodeID, duration float64) (Outcome, error) {
	if !e.tree.Contains(nearest) {
		return OutcomeRejected, ErrUnknownNode
	}
	if err := index.CheckDimension(state, e.stateDim); err != nil {
		return OutcomeRejected, err
	}
	if len(control) != e.ctrlDim {
		return OutcomeRejected, &index.ErrDimensionMismatch{Expected: e.ctrlDim, Actual: len(control)}
	}
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return OutcomeRejected, fmt.Errorf("%w: %g", ErrInvalidDuration, duration)
	}
	return e.insert(state, control, nearest, duration)
}

// Root returns the root node.
func (e *Engine) Root() NodeID { return e.tree.Root() }

// NumberOfNodes returns the number of tree nodes, root included.
func (e *Engine) NumberOfNodes() int { return e.tree.Len() }

// NumberOfWitnesses returns the number of witness samples.
func (e *Engine) NumberOfWitnesses() int { return e.witnesses.Len() }

// BestGoal returns the best node inside the goal region, if any.
func (e *Engine) BestGoal() (NodeID, bool) {
	return e.bestGoal, !e.bestGoal.IsNil()
}

// BestCost returns the cost of the best solution, if any.
func (e *Engine) BestCost() (float64, bool) {
	if e.bestGoal.IsNil() {
		return 0, false
	}
	return e.tree.Cost(e.bestGoal), true
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Nodes = e.tree.Len()
	s.ActiveNodes = e.treeIdx.Len()
	s.Witnesses = e.witnesses.Len()
	return s
}
