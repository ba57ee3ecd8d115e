package sst

import (
	"iter"
	"slices"

	"github.com/hupe1980/kinoplan/witness"
)

// Solution is the path from the root to the best goal.
// States has one more entry than Controls and Costs.
type Solution struct {
	States   [][]float64 `json:"states"`
	Controls [][]float64 `json:"controls"`
	Costs    []float64   `json:"costs"` // per-segment durations
	Cost     float64     `json:"cost"`
}

// Solution returns the current best path. It reports false until a node has
// reached the goal region.
func (e *Engine) Solution() (Solution, bool) {
	if e.bestGoal.IsNil() {
		return Solution{}, false
	}

	path := e.tree.Path(e.bestGoal)
	sol := Solution{
		States:   make([][]float64, 0, len(path)),
		Controls: make([][]float64, 0, len(path)-1),
		Costs:    make([]float64, 0, len(path)-1),
		Cost:     e.tree.Cost(e.bestGoal),
	}
	for _, id := range path {
		sol.States = append(sol.States, slices.Clone(e.tree.State(id)))
		if edge, ok := e.tree.Edge(id); ok {
			sol.Controls = append(sol.Controls, slices.Clone(edge.Control))
			sol.Costs = append(sol.Costs, edge.Duration)
		}
	}
	return sol, true
}

// NodeView is a read-only copy of one tree node.
type NodeView struct {
	ID         NodeID
	Parent     NodeID // tree.Nil for the root
	State      []float64
	Control    []float64 // nil for the root
	Duration   float64
	Cost       float64
	Active     bool
	Witness    witness.ID
	HasWitness bool
}

// Node returns a view of id.
func (e *Engine) Node(id NodeID) (NodeView, bool) {
	m := e.tree.Meta(id)
	if m == nil {
		return NodeView{}, false
	}
	v := NodeView{
		ID:         id,
		State:      slices.Clone(e.tree.State(id)),
		Cost:       e.tree.Cost(id),
		Active:     m.active,
		Witness:    m.witness,
		HasWitness: m.hasWitness,
	}
	if p, ok := e.tree.Parent(id); ok {
		v.Parent = p
	}
	if edge, ok := e.tree.Edge(id); ok {
		v.Control = slices.Clone(edge.Control)
		v.Duration = edge.Duration
	}
	return v, true
}

// Nodes iterates the tree from the root, parents before children.
// The engine must not be mutated during iteration.
func (e *Engine) Nodes() iter.Seq[NodeView] {
	return func(yield func(NodeView) bool) {
		for id := range e.tree.PreOrder(e.tree.Root()) {
			v, _ := e.Node(id)
			if !yield(v) {
				return
			}
		}
	}
}

// Children returns the children of id.
func (e *Engine) Children(id NodeID) []NodeID { return e.tree.Children(id) }

// Witnesses iterates witness samples in creation order.
func (e *Engine) Witnesses() iter.Seq[witness.Sample] {
	return func(yield func(witness.Sample) bool) {
		for w := range e.witnesses.All() {
			w.State = slices.Clone(w.State)
			if !yield(w) {
				return
			}
		}
	}
}
