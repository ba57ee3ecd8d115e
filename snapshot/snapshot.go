// Package snapshot captures the planner tree for offline inspection and
// visualization.
//
// A Snapshot holds every node, edge and witness plus the current solution.
// Encode writes it in a small self-describing container: a header naming the
// codec and the block compression, followed by one compressed block.
package snapshot

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/kinoplan/sst"
)

// NoWitness marks a node that never represented a witness.
const NoWitness = -1

// Node is one tree node. Parent is 0 for the root.
type Node struct {
	ID         uint64    `json:"id"`
	Parent     uint64    `json:"parent,omitempty"`
	State      []float64 `json:"state"`
	Control    []float64 `json:"control,omitempty"`
	Duration   float64   `json:"duration,omitempty"`
	Cost       float64   `json:"cost"`
	Active     bool      `json:"active"`
	Witness    int64     `json:"witness"`
	OnSolution bool      `json:"on_solution,omitempty"`
}

// Witness is one witness sample. Representative is 0 when unset.
type Witness struct {
	ID             uint32    `json:"id"`
	State          []float64 `json:"state"`
	Representative uint64    `json:"representative,omitempty"`
}

// Snapshot is a point-in-time copy of an engine.
type Snapshot struct {
	RunID      uuid.UUID     `json:"run_id"`
	CreatedAt  time.Time     `json:"created_at"`
	Seed       int64         `json:"seed"`
	Start      []float64     `json:"start"`
	Goal       []float64     `json:"goal"`
	GoalRadius float64       `json:"goal_radius"`
	DeltaNear  float64       `json:"delta_near"`
	DeltaDrain float64       `json:"delta_drain"`
	Nodes      []Node        `json:"nodes"`
	Witnesses  []Witness     `json:"witnesses"`
	Solution   *sst.Solution `json:"solution,omitempty"`
	Stats      sst.Stats     `json:"stats"`
}

// Capture copies the current state of e under a fresh run id.
func Capture(e *sst.Engine) *Snapshot {
	cfg := e.Config()
	s := &Snapshot{
		RunID:      uuid.New(),
		CreatedAt:  time.Now().UTC(),
		Seed:       cfg.Seed,
		Start:      cfg.Start,
		Goal:       cfg.Goal,
		GoalRadius: cfg.GoalRadius,
		DeltaNear:  cfg.DeltaNear,
		DeltaDrain: cfg.DeltaDrain,
		Nodes:      make([]Node, 0, e.NumberOfNodes()),
		Witnesses:  make([]Witness, 0, e.NumberOfWitnesses()),
		Stats:      e.Stats(),
	}

	for v := range e.Nodes() {
		n := Node{
			ID:         uint64(v.ID),
			Parent:     uint64(v.Parent),
			State:      v.State,
			Control:    v.Control,
			Duration:   v.Duration,
			Cost:       v.Cost,
			Active:     v.Active,
			Witness:    NoWitness,
			OnSolution: e.OnSolutionPath(v.ID),
		}
		if v.HasWitness {
			n.Witness = int64(v.Witness)
		}
		s.Nodes = append(s.Nodes, n)
	}

	for w := range e.Witnesses() {
		s.Witnesses = append(s.Witnesses, Witness{
			ID:             uint32(w.ID),
			State:          w.State,
			Representative: uint64(w.Representative),
		})
	}

	if sol, ok := e.Solution(); ok {
		s.Solution = &sol
	}
	return s
}

// Edges returns (parent, child) id pairs for every non-root node.
func (s *Snapshot) Edges() [][2]uint64 {
	out := make([][2]uint64, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Parent != 0 {
			out = append(out, [2]uint64{n.Parent, n.ID})
		}
	}
	return out
}
