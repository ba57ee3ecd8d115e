package sst

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kinoplan/index"
	"github.com/hupe1980/kinoplan/tree"
	"github.com/hupe1980/kinoplan/witness"
)

// ErrInvariant is wrapped by every error returned from Validate.
var ErrInvariant = errors.New("sst: invariant violated")

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// Validate walks the whole engine and checks the tree shape, the
// representative bookkeeping, the tree index contents and the bound set by
// the best solution. It is O(nodes + witnesses) and meant for tests and
// debugging.
func (e *Engine) Validate() error {
	root := e.tree.Root()
	if !e.tree.Contains(root) {
		return violation("root missing")
	}

	// Tree shape.
	reachable := 0
	active := 0
	for id := range e.tree.PreOrder(root) {
		reachable++
		if id != root {
			p, ok := e.tree.Parent(id)
			if !ok {
				return violation("node %d has no parent", id)
			}
			seen := 0
			for _, c := range e.tree.Children(p) {
				if c == id {
					seen++
				}
			}
			if seen != 1 {
				return violation("node %d listed %d times by its parent", id, seen)
			}
		}

		m := e.tree.Meta(id)
		if !m.active {
			continue
		}
		active++
		if !m.hasWitness {
			return violation("active node %d has no witness", id)
		}
		if rep := e.witnesses.Representative(m.witness); rep != id {
			return violation("active node %d is not represented by witness %d (has %d)", id, m.witness, rep)
		}
		if p, ok := e.treeIdx.(interface {
			Payload(index.Handle) (tree.NodeID, bool)
		}); ok {
			if got, ok := p.Payload(m.handle); !ok || got != id {
				return violation("tree index handle %d of node %d points to %d", m.handle, id, got)
			}
		}
	}
	if reachable != e.tree.Len() {
		return violation("node count %d, reachable %d", e.tree.Len(), reachable)
	}
	if active != e.treeIdx.Len() {
		return violation("%d active nodes, tree index holds %d", active, e.treeIdx.Len())
	}

	// Representative uniqueness.
	owners := make(map[tree.NodeID]witness.ID)
	for w := range e.witnesses.All() {
		rep := w.Representative
		if rep.IsNil() {
			continue
		}
		m := e.tree.Meta(rep)
		if m == nil {
			return violation("witness %d represented by freed node %d", w.ID, rep)
		}
		if !m.active || !m.hasWitness || m.witness != w.ID {
			return violation("witness %d represented by node %d that does not point back", w.ID, rep)
		}
		if prev, dup := owners[rep]; dup {
			return violation("node %d represents witnesses %d and %d", rep, prev, w.ID)
		}
		owners[rep] = w.ID
	}

	if e.bestGoal.IsNil() {
		return nil
	}

	// Best goal and the frontier it bounds.
	if !e.tree.Contains(e.bestGoal) {
		return violation("best goal %d was freed", e.bestGoal)
	}
	if !e.metric.Within(e.tree.State(e.bestGoal), e.cfg.Goal, e.cfg.GoalRadius) {
		return violation("best goal %d outside the goal region", e.bestGoal)
	}
	best := e.tree.Cost(e.bestGoal)
	for id := range e.tree.PreOrder(root) {
		cost := e.tree.Cost(id)
		if cost < best && e.metric.Within(e.tree.State(id), e.cfg.Goal, e.cfg.GoalRadius) {
			return violation("node %d reaches the goal cheaper (%g) than best goal (%g)", id, cost, best)
		}
		if !e.tree.IsLeaf(id) || e.tree.Meta(id).active || e.OnSolutionPath(id) {
			continue
		}
		if cost > best {
			return violation("inactive leaf %d costs %g, above best %g", id, cost, best)
		}
	}
	return nil
}
