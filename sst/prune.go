package sst

import (
	"github.com/hupe1980/kinoplan/tree"
)

func (e *Engine) setBestGoal(id tree.NodeID) {
	e.bestGoal = id
	e.goalPath.Clear()
	root := e.tree.Root()
	for cur := range e.tree.PathToRoot(id) {
		if cur != root {
			e.goalPath.Add(cur.Slot())
		}
	}
}

// onGoalPath reports whether id lies between the best goal and the root,
// the best goal included and the root excluded. Nodes on that path are
// never freed, so their slots are not reused while the path is current.
func (e *Engine) onGoalPath(id tree.NodeID) bool {
	return !e.bestGoal.IsNil() && e.tree.Contains(id) && e.goalPath.Contains(id.Slot())
}

// OnSolutionPath reports whether id lies on the path from the root to the
// best goal.
func (e *Engine) OnSolutionPath(id NodeID) bool {
	return (id == e.tree.Root() && !e.bestGoal.IsNil()) || e.onGoalPath(id)
}

// branchAndBound removes every leaf whose cost exceeds the best solution.
// Nodes are visited children first, so a parent emptied by pruning is
// examined after its last child.
func (e *Engine) branchAndBound() {
	best := e.tree.Cost(e.bestGoal)
	for _, id := range e.tree.PostOrder(e.tree.Root()) {
		if !e.tree.IsLeaf(id) || e.tree.Cost(id) <= best {
			continue
		}
		if _, ok := e.tree.Parent(id); !ok {
			continue
		}
		if m := e.tree.Meta(id); m.active {
			if m.hasWitness {
				if err := e.witnesses.ClearRepresentative(m.witness); err != nil {
					panic("sst: " + err.Error())
				}
			}
			e.deactivate(id)
		}
		e.removeLeaf(id)
		e.stats.Pruned++
	}
}
