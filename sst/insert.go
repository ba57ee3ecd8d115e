package sst

import (
	"fmt"

	"github.com/hupe1980/kinoplan/tree"
	"github.com/hupe1980/kinoplan/witness"
)

func (e *Engine) insert(state, control []float64, nearest tree.NodeID, duration float64) (Outcome, error) {
	wid, _, err := e.witnesses.FindOrCreate(state)
	if err != nil {
		return OutcomeRejected, fmt.Errorf("sst: witness lookup: %w", err)
	}

	cost := e.tree.Cost(nearest) + duration

	if rep := e.witnesses.Representative(wid); !rep.IsNil() && e.tree.Cost(rep) <= cost {
		e.stats.Rejected++
		return OutcomeRejected, nil
	}
	if best, ok := e.BestCost(); ok && cost > best {
		e.stats.Rejected++
		return OutcomeRejected, nil
	}

	id, err := e.tree.AddChild(nearest, state, tree.Edge{Control: control, Duration: duration}, nodeMeta{})
	if err != nil {
		return OutcomeRejected, err
	}
	e.stats.Inserted++

	outcome := OutcomeInserted
	if e.metric.Within(state, e.cfg.Goal, e.cfg.GoalRadius) {
		if best, ok := e.BestCost(); !ok || cost < best {
			e.setBestGoal(id)
			e.branchAndBound()
			e.stats.Improved++
			outcome = OutcomeImproved
		}
	}

	// Pruning may have cleared the witness, so look it up again.
	if rep := e.witnesses.Representative(wid); !rep.IsNil() {
		e.deactivate(rep)
		e.drain(rep)
	}

	if err := e.activate(id, wid); err != nil {
		panic(fmt.Sprintf("sst: tree index insert failed: %v", err))
	}
	return outcome, nil
}

// activate makes id the representative of wid and indexes it.
func (e *Engine) activate(id tree.NodeID, wid witness.ID) error {
	h, err := e.treeIdx.Insert(e.tree.State(id), id)
	if err != nil {
		return err
	}
	if err := e.witnesses.SetRepresentative(wid, id); err != nil {
		return err
	}
	m := e.tree.Meta(id)
	m.active = true
	m.handle = h
	m.witness = wid
	m.hasWitness = true
	return nil
}

// deactivate removes id from the tree index. It stays in the tree.
func (e *Engine) deactivate(id tree.NodeID) {
	m := e.tree.Meta(id)
	if m == nil || !m.active {
		return
	}
	if err := e.treeIdx.Remove(m.handle); err != nil {
		panic(fmt.Sprintf("sst: tree index remove failed: %v", err))
	}
	m.active = false
}

// drain frees id and then its ancestors while each is an inactive leaf off
// the solution path.
func (e *Engine) drain(id tree.NodeID) {
	for cur := id; e.tree.IsLeaf(cur) && !e.tree.Meta(cur).active && !e.onGoalPath(cur); {
		parent, ok := e.tree.Parent(cur)
		if !ok {
			return
		}
		e.removeLeaf(cur)
		e.stats.Drained++
		cur = parent
	}
}

func (e *Engine) removeLeaf(id tree.NodeID) {
	if err := e.tree.RemoveLeaf(id); err != nil {
		panic(fmt.Sprintf("sst: remove leaf: %v", err))
	}
}
