// Package witness maintains the sparse set of witness samples used by the
// planner to bound how many active nodes may live in any neighborhood.
//
// Each witness owns a permanent entry in its own proximity index and may name
// one tree node as its representative. Witnesses are never removed.
package witness

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/hupe1980/kinoplan/index"
	"github.com/hupe1980/kinoplan/tree"
)

// ErrUnknownWitness is returned for an ID that was never created.
var ErrUnknownWitness = errors.New("witness: unknown witness")

// ID identifies a witness sample. IDs are dense and assigned in creation order.
type ID uint32

// Sample is a read-only view of a witness.
type Sample struct {
	ID             ID
	State          []float64
	Representative tree.NodeID
}

type sample struct {
	state []float64
	rep   tree.NodeID
}

// Set is the collection of witness samples.
// A Set is not safe for concurrent use.
type Set struct {
	idx        index.Index[ID]
	samples    []sample
	deltaDrain float64
}

// New creates a Set over idx seeded with a first witness at seed whose
// representative is rep. idx must be empty.
func New(idx index.Index[ID], deltaDrain float64, seed []float64, rep tree.NodeID) (*Set, error) {
	if idx == nil {
		return nil, errors.New("witness: nil index")
	}
	if idx.Len() != 0 {
		return nil, errors.New("witness: index must be empty")
	}
	if deltaDrain < 0 {
		return nil, fmt.Errorf("witness: negative delta_drain %g", deltaDrain)
	}

	s := &Set{idx: idx, deltaDrain: deltaDrain}
	id, err := s.create(seed)
	if err != nil {
		return nil, err
	}
	s.samples[id].rep = rep
	return s, nil
}

// DeltaDrain returns the sparsification radius.
func (s *Set) DeltaDrain() float64 { return s.deltaDrain }

// FindOrCreate returns the witness nearest to state, creating a new witness at
// state when the nearest one lies farther than delta_drain.
func (s *Set) FindOrCreate(state []float64) (ID, bool, error) {
	n, err := s.idx.Nearest(state)
	if err != nil {
		return 0, false, err
	}
	if n.Distance <= s.deltaDrain {
		return n.Payload, false, nil
	}
	id, err := s.create(state)
	return id, err == nil, err
}

func (s *Set) create(state []float64) (ID, error) {
	id := ID(len(s.samples))
	if _, err := s.idx.Insert(state, id); err != nil {
		return 0, err
	}
	s.samples = append(s.samples, sample{state: slices.Clone(state)})
	return id, nil
}

// Representative returns the witness's representative, or tree.Nil.
func (s *Set) Representative(id ID) tree.NodeID {
	if int(id) >= len(s.samples) {
		return tree.Nil
	}
	return s.samples[id].rep
}

// SetRepresentative makes n the representative of id.
func (s *Set) SetRepresentative(id ID, n tree.NodeID) error {
	if int(id) >= len(s.samples) {
		return ErrUnknownWitness
	}
	s.samples[id].rep = n
	return nil
}

// ClearRepresentative drops the representative of id.
func (s *Set) ClearRepresentative(id ID) error {
	return s.SetRepresentative(id, tree.Nil)
}

// State returns the witness state. The slice must not be modified.
func (s *Set) State(id ID) []float64 {
	if int(id) >= len(s.samples) {
		return nil
	}
	return s.samples[id].state
}

// Len returns the number of witnesses.
func (s *Set) Len() int { return len(s.samples) }

// All iterates witnesses in creation order.
func (s *Set) All() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for i, w := range s.samples {
			if !yield(Sample{ID: ID(i), State: w.state, Representative: w.rep}) {
				return
			}
		}
	}
}
