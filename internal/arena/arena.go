package arena

import (
	"errors"
	"iter"
)

// ErrStaleRef is returned when a reference points to a freed or reused slot.
var ErrStaleRef = errors.New("arena: stale reference")

// Ref represents a safe reference to an arena allocation.
// It includes the generation to detect stale references.
type Ref struct {
	Slot uint32
	Gen  uint32
}

// Nil is the zero reference. Generations start at 1, so it never resolves.
var Nil = Ref{}

// IsNil reports whether r is the zero reference.
func (r Ref) IsNil() bool { return r.Gen == 0 }

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Stats tracks arena usage.
type Stats struct {
	Live        int    // Current: occupied slots
	Capacity    int    // Current: slots ever created
	TotalAllocs uint64 // Historical: allocation count
	TotalFrees  uint64 // Historical: free count
}

// Arena is a typed slot allocator with generation-checked references.
type Arena[T any] struct {
	slots    []slot[T]
	freeList []uint32
	live     int
	allocs   uint64
	frees    uint64
}

// New creates an arena with room for capacity values before growing.
func New[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena[T]{
		slots:    make([]slot[T], 0, capacity),
		freeList: make([]uint32, 0),
	}
}

// Alloc stores v and returns its reference.
// Slots are reused from the free list (most recently freed first).
func (a *Arena[T]) Alloc(v T) Ref {
	var idx uint32
	if n := len(a.freeList); n > 0 {
		idx = a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}

	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		// Skip the nil generation on wraparound.
		s.gen = 1
	}
	s.value = v
	s.live = true

	a.live++
	a.allocs++
	return Ref{Slot: idx, Gen: s.gen}
}

// Get returns a pointer to the value referenced by r, or nil if r is stale.
// The pointer is valid until the next Alloc (which may grow the backing slice).
func (a *Arena[T]) Get(r Ref) *T {
	if !a.Contains(r) {
		return nil
	}
	return &a.slots[r.Slot].value
}

// Contains reports whether r references a live value.
func (a *Arena[T]) Contains(r Ref) bool {
	if r.IsNil() || int(r.Slot) >= len(a.slots) {
		return false
	}
	s := &a.slots[r.Slot]
	return s.live && s.gen == r.Gen
}

// Free releases the slot referenced by r.
func (a *Arena[T]) Free(r Ref) error {
	if !a.Contains(r) {
		return ErrStaleRef
	}
	s := &a.slots[r.Slot]
	var zero T
	s.value = zero
	s.live = false
	a.freeList = append(a.freeList, r.Slot)

	a.live--
	a.frees++
	return nil
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.live }

// All iterates live values in slot order.
func (a *Arena[T]) All() iter.Seq2[Ref, *T] {
	return func(yield func(Ref, *T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.live {
				continue
			}
			if !yield(Ref{Slot: uint32(i), Gen: s.gen}, &s.value) {
				return
			}
		}
	}
}

// Reset drops every value. Outstanding references become stale.
func (a *Arena[T]) Reset() {
	a.freeList = a.freeList[:0]
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			var zero T
			s.value = zero
			s.live = false
			a.frees++
		}
		a.freeList = append(a.freeList, uint32(len(a.slots)-1-i))
	}
	a.live = 0
}

// Stats returns a snapshot of the arena counters.
func (a *Arena[T]) Stats() Stats {
	return Stats{
		Live:        a.live,
		Capacity:    len(a.slots),
		TotalAllocs: a.allocs,
		TotalFrees:  a.frees,
	}
}
