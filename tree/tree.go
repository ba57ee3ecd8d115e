// Package tree implements the planning tree: nodes with a state and a
// cost-to-come, linked to their parent by an immutable Edge.
//
// Nodes live in a generational arena and are addressed by NodeID. A NodeID
// of a freed node never resolves again, even after its slot is reused.
// Only leaves can be removed; the root is permanent.
package tree

import (
	"errors"
	"iter"
	"slices"

	"github.com/hupe1980/kinoplan/internal/arena"
)

var (
	// ErrUnknownNode is returned for a NodeID that does not reference a live node.
	ErrUnknownNode = errors.New("tree: unknown node")

	// ErrNotLeaf is returned when removing a node that still has children.
	ErrNotLeaf = errors.New("tree: node is not a leaf")

	// ErrRootRemoval is returned when removing the root.
	ErrRootRemoval = errors.New("tree: cannot remove root")

	// ErrNegativeDuration is returned for an edge with duration < 0.
	ErrNegativeDuration = errors.New("tree: negative edge duration")
)

// NodeID identifies a node. The zero value is Nil.
type NodeID uint64

// Nil is the zero NodeID; it never references a node.
const Nil NodeID = 0

func idOf(r arena.Ref) NodeID { return NodeID(uint64(r.Gen)<<32 | uint64(r.Slot)) }

func (id NodeID) ref() arena.Ref {
	return arena.Ref{Slot: uint32(id), Gen: uint32(id >> 32)}
}

// IsNil reports whether id is Nil.
func (id NodeID) IsNil() bool { return id == Nil }

// Slot returns the arena slot of id. Slots of freed nodes are reused, so a
// slot only identifies a node while that node is live.
func (id NodeID) Slot() uint32 { return uint32(id) }

// Edge is the control applied for Duration to reach a child from its parent.
type Edge struct {
	Control  []float64
	Duration float64
}

type node[M any] struct {
	state    []float64
	cost     float64
	parent   NodeID
	edge     Edge
	children []NodeID
	meta     M
}

// Tree is a rooted tree with per-node metadata of type M.
// A Tree is not safe for concurrent use.
type Tree[M any] struct {
	nodes *arena.Arena[node[M]]
	root  NodeID
}

// New creates a tree whose root sits at rootState with cost 0.
// rootState is copied.
func New[M any](rootState []float64, meta M) *Tree[M] {
	t := &Tree[M]{nodes: arena.New[node[M]](256)}
	t.root = idOf(t.nodes.Alloc(node[M]{
		state: slices.Clone(rootState),
		meta:  meta,
	}))
	return t
}

// Root returns the root's id.
func (t *Tree[M]) Root() NodeID { return t.root }

// Len returns the number of nodes, root included.
func (t *Tree[M]) Len() int { return t.nodes.Len() }

// Contains reports whether id references a live node.
func (t *Tree[M]) Contains(id NodeID) bool { return t.nodes.Contains(id.ref()) }

func (t *Tree[M]) get(id NodeID) *node[M] { return t.nodes.Get(id.ref()) }

// AddChild creates a child of parent reached through edge. Its cost is
// parent's cost plus edge.Duration. state and edge.Control are copied.
func (t *Tree[M]) AddChild(parent NodeID, state []float64, edge Edge, meta M) (NodeID, error) {
	p := t.get(parent)
	if p == nil {
		return Nil, ErrUnknownNode
	}
	if edge.Duration < 0 {
		return Nil, ErrNegativeDuration
	}
	cost := p.cost + edge.Duration

	// Alloc may grow the backing slice, so p is not used afterwards.
	id := idOf(t.nodes.Alloc(node[M]{
		state:  slices.Clone(state),
		cost:   cost,
		parent: parent,
		edge:   Edge{Control: slices.Clone(edge.Control), Duration: edge.Duration},
		meta:   meta,
	}))
	pp := t.get(parent)
	pp.children = append(pp.children, id)
	return id, nil
}

// RemoveLeaf detaches a non-root leaf from its parent and frees it.
func (t *Tree[M]) RemoveLeaf(id NodeID) error {
	n := t.get(id)
	if n == nil {
		return ErrUnknownNode
	}
	if id == t.root {
		return ErrRootRemoval
	}
	if len(n.children) > 0 {
		return ErrNotLeaf
	}

	if p := t.get(n.parent); p != nil {
		if i := slices.Index(p.children, id); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	return t.nodes.Free(id.ref())
}

// State returns the node's state. The slice is owned by the tree and must
// not be modified.
func (t *Tree[M]) State(id NodeID) []float64 {
	if n := t.get(id); n != nil {
		return n.state
	}
	return nil
}

// Cost returns the node's cost-to-come.
func (t *Tree[M]) Cost(id NodeID) float64 {
	if n := t.get(id); n != nil {
		return n.cost
	}
	return 0
}

// Parent returns the node's parent. It reports false for the root and for
// unknown ids.
func (t *Tree[M]) Parent(id NodeID) (NodeID, bool) {
	n := t.get(id)
	if n == nil || n.parent.IsNil() {
		return Nil, false
	}
	return n.parent, true
}

// Edge returns the edge that reaches id. It reports false for the root.
func (t *Tree[M]) Edge(id NodeID) (Edge, bool) {
	n := t.get(id)
	if n == nil || n.parent.IsNil() {
		return Edge{}, false
	}
	return n.edge, true
}

// Children returns a copy of the node's child list.
func (t *Tree[M]) Children(id NodeID) []NodeID {
	if n := t.get(id); n != nil {
		return slices.Clone(n.children)
	}
	return nil
}

// NumChildren returns the number of children of id.
func (t *Tree[M]) NumChildren(id NodeID) int {
	if n := t.get(id); n != nil {
		return len(n.children)
	}
	return 0
}

// IsLeaf reports whether id is a live node without children.
func (t *Tree[M]) IsLeaf(id NodeID) bool {
	n := t.get(id)
	return n != nil && len(n.children) == 0
}

// Meta returns a pointer to the node's metadata, or nil for unknown ids.
// The pointer is invalidated by the next AddChild.
func (t *Tree[M]) Meta(id NodeID) *M {
	if n := t.get(id); n != nil {
		return &n.meta
	}
	return nil
}

// PathToRoot iterates from id up to the root, both included.
func (t *Tree[M]) PathToRoot(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for cur := id; !cur.IsNil(); {
			n := t.get(cur)
			if n == nil || !yield(cur) {
				return
			}
			cur = n.parent
		}
	}
}

// Path returns the ids from the root down to id.
func (t *Tree[M]) Path(id NodeID) []NodeID {
	var out []NodeID
	for cur := range t.PathToRoot(id) {
		out = append(out, cur)
	}
	slices.Reverse(out)
	return out
}

// PreOrder iterates the subtree at id, parents before children.
func (t *Tree[M]) PreOrder(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if !t.Contains(id) {
			return
		}
		stack := []NodeID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			ch := t.get(cur).children
			for i := len(ch) - 1; i >= 0; i-- {
				stack = append(stack, ch[i])
			}
		}
	}
}

// PostOrder returns the subtree at id with every node listed after all of
// its descendants. The result is a snapshot: callers may remove nodes while
// ranging over it.
func (t *Tree[M]) PostOrder(id NodeID) []NodeID {
	out := make([]NodeID, 0, t.Len())
	for cur := range t.PreOrder(id) {
		out = append(out, cur)
	}
	// Reversed pre-order with children pushed last-first visits each child
	// subtree before its parent.
	slices.Reverse(out)
	return out
}

// Stats returns the node arena counters.
func (t *Tree[M]) Stats() arena.Stats { return t.nodes.Stats() }
