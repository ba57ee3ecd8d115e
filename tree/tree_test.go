package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type meta struct{ active bool }

func buildTree(t *testing.T) (*Tree[meta], map[string]NodeID) {
	t.Helper()
	//        root
	//       /    \
	//      a      b
	//     / \
	//    c   d
	tr := New([]float64{0}, meta{active: true})
	ids := map[string]NodeID{"root": tr.Root()}

	add := func(name, parent string, x, dur float64) {
		id, err := tr.AddChild(ids[parent], []float64{x}, Edge{Control: []float64{1}, Duration: dur}, meta{})
		require.NoError(t, err)
		ids[name] = id
	}
	add("a", "root", 1, 1)
	add("b", "root", -1, 2)
	add("c", "a", 2, 0.5)
	add("d", "a", 3, 1.5)
	return tr, ids
}

func TestTree_AddChild(t *testing.T) {
	tr, ids := buildTree(t)

	assert.Equal(t, 5, tr.Len())
	assert.Equal(t, 0.0, tr.Cost(ids["root"]))
	assert.Equal(t, 1.0, tr.Cost(ids["a"]))
	assert.Equal(t, 1.5, tr.Cost(ids["c"]))
	assert.Equal(t, 2.5, tr.Cost(ids["d"]))

	p, ok := tr.Parent(ids["c"])
	require.True(t, ok)
	assert.Equal(t, ids["a"], p)

	_, ok = tr.Parent(ids["root"])
	assert.False(t, ok)
	_, ok = tr.Edge(ids["root"])
	assert.False(t, ok)

	e, ok := tr.Edge(ids["d"])
	require.True(t, ok)
	assert.Equal(t, 1.5, e.Duration)
	assert.Equal(t, []float64{1}, e.Control)

	assert.Equal(t, []NodeID{ids["c"], ids["d"]}, tr.Children(ids["a"]))
	assert.True(t, tr.IsLeaf(ids["b"]))
	assert.False(t, tr.IsLeaf(ids["a"]))

	_, err := tr.AddChild(Nil, []float64{0}, Edge{}, meta{})
	assert.ErrorIs(t, err, ErrUnknownNode)
	_, err = tr.AddChild(ids["a"], []float64{0}, Edge{Duration: -1}, meta{})
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestTree_CopiesInput(t *testing.T) {
	tr := New([]float64{0}, meta{})
	state := []float64{1}
	control := []float64{2}
	id, err := tr.AddChild(tr.Root(), state, Edge{Control: control, Duration: 1}, meta{})
	require.NoError(t, err)

	state[0], control[0] = 9, 9
	assert.Equal(t, []float64{1}, tr.State(id))
	e, _ := tr.Edge(id)
	assert.Equal(t, []float64{2}, e.Control)
}

func TestTree_RemoveLeaf(t *testing.T) {
	tr, ids := buildTree(t)

	assert.ErrorIs(t, tr.RemoveLeaf(ids["a"]), ErrNotLeaf)
	assert.ErrorIs(t, tr.RemoveLeaf(ids["root"]), ErrRootRemoval)

	require.NoError(t, tr.RemoveLeaf(ids["c"]))
	assert.Equal(t, 4, tr.Len())
	assert.False(t, tr.Contains(ids["c"]))
	assert.Equal(t, []NodeID{ids["d"]}, tr.Children(ids["a"]))
	assert.ErrorIs(t, tr.RemoveLeaf(ids["c"]), ErrUnknownNode)

	// The freed slot is reused but the stale id stays dead.
	e, err := tr.AddChild(ids["b"], []float64{5}, Edge{Duration: 1}, meta{})
	require.NoError(t, err)
	assert.NotEqual(t, ids["c"], e)
	assert.False(t, tr.Contains(ids["c"]))
	assert.Nil(t, tr.Meta(ids["c"]))
}

func TestTree_Meta(t *testing.T) {
	tr, ids := buildTree(t)
	tr.Meta(ids["d"]).active = true
	assert.True(t, tr.Meta(ids["d"]).active)
	assert.False(t, tr.Meta(ids["c"]).active)
}

func TestTree_Traversal(t *testing.T) {
	tr, ids := buildTree(t)

	assert.Equal(t, []NodeID{ids["root"], ids["a"], ids["d"]}, tr.Path(ids["d"]))

	var up []NodeID
	for id := range tr.PathToRoot(ids["c"]) {
		up = append(up, id)
	}
	assert.Equal(t, []NodeID{ids["c"], ids["a"], ids["root"]}, up)

	var pre []NodeID
	for id := range tr.PreOrder(tr.Root()) {
		pre = append(pre, id)
	}
	assert.Equal(t, []NodeID{ids["root"], ids["a"], ids["c"], ids["d"], ids["b"]}, pre)

	post := tr.PostOrder(tr.Root())
	require.Len(t, post, 5)
	pos := map[NodeID]int{}
	for i, id := range post {
		pos[id] = i
	}
	for _, id := range post {
		if p, ok := tr.Parent(id); ok {
			assert.Less(t, pos[id], pos[p], "children precede parents")
		}
	}
	assert.Equal(t, ids["root"], post[len(post)-1])
}

func TestTree_PostOrderAllowsRemoval(t *testing.T) {
	tr, _ := buildTree(t)

	// Removing every leaf in post-order collapses the tree to its root.
	for _, id := range tr.PostOrder(tr.Root()) {
		if id != tr.Root() && tr.IsLeaf(id) {
			require.NoError(t, tr.RemoveLeaf(id))
		}
	}
	assert.Equal(t, 1, tr.Len())
	assert.True(t, tr.IsLeaf(tr.Root()))

	st := tr.Stats()
	assert.Equal(t, 1, st.Live)
	assert.Equal(t, uint64(4), st.TotalFrees)
}
