package flat

import (
	"math/rand"
	"testing"

	"github.com/hupe1980/kinoplan/distance"
	"github.com/hupe1980/kinoplan/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlat(t *testing.T, dim int) *Flat[string] {
	t.Helper()
	f, err := New[string](func(o *Options) {
		o.Dimension = dim
	})
	require.NoError(t, err)
	return f
}

func TestNew(t *testing.T) {
	_, err := New[int]()
	var id *index.ErrInvalidDimension
	assert.ErrorAs(t, err, &id)

	_, err = New[int](func(o *Options) {
		o.Dimension = 2
		o.Distance = nil
	})
	assert.Error(t, err)

	f, err := Factory[int]()(3, distance.Euclidean)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestFlat(t *testing.T) {
	t.Run("Insert", func(t *testing.T) {
		f := newFlat(t, 3)

		h, err := f.Insert([]float64{1, 2, 3}, "a")
		require.NoError(t, err)
		assert.Equal(t, index.Handle(0), h)
		assert.Equal(t, 1, f.Len())

		// Test dimension mismatch error
		_, err = f.Insert([]float64{1, 2}, "b")
		assert.Error(t, err)
		assert.IsType(t, &index.ErrDimensionMismatch{}, err)
	})

	t.Run("InsertCopiesPoint", func(t *testing.T) {
		f := newFlat(t, 1)
		p := []float64{4}
		h, err := f.Insert(p, "a")
		require.NoError(t, err)

		p[0] = 100
		got, ok := f.Point(h)
		require.True(t, ok)
		assert.Equal(t, []float64{4}, got)
	})

	t.Run("Nearest", func(t *testing.T) {
		f := newFlat(t, 2)
		_, _ = f.Insert([]float64{0, 0}, "origin")
		_, _ = f.Insert([]float64{5, 5}, "far")
		_, _ = f.Insert([]float64{1, 1}, "near")

		n, err := f.Nearest([]float64{0.9, 0.9})
		require.NoError(t, err)
		assert.Equal(t, "near", n.Payload)
		assert.Equal(t, index.Handle(2), n.Handle)
		assert.InDelta(t, distance.Euclidean([]float64{0.9, 0.9}, []float64{1, 1}), n.Distance, 1e-12)
	})

	t.Run("NearestTieKeepsFirst", func(t *testing.T) {
		f := newFlat(t, 1)
		_, _ = f.Insert([]float64{-1}, "left")
		_, _ = f.Insert([]float64{1}, "right")

		n, err := f.Nearest([]float64{0})
		require.NoError(t, err)
		assert.Equal(t, "left", n.Payload)
	})

	t.Run("NearestEmpty", func(t *testing.T) {
		f := newFlat(t, 1)
		_, err := f.Nearest([]float64{0})
		assert.ErrorIs(t, err, index.ErrEmptyIndex)
	})

	t.Run("DeltaNear", func(t *testing.T) {
		f := newFlat(t, 1)
		_, _ = f.Insert([]float64{0}, "a")
		_, _ = f.Insert([]float64{1}, "b")
		_, _ = f.Insert([]float64{2}, "c")

		ns, err := f.DeltaNear([]float64{0}, 1)
		require.NoError(t, err)
		require.Len(t, ns, 2, "radius is inclusive")
		assert.Equal(t, "a", ns[0].Payload)
		assert.Equal(t, "b", ns[1].Payload)

		ns, err = f.DeltaNear([]float64{10}, 0.5)
		require.NoError(t, err)
		assert.Empty(t, ns)

		_, err = f.DeltaNear([]float64{0}, -1)
		assert.ErrorIs(t, err, index.ErrInvalidRadius)
	})

	t.Run("RemoveAndReuse", func(t *testing.T) {
		f := newFlat(t, 1)
		h0, _ := f.Insert([]float64{0}, "a")
		h1, _ := f.Insert([]float64{1}, "b")

		require.NoError(t, f.Remove(h0))
		assert.Equal(t, 1, f.Len())
		assert.ErrorIs(t, f.Remove(h0), index.ErrInvalidHandle)

		n, err := f.Nearest([]float64{0})
		require.NoError(t, err)
		assert.Equal(t, h1, n.Handle, "removed entries are never returned")

		h2, err := f.Insert([]float64{7}, "c")
		require.NoError(t, err)
		assert.Equal(t, h0, h2, "handles are reused")

		p, ok := f.Point(h2)
		require.True(t, ok)
		assert.Equal(t, []float64{7}, p)
		payload, ok := f.Payload(h2)
		require.True(t, ok)
		assert.Equal(t, "c", payload)

		st := f.Stats()
		assert.Equal(t, 2, st.Live)
		assert.Equal(t, 2, st.Slots)
		assert.Equal(t, 0, st.Free)
	})

	t.Run("KNearest", func(t *testing.T) {
		f := newFlat(t, 1)
		for i, v := range []float64{5, 1, 3, 2} {
			_, _ = f.Insert([]float64{v}, string(rune('a'+i)))
		}

		ns, err := f.KNearest([]float64{0}, 2)
		require.NoError(t, err)
		require.Len(t, ns, 2)
		assert.Equal(t, "b", ns[0].Payload)
		assert.Equal(t, "d", ns[1].Payload)
	})

	t.Run("All", func(t *testing.T) {
		f := newFlat(t, 1)
		_, _ = f.Insert([]float64{0}, "a")
		h, _ := f.Insert([]float64{1}, "b")
		_, _ = f.Insert([]float64{2}, "c")
		require.NoError(t, f.Remove(h))

		var got []string
		for _, p := range f.All() {
			got = append(got, p)
		}
		assert.Equal(t, []string{"a", "c"}, got)
	})
}

func TestFlat_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f, err := New[int](func(o *Options) { o.Dimension = 2 })
	require.NoError(t, err)

	points := map[index.Handle][]float64{}
	for i := 0; i < 300; i++ {
		if len(points) > 0 && rng.Intn(3) == 0 {
			for h := range points {
				require.NoError(t, f.Remove(h))
				delete(points, h)
				break
			}
			continue
		}
		p := []float64{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
		h, err := f.Insert(p, i)
		require.NoError(t, err)
		points[h] = p
	}
	require.Equal(t, len(points), f.Len())

	for q := 0; q < 50; q++ {
		query := []float64{rng.Float64()*20 - 10, rng.Float64()*20 - 10}

		bestD := -1.0
		within := 0
		for _, p := range points {
			d := distance.Euclidean(query, p)
			if bestD < 0 || d < bestD {
				bestD = d
			}
			if d <= 3 {
				within++
			}
		}

		n, err := f.Nearest(query)
		require.NoError(t, err)
		assert.InDelta(t, bestD, n.Distance, 1e-12)

		ns, err := f.DeltaNear(query, 3)
		require.NoError(t, err)
		assert.Len(t, ns, within)
	}
}
