// Package flat provides an implementation of a flat proximity index.
//
// Flat performs exact brute-force search. Points are kept in a single
// columnar buffer indexed by handle; the set of live handles is tracked by a
// Roaring bitmap so queries visit entries in ascending handle order, which
// makes tie-breaking deterministic for a given insert/remove history.
package flat

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kinoplan/distance"
	"github.com/hupe1980/kinoplan/index"
)

// Compile-time check to ensure Flat satisfies the index contract.
var _ index.Index[int] = (*Flat[int])(nil)

// Options contains configuration options for the flat index.
type Options struct {
	// Dimension is the fixed point dimensionality for this index.
	// It must be > 0 and is enforced for all inserts and queries.
	Dimension int

	// Distance is the metric used for every query.
	Distance distance.Func

	// InitialCapacity pre-sizes the slot table.
	InitialCapacity int
}

// DefaultOptions contains the default configuration options for the flat index.
var DefaultOptions = Options{
	Dimension:       0,
	Distance:        distance.Euclidean,
	InitialCapacity: 64,
}

// Flat represents a flat index for point storage and search.
type Flat[T any] struct {
	opts     Options
	points   []float64 // points[h*dim : (h+1)*dim]
	payloads []T
	live     *roaring.Bitmap
	freeList []uint32 // handles available for reuse from removed entries
}

// New creates a new instance of the flat index.
// Dimension is required and must be set at creation time.
func New[T any](optFns ...func(o *Options)) (*Flat[T], error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := index.ValidateBasicOptions(opts.Dimension, opts.Distance); err != nil {
		return nil, err
	}
	if opts.InitialCapacity < 0 {
		opts.InitialCapacity = 0
	}

	return &Flat[T]{
		opts:     opts,
		points:   make([]float64, 0, opts.InitialCapacity*opts.Dimension),
		payloads: make([]T, 0, opts.InitialCapacity),
		live:     roaring.New(),
		freeList: make([]uint32, 0),
	}, nil
}

// Factory returns an index.Factory producing flat indexes.
func Factory[T any]() index.Factory[T] {
	return func(dim int, fn distance.Func) (index.Index[T], error) {
		return New[T](func(o *Options) {
			o.Dimension = dim
			o.Distance = fn
		})
	}
}

func (*Flat[T]) Name() string { return "Flat" }

// Dimension returns the configured point dimension.
func (f *Flat[T]) Dimension() int { return f.opts.Dimension }

// Insert inserts a point into the flat index.
func (f *Flat[T]) Insert(point []float64, payload T) (index.Handle, error) {
	if err := index.CheckDimension(point, f.opts.Dimension); err != nil {
		return 0, err
	}

	dim := f.opts.Dimension

	// Reuse handle from free list if available, otherwise allocate new
	var h uint32
	if n := len(f.freeList); n > 0 {
		h = f.freeList[n-1]
		f.freeList = f.freeList[:n-1]
		copy(f.points[int(h)*dim:(int(h)+1)*dim], point)
		f.payloads[h] = payload
	} else {
		h = uint32(len(f.payloads))
		f.points = append(f.points, point...)
		f.payloads = append(f.payloads, payload)
	}

	f.live.Add(h)
	return index.Handle(h), nil
}

// Remove deletes the entry referenced by h. The handle may be reused by a
// later Insert.
func (f *Flat[T]) Remove(h index.Handle) error {
	if !f.live.Contains(uint32(h)) {
		return index.ErrInvalidHandle
	}
	f.live.Remove(uint32(h))

	var zero T
	f.payloads[h] = zero
	f.freeList = append(f.freeList, uint32(h))
	return nil
}

// Nearest returns the entry closest to query.
func (f *Flat[T]) Nearest(query []float64) (index.Neighbor[T], error) {
	if err := index.CheckDimension(query, f.opts.Dimension); err != nil {
		return index.Neighbor[T]{}, err
	}
	if f.live.IsEmpty() {
		return index.Neighbor[T]{}, index.ErrEmptyIndex
	}

	var (
		best  index.Neighbor[T]
		found bool
	)
	it := f.live.Iterator()
	for it.HasNext() {
		h := it.Next()
		d := f.opts.Distance(query, f.point(h))
		// Strict comparison keeps the first encountered entry on ties.
		if !found || d < best.Distance {
			best = index.Neighbor[T]{Handle: index.Handle(h), Payload: f.payloads[h], Distance: d}
			found = true
		}
	}
	return best, nil
}

// DeltaNear returns every entry whose distance to query is <= radius,
// in ascending handle order.
func (f *Flat[T]) DeltaNear(query []float64, radius float64) ([]index.Neighbor[T], error) {
	if err := index.CheckDimension(query, f.opts.Dimension); err != nil {
		return nil, err
	}
	if err := index.CheckRadius(radius); err != nil {
		return nil, err
	}

	var out []index.Neighbor[T]
	it := f.live.Iterator()
	for it.HasNext() {
		h := it.Next()
		d := f.opts.Distance(query, f.point(h))
		if d <= radius {
			out = append(out, index.Neighbor[T]{Handle: index.Handle(h), Payload: f.payloads[h], Distance: d})
		}
	}
	return out, nil
}

// KNearest returns up to k entries ordered by ascending distance.
func (f *Flat[T]) KNearest(query []float64, k int) ([]index.Neighbor[T], error) {
	if err := index.CheckDimension(query, f.opts.Dimension); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	all := make([]index.Neighbor[T], 0, f.live.GetCardinality())
	it := f.live.Iterator()
	for it.HasNext() {
		h := it.Next()
		all = append(all, index.Neighbor[T]{
			Handle:   index.Handle(h),
			Payload:  f.payloads[h],
			Distance: f.opts.Distance(query, f.point(h)),
		})
	}
	index.SortByDistance(all)
	if len(all) > k {
		all = all[:k]
	}
	return all, nil
}

// Point returns a copy of the point stored under h.
func (f *Flat[T]) Point(h index.Handle) ([]float64, bool) {
	if !f.live.Contains(uint32(h)) {
		return nil, false
	}
	return append([]float64(nil), f.point(uint32(h))...), true
}

// Payload returns the payload stored under h.
func (f *Flat[T]) Payload(h index.Handle) (T, bool) {
	if !f.live.Contains(uint32(h)) {
		var zero T
		return zero, false
	}
	return f.payloads[h], true
}

// All iterates live entries in ascending handle order.
func (f *Flat[T]) All() iter.Seq2[index.Handle, T] {
	return func(yield func(index.Handle, T) bool) {
		it := f.live.Iterator()
		for it.HasNext() {
			h := it.Next()
			if !yield(index.Handle(h), f.payloads[h]) {
				return
			}
		}
	}
}

// Len returns the number of live entries.
func (f *Flat[T]) Len() int { return int(f.live.GetCardinality()) }

func (f *Flat[T]) point(h uint32) []float64 {
	dim := f.opts.Dimension
	return f.points[int(h)*dim : (int(h)+1)*dim]
}
