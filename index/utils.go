package index

import (
	"cmp"
	"math"
	"slices"
)

// CheckDimension returns an ErrDimensionMismatch if len(v) != dim.
func CheckDimension(v []float64, dim int) error {
	if len(v) != dim {
		return &ErrDimensionMismatch{Expected: dim, Actual: len(v)}
	}
	return nil
}

// CheckRadius rejects negative and NaN radii.
func CheckRadius(radius float64) error {
	if radius < 0 || math.IsNaN(radius) {
		return ErrInvalidRadius
	}
	return nil
}

// SortByDistance orders neighbors by ascending distance.
// The sort is stable, so equal distances keep their encounter order.
func SortByDistance[T any](ns []Neighbor[T]) {
	slices.SortStableFunc(ns, func(a, b Neighbor[T]) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
}

// MinFunc returns the index of the neighbor with the smallest key.
// Ties keep the first one encountered. Returns -1 for an empty slice.
func MinFunc[T any](ns []Neighbor[T], key func(Neighbor[T]) float64) int {
	best := -1
	bestKey := math.Inf(1)
	for i, n := range ns {
		k := key(n)
		if best < 0 || k < bestKey {
			best = i
			bestKey = k
		}
	}
	return best
}
