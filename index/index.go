package index

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kinoplan/distance"
)

var (
	// ErrEmptyIndex is returned by Nearest when the index holds no entries.
	ErrEmptyIndex = errors.New("index: empty index")

	// ErrInvalidHandle is returned when a handle does not reference a live entry.
	ErrInvalidHandle = errors.New("index: invalid handle")

	// ErrInvalidRadius is returned by DeltaNear for a negative or NaN radius.
	ErrInvalidRadius = errors.New("index: invalid radius")
)

// ErrDimensionMismatch is a named error type for dimension mismatch
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// Handle identifies an entry inside one index.
// Handles are reused after removal; holders must drop them on Remove.
type Handle uint32

// Neighbor is a query result.
type Neighbor[T any] struct {
	// Handle is the entry's handle.
	Handle Handle

	// Payload is the value stored alongside the point.
	Payload T

	// Distance is the distance between the query and the entry's point.
	Distance float64
}

// Index represents a proximity index over points with payloads of type T.
type Index[T any] interface {
	// Insert adds a point and returns its handle. The point is copied.
	Insert(point []float64, payload T) (Handle, error)

	// Remove deletes the entry referenced by h.
	Remove(h Handle) error

	// Nearest returns the closest entry to query.
	// Ties are resolved in favor of the entry encountered first.
	Nearest(query []float64) (Neighbor[T], error)

	// DeltaNear returns every entry within radius of query (inclusive).
	DeltaNear(query []float64, radius float64) ([]Neighbor[T], error)

	// Len returns the number of live entries.
	Len() int
}

// Factory constructs an empty index for the given dimension and metric.
type Factory[T any] func(dim int, fn distance.Func) (Index[T], error)

// ValidateBasicOptions checks the construction arguments shared by all indexes.
func ValidateBasicOptions(dim int, fn distance.Func) error {
	if dim <= 0 {
		return &ErrInvalidDimension{Dimension: dim}
	}
	if fn == nil {
		return errors.New("index: nil distance function")
	}
	return nil
}
