package kinoplan

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kinoplan/index"
	"github.com/hupe1980/kinoplan/sst"
)

var (
	// ErrInvalidConfig is returned for a malformed planner configuration.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownNode is returned when a node id does not reference a live node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidTimeSteps is returned for an empty step range or a
	// non-positive integration step.
	ErrInvalidTimeSteps = errors.New("invalid time steps")
)

// ErrDimensionMismatch indicates a state/control dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sst.ErrUnknownNode) {
		return fmt.Errorf("%w: %w", ErrUnknownNode, err)
	}
	if errors.Is(err, sst.ErrInvalidConfig) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if errors.Is(err, sst.ErrInvalidTimeSteps) {
		return fmt.Errorf("%w: %w", ErrInvalidTimeSteps, err)
	}

	var dm *index.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
