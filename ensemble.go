package kinoplan

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/hupe1980/kinoplan/sst"
)

// EnsembleOptions configures RunEnsemble.
type EnsembleOptions struct {
	// Parallelism limits the number of planners running at once.
	// Zero means runtime.GOMAXPROCS(0).
	Parallelism int

	// Iterations per planner. Zero means Config.Iterations.
	Iterations int

	// Options are applied to every planner. Shared collectors and loggers
	// must be safe for concurrent use.
	Options []Option
}

// EnsembleResult is the outcome of one planner in an ensemble.
type EnsembleResult struct {
	RunID    uuid.UUID
	Seed     int64
	Stats    RunStats
	Solution *sst.Solution
}

// RunEnsemble plans the same problem once per seed with independent
// planners. newSystem is called once per planner so systems need not be
// safe for concurrent use. Results are returned in seed order.
func RunEnsemble(ctx context.Context, newSystem func() dynamics.System, cfg Config, seeds []int64, opts EnsembleOptions) ([]EnsembleResult, error) {
	if newSystem == nil {
		return nil, errors.New("kinoplan: nil system factory")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]EnsembleResult, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, seed := range seeds {
		g.Go(func() error {
			c := cfg
			c.Seed = seed

			p, err := New(newSystem(), c, opts.Options...)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			stats, err := p.Run(gctx, opts.Iterations)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}

			r := EnsembleResult{RunID: p.RunID(), Seed: seed, Stats: stats}
			if sol, ok := p.Solution(); ok {
				r.Solution = &sol
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the cheapest solved result, or false when no run found a
// solution. Ties keep the earlier result.
func Best(results []EnsembleResult) (EnsembleResult, bool) {
	var (
		best  EnsembleResult
		found bool
	)
	for _, r := range results {
		if r.Solution == nil {
			continue
		}
		if !found || r.Solution.Cost < best.Solution.Cost {
			best, found = r, true
		}
	}
	return best, found
}
