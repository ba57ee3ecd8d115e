package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/kinoplan"
)

var cmdEnsemble = &cli.Command{
	Name:  "ensemble",
	Usage: "run independent planners over consecutive seeds",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "runs",
			Usage: "number of planners",
			Value: 8,
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "maximum planners running at once (0 uses GOMAXPROCS)",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "write per-run results as JSON to this file (- for stdout)",
		},
	}, commonFlags...),
	Action: runEnsemble,
}

type ensembleRun struct {
	RunID      string  `json:"run_id"`
	Seed       int64   `json:"seed"`
	Iterations int     `json:"iterations"`
	Nodes      int     `json:"nodes"`
	Solved     bool    `json:"solved"`
	Cost       float64 `json:"cost,omitempty"`
}

type ensembleReport struct {
	Runs     []ensembleRun `json:"runs"`
	BestSeed *int64        `json:"best_seed,omitempty"`
	BestCost float64       `json:"best_cost,omitempty"`
}

func runEnsemble(cctx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}

	newSystem, err := systemFactory(cctx)
	if err != nil {
		return err
	}

	opts, logger, err := plannerOptions(cctx)
	if err != nil {
		return err
	}

	seeds := make([]int64, cctx.Int("runs"))
	for i := range seeds {
		seeds[i] = cfg.Seed + int64(i)
	}

	results, err := kinoplan.RunEnsemble(ctx, newSystem, cfg, seeds, kinoplan.EnsembleOptions{
		Parallelism: cctx.Int("parallel"),
		Iterations:  cfg.Iterations,
		Options:     opts,
	})
	if err != nil {
		return err
	}

	report := ensembleReport{Runs: make([]ensembleRun, 0, len(results))}
	for _, r := range results {
		run := ensembleRun{
			RunID:      r.RunID.String(),
			Seed:       r.Seed,
			Iterations: r.Stats.Iterations,
			Nodes:      r.Stats.Nodes,
			Solved:     r.Solution != nil,
		}
		if r.Solution != nil {
			run.Cost = r.Solution.Cost
		}
		report.Runs = append(report.Runs, run)
	}
	if best, ok := kinoplan.Best(results); ok {
		report.BestSeed = &best.Seed
		report.BestCost = best.Solution.Cost
		logger.InfoContext(ctx, "ensemble completed", "runs", len(results), "best_seed", best.Seed, "best_cost", best.Solution.Cost)
	} else {
		logger.InfoContext(ctx, "ensemble completed without solution", "runs", len(results))
	}

	if path := cctx.String("out"); path != "" {
		return writeJSON(path, report)
	}
	return nil
}
