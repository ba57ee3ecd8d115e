package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/kinoplan"
	"github.com/hupe1980/kinoplan/codec"
	"github.com/hupe1980/kinoplan/snapshot"
)

var cmdPlan = &cli.Command{
	Name:  "plan",
	Usage: "run a single planner and export its solution",
	Flags: append([]cli.Flag{
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "override the config seed",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "write the solution as JSON to this file (- for stdout)",
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "write a tree snapshot to this file",
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "snapshot compression: none, lz4 or zstd",
			Value: "zstd",
		},
	}, commonFlags...),
	Action: runPlan,
}

func runPlan(cctx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	if cctx.IsSet("seed") {
		cfg.Seed = cctx.Int64("seed")
	}

	compression, err := snapshot.ParseCompression(cctx.String("compression"))
	if err != nil {
		return err
	}

	newSystem, err := systemFactory(cctx)
	if err != nil {
		return err
	}

	opts, _, err := plannerOptions(cctx)
	if err != nil {
		return err
	}

	p, err := kinoplan.New(newSystem(), cfg, opts...)
	if err != nil {
		return err
	}

	if _, err := p.Run(ctx, cfg.Iterations); err != nil && ctx.Err() == nil {
		return err
	}

	if path := cctx.String("snapshot"); path != "" {
		if err := p.SaveSnapshot(context.WithoutCancel(ctx), path, compression); err != nil {
			return err
		}
	}

	if path := cctx.String("out"); path != "" {
		sol, ok := p.Solution()
		if !ok {
			return fmt.Errorf("no solution after %d iterations", p.Iterations())
		}
		return writeJSON(path, sol)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := codec.Default.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
