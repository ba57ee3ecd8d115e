// Command kinoplan plans for the built-in dynamical systems.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var commonFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to YAML or JSON planning config",
		EnvVars: []string{"KINOPLAN_CONFIG"},
	},
	&cli.StringFlag{
		Name:  "system",
		Usage: "dynamical system: point or pendulum",
		Value: "point",
	},
	&cli.StringSliceFlag{
		Name:  "obstacle",
		Usage: "rectangular obstacle minx,miny,maxx,maxy for the point system (repeatable)",
	},
	&cli.IntFlag{
		Name:  "iterations",
		Usage: "sampling iterations per run (0 uses the config value)",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "log level: debug, info, warn or error",
		Value: "info",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Usage: "emit JSON logs",
	},
	&cli.DurationFlag{
		Name:  "progress",
		Usage: "minimum interval between progress log lines (0 disables)",
		Value: defaultProgress,
	},
	&cli.StringFlag{
		Name:    "metrics-addr",
		Usage:   "serve Prometheus metrics on this address, e.g. :9090",
		EnvVars: []string{"KINOPLAN_METRICS_ADDR"},
	},
}

func run(args []string) error {
	app := cli.App{
		Name:  "kinoplan",
		Usage: "stable sparse tree kinodynamic planner",
		// obstacles are comma separated
		DisableSliceFlagSeparator: true,
	}
	app.Commands = []*cli.Command{
		cmdPlan,
		cmdEnsemble,
	}
	return app.Run(args)
}
