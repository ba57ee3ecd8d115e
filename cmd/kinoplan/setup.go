package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/kinoplan"
	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/hupe1980/kinoplan/dynamics/pendulum"
	"github.com/hupe1980/kinoplan/dynamics/point"
	"github.com/hupe1980/kinoplan/prommetrics"
)

const defaultProgress = 5 * time.Second

// systemFactory returns a constructor for the named system so that every
// planner in an ensemble gets its own instance.
func systemFactory(cctx *cli.Context) (func() dynamics.System, error) {
	switch name := cctx.String("system"); name {
	case "point":
		obstacles, err := parseObstacles(cctx.StringSlice("obstacle"))
		if err != nil {
			return nil, err
		}
		return func() dynamics.System {
			return point.New(func(o *point.Options) { o.Obstacles = obstacles })
		}, nil
	case "pendulum":
		if len(cctx.StringSlice("obstacle")) > 0 {
			return nil, errors.New("obstacles are only supported by the point system")
		}
		return func() dynamics.System { return pendulum.New() }, nil
	default:
		return nil, fmt.Errorf("unknown system %q", name)
	}
}

func parseObstacles(specs []string) ([]point.Rect, error) {
	rects := make([]point.Rect, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("obstacle %q: want minx,miny,maxx,maxy", spec)
		}
		var v [4]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("obstacle %q: %w", spec, err)
			}
			v[i] = f
		}
		if v[0] > v[2] || v[1] > v[3] {
			return nil, fmt.Errorf("obstacle %q: min exceeds max", spec)
		}
		rects = append(rects, point.Rect{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]})
	}
	return rects, nil
}

func loadConfig(cctx *cli.Context) (kinoplan.Config, error) {
	cfg, err := kinoplan.LoadConfig(cctx.String("config"))
	if err != nil {
		return cfg, err
	}
	if n := cctx.Int("iterations"); n > 0 {
		cfg.Iterations = n
	}
	return cfg, nil
}

func newLogger(cctx *cli.Context) (*kinoplan.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cctx.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if cctx.Bool("log-json") {
		return kinoplan.NewJSONLogger(level), nil
	}
	return kinoplan.NewTextLogger(level), nil
}

// serveMetrics starts a /metrics endpoint when an address is configured and
// returns the collector to pass to planners, or nil.
func serveMetrics(cctx *cli.Context, logger *kinoplan.Logger) (kinoplan.MetricsCollector, error) {
	addr := cctx.String("metrics-addr")
	if addr == "" {
		return nil, nil
	}
	if _, port, err := net.SplitHostPort(addr); err != nil || port == "" {
		return nil, fmt.Errorf("must specify port for metrics address: %q", addr)
	}

	reg := prometheus.NewRegistry()
	collector := prommetrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	logger.Info("serving metrics", "url", fmt.Sprintf("http://%s/metrics", addr))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("cannot start metrics server", "error", err)
		}
	}()
	return collector, nil
}

func plannerOptions(cctx *cli.Context) ([]kinoplan.Option, *kinoplan.Logger, error) {
	logger, err := newLogger(cctx)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.WithSystem(cctx.String("system"))

	metrics, err := serveMetrics(cctx, logger)
	if err != nil {
		return nil, nil, err
	}

	return []kinoplan.Option{
		kinoplan.WithLogger(logger),
		kinoplan.WithMetricsCollector(metrics),
		kinoplan.WithProgressInterval(cctx.Duration("progress")),
	}, logger, nil
}
