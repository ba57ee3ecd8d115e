// Package kinoplan provides an embeddable Stable Sparse Tree (SST)
// kinodynamic motion planner for Go.
//
// The planner grows a tree of states reachable under a dynamical system's
// equations of motion from a start state, looking for a low-cost path into a
// goal ball. A sparse set of witness samples keeps the tree small: every
// witness keeps only its cheapest nearby node active, dominated leaves are
// drained, and once a solution exists branch-and-bound prunes leaves that
// cannot beat it.
//
// # Quick Start
//
//	sys := point.New(func(o *point.Options) {
//	    o.Obstacles = []point.Rect{{MinX: -2, MinY: -2, MaxX: 2, MaxY: 2}}
//	})
//
//	cfg := kinoplan.DefaultConfig()
//	cfg.Start = []float64{-8, -8}
//	cfg.Goal = []float64{8, 8}
//
//	p, _ := kinoplan.New(sys, cfg, kinoplan.WithLogLevel(slog.LevelInfo))
//	stats, _ := p.Run(ctx, 0) // cfg.Iterations
//	if sol, ok := p.Solution(); ok {
//	    fmt.Println(stats.Iterations, sol.Cost)
//	}
//
// # Steering
//
// Besides uniform sampling (Step and Run), the planner accepts externally
// produced trajectory segments. SteerStep draws a target from a
// steer.Proposer and asks a steer.Steerer for a segment from the nearest
// vertex; NearestVertex and AddToTree expose the same pipeline piecewise:
//
//	id, _ := p.NearestVertex(target)
//	outcome, _ := p.AddToTree(end, control, id, duration)
//
// Inserted segments are subject to the same sparsification and pruning as
// sampled ones.
//
// # Configuration
//
// Config can be built in code or loaded from YAML or JSON with LoadConfig;
// KINOPLAN_SEED, KINOPLAN_ITERATIONS, KINOPLAN_DELTA_NEAR and
// KINOPLAN_DELTA_DRAIN override the file.
//
// # Observability
//
// Logging uses log/slog through Logger. Metrics go to a MetricsCollector;
// BasicMetricsCollector keeps in-memory counters and the prommetrics package
// exports them to Prometheus.
//
// # Ensembles
//
// A Planner is single-threaded. RunEnsemble runs independent planners over
// a set of seeds with bounded parallelism and returns their results in seed
// order; Best picks the cheapest solution.
//
// # Snapshots
//
// Snapshot and SaveSnapshot export the tree, witnesses and solution for
// offline visualization (see package snapshot).
package kinoplan
