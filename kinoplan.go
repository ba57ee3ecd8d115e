package kinoplan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hupe1980/kinoplan/dynamics"
	"github.com/hupe1980/kinoplan/snapshot"
	"github.com/hupe1980/kinoplan/sst"
	"github.com/hupe1980/kinoplan/steer"
)

// Planner drives an SST engine with a configured sampling budget and
// reports progress through the configured logger and metrics collector.
//
// A Planner is not safe for concurrent use. Run independent planners in
// parallel instead (see RunEnsemble).
type Planner struct {
	engine  *sst.Engine
	cfg     Config
	runID   uuid.UUID
	logger  *Logger
	metrics MetricsCollector
	opts    options

	iterations int
}

// RunStats summarizes one call to Run.
type RunStats struct {
	Iterations int
	Infeasible int
	Rejected   int
	Inserted   int
	Improved   int
	Nodes      int
	Witnesses  int
	Solved     bool
	BestCost   float64
	Elapsed    time.Duration
}

// New creates a Planner for sys.
func New(sys dynamics.System, cfg Config, optFns ...Option) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := applyOptions(optFns)

	engine, err := sst.New(sys, cfg.engineConfig(), opts.engineOptions...)
	if err != nil {
		return nil, translateError(err)
	}

	runID := uuid.New()
	return &Planner{
		engine:  engine,
		cfg:     cfg,
		runID:   runID,
		logger:  opts.logger.WithRunID(runID.String()).WithSeed(cfg.Seed),
		metrics: opts.metricsCollector,
		opts:    opts,
	}, nil
}

// RunID identifies this planner in logs and snapshots.
func (p *Planner) RunID() uuid.UUID { return p.runID }

// Config returns the planner configuration.
func (p *Planner) Config() Config { return p.cfg }

// Engine exposes the underlying engine for inspection.
func (p *Planner) Engine() *sst.Engine { return p.engine }

// Iterations returns the number of Step and SteerStep calls so far.
func (p *Planner) Iterations() int { return p.iterations }

// Step runs one sampling iteration with the configured time step range.
func (p *Planner) Step() (sst.Outcome, error) {
	start := time.Now()
	outcome, err := p.engine.Step(p.cfg.MinTimeSteps, p.cfg.MaxTimeSteps, p.cfg.IntegrationStep)
	return p.record(outcome, err, start)
}

// SteerStep draws a target from prop, steers from the nearest vertex towards
// it with s and inserts the result. An infeasible steer yields
// OutcomeInfeasible and a nil error.
func (p *Planner) SteerStep(prop steer.Proposer, s steer.Steerer) (sst.Outcome, error) {
	start := time.Now()
	outcome, err := p.steerStep(prop, s)
	return p.record(outcome, err, start)
}

func (p *Planner) steerStep(prop steer.Proposer, s steer.Steerer) (sst.Outcome, error) {
	target := prop.Propose()

	nearest, err := p.engine.NearestVertex(target)
	if err != nil {
		return sst.OutcomeInfeasible, err
	}
	from, _ := p.engine.Node(nearest)

	cand, err := s.Steer(from.State, target)
	if err != nil {
		if errors.Is(err, dynamics.ErrInfeasible) {
			return sst.OutcomeInfeasible, nil
		}
		return sst.OutcomeInfeasible, fmt.Errorf("steer: %w", err)
	}
	return p.engine.AddToTree(cand.State, cand.Control, nearest, cand.Duration)
}

func (p *Planner) record(outcome sst.Outcome, err error, start time.Time) (sst.Outcome, error) {
	p.iterations++
	err = translateError(err)

	p.metrics.RecordStep(outcome, time.Since(start), err)
	st := p.engine.Stats()
	p.metrics.RecordTree(st.Nodes, st.ActiveNodes, st.Witnesses)
	if err == nil && outcome == sst.OutcomeImproved {
		cost, _ := p.engine.BestCost()
		p.metrics.RecordImprovement(cost)
	}
	return outcome, err
}

// Run performs up to iterations steps, or Config.Iterations when iterations
// is not positive. It stops early when ctx is done or a step fails; the
// returned stats cover the iterations that ran.
func (p *Planner) Run(ctx context.Context, iterations int) (RunStats, error) {
	if iterations <= 0 {
		iterations = p.cfg.Iterations
	}

	var (
		stats    RunStats
		start    = time.Now()
		progress *rate.Sometimes
		runErr   error
	)
	if p.opts.progressInterval > 0 {
		progress = &rate.Sometimes{Interval: p.opts.progressInterval}
	}

	p.logger.LogRunStart(ctx, iterations, p.cfg)

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		outcome, err := p.Step()
		stats.Iterations++
		if err != nil {
			p.logger.LogStepError(ctx, p.iterations, err)
			runErr = err
			break
		}

		switch outcome {
		case sst.OutcomeInfeasible:
			stats.Infeasible++
		case sst.OutcomeRejected:
			stats.Rejected++
		case sst.OutcomeInserted:
			stats.Inserted++
		case sst.OutcomeImproved:
			stats.Inserted++
			stats.Improved++
			cost, _ := p.engine.BestCost()
			p.logger.LogImprovement(ctx, p.iterations, cost)
		}

		if progress != nil {
			progress.Do(func() {
				cost, solved := p.engine.BestCost()
				p.logger.LogProgress(ctx, p.iterations, p.engine.NumberOfNodes(), p.engine.NumberOfWitnesses(), cost, solved)
			})
		}
	}

	stats.Nodes = p.engine.NumberOfNodes()
	stats.Witnesses = p.engine.NumberOfWitnesses()
	stats.BestCost, stats.Solved = p.engine.BestCost()
	stats.Elapsed = time.Since(start)

	p.logger.LogRunComplete(ctx, stats, runErr)
	return stats, runErr
}

// NearestVertex returns the lowest-cost active node within delta_near of
// state, or the closest active node when none is that close.
func (p *Planner) NearestVertex(state []float64) (sst.NodeID, error) {
	id, err := p.engine.NearestVertex(state)
	return id, translateError(err)
}

// AddToTree offers an externally produced trajectory end for insertion.
func (p *Planner) AddToTree(state, control []float64, nearest sst.NodeID, duration float64) (sst.Outcome, error) {
	outcome, err := p.engine.AddToTree(state, control, nearest, duration)
	return outcome, translateError(err)
}

// Solution returns the current best path, or false when none exists yet.
func (p *Planner) Solution() (sst.Solution, bool) { return p.engine.Solution() }

// NumberOfNodes returns the number of nodes in the tree.
func (p *Planner) NumberOfNodes() int { return p.engine.NumberOfNodes() }

// NumberOfWitnesses returns the number of witness samples.
func (p *Planner) NumberOfWitnesses() int { return p.engine.NumberOfWitnesses() }

// BestCost returns the cost of the best solution, if any.
func (p *Planner) BestCost() (float64, bool) { return p.engine.BestCost() }

// Snapshot captures the tree, witnesses and solution under this planner's run id.
func (p *Planner) Snapshot() *snapshot.Snapshot {
	s := snapshot.Capture(p.engine)
	s.RunID = p.runID
	return s
}

// SaveSnapshot writes a snapshot to filename.
func (p *Planner) SaveSnapshot(ctx context.Context, filename string, c snapshot.Compression) (err error) {
	defer func() { p.logger.LogSnapshot(ctx, filename, err) }()

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := snapshot.Encode(f, p.Snapshot(), c); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
