// Package prommetrics exports planner metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/kinoplan"
	"github.com/hupe1980/kinoplan/sst"
)

const namespace = "kinoplan"

var _ kinoplan.MetricsCollector = (*Collector)(nil)

// Collector implements kinoplan.MetricsCollector on Prometheus metrics.
// It is safe for concurrent use, so one Collector can serve an ensemble.
type Collector struct {
	StepsTotal        *prometheus.CounterVec
	StepErrorsTotal   prometheus.Counter
	StepDuration      prometheus.Histogram
	Nodes             prometheus.Gauge
	ActiveNodes       prometheus.Gauge
	Witnesses         prometheus.Gauge
	BestCost          prometheus.Gauge
	ImprovementsTotal prometheus.Counter
}

// New creates a Collector and registers its metrics with reg. A nil reg
// uses prometheus.DefaultRegisterer. Registering twice on the same
// registry panics.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		StepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Number of planner iterations by outcome",
		}, []string{"outcome"}),
		StepErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_errors_total",
			Help:      "Number of planner iterations that failed",
		}),
		StepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Latency of one planner iteration",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		Nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Number of nodes in the search tree",
		}),
		ActiveNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_active_nodes",
			Help:      "Number of active nodes in the search tree",
		}),
		Witnesses: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "witnesses",
			Help:      "Number of witness samples",
		}),
		BestCost: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_cost",
			Help:      "Cost of the best solution found so far",
		}),
		ImprovementsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "improvements_total",
			Help:      "Number of times the best solution improved",
		}),
	}
}

// RecordStep implements kinoplan.MetricsCollector.
func (c *Collector) RecordStep(outcome sst.Outcome, duration time.Duration, err error) {
	c.StepDuration.Observe(duration.Seconds())
	if err != nil {
		c.StepErrorsTotal.Inc()
		return
	}
	c.StepsTotal.WithLabelValues(outcome.String()).Inc()
}

// RecordTree implements kinoplan.MetricsCollector.
func (c *Collector) RecordTree(nodes, activeNodes, witnesses int) {
	c.Nodes.Set(float64(nodes))
	c.ActiveNodes.Set(float64(activeNodes))
	c.Witnesses.Set(float64(witnesses))
}

// RecordImprovement implements kinoplan.MetricsCollector.
func (c *Collector) RecordImprovement(cost float64) {
	c.ImprovementsTotal.Inc()
	c.BestCost.Set(cost)
}
