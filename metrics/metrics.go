// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics exports solver statistics in Prometheus format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/curioloop/panoc/panoc"
)

const namespace = "panoc"

// Collector aggregates the Stats of every observed solve, labelled by problem name.
type Collector struct {
	solves      *prometheus.CounterVec
	iterations  *prometheus.CounterVec
	backtracks  *prometheus.CounterVec
	directional *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	epsilon     *prometheus.GaugeVec
	avgTau      *prometheus.GaugeVec
}

// New registers the solver metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Number of solves by final status",
		}, []string{"problem", "status"}),
		iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Number of PANOC iterations",
		}, []string{"problem"}),
		backtracks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtracks_total",
			Help:      "Line search weight reductions and Lipschitz estimate increases",
		}, []string{"problem", "kind"}),
		directional: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "direction_events_total",
			Help:      "Declined direction proposals and rejected secant pairs",
		}, []string{"problem", "event"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of one solve",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"problem"}),
		epsilon: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "final_epsilon",
			Help:      "Stopping criterion of the latest solve",
		}, []string{"problem"}),
		avgTau: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_tau",
			Help:      "Mean line search weight of the latest solve",
		}, []string{"problem"}),
	}
}

// Observe records the outcome of one solve.
func (c *Collector) Observe(problem string, s panoc.Stats[float64]) {
	c.solves.WithLabelValues(problem, s.Status.String()).Inc()
	c.iterations.WithLabelValues(problem).Add(float64(s.Iterations))
	c.backtracks.WithLabelValues(problem, "linesearch").Add(float64(s.LinesearchBacktracks))
	c.backtracks.WithLabelValues(problem, "stepsize").Add(float64(s.StepsizeBacktracks))
	c.directional.WithLabelValues(problem, "declined").Add(float64(s.LBFGSFailures))
	c.directional.WithLabelValues(problem, "rejected").Add(float64(s.LBFGSRejected))
	c.directional.WithLabelValues(problem, "fallback").Add(float64(s.LinesearchFailures))
	c.duration.WithLabelValues(problem).Observe(s.ElapsedTime.Seconds())
	c.epsilon.WithLabelValues(problem).Set(s.Epsilon)
	c.avgTau.WithLabelValues(problem).Set(s.AverageTau())
}
