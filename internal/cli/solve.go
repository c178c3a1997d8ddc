// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/panoc/config"
	"github.com/curioloop/panoc/metrics"
	"github.com/curioloop/panoc/panoc"
)

const (
	// Outer iterations of the augmented Lagrangian loop.
	maxOuter = 20
	// Initial penalty factor.
	sigma0 = 10
	// Penalty growth when the constraint violation decreases too slowly.
	sigmaGrowth = 10
	// Required decrease of the violation between outer iterations.
	violationDecrease = 0.25
)

// result of one benchmark.
type result struct {
	Problem string
	Dim     int
	Solver  string
	// Statistics of the last inner call.
	Last panoc.Stats[float64]
	// Statistics merged over all inner calls.
	Total     panoc.Accumulator[float64]
	X         []float64
	Violation float64
}

func (r *result) err() error {
	if r.Last.Status == panoc.Converged {
		return nil
	}
	if r.Last.Err != nil {
		return fmt.Errorf("%s: %w", r.Problem, r.Last.Err)
	}
	return fmt.Errorf("%s: %w", r.Problem, r.Last.Status.Err())
}

type runner struct {
	cfg     *config.File
	log     zerolog.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
}

func newRunner(cfg *config.File, log zerolog.Logger, col *metrics.Collector) *runner {
	return &runner{
		cfg:     cfg,
		log:     log,
		metrics: col,
		tracer:  otel.Tracer("github.com/curioloop/panoc/cli"),
	}
}

// solve runs benchmark p until convergence, failure or cancellation of ctx.
// It owns its solver, so concurrent calls are safe.
func (r *runner) solve(ctx context.Context, p config.Problem) (res result, err error) {
	inst, err := build(p)
	if err != nil {
		return res, err
	}
	s, err := r.cfg.NewSolver()
	if err != nil {
		return res, err
	}
	s.Logger = r.log.With().Str("problem", p.Name).Logger()
	defer context.AfterFunc(ctx, s.Stop)()
	if ctx.Err() != nil {
		s.Stop()
	}

	ctx, span := r.tracer.Start(ctx, "panoc.solve", trace.WithAttributes(
		attribute.String("problem", p.Name),
		attribute.Int("dim", p.Dim),
		attribute.String("solver", s.Name()),
	))
	defer span.End()

	res = result{Problem: p.Name, Dim: p.Dim, Solver: s.Name(), X: inst.x0}
	opts := r.cfg.Options()
	observe := func(st panoc.Stats[float64]) {
		res.Last = st
		res.Total.Add(st)
		if r.metrics != nil {
			r.metrics.Observe(p.Name, st)
		}
	}

	if _, m := inst.prob.Dims(); m == 0 {
		observe(s.Solve(inst.prob, opts, res.X, nil, nil, nil))
	} else {
		res.Violation = r.augmentedLagrangian(ctx, s, inst, opts, observe)
	}

	span.SetAttributes(
		attribute.String("status", res.Last.Status.String()),
		attribute.Int("iterations", res.Total.Iterations),
		attribute.Int("calls", res.Total.Calls),
	)
	if err := res.err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Last.Status.String())
	}
	return res, nil
}

// augmentedLagrangian updates the multipliers and penalties between inner solves
// and returns the final constraint violation ‖ŷ - y‖∞/σ.
func (r *runner) augmentedLagrangian(ctx context.Context, s *panoc.Solver[float64], inst instance,
	opts panoc.SolveOptions[float64], observe func(panoc.Stats[float64])) float64 {
	_, m := inst.prob.Dims()
	y := make([]float64, m)
	sigma := make([]float64, m)
	errZ := make([]float64, m)
	prev := make([]float64, m)
	for i := range sigma {
		sigma[i] = sigma0
		prev[i] = math.Inf(1)
	}

	span := trace.SpanFromContext(ctx)
	violation := math.Inf(1)
	for outer := 0; outer < maxOuter; outer++ {
		st := s.Solve(inst.prob, opts, inst.x0, y, sigma, errZ)
		observe(st)
		violation = floats.Norm(errZ, math.Inf(1))
		span.AddEvent("subproblem", trace.WithAttributes(
			attribute.Int("outer", outer),
			attribute.String("status", st.Status.String()),
			attribute.Int("iterations", st.Iterations),
			attribute.Float64("violation", violation),
		))
		s.Logger.Debug().
			Int("outer", outer).
			Stringer("status", st.Status).
			Float64("violation", violation).
			Floats64("sigma", sigma).
			Msg("augmented lagrangian step")
		if st.Status != panoc.Converged || violation <= opts.Tolerance {
			break
		}
		for i, e := range errZ {
			if math.Abs(e) > violationDecrease*prev[i] {
				sigma[i] *= sigmaGrowth
			}
			prev[i] = math.Abs(e)
		}
	}
	return violation
}
