// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package panoc implements PANOC, a proximal gradient method accelerated by a
// quasi-Newton direction and safeguarded by a line search on the
// forward-backward envelope. It minimizes ψ(x) + h(x) with ψ smooth and h
// having a cheap proximal operator, and is intended as the inner solver of an
// augmented Lagrangian method.
//
// # Reference:
//
//   - Stella, L., Themelis, A., Sopasakis, P., Patrinos, P.: A simple and
//     efficient algorithm for nonlinear model predictive control (2017).
//   - De Marchi, A., Themelis, A.: Proximal gradient algorithms under local
//     Lipschitz gradient continuity (2022).
package panoc

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/curioloop/panoc/direction"
	"github.com/curioloop/panoc/internal/linalg"
	"github.com/curioloop/panoc/problem"
)

// Solver runs PANOC with a pluggable Direction.
//
// The workspace is sized on the first call and reused by later calls of the
// same dimension, so a Solver must not be used by two goroutines at once.
// Stop is the only method safe to call concurrently with Solve.
type Solver[T linalg.Float] struct {
	// Logger receives progress lines when Params.PrintInterval > 0.
	Logger zerolog.Logger

	params   Params[T]
	dir      Direction[T]
	stop     atomic.Bool
	progress func(*ProgressInfo[T])
	ws       workspace[T]
	info     ProgressInfo[T]
}

// NewSolver validates params and returns a solver using dir.
func NewSolver[T linalg.Float](params Params[T], dir Direction[T]) (*Solver[T], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if dir == nil {
		return nil, errors.New("panoc: direction is required")
	}
	return &Solver[T]{Logger: zerolog.Nop(), params: params, dir: dir}, nil
}

// NewDefaultSolver returns a solver using L-BFGS with its default parameters.
func NewDefaultSolver[T linalg.Float](params Params[T]) (*Solver[T], error) {
	return NewSolver[T](params, direction.NewLBFGS(direction.DefaultLBFGSParams[T]()))
}

func (s *Solver[T]) Params() Params[T] { return s.params }

func (s *Solver[T]) Direction() Direction[T] { return s.dir }

func (s *Solver[T]) Name() string { return "PANOCSolver<" + s.dir.Name() + ">" }

// Stop asks the running call to return with Interrupted at its next iteration.
// The request persists until ResetStop, so a Solve started afterwards is
// interrupted immediately.
func (s *Solver[T]) Stop() { s.stop.Store(true) }

// ResetStop clears a pending Stop request.
func (s *Solver[T]) ResetStop() { s.stop.Store(false) }

// SetProgressCallback registers cb, called inline every iteration. A nil cb disables it.
func (s *Solver[T]) SetProgressCallback(cb func(*ProgressInfo[T])) *Solver[T] {
	s.progress = cb
	return s
}

// SolveObjective minimizes an objective without general constraints.
func (s *Solver[T]) SolveObjective(obj problem.Objective[T], opts SolveOptions[T], x []T) Stats[T] {
	return s.Solve(problem.Unconstrained(obj), opts, x, nil, nil, nil)
}

// Solve minimizes ψ(x; y, Σ) + h(x) starting from x.
//
// x must have length n and y, sigma length m, as reported by p.Dims.
// errZ may be nil, otherwise it must have length m.
// When the call converges or is interrupted, or when opts.AlwaysOverwriteResults
// is set, x receives x̂, y receives ŷ(x̂) and errZ receives Σ⁻¹(ŷ - y).
// Otherwise x, y and errZ are left untouched.
//
// A panic raised by p, by the direction provider or by the progress callback
// ends the call with Exception. Iterations, Epsilon and the Final* fields
// then describe the last iterate that was reached.
// Dimension mismatches panic.
func (s *Solver[T]) Solve(p problem.Problem[T], opts SolveOptions[T], x, y, sigma, errZ []T) (stats Stats[T]) {
	start := time.Now()
	n, m := p.Dims()
	if n <= 0 || len(x) != n || len(y) != m || len(sigma) != m || (errZ != nil && len(errZ) != m) {
		panic(fmt.Sprintf("panoc: dimension mismatch (n=%d m=%d, len(x)=%d len(y)=%d len(sigma)=%d len(errZ)=%d)",
			n, m, len(x), len(y), len(sigma), len(errZ)))
	}

	maxTime := s.params.MaxTime
	if opts.MaxTime != nil {
		maxTime = min(maxTime, *opts.MaxTime)
	}

	s.ws.resize(n, m)
	c := &call[T]{prob: p, y: y, sigma: sigma, params: &s.params, ws: &s.ws}
	c.fused, _ = p.(problem.CostGradienter[T])

	defer func() {
		if r := recover(); r != nil {
			stats.Status = Exception
			if err, ok := r.(error); ok {
				stats.Err = fmt.Errorf("%w: %w", ErrEvaluation, err)
			} else {
				stats.Err = fmt.Errorf("%w: %v", ErrEvaluation, r)
			}
		}
		stats.ElapsedTime = time.Since(start)
		s.printExit(&stats)
	}()

	s.run(c, opts, start, maxTime, x, errZ, &stats)
	return
}

func (s *Solver[T]) run(c *call[T], opts SolveOptions[T], start time.Time, maxTime time.Duration, x, errZ []T, st *Stats[T]) {
	params := c.params
	curr, next := &c.ws.curr, &c.ws.next
	st.Status = Busy
	st.Epsilon = linalg.Inf[T]()

	copy(curr.x, x)
	c.evalPsiGrad(curr)

	L := opts.InitialLipschitz
	if L <= 0 {
		L = params.Lipschitz.L0
	}
	if L <= 0 {
		L = c.estimateLipschitz(curr)
	}
	if !linalg.IsFinite(L) || !linalg.IsFinite(curr.psi) {
		st.Status, st.Err = NotFinite, ErrNotFinite
		return
	}
	c.setLipschitz(curr, L)
	c.evalForwardBackward(curr)
	grown, ok := c.enforceQUB(curr)
	st.StepsizeBacktracks += grown
	if !ok {
		st.Status, st.Err = NotFinite, ErrStepSizeExhausted
		return
	}
	s.Logger.Debug().Str("L", formatReal(curr.L, params.PrintPrecision)).
		Str("gamma", formatReal(curr.gamma, params.PrintPrecision)).
		Msg("panoc initial step size")

	s.dir.Initialize(c.prob, c.y, c.sigma, curr.gamma, curr.x, curr.xhat, curr.p, curr.grad)

	var (
		epsPrev    = linalg.Inf[T]()
		slack      = 10 * linalg.Epsilon[T]()
		noProgress int
		tau        T
	)
	for k := 0; ; k++ {
		phi := curr.fbe()
		eps := s.stopCriterion(c, curr)
		if k > 0 && !(eps < epsPrev-slack*max(1, epsPrev)) {
			noProgress++
		} else {
			noProgress = 0
		}
		epsPrev = eps
		st.Iterations, st.Epsilon = k, eps
		st.FinalGamma, st.FinalPsi, st.FinalH, st.FinalPhiGamma = curr.gamma, curr.psiHat, curr.hHat, phi

		status := Busy
		switch {
		case eps <= opts.Tolerance:
			status = Converged
		case !linalg.IsFinite(eps) || !linalg.IsFinite(phi):
			status = NotFinite
		case k >= params.MaxIter:
			status = MaxIter
		case time.Since(start) >= maxTime:
			status = MaxTime
		case s.stop.Load():
			status = Interrupted
		case params.MaxNoProgress > 0 && noProgress >= params.MaxNoProgress:
			status = NoProgress
		}

		if params.PrintInterval > 0 && (k%params.PrintInterval == 0 || status != Busy) {
			s.printProgress(k, curr, phi, eps, tau)
		}
		if status != Busy {
			s.report(c, curr, k, status, phi, eps, 0, nil)
			if status == NotFinite {
				st.Err = ErrNotFinite
			}
			s.finish(c, opts, curr, status, phi, eps, k, x, errZ, st)
			return
		}

		q := c.ws.q
		proposed := s.dir.Propose(curr.gamma, curr.x, curr.xhat, curr.p, curr.grad, q) && linalg.AllFinite(q)
		if proposed {
			tau = 1
		} else {
			st.LBFGSFailures++
			s.dir.Reset()
			tau = 0
		}

		if tau, ok = c.linesearch(curr, next, phi, tau, st); !ok {
			if params.PrintInterval > 0 {
				s.printProgress(k, curr, phi, eps, tau)
			}
			s.report(c, curr, k, NotFinite, phi, eps, 0, nil)
			st.Err = ErrStepSizeExhausted
			s.finish(c, opts, curr, NotFinite, phi, eps, k, x, errZ, st)
			return
		}

		if next.gamma != curr.gamma {
			s.dir.ChangedStep(next.gamma, curr.gamma)
		}
		if !s.dir.Update(curr.gamma, next.gamma, curr.x, next.x, curr.p, next.p, curr.grad, next.grad) {
			st.LBFGSRejected++
		}

		if !proposed {
			q = nil
		}
		s.report(c, curr, k, Busy, phi, eps, tau, q)
		curr, next = next, curr
	}
}

// finish fills the final snapshot and writes the solution back when allowed.
func (s *Solver[T]) finish(c *call[T], opts SolveOptions[T], it *iterate[T], status Status, phi, eps T, k int, x, errZ []T, st *Stats[T]) {
	st.Status = status
	st.Epsilon = eps
	st.Iterations = k
	st.FinalGamma = it.gamma
	st.FinalPsi = it.psiHat
	st.FinalH = it.hHat
	st.FinalPhiGamma = phi

	if status != Converged && status != Interrupted && !opts.AlwaysOverwriteResults {
		return
	}
	if len(c.y) > 0 {
		yhat := c.ws.yhat
		c.prob.Multipliers(it.xhat, c.y, c.sigma, yhat)
		for i, v := range yhat {
			if errZ != nil {
				errZ[i] = (v - c.y[i]) / c.sigma[i]
			}
			c.y[i] = v
		}
	}
	copy(x, it.xhat)
}
