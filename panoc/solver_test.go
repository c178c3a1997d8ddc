// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/panoc/direction"
	"github.com/curioloop/panoc/problem"
)

func squaredNorm(n int) *problem.Funcs[float64] {
	return &problem.Funcs[float64]{
		N: n,
		F: func(x []float64) float64 { return floats.Dot(x, x) },
		Grad: func(x, g []float64) {
			for i, v := range x {
				g[i] = 2 * v
			}
		},
	}
}

func rosenbrock(box problem.Box[float64]) *problem.Funcs[float64] {
	return &problem.Funcs[float64]{
		N: 2,
		F: func(x []float64) float64 {
			a, b := 1-x[0], x[1]-x[0]*x[0]
			return a*a + 100*b*b
		},
		Grad: func(x, g []float64) {
			b := x[1] - x[0]*x[0]
			g[0] = -2*(1-x[0]) - 400*x[0]*b
			g[1] = 200 * b
		},
		H: box,
	}
}

// ψ(x) = Σ xᵢ, unbounded below with a constant residual
func linear(n int) *problem.Funcs[float64] {
	return &problem.Funcs[float64]{
		N: n,
		F: func(x []float64) float64 { return floats.Sum(x) },
		Grad: func(_, g []float64) {
			for i := range g {
				g[i] = 1
			}
		},
	}
}

func newSolver(t *testing.T, params Params[float64]) *Solver[float64] {
	s, err := NewDefaultSolver(params)
	require.NoError(t, err)
	return s
}

func TestSquaredNorm(t *testing.T) {
	s := newSolver(t, DefaultParams[float64]())
	x := []float64{10}
	st := s.SolveObjective(squaredNorm(1), SolveOptions[float64]{Tolerance: 1e-8}, x)

	require.Equal(t, Converged, st.Status, st.Err)
	assert.Less(t, math.Abs(x[0]), 1e-8)
	assert.LessOrEqual(t, st.Epsilon, 1e-8)
	assert.Less(t, st.Iterations, 10)
	assert.Equal(t, 1, st.LBFGSFailures)
	assert.Equal(t, st.Iterations, st.CountTau)
	assert.False(t, st.Status.Early())
	assert.NoError(t, st.Err)
	assert.Equal(t, "PANOCSolver<LBFGS>", s.Name())
}

func TestLasso(t *testing.T) {
	// ½‖Dx - b‖² + λ‖x‖₁ with D diagonal, solved by xᵢ = soft(dᵢbᵢ, λ)/dᵢ²
	d := []float64{1, 2, 0.5, 3}
	b := []float64{3, -0.2, 4, -1}
	lambda := 0.5

	q := mat.NewDiagDense(4, nil)
	c := make([]float64, 4)
	want := make([]float64, 4)
	for i := range d {
		q.SetDiag(i, d[i]*d[i])
		c[i] = -d[i] * b[i]
		v := d[i] * b[i]
		switch {
		case v > lambda:
			want[i] = (v - lambda) / (d[i] * d[i])
		case v < -lambda:
			want[i] = (v + lambda) / (d[i] * d[i])
		}
	}
	sym := mat.NewSymDense(4, nil)
	sym.CopySym(q)
	obj := problem.NewQuadratic(sym, c, problem.L1[float64]{Lambda: lambda})

	params := DefaultParams[float64]()
	params.MaxIter = 2000
	s := newSolver(t, params)
	x := make([]float64, 4)
	st := s.SolveObjective(obj, SolveOptions[float64]{Tolerance: 1e-10}, x)

	require.Equal(t, Converged, st.Status, st.Err)
	assert.InDeltaSlice(t, want, x, 1e-8)
	assert.Equal(t, 0.0, x[1])
	assert.InDelta(t, lambda*floats.Norm(x, 1), st.FinalH, 1e-12)
}

func TestMonotoneEnvelope(t *testing.T) {
	params := DefaultParams[float64]()
	params.MaxIter = 1000
	params.MaxNoProgress = 0
	s := newSolver(t, params)

	var phis []float64
	s.SetProgressCallback(func(info *ProgressInfo[float64]) {
		phis = append(phis, info.PhiGamma)
		assert.LessOrEqual(t, info.Gamma*info.L, 1.0)
	})
	box := problem.Box[float64]{Lower: []float64{-2, -2}, Upper: []float64{2, 2}}
	x := []float64{-1.2, 1}
	st := s.SolveObjective(rosenbrock(box), SolveOptions[float64]{Tolerance: 1e-10}, x)

	require.NotEqual(t, Exception, st.Status)
	require.Greater(t, len(phis), 2)
	for k := 1; k < len(phis); k++ {
		assert.LessOrEqual(t, phis[k], phis[k-1]+1e-12*(1+math.Abs(phis[k-1])), "k=%d", k)
	}
	assert.Equal(t, Converged, st.Status)
	assert.InDeltaSlice(t, []float64{1, 1}, x, 1e-6)
}

func TestLipschitzGrowth(t *testing.T) {
	params := DefaultParams[float64]()
	params.Lipschitz.L0 = 1e-3
	s := newSolver(t, params)

	first := math.NaN()
	s.SetProgressCallback(func(info *ProgressInfo[float64]) {
		if math.IsNaN(first) {
			first = info.L
		}
		assert.LessOrEqual(t, info.Gamma, 1/info.L)
	})
	x := []float64{10, -4, 2}
	st := s.SolveObjective(squaredNorm(3), SolveOptions[float64]{Tolerance: 1e-8}, x)

	require.Equal(t, Converged, st.Status)
	assert.Greater(t, st.StepsizeBacktracks, 0)
	// ψ has L = 2; the first accepted estimate is the first doubling of 1e-3 above 1.9
	assert.InDelta(t, 1e-3*2048, first, 1e-12)
	assert.LessOrEqual(t, st.FinalGamma, 0.5)
}

func TestInitialLipschitzOption(t *testing.T) {
	s := newSolver(t, DefaultParams[float64]())
	var L float64
	s.SetProgressCallback(func(info *ProgressInfo[float64]) {
		if info.K == 0 {
			L = info.L
		}
	})
	x := []float64{1, 1}
	st := s.SolveObjective(squaredNorm(2), SolveOptions[float64]{Tolerance: 1e-8, InitialLipschitz: 4}, x)
	require.Equal(t, Converged, st.Status)
	assert.Equal(t, 4.0, L)
	assert.Equal(t, 0, st.StepsizeBacktracks)
}

func TestStopFromCallback(t *testing.T) {
	params := DefaultParams[float64]()
	params.MaxNoProgress = 0
	s := newSolver(t, params)
	s.SetProgressCallback(func(info *ProgressInfo[float64]) {
		if info.K == 3 {
			s.Stop()
		}
	})
	x := []float64{0, 0}
	st := s.SolveObjective(linear(2), SolveOptions[float64]{}, x)
	require.Equal(t, Interrupted, st.Status)
	assert.Equal(t, 4, st.Iterations)
	// x receives x̂ of the last iterate
	assert.Less(t, x[0], 0.0)
	assert.ErrorContains(t, st.Status.Err(), "interrupted")
}

func TestStopFromGoroutine(t *testing.T) {
	params := DefaultParams[float64]()
	params.MaxNoProgress = 0
	params.MaxIter = math.MaxInt32
	params.MaxTime = time.Minute
	s := newSolver(t, params)

	var once sync.Once
	started := make(chan struct{})
	s.SetProgressCallback(func(*ProgressInfo[float64]) {
		once.Do(func() { close(started) })
	})

	done := make(chan Stats[float64], 1)
	go func() {
		done <- s.SolveObjective(linear(3), SolveOptions[float64]{}, make([]float64, 3))
	}()

	<-started
	s.Stop()
	select {
	case st := <-done:
		assert.Equal(t, Interrupted, st.Status)
		assert.Greater(t, st.Iterations, 0)
	case <-time.After(30 * time.Second):
		t.Fatal("solver did not honour Stop")
	}
}

func TestStopBeforeSolve(t *testing.T) {
	s := newSolver(t, DefaultParams[float64]())
	s.Stop()

	x := []float64{10}
	st := s.SolveObjective(squaredNorm(1), SolveOptions[float64]{Tolerance: 1e-8}, x)
	assert.Equal(t, Interrupted, st.Status)
	assert.Equal(t, 0, st.Iterations)
	// the proximal step from 10 with γ = 0.95/2
	assert.InDelta(t, 0.5, x[0], 1e-6)

	// the flag persists until cleared
	st = s.SolveObjective(squaredNorm(1), SolveOptions[float64]{Tolerance: 1e-8}, x)
	assert.Equal(t, Interrupted, st.Status)

	s.ResetStop()
	st = s.SolveObjective(squaredNorm(1), SolveOptions[float64]{Tolerance: 1e-8}, x)
	assert.Equal(t, Converged, st.Status)
}

func TestMaxTimeZero(t *testing.T) {
	s := newSolver(t, DefaultParams[float64]())
	zero := time.Duration(0)
	x := []float64{10, 10}
	st := s.SolveObjective(squaredNorm(2), SolveOptions[float64]{Tolerance: 1e-8, MaxTime: &zero}, x)
	assert.Equal(t, MaxTime, st.Status)
	assert.Equal(t, 0, st.Iterations)
	assert.Equal(t, []float64{10, 10}, x)
	assert.True(t, st.Status.Early())

	// convergence is checked before the time budget
	x = []float64{0, 0}
	st = s.SolveObjective(squaredNorm(2), SolveOptions[float64]{Tolerance: 1e-8, MaxTime: &zero}, x)
	assert.Equal(t, Converged, st.Status)
	assert.Equal(t, 0, st.Iterations)
}

func TestMaxIter(t *testing.T) {
	params := DefaultParams[float64]()
	params.MaxIter = 3
	s := newSolver(t, params)
	x := []float64{-1.2, 1}
	st := s.SolveObjective(rosenbrock(problem.Box[float64]{}), SolveOptions[float64]{Tolerance: 1e-12}, x)
	assert.Equal(t, MaxIter, st.Status)
	assert.Equal(t, 3, st.Iterations)
	assert.Equal(t, []float64{-1.2, 1}, x)

	x2 := []float64{-1.2, 1}
	st = s.SolveObjective(rosenbrock(problem.Box[float64]{}), SolveOptions[float64]{Tolerance: 1e-12, AlwaysOverwriteResults: true}, x2)
	assert.Equal(t, MaxIter, st.Status)
	assert.NotEqual(t, []float64{-1.2, 1}, x2)
}

func TestNoProgress(t *testing.T) {
	params := DefaultParams[float64]()
	params.MaxNoProgress = 3
	s := newSolver(t, params)
	st := s.SolveObjective(linear(1), SolveOptions[float64]{}, []float64{0})
	assert.Equal(t, NoProgress, st.Status)
	assert.Equal(t, 3, st.Iterations)
	assert.Equal(t, 1.0, st.Epsilon)
	// y = p - p₊ vanishes for a linear ψ
	assert.Equal(t, st.Iterations, st.LBFGSRejected)
}

func TestDeterminism(t *testing.T) {
	solve := func() (Stats[float64], []float64) {
		s := newSolver(t, DefaultParams[float64]())
		box := problem.Box[float64]{Lower: []float64{-2, 0.5}, Upper: []float64{2, 2}}
		x := []float64{-1.2, 1}
		st := s.SolveObjective(rosenbrock(box), SolveOptions[float64]{Tolerance: 1e-9}, x)
		st.ElapsedTime = 0
		return st, x
	}
	st1, x1 := solve()
	st2, x2 := solve()
	assert.Equal(t, st1, st2)
	assert.Equal(t, x1, x2)
}

func TestNoneDirection(t *testing.T) {
	params := DefaultParams[float64]()
	params.MaxIter = 1000
	s, err := NewSolver[float64](params, direction.None[float64]{})
	require.NoError(t, err)
	assert.Equal(t, "PANOCSolver<None>", s.Name())

	x := []float64{3, -2, 1}
	st := s.SolveObjective(squaredNorm(3), SolveOptions[float64]{Tolerance: 1e-8}, x)
	require.Equal(t, Converged, st.Status)
	assert.Equal(t, st.Iterations, st.LBFGSFailures)
	assert.Equal(t, 0, st.LinesearchFailures)
	assert.Equal(t, 0.0, st.SumTau)
	assert.Equal(t, 0.0, st.AverageTau())
}

// decline always declines and records how it is driven.
type decline struct {
	direction.None[float64]
	resets, updates int
}

func (d *decline) Reset() { d.resets++ }

func (d *decline) Update(float64, float64, []float64, []float64, []float64, []float64, []float64, []float64) bool {
	d.updates++
	return false
}

func TestDirectionContract(t *testing.T) {
	d := &decline{}
	s, err := NewSolver[float64](DefaultParams[float64](), d)
	require.NoError(t, err)
	st := s.SolveObjective(squaredNorm(2), SolveOptions[float64]{Tolerance: 1e-8}, []float64{1, 2})
	require.Equal(t, Converged, st.Status)
	assert.Equal(t, st.Iterations, d.resets)
	assert.Equal(t, st.Iterations, d.updates)
	assert.Equal(t, st.Iterations, st.LBFGSRejected)
	assert.Equal(t, st.Iterations, st.LBFGSFailures)
}

// overshoot proposes a step far past the minimizer.
type overshoot struct {
	direction.None[float64]
}

func (overshoot) Propose(_ float64, _, _, p, _, q []float64) bool {
	for i, v := range p {
		q[i] = 1e6 * v
	}
	return true
}

func TestLinesearchFallback(t *testing.T) {
	s, err := NewSolver[float64](DefaultParams[float64](), overshoot{})
	require.NoError(t, err)
	var phis []float64
	s.SetProgressCallback(func(info *ProgressInfo[float64]) {
		phis = append(phis, info.PhiGamma)
	})
	x := []float64{3, -4}
	st := s.SolveObjective(squaredNorm(2), SolveOptions[float64]{Tolerance: 1e-8}, x)
	require.Equal(t, Converged, st.Status, st.Err)
	require.Greater(t, st.Iterations, 0)
	// τ = 1, ½, …, 1/256 all fail before x̂ is taken
	assert.Equal(t, st.Iterations, st.LinesearchFailures)
	assert.Equal(t, 9*st.Iterations, st.LinesearchBacktracks)
	assert.Equal(t, st.Iterations, st.CountTau)
	assert.Equal(t, 0.0, st.SumTau)
	assert.Equal(t, 0, st.Tau1Accepted)
	assert.Equal(t, 0, st.LBFGSFailures)
	for i := 1; i < len(phis); i++ {
		assert.LessOrEqual(t, phis[i], phis[i-1])
	}
}

// nanDirection proposes a non-finite step and counts resets.
type nanDirection struct {
	direction.None[float64]
	resets int
}

func (*nanDirection) Propose(_ float64, _, _, _, _, q []float64) bool {
	for i := range q {
		q[i] = math.NaN()
	}
	return true
}

func (d *nanDirection) Reset() { d.resets++ }

func TestNonFiniteDirection(t *testing.T) {
	d := &nanDirection{}
	s, err := NewSolver[float64](DefaultParams[float64](), d)
	require.NoError(t, err)
	x := []float64{3, -4}
	st := s.SolveObjective(squaredNorm(2), SolveOptions[float64]{Tolerance: 1e-8}, x)
	require.Equal(t, Converged, st.Status, st.Err)
	require.Greater(t, st.Iterations, 0)
	assert.Equal(t, st.Iterations, st.LBFGSFailures)
	assert.Equal(t, st.Iterations, d.resets)
	assert.Equal(t, 0, st.LinesearchFailures)
	assert.Equal(t, 0, st.LinesearchBacktracks)
	assert.Equal(t, 0.0, st.SumTau)
	assert.InDelta(t, 0, x[0], 1e-8)
	assert.InDelta(t, 0, x[1], 1e-8)
}

func TestForceLinesearch(t *testing.T) {
	params := DefaultParams[float64]()
	params.ForceLinesearch = true
	s := newSolver(t, params)
	st := s.SolveObjective(squaredNorm(3), SolveOptions[float64]{Tolerance: 1e-8}, []float64{1, -2, 3})
	require.Equal(t, Converged, st.Status)
	assert.Equal(t, 0, st.LinesearchBacktracks)
	assert.Equal(t, 0, st.LinesearchFailures)
	assert.Equal(t, st.Iterations-st.LBFGSFailures, st.Tau1Accepted)
}

func TestException(t *testing.T) {
	boom := errors.New("boom")
	obj := squaredNorm(1)
	f := obj.F
	obj.F = func(x []float64) float64 {
		if x[0] < 1 {
			panic(boom)
		}
		return f(x)
	}
	s := newSolver(t, DefaultParams[float64]())
	x := []float64{10}
	st := s.SolveObjective(obj, SolveOptions[float64]{Tolerance: 1e-8}, x)
	assert.Equal(t, Exception, st.Status)
	assert.ErrorIs(t, st.Err, ErrEvaluation)
	assert.ErrorIs(t, st.Err, boom)
	assert.Equal(t, []float64{10}, x)

	obj.F = func([]float64) float64 { panic("text") }
	st = s.SolveObjective(obj, SolveOptions[float64]{}, x)
	assert.Equal(t, Exception, st.Status)
	assert.ErrorContains(t, st.Err, "text")

	// the last iterate reached before the panic is kept in the stats
	calls := 0
	late := squaredNorm(1)
	late.F = func(x []float64) float64 {
		if calls++; calls > 30 {
			panic(boom)
		}
		return f(x)
	}
	none, err := NewSolver[float64](DefaultParams[float64](), direction.None[float64]{})
	require.NoError(t, err)
	x = []float64{10}
	st = none.SolveObjective(late, SolveOptions[float64]{Tolerance: 1e-300}, x)
	require.Equal(t, Exception, st.Status)
	assert.Greater(t, st.Iterations, 0)
	assert.Equal(t, st.Iterations, st.CountTau)
	assert.Greater(t, st.FinalGamma, 0.0)
	assert.Greater(t, st.Epsilon, 0.0)
	assert.False(t, math.IsInf(st.Epsilon, 0))
	assert.Equal(t, []float64{10}, x)

	// panics from the progress callback are reported the same way
	cb := newSolver(t, DefaultParams[float64]())
	cb.SetProgressCallback(func(*ProgressInfo[float64]) { panic(boom) })
	st = cb.SolveObjective(squaredNorm(1), SolveOptions[float64]{Tolerance: 1e-8}, []float64{10})
	assert.Equal(t, Exception, st.Status)
	assert.ErrorIs(t, st.Err, ErrEvaluation)
	assert.ErrorIs(t, st.Err, boom)
}

func TestNotFinite(t *testing.T) {
	s := newSolver(t, DefaultParams[float64]())

	nan := squaredNorm(1)
	nan.F = func([]float64) float64 { return math.NaN() }
	st := s.SolveObjective(nan, SolveOptions[float64]{Tolerance: 1e-8}, []float64{1})
	assert.Equal(t, NotFinite, st.Status)
	assert.ErrorIs(t, st.Err, ErrNotFinite)

	// gradient breaks down after the first step
	late := squaredNorm(1)
	late.Grad = func(x, g []float64) {
		g[0] = 2 * x[0]
		if math.Abs(x[0]) < 1 {
			g[0] = math.NaN()
		}
	}
	st = s.SolveObjective(late, SolveOptions[float64]{Tolerance: 1e-8}, []float64{10})
	assert.Equal(t, NotFinite, st.Status)
	assert.Equal(t, 1, st.Iterations)
}

func TestStepSizeExhausted(t *testing.T) {
	params := DefaultParams[float64]()
	params.LMax = 1e3
	s := newSolver(t, params)
	// inconsistent gradient: the upper bound can never hold
	wrong := linear(1)
	wrong.Grad = func(_, g []float64) { g[0] = -1 }
	st := s.SolveObjective(wrong, SolveOptions[float64]{}, []float64{0})
	assert.Equal(t, NotFinite, st.Status)
	assert.ErrorIs(t, st.Err, ErrStepSizeExhausted)
	assert.Greater(t, st.StepsizeBacktracks, 0)
}

func TestStepSizeExhaustedInLoop(t *testing.T) {
	params := DefaultParams[float64]()
	params.LMax = 1e3
	params.PrintInterval = 1
	var buf bytes.Buffer
	s := newSolver(t, params)
	s.Logger = zerolog.New(&buf)
	var last Status
	s.SetProgressCallback(func(info *ProgressInfo[float64]) { last = info.Status })

	// the cost jumps once the initial step size is settled
	calls := 0
	shifted := squaredNorm(1)
	f := shifted.F
	shifted.F = func(x []float64) float64 {
		if calls++; calls > 2 {
			return f(x) + 1000
		}
		return f(x)
	}
	x := []float64{10}
	st := s.SolveObjective(shifted, SolveOptions[float64]{Tolerance: 1e-8}, x)
	assert.Equal(t, NotFinite, st.Status)
	assert.ErrorIs(t, st.Err, ErrStepSizeExhausted)
	assert.Equal(t, 0, st.Iterations)
	assert.Equal(t, NotFinite, last)
	assert.Greater(t, st.FinalGamma, 0.0)
	assert.Equal(t, []float64{10}, x)
	assert.NotEmpty(t, buf.String())
}

func TestFloat32(t *testing.T) {
	s, err := NewDefaultSolver(DefaultParams[float32]())
	require.NoError(t, err)
	obj := &problem.Funcs[float32]{
		N: 2,
		F: func(x []float32) float32 { return x[0]*x[0] + x[1]*x[1] },
		Grad: func(x, g []float32) {
			g[0], g[1] = 2*x[0], 2*x[1]
		},
	}
	x := []float32{10, -3}
	st := s.SolveObjective(obj, SolveOptions[float32]{Tolerance: 1e-4}, x)
	require.Equal(t, Converged, st.Status)
	assert.InDelta(t, 0, x[0], 1e-4)
	assert.InDelta(t, 0, x[1], 1e-4)
}

func TestConstrainedMultiplierUpdate(t *testing.T) {
	// minimize x₀ + x₁ subject to x₀² + x₁² ≤ 2 within [-5, 5]²
	prob := &problem.Constrained[float64]{
		N: 2, M: 1,
		F:     func(x []float64) float64 { return x[0] + x[1] },
		GradF: func(_, g []float64) { g[0], g[1] = 1, 1 },
		G:     func(x, gx []float64) { gx[0] = x[0]*x[0] + x[1]*x[1] },
		GradGProd: func(x, v, out []float64) {
			out[0] = 2 * x[0] * v[0]
			out[1] = 2 * x[1] * v[0]
		},
		C: problem.Box[float64]{Lower: []float64{-5, -5}, Upper: []float64{5, 5}},
		D: problem.Box[float64]{Upper: []float64{2}},
	}
	params := DefaultParams[float64]()
	params.MaxIter = 500
	s := newSolver(t, params)

	x := []float64{0, 0}
	y0 := []float64{0.5}
	y := append([]float64(nil), y0...)
	sigma := []float64{10}
	errZ := make([]float64, 1)
	st := s.Solve(prob, SolveOptions[float64]{Tolerance: 1e-9}, x, y, sigma, errZ)
	require.Equal(t, Converged, st.Status, st.Err)

	yhat := make([]float64, 1)
	prob.Multipliers(x, y0, sigma, yhat)
	assert.Equal(t, yhat, y)
	assert.InDelta(t, (yhat[0]-y0[0])/sigma[0], errZ[0], 1e-15)
	// stationarity of the subproblem: 1 + 2xᵢŷ = 0
	assert.InDelta(t, x[0], x[1], 1e-6)
	assert.InDelta(t, -1, 2*x[0]*y[0], 1e-6)

	assert.Panics(t, func() { s.Solve(prob, SolveOptions[float64]{}, x, nil, sigma, errZ) })
}

func TestProgressLogging(t *testing.T) {
	params := DefaultParams[float64]()
	params.PrintInterval = 1
	params.PrintPrecision = 3
	s := newSolver(t, params)
	var buf bytes.Buffer
	s.Logger = zerolog.New(&buf)

	st := s.SolveObjective(squaredNorm(1), SolveOptions[float64]{Tolerance: 1e-8}, []float64{10})
	require.Equal(t, Converged, st.Status)
	out := buf.String()
	assert.Equal(t, st.Iterations+1, strings.Count(out, "panoc iteration"))
	assert.Contains(t, out, `"status":"Converged"`)
	assert.Contains(t, out, `"eps":"2.00e+01"`)
	assert.Contains(t, out, "panoc finished")
}

func TestStopCriteria(t *testing.T) {
	for c := ApproxKKT; c <= LBFGSBpp; c++ {
		params := DefaultParams[float64]()
		params.StopCrit = c
		s := newSolver(t, params)
		obj := problem.NewQuadratic(mat.NewSymDense(3, []float64{
			3, 1, 0,
			1, 2, 0,
			0, 0, 1,
		}), []float64{1, -2, 0.5}, problem.Box[float64]{Lower: []float64{-1, -1, 0}, Upper: []float64{1, 1, 1}})
		x := []float64{0.5, 0.5, 0.5}
		st := s.SolveObjective(obj, SolveOptions[float64]{Tolerance: 1e-9}, x)
		assert.Equal(t, Converged, st.Status, c.String())
		assert.LessOrEqual(t, st.Epsilon, 1e-9, c.String())
	}
}

func TestNewSolverErrors(t *testing.T) {
	_, err := NewSolver[float64](DefaultParams[float64](), nil)
	assert.Error(t, err)

	params := DefaultParams[float64]()
	params.Beta = 1
	_, err = NewDefaultSolver(params)
	assert.ErrorContains(t, err, "beta")
}
