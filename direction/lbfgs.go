// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package direction provides the acceleration strategies plugged into the
// PANOC line search.
//
// A strategy proposes a direction q for the fixed-point map x ↦ x̂ and keeps
// whatever curvature memory it needs between iterations.
// The solver blends q with the proximal gradient step p and falls back to p
// whenever a proposal is declined.
//
// # Reference:
//
//   - Nocedal, J., Wright, S.: Numerical Optimization (2nd ed), chapter 7.
//   - Li, D.-H., Fukushima, M.: On the global convergence of the BFGS method
//     for nonconvex unconstrained optimization problems (2001).
//   - Stella, L., Themelis, A., Sopasakis, P., Patrinos, P.: A simple and
//     efficient algorithm for nonlinear model predictive control (2017).
package direction

import (
	"errors"
	"math"

	"github.com/curioloop/panoc/internal/linalg"
	"github.com/curioloop/panoc/problem"
)

// CBFGSParams configures the cautious BFGS update.
// A pair is accepted only if sᵀy ≥ ε‖s‖²(‖p‖/γ)^α. Epsilon = 0 disables the test.
type CBFGSParams[T linalg.Float] struct {
	Alpha   T
	Epsilon T
}

type LBFGSParams[T linalg.Float] struct {
	// Length of the history.
	Memory int
	// Reject pairs with sᵀy ≤ MinDivFac·yᵀy.
	MinDivFac T
	// Reject pairs with sᵀs ≤ MinAbsS.
	MinAbsS T
	CBFGS   CBFGSParams[T]
}

// DefaultLBFGSParams returns memory 10, MinDivFac = ε and MinAbsS = ε²
// with ε the machine epsilon, and cautious updates disabled.
func DefaultLBFGSParams[T linalg.Float]() LBFGSParams[T] {
	eps := linalg.Epsilon[T]()
	return LBFGSParams[T]{
		Memory:    10,
		MinDivFac: eps,
		MinAbsS:   eps * eps,
		CBFGS:     CBFGSParams[T]{Alpha: 1},
	}
}

func (p LBFGSParams[T]) Validate() error {
	switch {
	case p.Memory < 1:
		return errors.New("lbfgs: memory must be positive")
	case p.MinDivFac < 0 || p.MinAbsS < 0:
		return errors.New("lbfgs: rejection thresholds must be nonnegative")
	case p.CBFGS.Epsilon < 0:
		return errors.New("lbfgs: cbfgs epsilon must be nonnegative")
	}
	return nil
}

// LBFGS applies the limited-memory inverse Hessian estimate of the
// fixed-point residual to the proximal step, q = H·p.
//
// The secant pairs are s = x₊ - x and y = p - p₊: a zero of the residual p(x)
// is a fixed point of the forward-backward map.
// Memory is recycled as a ring buffer and the initial scaling is sᵀy/yᵀy of the newest pair.
type LBFGS[T linalg.Float] struct {
	params LBFGSParams[T]

	n      int
	s, y   [][]T
	rho    []T
	alpha  []T
	newest int
	pairs  int

	// candidate pair, swapped into the ring once accepted
	ts, ty []T
}

// NewLBFGS returns an empty strategy. A non-positive memory falls back to the default.
func NewLBFGS[T linalg.Float](params LBFGSParams[T]) *LBFGS[T] {
	if params.Memory < 1 {
		params.Memory = DefaultLBFGSParams[T]().Memory
	}
	return &LBFGS[T]{params: params, newest: -1}
}

func (l *LBFGS[T]) Params() LBFGSParams[T] { return l.params }

func (l *LBFGS[T]) Name() string { return "LBFGS" }

// Pairs returns the number of secant pairs currently stored.
func (l *LBFGS[T]) Pairs() int { return l.pairs }

// Initialize sizes the history for the dimension of p and clears it.
func (l *LBFGS[T]) Initialize(p problem.Problem[T], _, _ []T, _ T, _, _, _, _ []T) {
	n, _ := p.Dims()
	m := l.params.Memory
	l.n = n
	l.rho = linalg.Resize(l.rho, m)
	l.alpha = linalg.Resize(l.alpha, m)
	l.s = resizeHistory(l.s, m, n)
	l.y = resizeHistory(l.y, m, n)
	l.ts = linalg.Resize(l.ts, n)
	l.ty = linalg.Resize(l.ty, n)
	l.Reset()
}

func resizeHistory[T linalg.Float](hist [][]T, m, n int) [][]T {
	if cap(hist) < m {
		hist = append(hist[:cap(hist)], make([][]T, m-cap(hist))...)
	}
	hist = hist[:m]
	for i := range hist {
		hist[i] = linalg.Resize(hist[i], n)
	}
	return hist
}

func (l *LBFGS[T]) Reset() {
	l.newest = -1
	l.pairs = 0
}

// ChangedStep drops the history: the stored residual differences were taken
// with the previous step size and no longer describe the current map.
func (l *LBFGS[T]) ChangedStep(gammaNew, gammaOld T) {
	if gammaNew != gammaOld {
		l.Reset()
	}
}

// Update stores the pair (xNext - xK, pK - pNext) unless it fails the
// curvature tests, in which case the history is left untouched and false is returned.
// Residuals taken with different step sizes do not form a pair.
func (l *LBFGS[T]) Update(gammaK, gammaNext T, xK, xNext, pK, pNext, _, _ []T) bool {
	n := l.n
	if len(xK) != n || len(xNext) != n || len(pK) != n || len(pNext) != n {
		panic("lbfgs: unexpected size mismatch")
	}
	if gammaK != gammaNext {
		return false
	}
	s, y := l.ts, l.ty
	linalg.Sub(s, xNext, xK)
	linalg.Sub(y, pK, pNext)

	ss := linalg.NormSq(s)
	if ss <= l.params.MinAbsS {
		return false
	}
	sy := linalg.Dot(n, s, y)
	yy := linalg.NormSq(y)
	if !linalg.IsFinite(sy) || !linalg.IsFinite(yy) || !linalg.IsFinite(ss) {
		return false
	}
	if sy <= l.params.MinDivFac*yy {
		return false
	}
	if c := l.params.CBFGS; c.Epsilon > 0 {
		pn := linalg.Norm2(pNext) / gammaNext
		if sy < c.Epsilon*ss*T(math.Pow(float64(pn), float64(c.Alpha))) {
			return false
		}
	}

	next := (l.newest + 1) % l.params.Memory
	l.s[next], l.ts = s, l.s[next]
	l.y[next], l.ty = y, l.y[next]
	l.rho[next] = 1 / sy
	l.newest = next
	if l.pairs < l.params.Memory {
		l.pairs++
	}
	return true
}

// Propose computes q = H·p with the two-loop recursion.
// It declines when no pair has been stored yet.
func (l *LBFGS[T]) Propose(_ T, _, _, p, _, q []T) bool {
	if l.pairs == 0 {
		return false
	}
	n, m := l.n, l.params.Memory
	copy(q[:n], p[:n])

	// newest to oldest
	idx := l.newest
	for i := 0; i < l.pairs; i++ {
		l.alpha[idx] = l.rho[idx] * linalg.Dot(n, l.s[idx], q)
		linalg.Axpy(n, -l.alpha[idx], l.y[idx], q)
		if idx--; idx < 0 {
			idx += m
		}
	}

	y := l.y[l.newest]
	linalg.Scal(n, 1/(l.rho[l.newest]*linalg.NormSq(y)), q)

	// oldest to newest
	for i := 0; i < l.pairs; i++ {
		if idx++; idx >= m {
			idx -= m
		}
		beta := l.rho[idx] * linalg.Dot(n, l.y[idx], q)
		linalg.Axpy(n, l.alpha[idx]-beta, l.s[idx], q)
	}
	return true
}
