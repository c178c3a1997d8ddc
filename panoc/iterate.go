// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"github.com/curioloop/panoc/internal/linalg"
	"github.com/curioloop/panoc/problem"
)

// iterate is the state attached to one point x of the sequence.
type iterate[T linalg.Float] struct {
	x       []T // point
	xhat    []T // forward-backward step of x
	p       []T // x̂ - x
	grad    []T // ∇ψ(x)
	gradHat []T // ∇ψ(x̂), valid when haveGradHat

	psi    T // ψ(x)
	psiHat T // ψ(x̂)
	hHat   T // h(x̂)
	pp     T // ‖p‖²
	gradP  T // ⟨∇ψ(x), p⟩
	L      T // Lipschitz estimate
	gamma  T // step size

	haveGradHat bool
}

func (it *iterate[T]) resize(n int) {
	it.x = linalg.Resize(it.x, n)
	it.xhat = linalg.Resize(it.xhat, n)
	it.p = linalg.Resize(it.p, n)
	it.grad = linalg.Resize(it.grad, n)
	it.gradHat = linalg.Resize(it.gradHat, n)
}

// fbe returns the forward-backward envelope φγ(x) = ψ + h(x̂) + ‖p‖²/(2γ) + ⟨∇ψ,p⟩.
func (it *iterate[T]) fbe() T {
	return it.psi + it.hHat + it.pp/(2*it.gamma) + it.gradP
}

// workspace holds every vector of a call, sized once from the problem dimension.
type workspace[T linalg.Float] struct {
	n, m       int
	curr, next iterate[T]
	q          []T
	yhat       []T
	work       []T
	work2      []T
	work3      []T
}

func (w *workspace[T]) resize(n, m int) {
	if w.n == n && w.m == m && w.q != nil {
		return
	}
	w.n, w.m = n, m
	w.curr.resize(n)
	w.next.resize(n)
	w.q = linalg.Resize(w.q, n)
	w.yhat = linalg.Resize(w.yhat, m)
	w.work = linalg.Resize(w.work, n)
	w.work2 = linalg.Resize(w.work2, n)
	w.work3 = linalg.Resize(w.work3, n)
}

// call binds the problem and multiplier data of one Solve invocation.
type call[T linalg.Float] struct {
	prob     problem.Problem[T]
	fused    problem.CostGradienter[T]
	y, sigma []T
	params   *Params[T]
	ws       *workspace[T]
}

// evalPsiGrad evaluates ψ(x) and ∇ψ(x).
func (c *call[T]) evalPsiGrad(it *iterate[T]) {
	if c.fused != nil {
		it.psi = c.fused.CostGradient(it.x, c.y, c.sigma, it.grad)
		return
	}
	it.psi = c.prob.Cost(it.x, c.y, c.sigma)
	c.prob.Gradient(it.x, c.y, c.sigma, it.grad)
}

// evalForwardBackward evaluates x̂, p, h(x̂) and ψ(x̂) for the current γ.
func (c *call[T]) evalForwardBackward(it *iterate[T]) {
	n := len(it.x)
	it.hHat = c.prob.ForwardBackward(it.gamma, it.x, it.grad, it.xhat, it.p)
	it.pp = linalg.NormSq(it.p)
	it.gradP = linalg.Dot(n, it.grad, it.p)
	it.psiHat = c.prob.Cost(it.xhat, c.y, c.sigma)
	it.haveGradHat = false
}

func (c *call[T]) evalGradHat(it *iterate[T]) {
	if !it.haveGradHat {
		c.prob.Gradient(it.xhat, c.y, c.sigma, it.gradHat)
		it.haveGradHat = true
	}
}
