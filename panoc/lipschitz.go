// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import "github.com/curioloop/panoc/internal/linalg"

// estimateLipschitz approximates the Lipschitz constant of ∇ψ around x by
//
//	L = ‖∇ψ(x + h) - ∇ψ(x)‖ / ‖h‖,  hᵢ = max(|xᵢ|·ε, δ)
//
// The result is not clipped and may be non-finite.
func (c *call[T]) estimateLipschitz(it *iterate[T]) T {
	lp, ws := c.params.Lipschitz, c.ws
	h, xh, gh := ws.work3, ws.work, ws.work2
	for i, v := range it.x {
		h[i] = max(linalg.Abs(v)*lp.Epsilon, lp.Delta)
		xh[i] = v + h[i]
	}
	c.prob.Gradient(xh, c.y, c.sigma, gh)
	linalg.Axpy(len(gh), -1, it.grad, gh)
	return linalg.Norm2(gh) / linalg.Norm2(h)
}

// setLipschitz clips L into [LMin, LMax] and derives γ.
func (c *call[T]) setLipschitz(it *iterate[T], L T) {
	it.L = min(max(L, c.params.LMin), c.params.LMax)
	it.gamma = c.params.Lipschitz.LGammaFactor / it.L
}

// qubViolated reports whether the quadratic upper bound
//
//	ψ(x̂) ≤ ψ(x) + ⟨∇ψ(x), p⟩ + ‖p‖²/(2γ)
//
// fails by more than the tolerance.
func (c *call[T]) qubViolated(it *iterate[T]) bool {
	tol := c.params.QuadraticUpperboundToleranceFactor * max(1, linalg.Abs(it.psi))
	return it.psiHat > it.psi+it.gradP+it.pp/(2*it.gamma)+tol
}

// enforceQUB doubles L until the quadratic upper bound holds at it,
// re-evaluating the forward-backward step each time.
// It returns the number of growths and false once L cannot grow past LMax.
func (c *call[T]) enforceQUB(it *iterate[T]) (grown int, ok bool) {
	for c.qubViolated(it) {
		if it.L >= c.params.LMax {
			return grown, false
		}
		c.setLipschitz(it, 2*it.L)
		c.evalForwardBackward(it)
		grown++
	}
	return grown, true
}
