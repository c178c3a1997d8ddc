// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import "github.com/curioloop/panoc/internal/linalg"

// linesearch fills next with the candidate
//
//	x(τ) = x + (1-τ)p + τq
//
// backtracking τ ← β·τ until the forward-backward envelope decreases enough:
//
//	φγ(x(τ)) ≤ φγ(x) - σ‖p‖² + (1+|φγ(x)|)·tol,  σ = strictness·(1-γL)/(2γ)
//
// Once τ drops below TauMin the proximal point x̂ is taken (τ = 0), which
// needs no test since φγ(x̂) ≤ ψ(x̂) + h(x̂) ≤ φγ(x) under the upper bound.
// It returns the accepted τ and false if the step size could not be reduced further.
func (c *call[T]) linesearch(curr, next *iterate[T], phi, tau T, st *Stats[T]) (T, bool) {
	params := c.params
	n := len(curr.x)
	q := c.ws.q
	sigma := params.LinesearchStrictness * (1 - curr.gamma*curr.L) / (2 * curr.gamma)
	tol := (1 + linalg.Abs(phi)) * params.LinesearchToleranceFactor
	tauInit := tau

	for {
		next.L, next.gamma = curr.L, curr.gamma
		if tau == 0 {
			c.evalGradHat(curr)
			copy(next.x, curr.xhat)
			copy(next.grad, curr.gradHat)
			next.psi = curr.psiHat
		} else {
			for i := 0; i < n; i++ {
				next.x[i] = curr.x[i] + (1-tau)*curr.p[i] + tau*q[i]
			}
			c.evalPsiGrad(next)
		}
		c.evalForwardBackward(next)

		grown, ok := c.enforceQUB(next)
		st.StepsizeBacktracks += grown
		if !ok {
			return tau, false
		}

		if tau == 0 {
			if tauInit > 0 {
				st.LinesearchFailures++
			}
			break
		}
		if params.ForceLinesearch || next.fbe() <= phi-sigma*curr.pp+tol {
			break
		}
		tau *= params.Beta
		st.LinesearchBacktracks++
		if tau < params.TauMin {
			tau = 0
		}
	}

	st.CountTau++
	st.SumTau += tau
	if tau == 1 {
		st.Tau1Accepted++
	}
	return tau, true
}
