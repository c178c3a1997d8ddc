// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import "github.com/curioloop/panoc/internal/linalg"

// Constrained is the augmented Lagrangian subproblem of
//
//	minimize f(x)  subject to  x ∈ C,  g(x) ∈ D
//
// with C and D boxes. The smooth part is
//
//	ψ(x) = f(x) + ½ Σᵢ σᵢ (ζᵢ - Π_D(ζ)ᵢ)²,  ζ = g(x) + Σ⁻¹y
//
// and the nonsmooth part is the indicator of C.
// A Constrained keeps scratch space and must not be shared between goroutines.
type Constrained[T Float] struct {
	N, M int

	F     func(x []T) T
	GradF func(x, grad []T)
	// G evaluates the m constraint functions into gx.
	G func(x, gx []T)
	// GradGProd evaluates ∇g(x)ᵀv into out.
	GradGProd func(x, v, out []T)

	C Box[T]
	D Box[T]

	zeta, yhat, work []T
}

func (c *Constrained[T]) Dims() (int, int) { return c.N, c.M }

// penalty computes ŷ into c.yhat and returns ½ Σᵢ σᵢ (ζᵢ - Π_D(ζ)ᵢ)².
func (c *Constrained[T]) penalty(x, y, sigma []T) T {
	if c.M == 0 {
		return 0
	}
	if len(y) != c.M || len(sigma) != c.M {
		panic("bound check error")
	}
	c.zeta = linalg.Resize(c.zeta, c.M)
	c.yhat = linalg.Resize(c.yhat, c.M)
	c.G(x, c.zeta)
	var pen T
	for i, z := range c.zeta {
		z += y[i] / sigma[i]
		d := z - c.D.clamp(i, z)
		c.yhat[i] = sigma[i] * d
		pen += sigma[i] * d * d
	}
	return pen / 2
}

func (c *Constrained[T]) Cost(x, y, sigma []T) T {
	return c.F(x) + c.penalty(x, y, sigma)
}

func (c *Constrained[T]) Gradient(x, y, sigma, grad []T) {
	c.CostGradient(x, y, sigma, grad)
}

func (c *Constrained[T]) CostGradient(x, y, sigma, grad []T) T {
	pen := c.penalty(x, y, sigma)
	c.GradF(x, grad)
	if c.M > 0 {
		c.work = linalg.Resize(c.work, c.N)
		c.GradGProd(x, c.yhat, c.work)
		linalg.Axpy(c.N, 1, c.work, grad)
	}
	return c.F(x) + pen
}

func (c *Constrained[T]) ForwardBackward(gamma T, x, grad, xhat, p []T) T {
	return c.C.Step(gamma, x, grad, xhat, p)
}

func (c *Constrained[T]) Multipliers(x, y, sigma, yhat []T) {
	if c.M == 0 {
		return
	}
	c.penalty(x, y, sigma)
	copy(yhat, c.yhat)
}
