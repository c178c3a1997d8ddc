// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Quadratic is ψ(x) = ½xᵀQx + cᵀx with an optional nonsmooth term H.
// Q must be symmetric positive semidefinite for the problem to be convex.
type Quadratic struct {
	Q *mat.SymDense
	C []float64
	H Prox[float64]

	xv, gv mat.VecDense
}

// NewQuadratic returns the quadratic defined by q and c. A nil c means zero.
func NewQuadratic(q *mat.SymDense, c []float64, h Prox[float64]) *Quadratic {
	if n := q.SymmetricDim(); c != nil && len(c) != n {
		panic(mat.ErrShape)
	}
	return &Quadratic{Q: q, C: c, H: h}
}

func (q *Quadratic) Dim() int { return q.Q.SymmetricDim() }

func wrap(v *mat.VecDense, x []float64) *mat.VecDense {
	v.SetRawVector(blas64.Vector{N: len(x), Inc: 1, Data: x})
	return v
}

func (q *Quadratic) Cost(x []float64) float64 {
	xv := wrap(&q.xv, x)
	cost := mat.Inner(xv, q.Q, xv) / 2
	if q.C != nil {
		cost += floats.Dot(q.C, x)
	}
	return cost
}

func (q *Quadratic) Gradient(x, grad []float64) {
	wrap(&q.gv, grad).MulVec(q.Q, wrap(&q.xv, x))
	if q.C != nil {
		floats.Add(grad, q.C)
	}
}

func (q *Quadratic) CostGradient(x, grad []float64) float64 {
	q.Gradient(x, grad)
	// ½xᵀQx + cᵀx = ½xᵀ(Qx + c) + ½cᵀx
	cost := floats.Dot(x, grad) / 2
	if q.C != nil {
		cost += floats.Dot(q.C, x) / 2
	}
	return cost
}

func (q *Quadratic) ForwardBackward(gamma float64, x, grad, xhat, p []float64) float64 {
	if q.H == nil {
		return Zero[float64]{}.Step(gamma, x, grad, xhat, p)
	}
	return q.H.Step(gamma, x, grad, xhat, p)
}
