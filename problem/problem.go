// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package problem defines the evaluation contract consumed by the proximal
// solvers and a few reusable implementations of it.
//
// A problem is the composite objective
//
//	minimize ψ(x) + h(x)
//
// where ψ is continuously differentiable and h is a possibly nonsmooth term
// with a cheap proximal operator. The forward-backward step
//
//	x̂ = prox_γh(x - γ∇ψ(x)),  p = x̂ - x
//
// is delegated to the problem, so the solver never needs to know h.
//
// Inside an augmented Lagrangian method ψ also depends on the multiplier
// estimate y and the penalty weights Σ of the m general constraints, see Problem.
package problem

import "github.com/curioloop/panoc/internal/linalg"

// Float is the set of supported precisions.
type Float = linalg.Float

// Objective is the minimal contract: ψ, ∇ψ and the forward-backward step.
// Implementations must be deterministic and must not retain the slices they are given.
type Objective[T Float] interface {
	// Dim returns the number of decision variables n.
	Dim() int
	// Cost evaluates ψ(x).
	Cost(x []T) T
	// Gradient evaluates ∇ψ(x) into grad.
	Gradient(x, grad []T)
	// ForwardBackward computes x̂ = prox_γh(x - γ∇ψ(x)) and p = x̂ - x,
	// given grad = ∇ψ(x), and returns h(x̂).
	ForwardBackward(gamma T, x, grad, xhat, p []T) T
}

// Problem is the contract of an augmented Lagrangian subproblem.
//
// With y ∈ ℝᵐ the multiplier estimate and Σ ∈ ℝᵐ the positive penalty weights,
// ψ(x) = f(x) + ½ dist²_Σ(g(x) + Σ⁻¹y, D) for constraints g(x) ∈ D.
// Problems without general constraints report m = 0 and ignore y and sigma.
type Problem[T Float] interface {
	// Dims returns the number of variables n and general constraints m.
	Dims() (n, m int)
	// Cost evaluates ψ(x; y, Σ).
	Cost(x, y, sigma []T) T
	// Gradient evaluates ∇ψ(x; y, Σ) into grad.
	Gradient(x, y, sigma, grad []T)
	// ForwardBackward computes x̂ and p = x̂ - x and returns h(x̂).
	ForwardBackward(gamma T, x, grad, xhat, p []T) T
	// Multipliers evaluates ŷ(x) = Σ(ζ - Π_D(ζ)), ζ = g(x) + Σ⁻¹y, into yhat.
	Multipliers(x, y, sigma, yhat []T)
}

// CostGradienter is implemented by problems able to evaluate ψ and ∇ψ
// together more cheaply than separately. The solvers use it when present.
type CostGradienter[T Float] interface {
	CostGradient(x, y, sigma, grad []T) T
}

// Unconstrained adapts an Objective to the Problem contract with m = 0.
func Unconstrained[T Float](obj Objective[T]) Problem[T] {
	if p, ok := obj.(Problem[T]); ok {
		return p
	}
	return unconstrained[T]{obj}
}

type unconstrained[T Float] struct {
	obj Objective[T]
}

type fusedObjective[T Float] interface {
	CostGradient(x, grad []T) T
}

func (u unconstrained[T]) Dims() (int, int) { return u.obj.Dim(), 0 }

func (u unconstrained[T]) Cost(x, _, _ []T) T { return u.obj.Cost(x) }

func (u unconstrained[T]) Gradient(x, _, _, grad []T) { u.obj.Gradient(x, grad) }

func (u unconstrained[T]) CostGradient(x, _, _, grad []T) T {
	if f, ok := u.obj.(fusedObjective[T]); ok {
		return f.CostGradient(x, grad)
	}
	u.obj.Gradient(x, grad)
	return u.obj.Cost(x)
}

func (u unconstrained[T]) ForwardBackward(gamma T, x, grad, xhat, p []T) T {
	return u.obj.ForwardBackward(gamma, x, grad, xhat, p)
}

func (u unconstrained[T]) Multipliers(_, _, _, _ []T) {}
