// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import "github.com/curioloop/panoc/internal/linalg"

// Prox is a nonsmooth term h with a cheap proximal operator.
type Prox[T Float] interface {
	// Step computes x̂ = prox_γh(x - γ·grad) and p = x̂ - x and returns h(x̂).
	Step(gamma T, x, grad, xhat, p []T) T
}

// Zero is h ≡ 0: the forward-backward step reduces to a gradient step.
type Zero[T Float] struct{}

func (Zero[T]) Step(gamma T, x, grad, xhat, p []T) T {
	for i, g := range grad {
		p[i] = -gamma * g
		xhat[i] = x[i] + p[i]
	}
	return 0
}

// Box is the indicator of {x : Lower ≤ x ≤ Upper}.
// A nil slice, NaN or infinite entry leaves that side unbounded.
type Box[T Float] struct {
	Lower, Upper []T
}

// Project clamps v into the box componentwise and stores the result in dst.
func (b Box[T]) Project(dst, v []T) {
	for i, vi := range v {
		dst[i] = b.clamp(i, vi)
	}
}

// Contains reports whether every component of v lies in the box.
func (b Box[T]) Contains(v []T) bool {
	for i, vi := range v {
		if b.clamp(i, vi) != vi {
			return false
		}
	}
	return true
}

func (b Box[T]) clamp(i int, v T) T {
	if b.Lower != nil {
		if l := b.Lower[i]; v < l {
			v = l
		}
	}
	if b.Upper != nil {
		if u := b.Upper[i]; v > u {
			v = u
		}
	}
	return v
}

// Step projects the gradient step onto the box; h(x̂) = 0 since x̂ is feasible.
func (b Box[T]) Step(gamma T, x, grad, xhat, p []T) T {
	if len(x) != len(grad) || len(x) != len(xhat) || len(x) != len(p) {
		panic("bound check error")
	}
	for i, g := range grad {
		xhat[i] = b.clamp(i, x[i]-gamma*g)
		p[i] = xhat[i] - x[i]
	}
	return 0
}

// L1 is h(x) = λ‖x‖₁ restricted to an optional box.
// For a separable h the proximal map is the soft-thresholding followed by the clamp.
type L1[T Float] struct {
	Lambda T
	Box    Box[T]
}

func (l L1[T]) Step(gamma T, x, grad, xhat, p []T) T {
	if len(x) != len(grad) || len(x) != len(xhat) || len(x) != len(p) {
		panic("bound check error")
	}
	t := gamma * l.Lambda
	for i, g := range grad {
		v := x[i] - gamma*g
		switch {
		case v > t:
			v -= t
		case v < -t:
			v += t
		default:
			v = 0
		}
		xhat[i] = l.Box.clamp(i, v)
		p[i] = xhat[i] - x[i]
	}
	return l.Lambda * linalg.Norm1(xhat)
}
