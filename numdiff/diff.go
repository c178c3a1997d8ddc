// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numdiff approximates gradients of scalar functions by finite differences.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
package numdiff

import (
	"errors"
	"math"

	"github.com/curioloop/panoc/internal/linalg"
)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use central difference in interior points and the second order accuracy
	// forward or backward difference near the boundary.
	Central
)

// Bound holds the lower and upper limit of one variable.
// NaN or an infinity means the side is unbounded.
type Bound[T linalg.Float] [2]T

// Gradient estimates ∇f(x₀) of a scalar function f : ℝⁿ → ℝ.
// The workspace is reused across calls with the same dimension,
// so a Gradient must not be shared between goroutines.
type Gradient[T linalg.Float] struct {
	// Finite difference method to use.
	Method Method
	// Lower and upper bounds on independent variables.
	// Function evaluations never leave the box when it is provided.
	Bounds []Bound[T]
	// Relative step size used to compute absolute step size.
	// When zero h = ε·sign(x₀)·max(1,|x₀|) with ε selected by Method,
	// otherwise h = RelStep·sign(x₀)·|x₀|.
	RelStep T
	// Absolute step size to use, possibly adjusted to fit into the bounds.
	// For Central method the sign of AbsStep is ignored.
	AbsStep T

	h       []T
	oneSide []bool
}

func stepEps[T linalg.Float](m Method) T {
	eps := float64(linalg.Epsilon[T]())
	if m == Central {
		return T(math.Cbrt(eps))
	}
	return T(math.Sqrt(eps))
}

// Check validates the arguments and sizes the workspace.
func (g *Gradient[T]) Check(x0, grad []T) error {
	switch {
	case len(x0) == 0:
		return errors.New("empty x0")
	case g.Method != Forward && g.Method != Central:
		return errors.New("unknown method")
	case len(grad) != len(x0):
		return errors.New("invalid gradient dimensions")
	}
	if g.Bounds != nil {
		if len(g.Bounds) != len(x0) {
			return errors.New("invalid bound dimension")
		}
		for i, b := range g.Bounds {
			lb, ub := lower(b), upper(b)
			if lb > ub {
				return errors.New("invalid bound range")
			}
			if x0[i] < lb || x0[i] > ub {
				return errors.New("x0 violates bound constraints")
			}
		}
	}
	g.h = linalg.Resize(g.h, len(x0))
	if cap(g.oneSide) < len(x0) {
		g.oneSide = make([]bool, len(x0))
	}
	g.oneSide = g.oneSide[:len(x0)]
	return nil
}

// Diff writes the approximation of ∇f(x0) into grad.
// x0 is perturbed in place during the evaluation and restored before returning.
func (g *Gradient[T]) Diff(f func(x []T) T, x0, grad []T) error {
	if f == nil {
		return errors.New("function is required")
	}
	if err := g.Check(x0, grad); err != nil {
		return err
	}
	g.absoluteStep(x0)
	g.adjustToBounds(x0)
	if g.Method == Central {
		g.central(f, x0, grad)
	} else {
		g.forward(f, x0, grad)
	}
	return nil
}

func lower[T linalg.Float](b Bound[T]) T {
	if b[0] != b[0] {
		return -linalg.Inf[T]()
	}
	return b[0]
}

func upper[T linalg.Float](b Bound[T]) T {
	if b[1] != b[1] {
		return linalg.Inf[T]()
	}
	return b[1]
}

func (g *Gradient[T]) absoluteStep(x0 []T) {
	h := g.h
	eps := stepEps[T](g.Method)
	for i, v := range x0 {
		s := g.AbsStep
		if s == 0 && g.RelStep != 0 {
			s = copysign(g.RelStep, v) * linalg.Abs(v)
		}
		if s == 0 || (v+s)-v == 0 {
			s = copysign(eps, v) * max(1, linalg.Abs(v))
		}
		h[i] = s
	}
}

func (g *Gradient[T]) adjustToBounds(x0 []T) {
	h, o := g.h, g.oneSide
	for i := range o {
		o[i] = false
	}
	if g.Method == Central {
		for i, v := range h {
			h[i] = linalg.Abs(v)
		}
	}
	if g.Bounds == nil {
		return
	}

	for i, x := range x0 {
		lb, ub := lower(g.Bounds[i]), upper(g.Bounds[i])
		ld, ud := x-lb, ub-x
		if g.Method == Forward {
			h0 := h[i]
			violated := x+h0 < lb || x+h0 > ub
			fitting := linalg.Abs(h0) < max(ld, ud)
			switch {
			case violated && fitting:
				h[i] = -h0
			case !fitting && ud >= ld:
				h[i] = ud
			case !fitting:
				h[i] = -ld
			}
			continue
		}
		central := ld >= h[i] && ud >= h[i]
		if !central {
			if ud >= ld {
				h[i] = min(h[i], ud/2)
			} else {
				h[i] = -min(h[i], ld/2)
			}
			o[i] = true
		}
		minDist := min(ud, ld)
		if !central && linalg.Abs(h[i]) <= minDist {
			h[i] = minDist
			o[i] = false
		}
	}
}

func (g *Gradient[T]) forward(f func([]T) T, x0, grad []T) {
	f0 := f(x0)
	for i, s := range g.h {
		t := x0[i]
		x0[i] = t + s
		// use the representable step to reduce the rounding error
		d := x0[i] - t
		grad[i] = (f(x0) - f0) / d
		x0[i] = t
	}
}

func (g *Gradient[T]) central(f func([]T) T, x0, grad []T) {
	var f0 T
	for _, one := range g.oneSide {
		if one {
			f0 = f(x0)
			break
		}
	}
	for i, s := range g.h {
		t := x0[i]
		if g.oneSide[i] {
			x0[i] = t + s
			f1 := f(x0)
			x0[i] = t + 2*s
			f2 := f(x0)
			grad[i] = (4*f1 - 3*f0 - f2) / (2 * s)
		} else {
			x0[i] = t - s
			f1 := f(x0)
			x0[i] = t + s
			f2 := f(x0)
			grad[i] = (f2 - f1) / (2 * s)
		}
		x0[i] = t
	}
}

func copysign[T linalg.Float](mag, sign T) T {
	return T(math.Copysign(float64(mag), float64(sign)))
}
