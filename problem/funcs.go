// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package problem

import (
	"fmt"

	"github.com/curioloop/panoc/internal/linalg"
	"github.com/curioloop/panoc/numdiff"
)

// Funcs builds an Objective from plain closures.
//
// When Grad is nil the gradient is approximated by finite differences with Diff.
// When H is nil the nonsmooth term is zero.
// A Funcs keeps scratch space and must not be shared between goroutines.
type Funcs[T Float] struct {
	N    int
	F    func(x []T) T
	Grad func(x, grad []T)
	H    Prox[T]
	Diff numdiff.Gradient[T]

	xd []T
}

func (f *Funcs[T]) Dim() int { return f.N }

func (f *Funcs[T]) Cost(x []T) T { return f.F(x) }

func (f *Funcs[T]) Gradient(x, grad []T) {
	if f.Grad != nil {
		f.Grad(x, grad)
		return
	}
	// numdiff perturbs its argument, keep the caller's x untouched
	f.xd = linalg.Resize(f.xd, len(x))
	copy(f.xd, x)
	if err := f.Diff.Diff(f.F, f.xd, grad); err != nil {
		panic(fmt.Errorf("finite difference gradient: %w", err))
	}
}

func (f *Funcs[T]) ForwardBackward(gamma T, x, grad, xhat, p []T) T {
	if f.H == nil {
		return Zero[T]{}.Step(gamma, x, grad, xhat, p)
	}
	return f.H.Step(gamma, x, grad, xhat, p)
}
