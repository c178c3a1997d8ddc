// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/curioloop/panoc/internal/linalg"
)

// LipschitzParams controls the initial estimate of the Lipschitz constant of ∇ψ.
type LipschitzParams[T linalg.Float] struct {
	// Initial estimate. Zero or negative means estimate by finite differences.
	L0 T
	// Relative perturbation of the finite difference step: hᵢ = max(|xᵢ|·ε, δ).
	Epsilon T
	// Minimum absolute perturbation.
	Delta T
	// Step size factor: γ = LGammaFactor / L, with 0 < LGammaFactor < 1.
	LGammaFactor T
}

// Params holds the tuning parameters of the solver.
type Params[T linalg.Float] struct {
	Lipschitz LipschitzParams[T]
	// Maximum number of iterations.
	MaxIter int
	// Maximum duration of one call.
	MaxTime time.Duration
	// Smallest line search weight before falling back to the proximal step.
	TauMin T
	// Accept the first line search candidate unconditionally. Testing only.
	ForceLinesearch bool
	// Backoff factor of the line search weight: τ ← Beta·τ.
	Beta T
	// Strictness of the sufficient decrease, σ = LinesearchStrictness·(1-γL)/(2γ).
	LinesearchStrictness T
	// Bounds of the Lipschitz estimate.
	LMin, LMax T
	// Stopping criterion.
	StopCrit StopCrit
	// Give up after this many consecutive iterations without decrease of ε.
	// Zero disables the test.
	MaxNoProgress int
	// Log every PrintInterval iterations. Zero disables progress logging.
	PrintInterval int
	// Significant digits of logged values.
	PrintPrecision int

	QuadraticUpperboundToleranceFactor T
	LinesearchToleranceFactor          T
}

// DefaultParams returns the recommended parameters for precision T.
func DefaultParams[T linalg.Float]() Params[T] {
	eps := linalg.Epsilon[T]()
	prec := 8
	var t T
	if unsafe.Sizeof(t) == 4 {
		prec = 4
	}
	return Params[T]{
		Lipschitz: LipschitzParams[T]{
			Epsilon:      1e-6,
			Delta:        1e-12,
			LGammaFactor: 0.95,
		},
		MaxIter:                            100,
		MaxTime:                            5 * time.Minute,
		TauMin:                             1. / 256,
		Beta:                               0.5,
		LinesearchStrictness:               0.95,
		LMin:                               1e-5,
		LMax:                               1e20,
		StopCrit:                           ApproxKKT,
		MaxNoProgress:                      10,
		PrintPrecision:                     prec,
		QuadraticUpperboundToleranceFactor: 10 * eps,
		LinesearchToleranceFactor:          10 * eps,
	}
}

// Validate checks the parameter ranges.
func (p Params[T]) Validate() (err error) {
	l := p.Lipschitz
	switch {
	case p.MaxIter < 0:
		err = errors.New("max iteration must not be negative")
	case p.MaxTime < 0:
		err = errors.New("max time must not be negative")
	case !(p.TauMin > 0 && p.TauMin < 1):
		err = errors.New("tau min must lie in (0, 1)")
	case !(p.Beta > 0 && p.Beta < 1):
		err = errors.New("beta must lie in (0, 1)")
	case !(p.LinesearchStrictness > 0 && p.LinesearchStrictness < 1):
		err = errors.New("line search strictness must lie in (0, 1)")
	case !(p.LMin > 0 && p.LMin <= p.LMax):
		err = errors.New("lipschitz bounds must satisfy 0 < L min ≤ L max")
	case !(l.LGammaFactor > 0 && l.LGammaFactor < 1):
		err = errors.New("L gamma factor must lie in (0, 1)")
	case l.L0 <= 0 && !(l.Epsilon > 0 && l.Delta > 0):
		err = errors.New("lipschitz epsilon and delta must be positive")
	case !p.StopCrit.valid():
		err = fmt.Errorf("unknown stopping criterion %d", int(p.StopCrit))
	case p.MaxNoProgress < 0 || p.PrintInterval < 0 || p.PrintPrecision < 0:
		err = errors.New("counts must not be negative")
	case p.QuadraticUpperboundToleranceFactor < 0 || p.LinesearchToleranceFactor < 0:
		err = errors.New("tolerance factors must not be negative")
	}
	if err != nil {
		err = fmt.Errorf("panoc: invalid params: %w", err)
	}
	return
}

// SolveOptions are the per-call settings.
type SolveOptions[T linalg.Float] struct {
	// Tolerance on the stopping criterion.
	Tolerance T
	// Optional time budget, capped by Params.MaxTime.
	MaxTime *time.Duration
	// Write x̂ and ŷ back even when the solve did not converge.
	AlwaysOverwriteResults bool
	// Lipschitz estimate to start from, typically the final one of a previous call.
	InitialLipschitz T
}
