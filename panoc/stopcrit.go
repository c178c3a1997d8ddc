// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"fmt"

	"github.com/curioloop/panoc/internal/linalg"
)

// StopCrit selects the quantity ε compared against the tolerance.
type StopCrit int

const (
	// ApproxKKT ‖p‖∞/γ, the fixed-point residual scaled by the step size.
	ApproxKKT StopCrit = iota
	// ApproxKKT2 ‖p‖₂/γ.
	ApproxKKT2
	// ProjGradNorm ‖p‖∞.
	ProjGradNorm
	// ProjGradNorm2 ‖p‖₂.
	ProjGradNorm2
	// ProjGradUnitNorm ‖T₁(x) - x‖∞ with the forward-backward step taken at γ = 1.
	ProjGradUnitNorm
	// ProjGradUnitNorm2 ‖T₁(x) - x‖₂.
	ProjGradUnitNorm2
	// FPRNorm ‖(x - x̂)/γ + ∇ψ(x̂) - ∇ψ(x)‖∞, an element of ∇ψ(x̂) + ∂h(x̂).
	FPRNorm
	// FPRNorm2 ‖(x - x̂)/γ + ∇ψ(x̂) - ∇ψ(x)‖₂.
	FPRNorm2
	// Ipopt FPRNorm scaled by the magnitude of the multipliers as in Ipopt.
	Ipopt
	// LBFGSBpp ProjGradUnitNorm relative to max(1, ‖x‖₂) as in LBFGS++.
	LBFGSBpp
)

var stopCritNames = [...]string{
	ApproxKKT:         "ApproxKKT",
	ApproxKKT2:        "ApproxKKT2",
	ProjGradNorm:      "ProjGradNorm",
	ProjGradNorm2:     "ProjGradNorm2",
	ProjGradUnitNorm:  "ProjGradUnitNorm",
	ProjGradUnitNorm2: "ProjGradUnitNorm2",
	FPRNorm:           "FPRNorm",
	FPRNorm2:          "FPRNorm2",
	Ipopt:             "Ipopt",
	LBFGSBpp:          "LBFGSBpp",
}

func (c StopCrit) valid() bool {
	return c >= 0 && int(c) < len(stopCritNames)
}

func (c StopCrit) String() string {
	if !c.valid() {
		return fmt.Sprintf("StopCrit(%d)", int(c))
	}
	return stopCritNames[c]
}

// ParseStopCrit returns the criterion named s.
func ParseStopCrit(s string) (StopCrit, error) {
	for i, name := range stopCritNames {
		if name == s {
			return StopCrit(i), nil
		}
	}
	return 0, fmt.Errorf("panoc: unknown stopping criterion %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c StopCrit) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("panoc: unknown stopping criterion %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *StopCrit) UnmarshalText(text []byte) (err error) {
	*c, err = ParseStopCrit(string(text))
	return
}

const ipoptSMax = 100

// stopCriterion evaluates ε at the current iterate.
// It may evaluate ∇ψ(x̂) and the unit forward-backward step through the solver.
func (s *Solver[T]) stopCriterion(c *call[T], it *iterate[T]) T {
	switch s.params.StopCrit {
	case ApproxKKT:
		return linalg.NormInf(it.p) / it.gamma
	case ApproxKKT2:
		return linalg.Norm2(it.p) / it.gamma
	case ProjGradNorm:
		return linalg.NormInf(it.p)
	case ProjGradNorm2:
		return linalg.Norm2(it.p)
	case ProjGradUnitNorm:
		return linalg.NormInf(c.unitStep(it))
	case ProjGradUnitNorm2:
		return linalg.Norm2(c.unitStep(it))
	case FPRNorm:
		return linalg.NormInf(c.fpr(it))
	case FPRNorm2:
		return linalg.Norm2(c.fpr(it))
	case Ipopt:
		m := max(1, len(c.y))
		sd := max(T(ipoptSMax), linalg.Norm1(c.y)/T(m)) / ipoptSMax
		return linalg.NormInf(c.fpr(it)) / sd
	case LBFGSBpp:
		return linalg.NormInf(c.unitStep(it)) / max(1, linalg.Norm2(it.x))
	}
	panic("unknown stopping criterion")
}

// unitStep returns T₁(x) - x.
func (c *call[T]) unitStep(it *iterate[T]) []T {
	ws := c.ws
	c.prob.ForwardBackward(1, it.x, it.grad, ws.work, ws.work2)
	return ws.work2
}

// fpr returns (x - x̂)/γ + ∇ψ(x̂) - ∇ψ(x).
func (c *call[T]) fpr(it *iterate[T]) []T {
	c.evalGradHat(it)
	r := c.ws.work
	for i := range r {
		r[i] = it.gradHat[i] - it.grad[i] - it.p[i]/it.gamma
	}
	return r
}
