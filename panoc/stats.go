// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"time"

	"github.com/curioloop/panoc/internal/linalg"
)

// Stats summarizes one call of the solver.
type Stats[T linalg.Float] struct {
	Status      Status
	Epsilon     T
	ElapsedTime time.Duration
	Iterations  int

	// Line search weight fell below TauMin and the proximal step was taken.
	LinesearchFailures int
	// Line search weight reductions.
	LinesearchBacktracks int
	// Lipschitz estimate increases caused by the quadratic upper bound.
	StepsizeBacktracks int
	// Declined or non-finite direction proposals.
	LBFGSFailures int
	// Secant pairs rejected by the direction.
	LBFGSRejected int
	// Iterations accepting τ = 1 without backtracking.
	Tau1Accepted int
	CountTau     int
	SumTau       T

	FinalGamma    T
	FinalPsi      T
	FinalH        T
	FinalPhiGamma T

	// Cause of a NotFinite or Exception status.
	Err error
}

// AverageTau returns the mean line search weight, zero when no line search ran.
func (s *Stats[T]) AverageTau() T {
	if s.CountTau == 0 {
		return 0
	}
	return s.SumTau / T(s.CountTau)
}

// Accumulator merges the statistics of successive calls, as made by an outer
// augmented Lagrangian loop. Counters and durations are summed,
// the final snapshots keep the value of the latest call.
type Accumulator[T linalg.Float] struct {
	Calls       int
	ElapsedTime time.Duration
	Iterations  int

	LinesearchFailures   int
	LinesearchBacktracks int
	StepsizeBacktracks   int
	LBFGSFailures        int
	LBFGSRejected        int
	Tau1Accepted         int
	CountTau             int
	SumTau               T

	FinalGamma    T
	FinalPsi      T
	FinalH        T
	FinalPhiGamma T
	LastStatus    Status
}

// Add merges s into a.
func (a *Accumulator[T]) Add(s Stats[T]) *Accumulator[T] {
	a.Calls++
	a.ElapsedTime += s.ElapsedTime
	a.Iterations += s.Iterations
	a.LinesearchFailures += s.LinesearchFailures
	a.LinesearchBacktracks += s.LinesearchBacktracks
	a.StepsizeBacktracks += s.StepsizeBacktracks
	a.LBFGSFailures += s.LBFGSFailures
	a.LBFGSRejected += s.LBFGSRejected
	a.Tau1Accepted += s.Tau1Accepted
	a.CountTau += s.CountTau
	a.SumTau += s.SumTau
	a.FinalGamma = s.FinalGamma
	a.FinalPsi = s.FinalPsi
	a.FinalH = s.FinalH
	a.FinalPhiGamma = s.FinalPhiGamma
	a.LastStatus = s.Status
	return a
}

// AverageTau returns the mean line search weight over all merged calls.
func (a *Accumulator[T]) AverageTau() T {
	if a.CountTau == 0 {
		return 0
	}
	return a.SumTau / T(a.CountTau)
}
