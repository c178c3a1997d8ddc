// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"github.com/curioloop/panoc/internal/linalg"
	"github.com/curioloop/panoc/problem"
)

// ProgressInfo is handed to the progress callback once per iteration and once
// at exit with a terminal Status. The slices are owned by the solver and are
// overwritten by the next iteration: copy what must outlive the callback.
type ProgressInfo[T linalg.Float] struct {
	K        int
	Status   Status
	X        []T
	P        []T
	NormSqP  T
	XHat     []T
	PhiGamma T
	Psi      T
	GradPsi  []T
	PsiHat   T
	// nil when ∇ψ(x̂) was not needed by the iteration.
	GradPsiHat []T
	// nil when the direction declined or at exit.
	Q       []T
	L       T
	Gamma   T
	Tau     T
	Epsilon T
	Sigma   []T
	Y       []T
	Problem problem.Problem[T]
	Params  *Params[T]
}

func (s *Solver[T]) report(c *call[T], it *iterate[T], k int, status Status, phi, eps, tau T, q []T) {
	if s.progress == nil {
		return
	}
	info := &s.info
	*info = ProgressInfo[T]{
		K:        k,
		Status:   status,
		X:        it.x,
		P:        it.p,
		NormSqP:  it.pp,
		XHat:     it.xhat,
		PhiGamma: phi,
		Psi:      it.psi,
		GradPsi:  it.grad,
		PsiHat:   it.psiHat,
		Q:        q,
		L:        it.L,
		Gamma:    it.gamma,
		Tau:      tau,
		Epsilon:  eps,
		Sigma:    c.sigma,
		Y:        c.y,
		Problem:  c.prob,
		Params:   &s.params,
	}
	if it.haveGradHat {
		info.GradPsiHat = it.gradHat
	}
	s.progress(info)
}
