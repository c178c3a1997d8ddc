// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"github.com/curioloop/panoc/internal/linalg"
	"github.com/curioloop/panoc/problem"
)

// Direction proposes the accelerated step q blended with the proximal step p
// by the line search. Implementations keep their own memory between calls
// of Propose and Update, and must not retain the slices they are given.
type Direction[T linalg.Float] interface {
	// Initialize is called once per solve after the first forward-backward step.
	Initialize(p problem.Problem[T], y, sigma []T, gamma T, x, xhat, pstep, grad []T)
	// Propose writes the candidate direction at x into q.
	// Returning false makes the iteration fall back to the proximal step.
	Propose(gamma T, x, xhat, pstep, grad, q []T) bool
	// Update feeds the accepted transition from xK to xNext.
	// Returning false means the information was rejected; it is not an error.
	Update(gammaK, gammaNext T, xK, xNext, pK, pNext, gradK, gradNext []T) bool
	// ChangedStep is called when the line search changed the step size.
	ChangedStep(gammaNew, gammaOld T)
	// Reset discards the memory.
	Reset()
	Name() string
}
