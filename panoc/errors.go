// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import "errors"

var (
	// ErrNotFinite is reported when the envelope, the residual or the
	// Lipschitz estimate is NaN or infinite.
	ErrNotFinite = errors.New("panoc: non-finite value encountered")
	// ErrStepSizeExhausted is reported when the quadratic upper bound still
	// fails with the Lipschitz estimate at LMax.
	ErrStepSizeExhausted = errors.New("panoc: quadratic upper bound violated at maximum Lipschitz estimate")
	// ErrEvaluation wraps a panic raised during Solve by the problem, the
	// direction provider or the progress callback.
	ErrEvaluation = errors.New("panoc: panic during solve")
)
