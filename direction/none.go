// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package direction

import (
	"github.com/curioloop/panoc/internal/linalg"
	"github.com/curioloop/panoc/problem"
)

// None never proposes a direction, which reduces PANOC to the
// proximal gradient method with a Lipschitz-adaptive step.
type None[T linalg.Float] struct{}

func (None[T]) Name() string { return "None" }

func (None[T]) Initialize(problem.Problem[T], []T, []T, T, []T, []T, []T, []T) {}

func (None[T]) Propose(T, []T, []T, []T, []T, []T) bool { return false }

func (None[T]) Update(T, T, []T, []T, []T, []T, []T, []T) bool { return true }

func (None[T]) ChangedStep(T, T) {}

func (None[T]) Reset() {}
