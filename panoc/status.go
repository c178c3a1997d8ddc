// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import "errors"

// Status is the state of a solve. Every returned Stats carries a terminal status.
type Status int

const (
	// Busy the solver is still iterating.
	Busy Status = iota
	// Converged the stopping criterion fell below the tolerance.
	Converged
	// MaxTime the time budget was exhausted.
	MaxTime
	// MaxIter the iteration budget was exhausted.
	MaxIter
	// NotFinite an iterate, the envelope or the step size estimate became NaN or infinite.
	NotFinite
	// NoProgress the stopping criterion stagnated for too many iterations.
	NoProgress
	// Interrupted Stop was called.
	Interrupted
	// Exception the problem panicked during an evaluation.
	Exception
)

func (s Status) String() string {
	if s < 0 || int(s) >= len(statuses) {
		return "Unknown"
	}
	return statuses[s].name
}

// Early reports whether the solve ended before the tolerance was reached.
func (s Status) Early() bool {
	if s < 0 || int(s) >= len(statuses) {
		return true
	}
	return statuses[s].early
}

// Err returns the error describing an early ending, nil otherwise.
func (s Status) Err() error {
	if s < 0 || int(s) >= len(statuses) {
		return errors.New("panoc: unknown status")
	}
	return statuses[s].err
}

// ParseStatus returns the status named s.
func ParseStatus(s string) (Status, bool) {
	for i, st := range statuses {
		if st.name == s {
			return Status(i), true
		}
	}
	return Busy, false
}

var statuses = []struct {
	name  string
	early bool
	err   error
}{
	{
		name: "Busy",
	},
	{
		name: "Converged",
	},
	{
		name:  "MaxTime",
		early: true,
		err:   errors.New("panoc: maximum time reached"),
	},
	{
		name:  "MaxIter",
		early: true,
		err:   errors.New("panoc: maximum number of iterations reached"),
	},
	{
		name:  "NotFinite",
		early: true,
		err:   ErrNotFinite,
	},
	{
		name:  "NoProgress",
		early: true,
		err:   errors.New("panoc: no progress"),
	},
	{
		name:  "Interrupted",
		early: true,
		err:   errors.New("panoc: interrupted"),
	},
	{
		name:  "Exception",
		early: true,
		err:   errors.New("panoc: problem evaluation failed"),
	},
}
