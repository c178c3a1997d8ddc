// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package panoc

import (
	"strconv"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/curioloop/panoc/internal/linalg"
)

func formatReal[T linalg.Float](v T, precision int) string {
	var t T
	bits := 64
	if unsafe.Sizeof(t) == 4 {
		bits = 32
	}
	return strconv.FormatFloat(float64(v), 'e', max(precision-1, 0), bits)
}

func (s *Solver[T]) printProgress(k int, it *iterate[T], phi, eps, tau T) {
	prec := s.params.PrintPrecision
	s.Logger.Info().
		Int("k", k).
		Str("phi_gamma", formatReal(phi, prec)).
		Str("psi", formatReal(it.psi, prec)).
		Str("norm_grad", formatReal(linalg.Norm2(it.grad), prec)).
		Str("norm_p", formatReal(linalg.Sqrt(it.pp), prec)).
		Str("gamma", formatReal(it.gamma, prec)).
		Str("tau", formatReal(tau, prec)).
		Str("eps", formatReal(eps, prec)).
		Msg("panoc iteration")
}

func (s *Solver[T]) printExit(st *Stats[T]) {
	if s.params.PrintInterval <= 0 {
		return
	}
	var ev *zerolog.Event
	if st.Status == Converged {
		ev = s.Logger.Info()
	} else {
		ev = s.Logger.Warn()
	}
	prec := s.params.PrintPrecision
	ev.Str("solver", s.Name()).
		Stringer("status", st.Status).
		Int("iterations", st.Iterations).
		Dur("elapsed", st.ElapsedTime).
		Str("eps", formatReal(st.Epsilon, prec)).
		Str("avg_tau", formatReal(st.AverageTau(), prec)).
		Int("linesearch_failures", st.LinesearchFailures).
		Int("linesearch_backtracks", st.LinesearchBacktracks).
		Int("stepsize_backtracks", st.StepsizeBacktracks).
		Int("lbfgs_failures", st.LBFGSFailures).
		Int("lbfgs_rejected", st.LBFGSRejected).
		Err(st.Err).
		Msg("panoc finished")
}
