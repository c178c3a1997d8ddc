// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var (
		name          string
		dim           int
		tolerance     float64
		printInterval int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Solve one benchmark problem",
		Long: `Solves one benchmark problem and prints the solver statistics.

Flags override the problem section and the tolerance of the configuration file.`,
		Example: `  panoc run --problem lasso --dim 100
  panoc run -c panoc.yaml --print-interval 1 --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("problem") {
				s.cfg.Problem.Name = name
			}
			if flags.Changed("dim") {
				s.cfg.Problem.Dim = dim
			}
			if flags.Changed("tolerance") {
				s.cfg.Solver.Tolerance = tolerance
			}
			if flags.Changed("print-interval") {
				s.cfg.Solver.PrintInterval = printInterval
			}
			if err := s.cfg.Validate(); err != nil {
				return err
			}

			res, err := s.runner.solve(cmd.Context(), s.cfg.Problem)
			if err != nil {
				return err
			}
			if err := printResults(cmd.OutOrStdout(), []result{res}); err != nil {
				return err
			}
			if err := s.finish(); err != nil {
				return err
			}
			return res.err()
		},
	}
	f := cmd.Flags()
	f.StringVarP(&name, "problem", "p", "rosenbrock", "benchmark problem")
	f.IntVarP(&dim, "dim", "n", 2, "problem dimension")
	f.Float64Var(&tolerance, "tolerance", 1e-8, "stopping tolerance")
	f.IntVar(&printInterval, "print-interval", 0, "log every n-th iteration")
	return cmd
}
