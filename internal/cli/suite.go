// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newSuiteCmd(g *globalFlags) *cobra.Command {
	var (
		names    []string
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Solve several benchmark problems concurrently",
		Long: `Solves every listed benchmark with the dimension and settings of the
configuration file, one solver per problem, and prints a summary table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, g)
			if err != nil {
				return err
			}
			if parallel == 0 {
				return errors.New("parallel must not be zero")
			}
			if len(names) == 0 {
				names = benchmarkNames()
			}

			results := make([]result, len(names))
			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.SetLimit(parallel)
			for i, name := range names {
				p := s.cfg.Problem
				p.Name = name
				eg.Go(func() (err error) {
					results[i], err = s.runner.solve(ctx, p)
					return
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			if err := printResults(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if err := s.finish(); err != nil {
				return err
			}
			var errs []error
			for i := range results {
				errs = append(errs, results[i].err())
			}
			return errors.Join(errs...)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&names, "problems", "p", nil, "benchmark problems (default all)")
	f.IntVar(&parallel, "parallel", 4, "maximum number of concurrent solves, negative for no limit")
	return cmd
}
