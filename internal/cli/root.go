// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli implements the panoc command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/curioloop/panoc/config"
	"github.com/curioloop/panoc/metrics"
)

// Version is set at build time via ldflags.
var Version = "dev"

type globalFlags struct {
	configPath  string
	json        bool
	logLevel    string
	metricsFile string
}

// NewRootCmd returns the command tree.
func NewRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "panoc",
		Short: "Run the PANOC solver on benchmark problems",
		Long: `panoc solves benchmark problems with the proximal averaged Newton-type
method for optimal control and reports the solver statistics.

Solver settings are read from a YAML file, see the config package.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("panoc version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVar(&g.json, "json", false, "log JSON lines instead of console output")
	pf.StringVar(&g.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&g.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(newRunCmd(&g), newSuiteCmd(&g))
	return root
}

// Execute runs the command line tool. SIGINT and SIGTERM interrupt running solves.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// session holds what every subcommand sets up from the global flags.
type session struct {
	cfg      *config.File
	log      zerolog.Logger
	registry *prometheus.Registry
	runner   *runner
	flags    *globalFlags
}

func newSession(cmd *cobra.Command, g *globalFlags) (*session, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cmd.ErrOrStderr(), g.json, g.logLevel)
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	return &session{
		cfg:      cfg,
		log:      log,
		registry: reg,
		runner:   newRunner(cfg, log, metrics.New(reg)),
		flags:    g,
	}, nil
}

func newLogger(w io.Writer, json bool, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	// suites log from several goroutines
	w = zerolog.SyncWriter(w)
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger(), nil
}

// finish writes the metrics file if requested.
func (s *session) finish() error {
	if s.flags.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.flags.metricsFile, s.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	s.log.Debug().Str("path", s.flags.metricsFile).Msg("metrics written")
	return nil
}

func printResults(w io.Writer, results []result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROBLEM\tDIM\tSTATUS\tCALLS\tITER\tEPS\tPHI\tAVG TAU\tTIME")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%.3e\t%.6e\t%.3f\t%s\n",
			r.Problem, r.Dim, r.Last.Status, r.Total.Calls, r.Total.Iterations,
			r.Last.Epsilon, r.Total.FinalPhiGamma, r.Total.AverageTau(),
			r.Total.ElapsedTime.Round(time.Microsecond))
	}
	return tw.Flush()
}
