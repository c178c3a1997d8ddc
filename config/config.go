// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads solver settings from YAML files.
//
// A file has three sections. Missing keys keep their defaults:
//
//	solver:
//	  max_iter: 500
//	  max_time: 30s
//	  stop_crit: FPRNorm
//	  tolerance: 1e-10
//	  lipschitz:
//	    l_gamma_factor: 0.9
//	direction:
//	  kind: lbfgs
//	  memory: 20
//	problem:
//	  name: lasso
//	  dim: 50
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/curioloop/panoc/direction"
	"github.com/curioloop/panoc/panoc"
)

// Direction kinds.
const (
	KindLBFGS = "lbfgs"
	KindNone  = "none"
)

type Lipschitz struct {
	L0           float64 `yaml:"l0"`
	Epsilon      float64 `yaml:"epsilon"`
	Delta        float64 `yaml:"delta"`
	LGammaFactor float64 `yaml:"l_gamma_factor"`
}

type Solver struct {
	Lipschitz            Lipschitz      `yaml:"lipschitz"`
	MaxIter              int            `yaml:"max_iter"`
	MaxTime              time.Duration  `yaml:"max_time"`
	TauMin               float64        `yaml:"tau_min"`
	ForceLinesearch      bool           `yaml:"force_linesearch"`
	Beta                 float64        `yaml:"beta"`
	LinesearchStrictness float64        `yaml:"linesearch_strictness"`
	LMin                 float64        `yaml:"l_min"`
	LMax                 float64        `yaml:"l_max"`
	StopCrit             panoc.StopCrit `yaml:"stop_crit"`
	MaxNoProgress        int            `yaml:"max_no_progress"`
	PrintInterval        int            `yaml:"print_interval"`
	PrintPrecision       int            `yaml:"print_precision"`

	QuadraticUpperboundToleranceFactor float64 `yaml:"quadratic_upperbound_tolerance_factor"`
	LinesearchToleranceFactor          float64 `yaml:"linesearch_tolerance_factor"`

	// Per-call options.
	Tolerance              float64 `yaml:"tolerance"`
	AlwaysOverwriteResults bool    `yaml:"always_overwrite_results"`
}

type CBFGS struct {
	Alpha   float64 `yaml:"alpha"`
	Epsilon float64 `yaml:"epsilon"`
}

type Direction struct {
	Kind      string  `yaml:"kind"`
	Memory    int     `yaml:"memory"`
	MinDivFac float64 `yaml:"min_div_fac"`
	MinAbsS   float64 `yaml:"min_abs_s"`
	CBFGS     CBFGS   `yaml:"cbfgs"`
}

// Problem selects a benchmark problem of the command line tool.
type Problem struct {
	Name string `yaml:"name"`
	Dim  int    `yaml:"dim"`
	// Weight of the ℓ₁ term of the lasso problem.
	Lambda float64 `yaml:"lambda"`
	// Seed of the random problem data.
	Seed int64 `yaml:"seed"`
}

// File is the content of a configuration file.
type File struct {
	Solver    Solver    `yaml:"solver"`
	Direction Direction `yaml:"direction"`
	Problem   Problem   `yaml:"problem"`
}

// ValidationError reports an invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Default returns the settings matching panoc.DefaultParams and
// direction.DefaultLBFGSParams.
func Default() File {
	p := panoc.DefaultParams[float64]()
	d := direction.DefaultLBFGSParams[float64]()
	return File{
		Solver: Solver{
			Lipschitz: Lipschitz{
				L0:           p.Lipschitz.L0,
				Epsilon:      p.Lipschitz.Epsilon,
				Delta:        p.Lipschitz.Delta,
				LGammaFactor: p.Lipschitz.LGammaFactor,
			},
			MaxIter:                            p.MaxIter,
			MaxTime:                            p.MaxTime,
			TauMin:                             p.TauMin,
			ForceLinesearch:                    p.ForceLinesearch,
			Beta:                               p.Beta,
			LinesearchStrictness:               p.LinesearchStrictness,
			LMin:                               p.LMin,
			LMax:                               p.LMax,
			StopCrit:                           p.StopCrit,
			MaxNoProgress:                      p.MaxNoProgress,
			PrintInterval:                      p.PrintInterval,
			PrintPrecision:                     p.PrintPrecision,
			QuadraticUpperboundToleranceFactor: p.QuadraticUpperboundToleranceFactor,
			LinesearchToleranceFactor:          p.LinesearchToleranceFactor,
			Tolerance:                          1e-8,
		},
		Direction: Direction{
			Kind:      KindLBFGS,
			Memory:    d.Memory,
			MinDivFac: d.MinDivFac,
			MinAbsS:   d.MinAbsS,
			CBFGS:     CBFGS{Alpha: d.CBFGS.Alpha, Epsilon: d.CBFGS.Epsilon},
		},
		Problem: Problem{
			Name:   "rosenbrock",
			Dim:    2,
			Lambda: 0.1,
			Seed:   1,
		},
	}
}

// Load reads the file at path. An empty path yields the defaults.
func Load(path string) (*File, error) {
	if path == "" {
		f := Default()
		return &f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*File, error) {
	f := Default()
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the settings that the solver packages do not check themselves
// and forwards the rest to their validation.
func (f *File) Validate() error {
	if f.Solver.Tolerance < 0 {
		return ValidationError{Field: "solver.tolerance", Message: "must not be negative"}
	}
	if err := f.Params().Validate(); err != nil {
		return ValidationError{Field: "solver", Message: err.Error()}
	}
	switch f.Direction.Kind {
	case KindLBFGS:
		if err := f.LBFGS().Validate(); err != nil {
			return ValidationError{Field: "direction", Message: err.Error()}
		}
	case KindNone:
	default:
		return ValidationError{
			Field:   "direction.kind",
			Message: fmt.Sprintf("unknown direction %q, expected %q or %q", f.Direction.Kind, KindLBFGS, KindNone),
		}
	}
	if f.Problem.Dim < 1 {
		return ValidationError{Field: "problem.dim", Message: "must be positive"}
	}
	if f.Problem.Lambda < 0 {
		return ValidationError{Field: "problem.lambda", Message: "must not be negative"}
	}
	return nil
}

// Params returns the solver parameters.
func (f *File) Params() panoc.Params[float64] {
	s := f.Solver
	return panoc.Params[float64]{
		Lipschitz: panoc.LipschitzParams[float64]{
			L0:           s.Lipschitz.L0,
			Epsilon:      s.Lipschitz.Epsilon,
			Delta:        s.Lipschitz.Delta,
			LGammaFactor: s.Lipschitz.LGammaFactor,
		},
		MaxIter:                            s.MaxIter,
		MaxTime:                            s.MaxTime,
		TauMin:                             s.TauMin,
		ForceLinesearch:                    s.ForceLinesearch,
		Beta:                               s.Beta,
		LinesearchStrictness:               s.LinesearchStrictness,
		LMin:                               s.LMin,
		LMax:                               s.LMax,
		StopCrit:                           s.StopCrit,
		MaxNoProgress:                      s.MaxNoProgress,
		PrintInterval:                      s.PrintInterval,
		PrintPrecision:                     s.PrintPrecision,
		QuadraticUpperboundToleranceFactor: s.QuadraticUpperboundToleranceFactor,
		LinesearchToleranceFactor:          s.LinesearchToleranceFactor,
	}
}

// Options returns the per-call options.
func (f *File) Options() panoc.SolveOptions[float64] {
	return panoc.SolveOptions[float64]{
		Tolerance:              f.Solver.Tolerance,
		AlwaysOverwriteResults: f.Solver.AlwaysOverwriteResults,
	}
}

// LBFGS returns the parameters of the L-BFGS direction.
func (f *File) LBFGS() direction.LBFGSParams[float64] {
	d := f.Direction
	return direction.LBFGSParams[float64]{
		Memory:    d.Memory,
		MinDivFac: d.MinDivFac,
		MinAbsS:   d.MinAbsS,
		CBFGS:     direction.CBFGSParams[float64]{Alpha: d.CBFGS.Alpha, Epsilon: d.CBFGS.Epsilon},
	}
}

// NewSolver builds a solver with the configured parameters and direction.
func (f *File) NewSolver() (*panoc.Solver[float64], error) {
	var dir panoc.Direction[float64] = direction.None[float64]{}
	if f.Direction.Kind == KindLBFGS {
		dir = direction.NewLBFGS(f.LBFGS())
	}
	return panoc.NewSolver(f.Params(), dir)
}
