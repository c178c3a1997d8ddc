// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/panoc/config"
	"github.com/curioloop/panoc/problem"
)

// instance is a benchmark problem ready to be solved from x0.
// Problems with m > 0 are solved by an augmented Lagrangian loop.
type instance struct {
	prob problem.Problem[float64]
	x0   []float64
}

type builder func(p config.Problem) (instance, error)

var benchmarks = map[string]builder{
	"rosenbrock": buildRosenbrock,
	"lasso":      buildLasso,
	"boxqp":      buildBoxQP,
	"ball":       buildBall,
}

func benchmarkNames() []string {
	names := make([]string, 0, len(benchmarks))
	for name := range benchmarks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func build(p config.Problem) (instance, error) {
	b, ok := benchmarks[p.Name]
	if !ok {
		return instance{}, fmt.Errorf("unknown problem %q, expected one of %v", p.Name, benchmarkNames())
	}
	return b(p)
}

// chained Rosenbrock Σ 100(xᵢ₊₁ - xᵢ²)² + (1 - xᵢ)², minimized at xᵢ = 1
func buildRosenbrock(p config.Problem) (instance, error) {
	if p.Dim < 2 {
		return instance{}, fmt.Errorf("rosenbrock needs dim ≥ 2, got %d", p.Dim)
	}
	f := &problem.Funcs[float64]{
		N: p.Dim,
		F: func(x []float64) (f float64) {
			for i := 0; i+1 < len(x); i++ {
				a, b := 1-x[i], x[i+1]-x[i]*x[i]
				f += a*a + 100*b*b
			}
			return
		},
		Grad: func(x, g []float64) {
			clear(g)
			for i := 0; i+1 < len(x); i++ {
				b := x[i+1] - x[i]*x[i]
				g[i] += -2*(1-x[i]) - 400*x[i]*b
				g[i+1] += 200 * b
			}
		},
	}
	x0 := make([]float64, p.Dim)
	for i := range x0 {
		x0[i] = 1
		if i%2 == 0 {
			x0[i] = -1.2
		}
	}
	return instance{prob: problem.Unconstrained[float64](f), x0: x0}, nil
}

// gram returns AᵀA and Aᵀb for a random 2n×n matrix A and vector b.
func gram(n int, rnd *rand.Rand) (*mat.SymDense, []float64) {
	a := mat.NewDense(2*n, n, nil)
	for i := 0; i < 2*n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rnd.NormFloat64())
		}
	}
	b := make([]float64, 2*n)
	for i := range b {
		b[i] = rnd.NormFloat64()
	}
	q := mat.NewSymDense(n, nil)
	q.SymOuterK(1, a.T())
	atb := make([]float64, n)
	mat.NewVecDense(n, atb).MulVec(a.T(), mat.NewVecDense(2*n, b))
	return q, atb
}

// ½‖Ax - b‖² + λ‖x‖₁
func buildLasso(p config.Problem) (instance, error) {
	rnd := rand.New(rand.NewPCG(uint64(p.Seed), 0))
	q, atb := gram(p.Dim, rnd)
	floats.Scale(-1, atb)
	h := problem.L1[float64]{Lambda: p.Lambda}
	return instance{prob: problem.Unconstrained[float64](problem.NewQuadratic(q, atb, h)), x0: make([]float64, p.Dim)}, nil
}

// ½xᵀ(AᵀA + I)x + cᵀx on [-1, 1]ⁿ
func buildBoxQP(p config.Problem) (instance, error) {
	rnd := rand.New(rand.NewPCG(uint64(p.Seed), 1))
	q, _ := gram(p.Dim, rnd)
	c := make([]float64, p.Dim)
	lower, upper := make([]float64, p.Dim), make([]float64, p.Dim)
	for i := range c {
		q.SetSym(i, i, q.At(i, i)+1)
		c[i] = 4 * rnd.NormFloat64()
		lower[i], upper[i] = -1, 1
	}
	h := problem.Box[float64]{Lower: lower, Upper: upper}
	return instance{prob: problem.Unconstrained[float64](problem.NewQuadratic(q, c, h)), x0: make([]float64, p.Dim)}, nil
}

// minimize Σxᵢ subject to ‖x‖² ≤ n, solved by xᵢ = -1
func buildBall(p config.Problem) (instance, error) {
	n := p.Dim
	c := &problem.Constrained[float64]{
		N: n,
		M: 1,
		F: floats.Sum,
		GradF: func(_, g []float64) {
			for i := range g {
				g[i] = 1
			}
		},
		G: func(x, gx []float64) { gx[0] = floats.Dot(x, x) },
		GradGProd: func(x, v, out []float64) {
			for i := range out {
				out[i] = 2 * x[i] * v[0]
			}
		},
		C: problem.Box[float64]{},
		D: problem.Box[float64]{Upper: []float64{float64(n)}},
	}
	return instance{prob: c, x0: make([]float64, n)}, nil
}
