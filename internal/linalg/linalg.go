// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg provides the unit-stride level-1 kernels used on the hot
// path of the solvers, generic over the floating point precision.
package linalg

import (
	"math"
	"unsafe"
)

// Float is the set of precisions the solvers are instantiated for.
type Float interface {
	~float32 | ~float64
}

// Epsilon returns the machine epsilon of T.
func Epsilon[T Float]() T {
	var t T
	if unsafe.Sizeof(t) == 4 {
		return T(math.Nextafter32(1, 2) - 1)
	}
	return T(math.Nextafter(1, 2) - 1)
}

// Inf returns positive infinity in T.
func Inf[T Float]() T {
	return T(math.Inf(1))
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite[T Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Abs returns |v|.
func Abs[T Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Sqrt returns √v computed in double precision.
func Sqrt[T Float](v T) T {
	return T(math.Sqrt(float64(v)))
}

// Dot computes xᵀy over the first n elements.
func Dot[T Float](n int, x, y []T) (dot T) {
	if n <= 0 {
		return 0
	}
	m := uint(n % 5)
	if uint(n) > uint(len(x)) || uint(n) > uint(len(y)) {
		panic("bound check error")
	}
	for i := uint(0); i < m; i++ {
		dot += x[i] * y[i]
	}
	for i := m; i < uint(n); i += 5 {
		a := x[i : i+5 : i+5]
		b := y[i : i+5 : i+5]
		dot += a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3] + a[4]*b[4]
	}
	return dot
}

// Axpy computes y += a·x.
func Axpy[T Float](n int, a T, x, y []T) {
	if n <= 0 || a == 0 {
		return
	}
	m := uint(n % 4)
	if uint(n) > uint(len(x)) || uint(n) > uint(len(y)) {
		panic("bound check error")
	}
	for i := uint(0); i < m; i++ {
		y[i] += a * x[i]
	}
	for i := m; i < uint(n); i += 4 {
		u := x[i : i+4 : i+4]
		v := y[i : i+4 : i+4]
		v[0] += a * u[0]
		v[1] += a * u[1]
		v[2] += a * u[2]
		v[3] += a * u[3]
	}
}

// Scal computes x *= a.
func Scal[T Float](n int, a T, x []T) {
	if n <= 0 {
		return
	}
	m := uint(n % 5)
	if uint(n) > uint(len(x)) {
		panic("bound check error")
	}
	for i := uint(0); i < m; i++ {
		x[i] *= a
	}
	for i := m; i < uint(n); i += 5 {
		d := x[i : i+5 : i+5]
		d[0] *= a
		d[1] *= a
		d[2] *= a
		d[3] *= a
		d[4] *= a
	}
}

// Copy copies the first n elements of x into y.
func Copy[T Float](n int, x, y []T) {
	if n <= 0 {
		return
	}
	copy(y[:n], x[:n])
}

// Fill sets every element of x to v.
func Fill[T Float](x []T, v T) {
	for i := range x {
		x[i] = v
	}
}

// Sub computes dst = x - y.
func Sub[T Float](dst, x, y []T) {
	if len(x) != len(dst) || len(y) != len(dst) {
		panic("bound check error")
	}
	for i := range dst {
		dst[i] = x[i] - y[i]
	}
}

// NormSq returns ‖x‖₂².
func NormSq[T Float](x []T) T {
	return Dot(len(x), x, x)
}

// Norm2 returns ‖x‖₂, scaled to avoid overflow of the squares.
func Norm2[T Float](x []T) T {
	var scale, ssq T = 0, 1
	for _, v := range x {
		if v == 0 {
			continue
		}
		a := Abs(v)
		if scale < a {
			r := scale / a
			ssq = 1 + ssq*r*r
			scale = a
		} else {
			r := a / scale
			ssq += r * r
		}
	}
	return scale * Sqrt(ssq)
}

// NormInf returns ‖x‖∞. NaN entries propagate.
func NormInf[T Float](x []T) (norm T) {
	for _, v := range x {
		a := Abs(v)
		if a > norm || a != a {
			norm = a
		}
	}
	return norm
}

// Norm1 returns ‖x‖₁.
func Norm1[T Float](x []T) (norm T) {
	for _, v := range x {
		norm += Abs(v)
	}
	return norm
}

// AllFinite reports whether every element of x is finite.
func AllFinite[T Float](x []T) bool {
	for _, v := range x {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// Resize returns a slice of length n reusing the storage of s when possible.
func Resize[T Float](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
