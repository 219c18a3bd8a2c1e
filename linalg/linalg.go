// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg supplies the linear-algebra base functions as a
// function-table fragment, merged over the evaluator's built-ins
// through the external-function-table option.
package linalg

import (
	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/eval"
	"github.com/mexlang/mexl/value"
)

// Table returns the function-table fragment: det, inv, lu, trace, eye.
func Table() map[string]*eval.Builtin {
	return map[string]*eval.Builtin{
		"det":   {Fn: detFn},
		"inv":   {Fn: invFn},
		"lu":    {Fn: luFn},
		"trace": {Fn: traceFn},
		"eye":   {Fn: eyeFn},
	}
}

// square extracts a square matrix of scalars.
func square(name string, v value.Value) (n int, a []value.Scalar) {
	arr, ok := v.(*value.MultiArray)
	if !ok {
		if s, isScalar := v.(value.Scalar); isScalar {
			return 1, []value.Scalar{s}
		}
		value.Errorf("%s requires a square matrix", name)
	}
	if arr.IsCell() || arr.Rank() != 2 || arr.GetDimension(0) != arr.GetDimension(1) {
		value.Errorf("%s requires a square matrix", name)
	}
	n = arr.GetDimension(0)
	a = make([]value.Scalar, n*n)
	for i, e := range arr.All() {
		s, ok := e.(value.Scalar)
		if !ok {
			value.Errorf("%s requires numeric elements", name)
		}
		a[i] = s
	}
	return n, a
}

func matrixOf(conf *config.Config, n, m int, a []value.Scalar) *value.MultiArray {
	elems := make([]value.Value, len(a))
	for i, s := range a {
		elems[i] = s
	}
	return value.NewMultiArray([]int{n, m}, value.ClassDecimal, false, elems)
}

// pivotRow finds the row at or below r with the largest |a[.,c]|.
func pivotRow(conf *config.Config, n int, a []value.Scalar, r, c int) int {
	best := r
	bestAbs := value.Abs(conf, a[r*n+c])
	for i := r + 1; i < n; i++ {
		abs := value.Abs(conf, a[i*n+c])
		if cmp, ok := value.Compare(conf, abs, bestAbs); ok && cmp > 0 {
			best = i
			bestAbs = abs
		}
	}
	return best
}

func swapRows(n int, a []value.Scalar, r1, r2 int) {
	for c := 0; c < n; c++ {
		a[r1*n+c], a[r2*n+c] = a[r2*n+c], a[r1*n+c]
	}
}

func detFn(ev *eval.Evaluator, args []eval.Operand) value.Value {
	if len(args) != 1 {
		value.Errorf("det called with %d arguments, wants 1", len(args))
	}
	conf := ev.Config()
	n, a := square("det", args[0].Value)
	det := value.Int64(conf, 1)
	for c := 0; c < n; c++ {
		p := pivotRow(conf, n, a, c, c)
		if a[p*n+c].IsZero() {
			return value.Int64(conf, 0)
		}
		if p != c {
			swapRows(n, a, p, c)
			det = value.Neg(conf, det)
		}
		det = value.Mul(conf, det, a[c*n+c])
		for i := c + 1; i < n; i++ {
			factor := value.Div(conf, a[i*n+c], a[c*n+c])
			for j := c; j < n; j++ {
				a[i*n+j] = value.Sub(conf, a[i*n+j], value.Mul(conf, factor, a[c*n+j]))
			}
		}
	}
	return det
}

func invFn(ev *eval.Evaluator, args []eval.Operand) value.Value {
	if len(args) != 1 {
		value.Errorf("inv called with %d arguments, wants 1", len(args))
	}
	conf := ev.Config()
	n, a := square("inv", args[0].Value)
	// Gauss-Jordan on [A | I].
	w := 2 * n
	m := make([]value.Scalar, n*w)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m[i*w+j] = a[i*n+j]
			m[i*w+n+j] = value.Int64(conf, 0)
		}
		m[i*w+n+i] = value.Int64(conf, 1)
	}
	for c := 0; c < n; c++ {
		p := c
		bestAbs := value.Abs(conf, m[c*w+c])
		for i := c + 1; i < n; i++ {
			abs := value.Abs(conf, m[i*w+c])
			if cmp, ok := value.Compare(conf, abs, bestAbs); ok && cmp > 0 {
				p = i
				bestAbs = abs
			}
		}
		if m[p*w+c].IsZero() {
			value.Errorf("inv: matrix is singular")
		}
		if p != c {
			for j := 0; j < w; j++ {
				m[p*w+j], m[c*w+j] = m[c*w+j], m[p*w+j]
			}
		}
		pivot := m[c*w+c]
		for j := 0; j < w; j++ {
			m[c*w+j] = value.Div(conf, m[c*w+j], pivot)
		}
		for i := 0; i < n; i++ {
			if i == c {
				continue
			}
			factor := m[i*w+c]
			if factor.IsZero() {
				continue
			}
			for j := 0; j < w; j++ {
				m[i*w+j] = value.Sub(conf, m[i*w+j], value.Mul(conf, factor, m[c*w+j]))
			}
		}
	}
	out := make([]value.Scalar, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = m[i*w+n+j]
		}
	}
	return matrixOf(conf, n, n, out)
}

// luFn decomposes PA = LU with partial pivoting and returns a lazy
// selector: one requested value yields the combined factors, two yield
// L and U, three add the permutation matrix.
func luFn(ev *eval.Evaluator, args []eval.Operand) value.Value {
	if len(args) != 1 {
		value.Errorf("lu called with %d arguments, wants 1", len(args))
	}
	conf := ev.Config()
	n, u := square("lu", args[0].Value)
	l := make([]value.Scalar, n*n)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
		for j := 0; j < n; j++ {
			l[i*n+j] = value.Int64(conf, 0)
		}
	}
	for c := 0; c < n; c++ {
		p := pivotRow(conf, n, u, c, c)
		if p != c {
			swapRows(n, u, p, c)
			swapRows(n, l, p, c)
			perm[p], perm[c] = perm[c], perm[p]
		}
		l[c*n+c] = value.Int64(conf, 1)
		if u[c*n+c].IsZero() {
			continue
		}
		for i := c + 1; i < n; i++ {
			factor := value.Div(conf, u[i*n+c], u[c*n+c])
			l[i*n+c] = factor
			for j := c; j < n; j++ {
				u[i*n+j] = value.Sub(conf, u[i*n+j], value.Mul(conf, factor, u[c*n+j]))
			}
		}
	}
	combined := make([]value.Scalar, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j < i {
				combined[i*n+j] = l[i*n+j]
			} else {
				combined[i*n+j] = u[i*n+j]
			}
		}
	}
	pm := make([]value.Scalar, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pm[i*n+j] = value.Int64(conf, 0)
		}
		pm[i*n+perm[i]] = value.Int64(conf, 1)
	}
	return eval.NewRetListByArity(func(expected int) []value.Value {
		switch expected {
		case 2:
			return []value.Value{matrixOf(conf, n, n, l), matrixOf(conf, n, n, u)}
		case 3:
			return []value.Value{matrixOf(conf, n, n, l), matrixOf(conf, n, n, u), matrixOf(conf, n, n, pm)}
		}
		return []value.Value{matrixOf(conf, n, n, combined)}
	})
}

func traceFn(ev *eval.Evaluator, args []eval.Operand) value.Value {
	if len(args) != 1 {
		value.Errorf("trace called with %d arguments, wants 1", len(args))
	}
	conf := ev.Config()
	n, a := square("trace", args[0].Value)
	sum := value.Int64(conf, 0)
	for i := 0; i < n; i++ {
		sum = value.Add(conf, sum, a[i*n+i])
	}
	return sum
}

func eyeFn(ev *eval.Evaluator, args []eval.Operand) value.Value {
	conf := ev.Config()
	n := 1
	if len(args) >= 1 {
		s, ok := args[0].Value.(value.Scalar)
		if !ok || !s.IsInt() || s.Int() < 0 {
			value.Errorf("eye: dimension must be a non-negative integer")
		}
		n = s.Int()
	}
	out := make([]value.Scalar, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = value.Int64(conf, 0)
		}
		out[i*n+i] = value.Int64(conf, 1)
	}
	return matrixOf(conf, n, n, out)
}
