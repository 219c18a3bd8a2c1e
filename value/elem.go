// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"github.com/mexlang/mexl/config"
)

// ScalarBinary is a scalar-kernel binary operation.
type ScalarBinary func(conf *config.Config, a, b Scalar) Scalar

// ScalarUnary is a scalar-kernel unary operation.
type ScalarUnary func(conf *config.Config, a Scalar) Scalar

// ElemBinary applies op elementwise, broadcasting scalars; two arrays
// must agree in shape. String operands are rejected here — textual
// comparison is handled before dispatch reaches the kernel.
func ElemBinary(conf *config.Config, name string, op ScalarBinary, a, b Value) Value {
	sa, aIsScalar := a.(Scalar)
	sb, bIsScalar := b.(Scalar)
	switch {
	case aIsScalar && bIsScalar:
		return op(conf, sa, sb)
	case aIsScalar:
		arr := mustNumeric(name, b)
		return arr.mapElems(func(e Value) Value {
			return op(conf, sa, elemScalar(name, e))
		})
	case bIsScalar:
		arr := mustNumeric(name, a)
		return arr.mapElems(func(e Value) Value {
			return op(conf, elemScalar(name, e), sb)
		})
	default:
		u := mustNumeric(name, a)
		v := mustNumeric(name, b)
		if u.LinearLength() == 1 {
			return ElemBinary(conf, name, op, u.elems[0], v)
		}
		if v.LinearLength() == 1 {
			return ElemBinary(conf, name, op, a, v.elems[0])
		}
		if !sameDims(u.dims, v.dims) {
			Errorf("operator %s: nonconformant arguments (%s vs %s)",
				name, dimsString(u.dims), dimsString(v.dims))
		}
		elems := make([]Value, len(u.elems))
		for i := range u.elems {
			elems[i] = op(conf, elemScalar(name, u.elems[i]), elemScalar(name, v.elems[i]))
		}
		return NewMultiArray(u.dims, classOfElems(elems), false, elems)
	}
}

// ElemUnary applies op elementwise over a scalar or array.
func ElemUnary(conf *config.Config, name string, op ScalarUnary, a Value) Value {
	switch a := a.(type) {
	case Scalar:
		return op(conf, a)
	case *MultiArray:
		arr := mustNumeric(name, a)
		return arr.mapElems(func(e Value) Value {
			return op(conf, elemScalar(name, e))
		})
	}
	Errorf("operator %s not defined for %s", name, kindName(a))
	return nil
}

// MapUnary lifts a scalar function elementwise over a single array,
// preserving shape. This is the mapper pathway for base functions.
func MapUnary(conf *config.Config, name string, op ScalarUnary, a *MultiArray) Value {
	arr := mustNumeric(name, a)
	return arr.mapElems(func(e Value) Value {
		return op(conf, elemScalar(name, e))
	})
}

func (m *MultiArray) mapElems(f func(Value) Value) *MultiArray {
	elems := make([]Value, len(m.elems))
	for i, e := range m.elems {
		elems[i] = f(e)
	}
	dims := make([]int, len(m.dims))
	copy(dims, m.dims)
	return NewMultiArray(dims, classOfElems(elems), false, elems)
}

func mustNumeric(name string, v Value) *MultiArray {
	arr, ok := v.(*MultiArray)
	if !ok || arr.cell || arr.class == ClassChar && !arr.IsEmpty() {
		Errorf("operator %s not defined for %s", name, kindName(v))
	}
	return arr
}

func elemScalar(name string, v Value) Scalar {
	s, ok := v.(Scalar)
	if !ok {
		Errorf("operator %s not defined for %s element", name, kindName(v))
	}
	return s
}

func kindName(v Value) string {
	switch v := v.(type) {
	case Scalar:
		if v.logical {
			return "logical"
		}
		return "number"
	case *CharString:
		return "string"
	case *MultiArray:
		if v.cell {
			return "cell array"
		}
		return "array"
	case *Structure:
		return "structure"
	}
	return "value"
}

// MatMul returns the matrix product of two rank-2 numeric arrays.
// Scalar operands fall back to elementwise multiplication.
func MatMul(conf *config.Config, a, b Value) Value {
	u, uArr := a.(*MultiArray)
	v, vArr := b.(*MultiArray)
	if !uArr || !vArr || u.LinearLength() == 1 || v.LinearLength() == 1 {
		return ElemBinary(conf, "*", Mul, a, b)
	}
	mustNumeric("*", u)
	mustNumeric("*", v)
	if u.Rank() != 2 || v.Rank() != 2 {
		Errorf("operator *: arguments must be matrices")
	}
	n, k := u.dims[0], u.dims[1]
	k2, p := v.dims[0], v.dims[1]
	if k != k2 {
		Errorf("operator *: nonconformant arguments (%s vs %s)",
			dimsString(u.dims), dimsString(v.dims))
	}
	elems := make([]Value, n*p)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			sum := Int64(conf, 0)
			for t := 0; t < k; t++ {
				x := elemScalar("*", u.elems[i*k+t])
				y := elemScalar("*", v.elems[t*p+j])
				sum = Add(conf, sum, Mul(conf, x, y))
			}
			elems[i*p+j] = sum
		}
	}
	return NewMultiArray([]int{n, p}, ClassDecimal, false, elems)
}

// Transpose returns the rank-2 transpose; conjugate applies the
// complex conjugate to each element on the way.
func Transpose(conf *config.Config, a Value, conjugate bool) Value {
	s, ok := a.(Scalar)
	if ok {
		if conjugate {
			return Conj(conf, s)
		}
		return s
	}
	if str, ok := a.(*CharString); ok {
		return str
	}
	arr, ok := a.(*MultiArray)
	if !ok {
		Errorf("transpose not defined for %s", kindName(a))
	}
	if arr.Rank() != 2 {
		Errorf("transpose not defined for %s array", dimsString(arr.dims))
	}
	r, c := arr.dims[0], arr.dims[1]
	elems := make([]Value, len(arr.elems))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			e := arr.elems[i*c+j]
			if conjugate {
				if s, ok := e.(Scalar); ok {
					e = Conj(conf, s)
				}
			} else {
				e = CopyValue(e)
			}
			elems[j*r+i] = e
		}
	}
	return NewMultiArray([]int{c, r}, arr.class, arr.cell, elems)
}

// IsTrue is the boolean projection of a value: a scalar is nonzero,
// an array is nonempty with every element nonzero, a string is
// nonempty. Structures do not project.
func IsTrue(conf *config.Config, v Value) bool {
	switch v := v.(type) {
	case Scalar:
		return v.True()
	case *CharString:
		return v.Len() > 0
	case *MultiArray:
		if v.IsEmpty() {
			return false
		}
		for _, e := range v.elems {
			s, ok := e.(Scalar)
			if !ok || !s.True() {
				return false
			}
		}
		return true
	}
	Errorf("%s has no boolean value", kindName(v))
	return false
}

// NewRange produces the row vector start, start+stride, … bounded by
// stop. A zero stride, or a stride pointing away from stop, produces
// the empty array. The element count is max(0, floor((stop−start)/stride)+1),
// computed at display precision so representation error in the
// operands cannot drop the final element.
func NewRange(conf *config.Config, start, stop, stride Scalar) *MultiArray {
	if start.nan || stop.nan || stride.nan ||
		!start.IsReal() || !stop.IsReal() || !stride.IsReal() {
		Errorf("range bounds must be real")
	}
	if stride.IsZero() {
		return NewMultiArray([]int{1, 0}, ClassDecimal, false, nil)
	}
	span := newF(conf).Sub(stop.re, start.re)
	q := newF(conf).Quo(span, stride.re)
	q = displayRound(conf, q)
	if q.Sign() < 0 {
		return NewMultiArray([]int{1, 0}, ClassDecimal, false, nil)
	}
	if q.IsInf() {
		Errorf("unbounded range")
	}
	nf := ffloor(conf, q)
	n64, _ := nf.Int64()
	n := int(n64) + 1
	if n < 0 || n > 1e8 {
		Errorf("range of %d elements too large", n)
	}
	elems := make([]Value, n)
	for k := 0; k < n; k++ {
		step := newFInt64(conf, int64(k))
		step.Mul(step, stride.re)
		step.Add(step, start.re)
		elems[k] = Scalar{re: step, im: newF(conf)}
	}
	return NewMultiArray([]int{1, n}, ClassDecimal, false, elems)
}

// BuildMatrix assembles a matrix literal from evaluated rows. Within a
// row, arrays are spread horizontally (all blocks must agree in row
// count); rows then stack vertically (all rows must agree in width).
// Cell literals keep each element as a single cell without spreading.
func BuildMatrix(conf *config.Config, rows [][]Value, cell bool) *MultiArray {
	if cell {
		width := -1
		var elems []Value
		for _, row := range rows {
			if width == -1 {
				width = len(row)
			} else if len(row) != width {
				Errorf("inconsistent row widths in cell literal")
			}
			for _, v := range row {
				elems = append(elems, CopyValue(v))
			}
		}
		if width <= 0 && len(elems) == 0 {
			return NewMultiArray([]int{0, 0}, ClassCell, true, nil)
		}
		return NewMultiArray([]int{len(rows), width}, ClassCell, true, elems)
	}

	type block struct {
		rows, cols int
		at         func(r, c int) Value
	}
	var stacked [][]block
	for _, row := range rows {
		var blocks []block
		for _, v := range row {
			switch v := v.(type) {
			case *MultiArray:
				if v.Rank() != 2 {
					Errorf("only matrices may be concatenated")
				}
				if v.IsEmpty() {
					continue
				}
				arr := v
				blocks = append(blocks, block{arr.dims[0], arr.dims[1], func(r, c int) Value {
					return CopyValue(arr.elems[r*arr.dims[1]+c])
				}})
			default:
				val := v
				blocks = append(blocks, block{1, 1, func(r, c int) Value {
					return CopyValue(val)
				}})
			}
		}
		stacked = append(stacked, blocks)
	}

	totalRows, width := 0, -1
	for _, blocks := range stacked {
		if len(blocks) == 0 {
			continue
		}
		h := blocks[0].rows
		w := 0
		for _, b := range blocks {
			if b.rows != h {
				Errorf("inconsistent row heights in matrix literal")
			}
			w += b.cols
		}
		if width == -1 {
			width = w
		} else if w != width {
			Errorf("inconsistent row widths in matrix literal")
		}
		totalRows += h
	}
	if width <= 0 {
		return Empty()
	}

	elems := make([]Value, 0, totalRows*width)
	for _, blocks := range stacked {
		if len(blocks) == 0 {
			continue
		}
		h := blocks[0].rows
		for r := 0; r < h; r++ {
			for _, b := range blocks {
				for c := 0; c < b.cols; c++ {
					elems = append(elems, b.at(r, c))
				}
			}
		}
	}
	return NewMultiArray([]int{totalRows, width}, classOfElems(elems), false, elems)
}
