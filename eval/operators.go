// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/value"
)

// The operator tables. Elementwise operators broadcast scalars over
// arrays; the matrix forms * and ^ treat rank-2 operands as matrices,
// while / and \ accept only a scalar divisor and apply it elementwise.

func elemwise(name string, f value.ScalarBinary) BinaryOp {
	return func(ev *Evaluator, left, right value.Value) value.Value {
		return value.ElemBinary(ev.conf, name, f, left, right)
	}
}

func comparison(name string, f func(conf *config.Config, a, b value.Scalar) bool) BinaryOp {
	scalar := func(conf *config.Config, a, b value.Scalar) value.Scalar {
		return value.NewLogical(conf, f(conf, a, b))
	}
	return func(ev *Evaluator, left, right value.Value) value.Value {
		// Strings compare as whole values under == and !=.
		ls, lok := left.(*value.CharString)
		rs, rok := right.(*value.CharString)
		if lok || rok {
			if lok && rok && (name == "==" || name == "!=" || name == "~=") {
				eq := ls.Text() == rs.Text()
				if name != "==" {
					eq = !eq
				}
				return value.NewLogical(ev.conf, eq)
			}
			value.Errorf("operator %s not defined for strings", name)
		}
		return value.ElemBinary(ev.conf, name, scalar, left, right)
	}
}

func logicalOp(name string, f func(a, b bool) bool) BinaryOp {
	scalar := func(conf *config.Config, a, b value.Scalar) value.Scalar {
		return value.NewLogical(conf, f(a.True(), b.True()))
	}
	return func(ev *Evaluator, left, right value.Value) value.Value {
		return value.ElemBinary(ev.conf, name, scalar, left, right)
	}
}

func binaryTable() map[string]BinaryOp {
	lt := func(conf *config.Config, a, b value.Scalar) bool {
		c, ok := value.Compare(conf, a, b)
		return ok && c < 0
	}
	le := func(conf *config.Config, a, b value.Scalar) bool {
		c, ok := value.Compare(conf, a, b)
		return ok && c <= 0
	}
	gt := func(conf *config.Config, a, b value.Scalar) bool {
		c, ok := value.Compare(conf, a, b)
		return ok && c > 0
	}
	ge := func(conf *config.Config, a, b value.Scalar) bool {
		c, ok := value.Compare(conf, a, b)
		return ok && c >= 0
	}
	eq := value.Equal
	ne := func(conf *config.Config, a, b value.Scalar) bool {
		if a.IsNaN() || b.IsNaN() {
			return true
		}
		return !value.Equal(conf, a, b)
	}

	t := map[string]BinaryOp{
		"+":   elemwise("+", value.Add),
		"-":   elemwise("-", value.Sub),
		".*":  elemwise(".*", value.Mul),
		"./":  elemwise("./", value.Div),
		".\\": elemwise(".\\", value.LDiv),
		".^":  elemwise(".^", value.Pow),
		".**": elemwise(".**", value.Pow),

		"*": func(ev *Evaluator, left, right value.Value) value.Value {
			return value.MatMul(ev.conf, left, right)
		},
		"/":  rightDivide,
		"\\": leftDivide,
		"^":  matrixPower("^"),
		"**": matrixPower("**"),

		"<":  comparison("<", lt),
		"<=": comparison("<=", le),
		">":  comparison(">", gt),
		">=": comparison(">=", ge),
		"==": comparison("==", func(conf *config.Config, a, b value.Scalar) bool { return eq(conf, a, b) }),
		"!=": comparison("!=", ne),
		"~=": comparison("~=", ne),

		"&": logicalOp("&", func(a, b bool) bool { return a && b }),
		"|": logicalOp("|", func(a, b bool) bool { return a || b }),
	}
	return t
}

// rightDivide implements a/b: elementwise when the divisor is scalar;
// matrix right division is delegated to the linear-algebra provider
// (inv), not the operator.
func rightDivide(ev *Evaluator, left, right value.Value) value.Value {
	if isScalarish(right) {
		return value.ElemBinary(ev.conf, "/", value.Div, left, right)
	}
	value.Errorf("operator /: matrix divisor; use inv")
	return nil
}

// leftDivide implements a\b, the mirror of /.
func leftDivide(ev *Evaluator, left, right value.Value) value.Value {
	if isScalarish(left) {
		return value.ElemBinary(ev.conf, "\\", value.LDiv, left, right)
	}
	value.Errorf("operator \\: matrix divisor; use inv")
	return nil
}

func isScalarish(v value.Value) bool {
	switch v := v.(type) {
	case value.Scalar:
		return true
	case *value.MultiArray:
		return !v.IsCell() && v.LinearLength() == 1
	}
	return false
}

// matrixPower implements ^: scalar bases use the kernel's principal
// branch; a square matrix raised to a non-negative integer multiplies
// out.
func matrixPower(name string) BinaryOp {
	return func(ev *Evaluator, left, right value.Value) value.Value {
		conf := ev.conf
		if isScalarish(left) {
			return value.ElemBinary(conf, name, value.Pow, left, right)
		}
		arr, ok := left.(*value.MultiArray)
		if !ok || arr.Rank() != 2 || arr.GetDimension(0) != arr.GetDimension(1) {
			value.Errorf("operator %s: base must be scalar or square matrix", name)
		}
		exp := toScalar(right, "exponent")
		if !exp.IsInt() || exp.Int() < 0 {
			value.Errorf("operator %s: matrix exponent must be a non-negative integer", name)
		}
		n := exp.Int()
		d := arr.GetDimension(0)
		result := identityMatrix(conf, d)
		for k := 0; k < n; k++ {
			result = value.MatMul(conf, result, arr).(*value.MultiArray)
		}
		return result
	}
}

func identityMatrix(conf *config.Config, n int) *value.MultiArray {
	elems := make([]value.Value, n*n)
	for i := range elems {
		elems[i] = value.Int64(conf, 0)
	}
	for i := 0; i < n; i++ {
		elems[i*n+i] = value.Int64(conf, 1)
	}
	return value.NewMultiArray([]int{n, n}, value.ClassDecimal, false, elems)
}

func prefixTable() map[string]UnaryOp {
	not := func(conf *config.Config, a value.Scalar) value.Scalar {
		return value.NewLogical(conf, !a.True())
	}
	return map[string]UnaryOp{
		"+": func(ev *Evaluator, v value.Value) value.Value {
			return value.ElemUnary(ev.conf, "+", func(conf *config.Config, a value.Scalar) value.Scalar {
				return a
			}, v)
		},
		"-": func(ev *Evaluator, v value.Value) value.Value {
			return value.ElemUnary(ev.conf, "-", value.Neg, v)
		},
		"!": func(ev *Evaluator, v value.Value) value.Value {
			return value.ElemUnary(ev.conf, "!", not, v)
		},
		"~": func(ev *Evaluator, v value.Value) value.Value {
			return value.ElemUnary(ev.conf, "~", not, v)
		},
	}
}

func postfixTable() map[string]UnaryOp {
	return map[string]UnaryOp{
		"'": func(ev *Evaluator, v value.Value) value.Value {
			return value.Transpose(ev.conf, v, true)
		},
		".'": func(ev *Evaluator, v value.Value) value.Value {
			return value.Transpose(ev.conf, v, false)
		},
	}
}
