// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"fmt"

	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/config"
	"github.com/mexlang/mexl/value"
)

// Builtin is one base-function table entry. Mapper entries carry a
// scalar kernel function that the evaluator lifts elementwise over a
// single array argument; other entries receive their argument list,
// with positions masked false in EvalMask passed unevaluated.
type Builtin struct {
	Mapper   bool
	EvalMask []bool
	Scalar   value.ScalarUnary
	Fn       func(ev *Evaluator, args []Operand) value.Value
	MathML   func(r *MathMLRenderer, n *ast.Node) string
}

// Operand is one builtin argument: evaluated (Value set) or lazy
// (Value nil, Expr carries the unevaluated tree).
type Operand struct {
	Value value.Value
	Expr  *ast.Node
}

// callBuiltin invokes a base-function entry for head(args…).
func (ev *Evaluator) callBuiltin(name string, bf *Builtin, n *ast.Node) value.Value {
	if bf.Mapper {
		if len(n.Args) != 1 {
			value.Errorf("%s takes one argument", name)
		}
		v := collapse(ev.eval(n.Args[0]))
		switch v := v.(type) {
		case *value.MultiArray:
			return value.MapUnary(ev.conf, name, bf.Scalar, v)
		case value.Scalar:
			return bf.Scalar(ev.conf, v)
		}
		value.Errorf("%s not defined for %s", name, value.ClassOf(v))
	}
	args := make([]Operand, len(n.Args))
	for i, arg := range n.Args {
		if bf.EvalMask != nil && i < len(bf.EvalMask) && !bf.EvalMask[i] {
			args[i] = Operand{Expr: arg}
			continue
		}
		args[i] = Operand{Value: collapse(ev.eval(arg)), Expr: arg}
	}
	return bf.Fn(ev, args)
}

func mapper(fn value.ScalarUnary) *Builtin {
	return &Builtin{Mapper: true, Scalar: fn}
}

func wantArgs(name string, args []Operand, n int) {
	if len(args) != n {
		value.Errorf("%s called with %d arguments, wants %d", name, len(args), n)
	}
}

// dimsOf returns the shape of any value: scalars and strings are 1×1.
func dimsOf(v value.Value) []int {
	if arr, ok := v.(*value.MultiArray); ok {
		return arr.Dims()
	}
	return []int{1, 1}
}

func builtinTable() map[string]*Builtin {
	t := map[string]*Builtin{
		// Kernel mappers.
		"abs":       mapper(value.Abs),
		"angle":     mapper(value.Arg),
		"sign":      mapper(value.Sign),
		"conj":      mapper(value.Conj),
		"real":      mapper(value.Real),
		"imag":      mapper(value.Imag),
		"floor":     mapper(value.Floor),
		"ceil":      mapper(value.Ceil),
		"round":     mapper(value.Round),
		"fix":       mapper(value.Fix),
		"sqrt":      mapper(value.Sqrt),
		"exp":       mapper(value.Exp),
		"log":       mapper(value.Log),
		"log10":     mapper(value.Log10),
		"sin":       mapper(value.Sin),
		"cos":       mapper(value.Cos),
		"tan":       mapper(value.Tan),
		"asin":      mapper(value.Asin),
		"acos":      mapper(value.Acos),
		"atan":      mapper(value.Atan),
		"sinh":      mapper(value.Sinh),
		"cosh":      mapper(value.Cosh),
		"tanh":      mapper(value.Tanh),
		"asinh":     mapper(value.Asinh),
		"acosh":     mapper(value.Acosh),
		"atanh":     mapper(value.Atanh),
		"gamma":     mapper(value.Gamma),
		"factorial": mapper(value.Factorial),
	}

	t["logb"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("logb", args, 2)
		b := toScalar(args[0].Value, "logb base")
		x := toScalar(args[1].Value, "logb argument")
		return value.LogB(ev.conf, b, x)
	}}

	t["size"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("size", args, 1)
		dims := dimsOf(args[0].Value)
		conf := ev.conf
		return NewRetList(func(expected, index int) value.Value {
			if expected == 1 {
				elems := make([]value.Value, len(dims))
				for i, d := range dims {
					elems[i] = value.Int64(conf, int64(d))
				}
				return value.NewRowVector(elems)
			}
			if index >= expected {
				value.Errorf("element number %d undefined in return list", index+1)
			}
			if index < expected-1 {
				d := 1
				if index < len(dims) {
					d = dims[index]
				}
				return value.Int64(conf, int64(d))
			}
			// The final requested dimension folds the rest in.
			rest := 1
			for i := index; i < len(dims); i++ {
				rest *= dims[i]
			}
			return value.Int64(conf, int64(rest))
		})
	}}

	t["length"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("length", args, 1)
		dims := dimsOf(args[0].Value)
		n := 0
		empty := false
		for _, d := range dims {
			if d == 0 {
				empty = true
			}
			if d > n {
				n = d
			}
		}
		if empty {
			n = 0
		}
		return value.Int64(ev.conf, int64(n))
	}}

	t["numel"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("numel", args, 1)
		n := 1
		for _, d := range dimsOf(args[0].Value) {
			n *= d
		}
		return value.Int64(ev.conf, int64(n))
	}}

	t["ndims"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("ndims", args, 1)
		return value.Int64(ev.conf, int64(len(dimsOf(args[0].Value))))
	}}

	t["isempty"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("isempty", args, 1)
		empty := false
		if arr, ok := args[0].Value.(*value.MultiArray); ok {
			empty = arr.IsEmpty()
		}
		return value.NewLogical(ev.conf, empty)
	}}

	t["find"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("find", args, 1)
		return asArray(args[0].Value, "find").Find(ev.conf)
	}}

	t["prod"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("prod", args, 1)
		return reduce(ev.conf, "prod", args[0].Value, value.Int64(ev.conf, 1), false, value.Mul)
	}}

	t["sum"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("sum", args, 1)
		return reduce(ev.conf, "sum", args[0].Value, value.Int64(ev.conf, 0), false, value.Add)
	}}

	t["min"] = &Builtin{Fn: minmax("min", -1)}
	t["max"] = &Builtin{Fn: minmax("max", 1)}

	t["zeros"] = &Builtin{Fn: filled("zeros", 0)}
	t["ones"] = &Builtin{Fn: filled("ones", 1)}

	t["class"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("class", args, 1)
		name := value.ClassOf(args[0].Value).String()
		if _, ok := args[0].Value.(*value.Structure); ok {
			name = "struct"
		}
		return value.NewCharString(name, value.SingleQuote)
	}}

	t["fieldnames"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("fieldnames", args, 1)
		st, ok := args[0].Value.(*value.Structure)
		if !ok {
			value.Errorf("fieldnames requires a structure")
		}
		names := st.FieldNames()
		elems := make([]value.Value, len(names))
		for i, name := range names {
			elems[i] = value.NewCharString(name, value.SingleQuote)
		}
		return value.NewMultiArray([]int{len(elems), 1}, value.ClassCell, true, elems)
	}}

	t["disp"] = &Builtin{Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("disp", args, 1)
		fmt.Fprintln(ev.conf.Output(), displayText(ev.conf, args[0].Value))
		return nil
	}}

	// The lazy-mask entries: both receive their argument unevaluated.
	t["unparse"] = &Builtin{EvalMask: []bool{false}, Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("unparse", args, 1)
		return value.NewCharString(ev.Unparse(args[0].Expr), value.SingleQuote)
	}}
	t["mathml"] = &Builtin{EvalMask: []bool{false}, Fn: func(ev *Evaluator, args []Operand) value.Value {
		wantArgs("mathml", args, 1)
		return value.NewCharString(ev.UnparseMathML(args[0].Expr, Inline), value.SingleQuote)
	}}

	installMathMLOverrides(t)
	return t
}

// displayText renders a value for disp: strings print their contents
// without quotes.
func displayText(conf *config.Config, v value.Value) string {
	if s, ok := v.(*value.CharString); ok {
		return s.Text()
	}
	return v.Sprint(conf)
}

// asArray views any indexable value as an array; scalars become 1×1.
func asArray(v value.Value, what string) *value.MultiArray {
	switch v := v.(type) {
	case *value.MultiArray:
		return v
	case value.Scalar:
		return value.NewMultiArray([]int{1, 1}, value.ClassOf(v), false, []value.Value{v})
	}
	value.Errorf("%s not defined for %s", what, value.ClassOf(v))
	return nil
}

// reduce folds a scalar operation over a vector, or column-wise over a
// rank-2 matrix. With seedFirst the fold starts from the first element
// of each run instead of the unit.
func reduce(conf *config.Config, name string, v value.Value, unit value.Scalar, seedFirst bool, op value.ScalarBinary) value.Value {
	if s, ok := v.(value.Scalar); ok {
		return s
	}
	arr := asArray(v, name)
	if arr.IsCell() || arr.Class() == value.ClassChar {
		value.Errorf("%s not defined for %s", name, arr.Class())
	}
	if arr.Rank() != 2 {
		value.Errorf("%s requires a vector or matrix", name)
	}
	rows, cols := arr.GetDimension(0), arr.GetDimension(1)
	fold := func(get func(k int) value.Value, n int) value.Scalar {
		acc := unit
		start := 0
		if seedFirst {
			if n == 0 {
				value.Errorf("%s of an empty run", name)
			}
			s, ok := get(0).(value.Scalar)
			if !ok {
				value.Errorf("%s requires numeric elements", name)
			}
			acc = s
			start = 1
		}
		for k := start; k < n; k++ {
			s, ok := get(k).(value.Scalar)
			if !ok {
				value.Errorf("%s requires numeric elements", name)
			}
			acc = op(conf, acc, s)
		}
		return acc
	}
	if rows == 1 || cols == 1 {
		n := arr.LinearLength()
		return fold(func(k int) value.Value { return arr.AtLinear(k + 1) }, n)
	}
	elems := make([]value.Value, cols)
	for c := 0; c < cols; c++ {
		cc := c
		elems[c] = fold(func(k int) value.Value { return arr.All()[k*cols+cc] }, rows)
	}
	return value.NewRowVector(elems)
}

// minmax builds the min/max builtin: one argument reduces, two compare
// elementwise.
func minmax(name string, keep int) func(ev *Evaluator, args []Operand) value.Value {
	pick := func(conf *config.Config, a, b value.Scalar) value.Scalar {
		c, ok := value.Compare(conf, a, b)
		if !ok {
			// NaN loses to any comparable value.
			if a.IsNaN() {
				return b
			}
			return a
		}
		if c == keep || c == 0 {
			return a
		}
		return b
	}
	return func(ev *Evaluator, args []Operand) value.Value {
		conf := ev.conf
		switch len(args) {
		case 1:
			arr := asArray(args[0].Value, name)
			if arr.IsEmpty() {
				return value.Empty()
			}
			return reduce(conf, name, args[0].Value, value.Scalar{}, true, pick)
		case 2:
			return value.ElemBinary(conf, name, pick, args[0].Value, args[1].Value)
		}
		value.Errorf("%s called with %d arguments", name, len(args))
		return nil
	}
}

// filled builds the zeros/ones constructors.
func filled(name string, fillWith int64) func(ev *Evaluator, args []Operand) value.Value {
	return func(ev *Evaluator, args []Operand) value.Value {
		conf := ev.conf
		var dims []int
		switch len(args) {
		case 0:
			dims = []int{1, 1}
		case 1:
			n := toScalar(args[0].Value, name).Int()
			dims = []int{n, n}
		default:
			dims = make([]int, len(args))
			for i, a := range args {
				dims[i] = toScalar(a.Value, name).Int()
			}
		}
		for _, d := range dims {
			if d < 0 {
				value.Errorf("%s: negative dimension", name)
			}
		}
		n := 1
		for _, d := range dims {
			n *= d
		}
		elems := make([]value.Value, n)
		for i := range elems {
			elems[i] = value.Int64(conf, fillWith)
		}
		return value.NewMultiArray(dims, value.ClassDecimal, false, elems)
	}
}
