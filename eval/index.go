// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/value"
)

// index evaluates head(args…) or head{args…}. An identifier head is
// resolved in order: base-function table (through the alias resolver),
// local scope, variable, user function. Anything else must itself
// evaluate to an indexable value.
func (ev *Evaluator) index(n *ast.Node) value.Value {
	link(n, n.Head, -1)
	for i, arg := range n.Args {
		link(n, arg, i)
	}

	if n.Head.Kind == ast.Ident {
		name := n.Head.Name
		if bf := ev.BaseFunc(name); bf != nil {
			return ev.callBuiltin(name, bf, n)
		}
		if v, ok := ev.localLookup(name); ok {
			return ev.indexValue(n, value.CopyValue(v))
		}
		if e, ok := ev.names[name]; ok {
			if len(e.Params) > 0 {
				return ev.callUserFunction(name, e, n)
			}
			return ev.indexValue(n, ev.ident(name))
		}
		value.Errorf("undefined name %q", name)
	}
	return ev.indexValue(n, collapse(ev.eval(n.Head)))
}

// indexValue applies the subscript rules to an already-resolved value.
func (ev *Evaluator) indexValue(n *ast.Node, v value.Value) value.Value {
	arr, isArray := v.(*value.MultiArray)
	if !isArray {
		if len(n.Args) > 0 {
			value.Errorf("invalid indexing of %s value", value.ClassOf(v))
		}
		return v
	}
	if n.Brace {
		if !arr.IsCell() {
			value.Errorf("{} indexing of non-cell array")
		}
		return ev.braceGet(n, arr)
	}
	if len(n.Args) == 0 {
		return arr
	}
	v = ev.arrayGet(n, arr)
	if arr.IsCell() {
		// Paren indexing of a cell yields a cell; a bare element from
		// a single selection wraps back up.
		if _, ok := v.(*value.MultiArray); !ok {
			v = value.NewMultiArray([]int{1, 1}, value.ClassCell, true, []value.Value{v})
		}
	}
	return v
}

// braceGet reads one cell's contents.
func (ev *Evaluator) braceGet(n *ast.Node, arr *value.MultiArray) value.Value {
	v := ev.arrayGet(n, arr)
	inner, ok := v.(*value.MultiArray)
	if ok && inner.IsCell() && inner.LinearLength() == 1 {
		return value.CopyValue(inner.All()[0])
	}
	if ok && inner.IsCell() {
		value.Errorf("{} indexing must select a single cell")
	}
	return v
}

// arrayGet dispatches a subscript read: logical, linear or
// per-dimension.
func (ev *Evaluator) arrayGet(n *ast.Node, arr *value.MultiArray) value.Value {
	if len(n.Args) == 1 {
		arg := n.Args[0]
		if arg.Kind == ast.Colon {
			// A(:) lists all elements in column-major order: a column,
			// except that a row-vector source stays a row.
			subs := make([]int, arr.LinearLength())
			for i := range subs {
				subs[i] = i + 1
			}
			return arr.LinearGet(subs, true)
		}
		v := collapse(ev.eval(arg))
		if mask, ok := v.(*value.MultiArray); ok && mask.ClassIsLogical() {
			return arr.LogicalGet(mask)
		}
		subs, column := linearSubscripts(v)
		return arr.LinearGet(subs, column)
	}
	subs := ev.dimSubscripts(n, arr)
	return arr.SubGet(subs)
}

// dimSubscripts resolves one subscript vector per dimension, with :
// meaning every index of that dimension.
func (ev *Evaluator) dimSubscripts(n *ast.Node, arr *value.MultiArray) [][]int {
	subs := make([][]int, len(n.Args))
	for i, arg := range n.Args {
		if arg.Kind == ast.Colon {
			d := arr.GetDimension(i)
			all := make([]int, d)
			for k := range all {
				all[k] = k + 1
			}
			subs[i] = all
			continue
		}
		v := collapse(ev.eval(arg))
		s, _ := linearSubscripts(v)
		subs[i] = s
	}
	return subs
}

// linearSubscripts converts a subscript value to 1-based indices and
// reports whether it was a column vector.
func linearSubscripts(v value.Value) ([]int, bool) {
	switch v := v.(type) {
	case value.Scalar:
		return []int{v.Int()}, false
	case *value.MultiArray:
		if v.IsCell() {
			value.Errorf("cell array is not a valid subscript")
		}
		subs := make([]int, v.LinearLength())
		for k := 1; k <= len(subs); k++ {
			s, ok := v.AtLinear(k).(value.Scalar)
			if !ok {
				value.Errorf("invalid subscript")
			}
			subs[k-1] = s.Int()
		}
		dims := v.Dims()
		column := len(dims) == 2 && dims[1] == 1 && dims[0] > 1
		return subs, column
	}
	value.Errorf("invalid subscript of class %s", value.ClassOf(v))
	return nil, false
}

// callUserFunction evaluates a user-defined function: the argument
// count must match the formals, arguments are evaluated in the
// caller's scope, and the body runs in a fresh frame.
func (ev *Evaluator) callUserFunction(name string, e *Entry, n *ast.Node) value.Value {
	if len(n.Args) != len(e.Params) {
		value.Errorf("%s called with %d arguments, wants %d", name, len(n.Args), len(e.Params))
	}
	f := make(frame, len(e.Params))
	for i, arg := range n.Args {
		f[e.Params[i]] = collapse(ev.eval(arg))
	}
	body, ok := e.Expr.(*ast.Node)
	if !ok {
		value.Errorf("%s is not a function", name)
	}
	ev.pushFrame(f)
	defer ev.popFrame()
	return collapse(ev.eval(body))
}

// Sentinel resolution. end and : are valid only when the nearest
// enclosing index expression indexes a bound array-valued variable;
// the walk follows the parent links recorded during evaluation.

// enclosingIndex walks the parent chain to the nearest Index node and
// returns it with the argument position the walk came through.
func enclosingIndex(n *ast.Node) (*ast.Node, int) {
	cur := n
	for cur.Parent != nil && cur.Parent.Kind != ast.Index {
		cur = cur.Parent
	}
	if cur.Parent == nil || cur.ArgPos < 0 {
		value.Errorf("%s is valid only inside an index expression", n.Kind)
	}
	return cur.Parent, cur.ArgPos
}

// sentinelArray resolves the array being indexed by the enclosing
// index expression.
func (ev *Evaluator) sentinelArray(idx *ast.Node) *value.MultiArray {
	if idx.Head.Kind != ast.Ident {
		value.Errorf("end and : require indexing of an array variable")
	}
	name := idx.Head.Name
	var v value.Value
	if lv, ok := ev.localLookup(name); ok {
		v = lv
	} else if e, ok := ev.names[name]; ok && len(e.Params) == 0 {
		if val, ok := e.Expr.(value.Value); ok {
			v = val
		}
	}
	arr, ok := v.(*value.MultiArray)
	if !ok {
		value.Errorf("end and : require indexing of an array variable")
	}
	return arr
}

// resolveEnd yields the highest valid subscript for the sentinel's
// position: the linear length when the index has one argument, the
// corresponding dimension's size otherwise.
func (ev *Evaluator) resolveEnd(n *ast.Node) value.Value {
	idx, pos := enclosingIndex(n)
	arr := ev.sentinelArray(idx)
	if len(idx.Args) == 1 {
		return value.Int64(ev.conf, int64(arr.LinearLength()))
	}
	return value.Int64(ev.conf, int64(arr.GetDimension(pos)))
}

// resolveColon yields the full range 1..end for the sentinel's
// position, under the same rule as end.
func (ev *Evaluator) resolveColon(n *ast.Node) value.Value {
	idx, pos := enclosingIndex(n)
	arr := ev.sentinelArray(idx)
	d := arr.GetDimension(pos)
	if len(idx.Args) == 1 {
		d = arr.LinearLength()
	}
	return value.NewRange(ev.conf,
		value.Int64(ev.conf, 1), value.Int64(ev.conf, int64(d)), value.Int64(ev.conf, 1))
}
