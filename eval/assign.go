// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"strings"

	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/value"
)

// target is one decomposed assignment destination: an identifier with
// an optional index-argument list and an optional field path, or the
// discard wildcard.
type target struct {
	wildcard bool
	id       string
	index    *ast.Node      // the Index node supplying the arguments
	fields   []ast.FieldSel // field path, possibly dynamic
	node     *ast.Node      // the target's own node, for sentinel links
}

func (t *target) plain() bool {
	return !t.wildcard && t.index == nil && len(t.fields) == 0
}

// assign evaluates an assignment node. The left side is decomposed
// into targets, the right side evaluated once, and each target given
// its selection of the result.
func (ev *Evaluator) assign(n *ast.Node) value.Value {
	targets := ev.decompose(n.Left)
	if len(targets) > 1 && n.Op != "=" {
		value.Errorf("computed multiple assignment not allowed")
	}

	// Function definition: a single target whose index arguments are
	// all currently-unbound identifiers registers a user function with
	// the unevaluated right side as its body.
	if n.Op == "=" && len(targets) == 1 && ev.isFunctionDefinition(targets[0]) {
		t := targets[0]
		params := make([]string, len(t.index.Args))
		for i, arg := range t.index.Args {
			params[i] = arg.Name
		}
		ev.names[t.id] = &Entry{Params: params, Expr: n.Right}
		return nil
	}

	rhs := ev.evalRHS(n, targets)

	if len(targets) > 1 {
		ret, ok := rhs.(*RetList)
		if !ok {
			// A single-valued result acts as a one-element selector.
			ret = NewRetListValues([]value.Value{rhs})
		}
		var last value.Value
		for i, t := range targets {
			v := ret.Select(len(targets), i)
			ev.applyTarget(t, v)
			last = v
		}
		return last
	}

	t := targets[0]
	v := collapse(rhs)
	if n.Op != "=" {
		v = ev.compound(n, t, v)
	}
	ev.applyTarget(t, v)
	return v
}

// evalRHS evaluates the right side once. If evaluation fails and the
// assignment has a single plain-identifier target, the target's
// name-table entry is rewritten to the unevaluated right side before
// the failure propagates, so the partial progress stays inspectable.
func (ev *Evaluator) evalRHS(n *ast.Node, targets []*target) value.Value {
	defer func() {
		if e := recover(); e != nil {
			if len(targets) == 1 && targets[0].plain() {
				ev.names[targets[0].id] = &Entry{Expr: n.Right}
			}
			panic(e)
		}
	}()
	return ev.eval(link(n, n.Right, 1))
}

// compound computes lhs op rhs for a compound operator; the target
// must already hold a value.
func (ev *Evaluator) compound(n *ast.Node, t *target, rhs value.Value) value.Value {
	if t.wildcard {
		value.Errorf("~ cannot take a compound assignment")
	}
	op := strings.TrimSuffix(n.Op, "=")
	binop := ev.binOps[op]
	if binop == nil {
		value.Errorf("binary operator %q not implemented", op)
	}
	current := ev.readTarget(t)
	return binop(ev, current, rhs)
}

// readTarget reads the current value of an assignment target.
func (ev *Evaluator) readTarget(t *target) value.Value {
	v := ev.ident(t.id)
	if t.index != nil {
		v = ev.indexValue(t.index, v)
	}
	if len(t.fields) > 0 {
		st, ok := v.(*value.Structure)
		if !ok {
			value.Errorf("field access on non-structure value")
		}
		v = value.CopyValue(st.GetField(ev.fieldPath(t.node, t.fields)))
	}
	return v
}

// applyTarget stores v into one target.
func (ev *Evaluator) applyTarget(t *target, v value.Value) {
	switch {
	case t.wildcard:
		// Discard.
	case len(t.fields) > 0 && t.index == nil:
		ev.assignField(t, v)
	case t.index == nil:
		ev.names[t.id] = &Entry{Expr: value.CopyValue(v)}
	case len(t.fields) > 0:
		value.Errorf("cannot combine indexing and field access on the left side")
	default:
		ev.assignIndexed(t, v)
	}
}

// assignField stores into id.f1.f2…, creating the structure and any
// missing intermediates.
func (ev *Evaluator) assignField(t *target, v value.Value) {
	var st *value.Structure
	if e, ok := ev.names[t.id]; ok {
		if len(e.Params) > 0 {
			value.Errorf("cannot assign a field of function %s", t.id)
		}
		cur, _ := e.Expr.(value.Value)
		s, isStruct := cur.(*value.Structure)
		if !isStruct {
			value.Errorf("%s is not a structure", t.id)
		}
		st = s.Copy()
	} else {
		st = value.NewStructure()
	}
	st.SetNewField(ev.fieldPath(t.node, t.fields), value.CopyValue(v))
	ev.names[t.id] = &Entry{Expr: st}
}

// assignIndexed stores into id(args…) or id{args…}, creating or
// extending the array as needed.
func (ev *Evaluator) assignIndexed(t *target, v value.Value) {
	arr := ev.targetArray(t)
	n := t.index
	if n.Brace && !arr.IsCell() {
		if arr.LinearLength() != 0 {
			value.Errorf("{} assignment into non-cell array")
		}
		arr = value.NewMultiArray([]int{0, 0}, value.ClassCell, true, nil)
	}
	rhs := v
	if n.Brace {
		// A brace write stores the value as a single cell.
		rhs = value.NewMultiArray([]int{1, 1}, value.ClassCell, true, []value.Value{value.CopyValue(v)})
	}
	if len(n.Args) == 1 {
		arg := n.Args[0]
		if arg.Kind == ast.Colon {
			subs := make([]int, arr.LinearLength())
			for i := range subs {
				subs[i] = i + 1
			}
			arr.LinearSet(ev.conf, subs, rhs)
		} else {
			iv := collapse(ev.eval(arg))
			if mask, ok := iv.(*value.MultiArray); ok && mask.ClassIsLogical() {
				arr.LogicalSet(ev.conf, mask, rhs)
			} else {
				subs, _ := linearSubscripts(iv)
				arr.LinearSet(ev.conf, subs, rhs)
			}
		}
	} else {
		arr.SubSet(ev.conf, ev.dimSubscripts(n, arr), rhs)
	}
	ev.names[t.id] = &Entry{Expr: arr}
}

// targetArray fetches (or creates) the array a subscripted target
// writes into. Scalars and strings promote to 1×1 arrays so they can
// be extended; functions cannot be indexed into.
func (ev *Evaluator) targetArray(t *target) *value.MultiArray {
	e, ok := ev.names[t.id]
	if !ok {
		return value.Empty()
	}
	if len(e.Params) > 0 {
		value.Errorf("indexed assignment into function %s", t.id)
	}
	cur, _ := e.Expr.(value.Value)
	switch cur := cur.(type) {
	case *value.MultiArray:
		return cur.Copy()
	case value.Scalar:
		return value.NewMultiArray([]int{1, 1}, value.ClassOf(cur), false, []value.Value{cur})
	case *value.CharString:
		return value.NewMultiArray([]int{1, 1}, value.ClassChar, false, []value.Value{cur})
	}
	value.Errorf("cannot index into %s", t.id)
	return nil
}

// isFunctionDefinition applies the disambiguation rule: every index
// argument is an identifier with no current binding. One bound
// identifier in the list forces indexed assignment instead.
func (ev *Evaluator) isFunctionDefinition(t *target) bool {
	if t.index == nil || len(t.fields) > 0 || len(t.index.Args) == 0 || t.index.Brace {
		return false
	}
	for _, arg := range t.index.Args {
		if arg.Kind != ast.Ident {
			return false
		}
		if !ev.unbound(arg.Name) {
			return false
		}
	}
	return true
}

// decompose validates the left side and splits it into targets.
// A single-row matrix literal of targets is accepted only as the
// top-level left side; compound operators reject multiple targets
// before distribution.
func (ev *Evaluator) decompose(lhs *ast.Node) []*target {
	if lhs == nil {
		value.Errorf("invalid left side of assignment")
	}
	if lhs.Kind == ast.Matrix {
		if lhs.Cell || len(lhs.Rows) != 1 {
			value.Errorf("invalid left side of assignment")
		}
		targets := make([]*target, len(lhs.Rows[0]))
		for i, el := range lhs.Rows[0] {
			targets[i] = ev.oneTarget(el)
		}
		return targets
	}
	return []*target{ev.oneTarget(lhs)}
}

func (ev *Evaluator) oneTarget(n *ast.Node) *target {
	switch n.Kind {
	case ast.Wildcard:
		return &target{wildcard: true, node: n}
	case ast.Ident:
		return &target{id: n.Name, node: n}
	case ast.Index:
		if n.Head.Kind != ast.Ident {
			value.Errorf("invalid left side of assignment")
		}
		link(n, n.Head, -1)
		for i, arg := range n.Args {
			link(n, arg, i)
		}
		return &target{id: n.Head.Name, index: n, node: n}
	case ast.Field:
		t := &target{fields: n.Fields, node: n}
		switch obj := n.Obj; obj.Kind {
		case ast.Ident:
			t.id = obj.Name
		case ast.Index:
			if obj.Head.Kind != ast.Ident {
				value.Errorf("invalid left side of assignment")
			}
			link(obj, obj.Head, -1)
			for i, arg := range obj.Args {
				link(obj, arg, i)
			}
			t.id = obj.Head.Name
			t.index = obj
		default:
			value.Errorf("invalid left side of assignment")
		}
		return t
	}
	value.Errorf("invalid left side of assignment")
	return nil
}
