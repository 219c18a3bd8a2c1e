// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/value"
)

// link records the parent back-link and sibling position on a child
// before it is evaluated. The sentinels end and : resolve themselves
// by walking these links to the nearest enclosing index expression.
func link(parent, child *ast.Node, pos int) *ast.Node {
	if child != nil {
		child.Parent = parent
		child.ArgPos = pos
	}
	return child
}

// eval dispatches on the node discriminator. Values returned are
// independent of the environment: reads materialize copies.
func (ev *Evaluator) eval(n *ast.Node) value.Value {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.Number:
		s, err := value.ParseNumber(ev.conf, n.Text)
		if err != nil {
			value.Errorf("bad number literal %q", n.Text)
		}
		return s
	case ast.String:
		quote := value.QuoteStyle(n.Quote)
		if quote != value.DoubleQuote {
			quote = value.SingleQuote
		}
		return value.NewCharString(n.Text, quote)
	case ast.Ident:
		return ev.ident(n.Name)
	case ast.End:
		return ev.resolveEnd(n)
	case ast.Colon:
		return ev.resolveColon(n)
	case ast.Wildcard:
		value.Errorf("~ is valid only as an assignment target")
	case ast.Binary:
		return ev.binary(n)
	case ast.Prefix:
		return ev.prefix(n)
	case ast.Postfix:
		return ev.postfix(n)
	case ast.Paren:
		return ev.eval(link(n, n.Child, 0))
	case ast.Assign:
		return ev.assign(n)
	case ast.Range:
		return ev.rangeEval(n)
	case ast.List:
		return ev.evalList(n)
	case ast.Index:
		return ev.index(n)
	case ast.Field:
		return ev.fieldRead(n)
	case ast.Matrix:
		return ev.matrix(n)
	case ast.Command:
		return ev.command(n.Name, n.CmdArgs)
	case ast.If:
		return ev.ifEval(n)
	}
	value.Errorf("cannot evaluate %s node", n.Kind)
	return nil
}

// ident resolves an identifier reference: current call frame first,
// then the global name table. A name bound as a function cannot be
// read without an argument list; a variable entry left holding an
// unevaluated tree (by a failed assignment) evaluates here.
func (ev *Evaluator) ident(name string) value.Value {
	if v, ok := ev.localLookup(name); ok {
		return value.CopyValue(v)
	}
	if e, ok := ev.names[name]; ok {
		if len(e.Params) > 0 {
			value.Errorf("calling %s without arguments list", name)
		}
		switch x := e.Expr.(type) {
		case value.Value:
			return value.CopyValue(x)
		case *ast.Node:
			return collapse(ev.eval(x))
		}
	}
	value.Errorf("undefined name %q", name)
	return nil
}

func (ev *Evaluator) binary(n *ast.Node) value.Value {
	switch n.Op {
	case "&&", "||":
		left := value.IsTrue(ev.conf, collapse(ev.eval(link(n, n.Left, 0))))
		if n.Op == "&&" && !left {
			return value.NewLogical(ev.conf, false)
		}
		if n.Op == "||" && left {
			return value.NewLogical(ev.conf, true)
		}
		right := value.IsTrue(ev.conf, collapse(ev.eval(link(n, n.Right, 1))))
		return value.NewLogical(ev.conf, right)
	}
	op := ev.binOps[n.Op]
	if op == nil {
		value.Errorf("binary operator %q not implemented", n.Op)
	}
	left := collapse(ev.eval(link(n, n.Left, 0)))
	right := collapse(ev.eval(link(n, n.Right, 1)))
	return op(ev, left, right)
}

func (ev *Evaluator) prefix(n *ast.Node) value.Value {
	switch n.Op {
	case "++", "--":
		return ev.incDec(n, n.Op, true)
	}
	op := ev.preOps[n.Op]
	if op == nil {
		value.Errorf("unary operator %q not implemented", n.Op)
	}
	return op(ev, collapse(ev.eval(link(n, n.Child, 0))))
}

func (ev *Evaluator) postfix(n *ast.Node) value.Value {
	switch n.Op {
	case "++", "--":
		return ev.incDec(n, n.Op, false)
	}
	op := ev.postOps[n.Op]
	if op == nil {
		value.Errorf("unary operator %q not implemented", n.Op)
	}
	return op(ev, collapse(ev.eval(link(n, n.Child, 0))))
}

// incDec implements ++x, --x, x++, x--. The operand must be a
// variable; prefix yields the updated value, postfix the prior one.
func (ev *Evaluator) incDec(n *ast.Node, op string, isPrefix bool) value.Value {
	id := n.Child
	if id == nil || id.Kind != ast.Ident {
		value.Errorf("%s requires a variable", op)
	}
	old := ev.ident(id.Name)
	delta := value.Int64(ev.conf, 1)
	if op == "--" {
		delta = value.Int64(ev.conf, -1)
	}
	updated := value.ElemBinary(ev.conf, "+", value.Add, old, delta)
	ev.names[id.Name] = &Entry{Expr: updated}
	if isPrefix {
		return updated
	}
	return old
}

func (ev *Evaluator) rangeEval(n *ast.Node) value.Value {
	start := ev.scalarOperand(link(n, n.Start, 0), "range")
	stop := ev.scalarOperand(link(n, n.Stop, 1), "range")
	stride := value.Int64(ev.conf, 1)
	if n.Stride != nil {
		stride = ev.scalarOperand(link(n, n.Stride, 2), "range")
	}
	return value.NewRange(ev.conf, start, stop, stride)
}

// scalarOperand evaluates a node that must produce a single number.
// A one-element array unwraps.
func (ev *Evaluator) scalarOperand(n *ast.Node, what string) value.Scalar {
	return toScalar(collapse(ev.eval(n)), what)
}

func toScalar(v value.Value, what string) value.Scalar {
	switch v := v.(type) {
	case value.Scalar:
		return v
	case *value.MultiArray:
		if !v.IsCell() && v.LinearLength() == 1 {
			if s, ok := v.All()[0].(value.Scalar); ok {
				return s
			}
		}
	}
	value.Errorf("%s requires a numeric scalar", what)
	return value.Scalar{}
}

// evalList evaluates the statements of a list in order. A statement
// whose value is kept (no trailing semicolon, not a command) is also
// recorded under ans. A bare identifier naming a command word, with no
// binding of its own, is rewritten in place to a zero-argument command
// invocation.
func (ev *Evaluator) evalList(n *ast.Node) value.Value {
	result := &List{}
	for i, item := range n.Items {
		link(n, item, i)
		omit := i < len(n.OmitOut) && n.OmitOut[i]
		var v value.Value
		if item.Kind == ast.Ident && ev.unbound(item.Name) && ev.cmds[item.Name] != nil {
			// Rewrite in place to a zero-argument command invocation.
			item.Kind = ast.Command
		}
		isCommand := item.Kind == ast.Command
		if isCommand {
			v = ev.command(item.Name, item.CmdArgs)
		} else {
			v = collapse(ev.eval(item))
		}
		if a := ansValue(v); a != nil && !isCommand && !omit {
			ev.names["ans"] = &Entry{Expr: value.CopyValue(a)}
		}
		result.Values = append(result.Values, v)
		result.Omit = append(result.Omit, omit)
	}
	return result
}

// ansValue flattens nested statement lists to the last produced
// value, the one ans should hold.
func ansValue(v value.Value) value.Value {
	if l, ok := v.(*List); ok {
		return ansValue(l.Last())
	}
	return v
}

func (ev *Evaluator) unbound(name string) bool {
	if _, ok := ev.localLookup(name); ok {
		return false
	}
	_, ok := ev.names[name]
	return !ok
}

func (ev *Evaluator) ifEval(n *ast.Node) value.Value {
	for i, cond := range n.Conds {
		link(n, cond, i)
		if value.IsTrue(ev.conf, collapse(ev.eval(cond))) {
			return ev.eval(link(n, n.Thens[i], i))
		}
	}
	if n.Else != nil {
		return ev.eval(link(n, n.Else, len(n.Conds)))
	}
	return &List{}
}

func (ev *Evaluator) matrix(n *ast.Node) value.Value {
	rows := make([][]value.Value, len(n.Rows))
	for r, row := range n.Rows {
		vals := make([]value.Value, 0, len(row))
		for c, el := range row {
			if el.Kind == ast.Wildcard {
				value.Errorf("~ is valid only as an assignment target")
			}
			vals = append(vals, collapse(ev.eval(link(n, el, r*len(row)+c))))
		}
		rows[r] = vals
	}
	return value.BuildMatrix(ev.conf, rows, n.Cell)
}

// fieldRead evaluates obj.f1.f2…, with dynamic designators evaluated
// to strings.
func (ev *Evaluator) fieldRead(n *ast.Node) value.Value {
	obj := collapse(ev.eval(link(n, n.Obj, 0)))
	st, ok := obj.(*value.Structure)
	if !ok {
		value.Errorf("field access on non-structure value")
	}
	path := ev.fieldPath(n, n.Fields)
	return value.CopyValue(st.GetField(path))
}

// fieldPath resolves field designators: literal names directly,
// dynamic designators by evaluation to a string.
func (ev *Evaluator) fieldPath(parent *ast.Node, sels []ast.FieldSel) []string {
	path := make([]string, len(sels))
	for i, sel := range sels {
		if sel.Expr == nil {
			path[i] = sel.Name
			continue
		}
		v := collapse(ev.eval(link(parent, sel.Expr, i)))
		s, ok := v.(*value.CharString)
		if !ok {
			value.Errorf("dynamic field designator must be a string")
		}
		path[i] = s.Text()
	}
	return path
}

func (ev *Evaluator) command(name string, args []string) value.Value {
	fn := ev.cmds[name]
	if fn == nil {
		value.Errorf("unknown command %q", name)
	}
	return fn(ev, args...)
}
