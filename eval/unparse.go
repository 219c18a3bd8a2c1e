// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"strings"

	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/value"
)

// Unparse returns the canonical textual form of a syntax tree or a
// value. Display must stay total: a failure during rendering yields
// the <ERROR> sentinel, an unknown discriminator <INVALID>.
func (ev *Evaluator) Unparse(x interface{}) (s string) {
	defer func() {
		if recover() != nil {
			s = "<ERROR>"
		}
	}()
	switch x := x.(type) {
	case value.Value:
		return x.Sprint(ev.conf)
	case *ast.Node:
		return ev.unparseNode(x)
	}
	return "<INVALID>"
}

func (ev *Evaluator) unparseNode(n *ast.Node) string {
	if n == nil {
		return "<INVALID>"
	}
	var b strings.Builder
	switch n.Kind {
	case ast.Number:
		return n.Text
	case ast.String:
		quote := byte('\'')
		if n.Quote == '"' {
			quote = '"'
		}
		q := string(quote)
		return q + strings.ReplaceAll(n.Text, q, q+q) + q
	case ast.Ident:
		return n.Name
	case ast.End:
		return "end"
	case ast.Colon:
		return ":"
	case ast.Wildcard:
		return "~"
	case ast.Binary:
		return ev.unparseNode(n.Left) + " " + n.Op + " " + ev.unparseNode(n.Right)
	case ast.Prefix:
		return n.Op + ev.unparseNode(n.Child)
	case ast.Postfix:
		return ev.unparseNode(n.Child) + n.Op
	case ast.Paren:
		return "(" + ev.unparseNode(n.Child) + ")"
	case ast.Assign:
		return ev.unparseNode(n.Left) + " " + n.Op + " " + ev.unparseNode(n.Right)
	case ast.Range:
		if n.Stride != nil {
			return ev.unparseNode(n.Start) + ":" + ev.unparseNode(n.Stride) + ":" + ev.unparseNode(n.Stop)
		}
		return ev.unparseNode(n.Start) + ":" + ev.unparseNode(n.Stop)
	case ast.List:
		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(ev.unparseNode(item))
			if i < len(n.OmitOut) && n.OmitOut[i] {
				b.WriteByte(';')
			}
		}
		return b.String()
	case ast.Index:
		open, close := "(", ")"
		if n.Brace {
			open, close = "{", "}"
		}
		b.WriteString(ev.unparseNode(n.Head))
		b.WriteString(open)
		for i, arg := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ev.unparseNode(arg))
		}
		b.WriteString(close)
		return b.String()
	case ast.Field:
		b.WriteString(ev.unparseNode(n.Obj))
		for _, sel := range n.Fields {
			b.WriteByte('.')
			if sel.Expr != nil {
				b.WriteString("(" + ev.unparseNode(sel.Expr) + ")")
			} else {
				b.WriteString(sel.Name)
			}
		}
		return b.String()
	case ast.Matrix:
		open, close := "[", "]"
		if n.Cell {
			open, close = "{", "}"
		}
		b.WriteString(open)
		for r, row := range n.Rows {
			if r > 0 {
				b.WriteByte(';')
			}
			for c, el := range row {
				if c > 0 {
					b.WriteByte(',')
				}
				b.WriteString(ev.unparseNode(el))
			}
		}
		b.WriteString(close)
		return b.String()
	case ast.Command:
		b.WriteString(n.Name)
		for _, arg := range n.CmdArgs {
			b.WriteByte(' ')
			b.WriteString(arg)
		}
		return b.String()
	case ast.If:
		for i, cond := range n.Conds {
			if i == 0 {
				b.WriteString("if ")
			} else {
				b.WriteString("elseif ")
			}
			b.WriteString(ev.unparseNode(cond))
			b.WriteByte('\n')
			b.WriteString(ev.unparseNode(n.Thens[i]))
			b.WriteByte('\n')
		}
		if n.Else != nil {
			b.WriteString("else\n")
			b.WriteString(ev.unparseNode(n.Else))
			b.WriteByte('\n')
		}
		b.WriteString("endif")
		return b.String()
	}
	return "<INVALID>"
}
