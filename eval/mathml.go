// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mexlang/mexl/ast"
	"github.com/mexlang/mexl/value"
)

// Display selects the display attribute of an emitted MathML element.
type Display string

const (
	Inline Display = "inline"
	Block  Display = "block"
)

const mathmlNS = "http://www.w3.org/1998/Math/MathML"

// UnparseMathML renders a syntax tree or value as a self-contained
// presentation-MathML fragment. Rendering is total: a raised error
// becomes <mi>error</mi>, unless the mathml debug flag is set, in
// which case it propagates.
func (ev *Evaluator) UnparseMathML(x interface{}, display Display) string {
	frag := func() (s string) {
		defer func() {
			if e := recover(); e != nil {
				if ev.conf.Debug("mathml") {
					panic(e)
				}
				s = "<mi>error</mi>"
			}
		}()
		r := &MathMLRenderer{ev: ev}
		return r.render(x)
	}()
	return fmt.Sprintf(`<math xmlns=%q display=%q>%s</math>`, mathmlNS, display, frag)
}

// MathMLRenderer renders syntax nodes and values; external
// function-table entries receive one to build decorative overrides.
type MathMLRenderer struct {
	ev *Evaluator
}

// Node renders one syntax node.
func (r *MathMLRenderer) Node(n *ast.Node) string { return r.node(n) }

// Arg returns argument i of the call being rendered, failing if the
// call is too short.
func (r *MathMLRenderer) Arg(n *ast.Node, i int) *ast.Node { return r.argOrError(n, i) }

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// infinityName matches the identifiers rendered as the infinity symbol.
var infinityName = regexp.MustCompile(`^[Ii]nf$`)

func (r *MathMLRenderer) render(x interface{}) string {
	switch x := x.(type) {
	case value.Value:
		return r.value(x)
	case *ast.Node:
		return r.node(x)
	}
	value.Errorf("cannot render %T as MathML", x)
	return ""
}

func (r *MathMLRenderer) value(v value.Value) string {
	conf := r.ev.conf
	switch v := v.(type) {
	case value.Scalar:
		return scalarMathML(v.Sprint(conf))
	case *value.CharString:
		return "<ms>" + xmlEscape(v.Text()) + "</ms>"
	case *value.MultiArray:
		return r.array(v)
	case *value.Structure:
		var b strings.Builder
		b.WriteString("<mtable>")
		for _, name := range v.FieldNames() {
			b.WriteString("<mtr><mtd><mi>")
			b.WriteString(xmlEscape(name))
			b.WriteString("</mi></mtd><mtd><mo>=</mo></mtd><mtd>")
			b.WriteString(r.value(v.GetField([]string{name})))
			b.WriteString("</mtd></mtr>")
		}
		b.WriteString("</mtable>")
		return b.String()
	case *RetList:
		return r.value(v.Select(1, 0))
	case *List:
		var b strings.Builder
		b.WriteString("<mtable>")
		for i, item := range v.Values {
			if item == nil || v.Omit[i] {
				continue
			}
			b.WriteString("<mtr><mtd>" + r.value(item) + "</mtd></mtr>")
		}
		b.WriteString("</mtable>")
		return b.String()
	}
	value.Errorf("cannot render value as MathML")
	return ""
}

// scalarMathML splits a rendered scalar into mn/mo/mi pieces: sign,
// digits, the imaginary marker.
func scalarMathML(text string) string {
	var b strings.Builder
	rest := text
	if strings.HasPrefix(rest, "-") {
		b.WriteString("<mo>-</mo>")
		rest = rest[1:]
	}
	switch rest {
	case "NaN":
		return b.String() + "<mi>NaN</mi>"
	case "Inf":
		return b.String() + "<mi>&infin;</mi>"
	}
	// A complex rendering has a+bi / a-bi shape; split on the sign.
	if i := strings.LastIndexAny(rest[1:], "+-"); i >= 0 && strings.HasSuffix(rest, "i") &&
		rest[i] != 'e' && rest[i+1] != 'e' {
		re, im := rest[:i+1], rest[i+1:]
		sign := string(im[0])
		im = strings.TrimSuffix(im[1:], "i")
		return b.String() + "<mn>" + re + "</mn><mo>" + sign + "</mo><mn>" + im + "</mn><mi>i</mi>"
	}
	if strings.HasSuffix(rest, "i") {
		return b.String() + "<mn>" + strings.TrimSuffix(rest, "i") + "</mn><mi>i</mi>"
	}
	return b.String() + "<mn>" + rest + "</mn>"
}

func (r *MathMLRenderer) array(arr *value.MultiArray) string {
	if arr.Rank() != 2 {
		value.Errorf("cannot render %d-dimensional array as MathML", arr.Rank())
	}
	open, close := "[", "]"
	if arr.IsCell() {
		open, close = "{", "}"
	}
	rows, cols := arr.GetDimension(0), arr.GetDimension(1)
	var b strings.Builder
	b.WriteString("<mrow><mo>" + open + "</mo><mtable>")
	for i := 0; i < rows; i++ {
		b.WriteString("<mtr>")
		for j := 0; j < cols; j++ {
			b.WriteString("<mtd>" + r.value(arr.All()[i*cols+j]) + "</mtd>")
		}
		b.WriteString("</mtr>")
	}
	b.WriteString("</mtable><mo>" + close + "</mo></mrow>")
	return b.String()
}

func (r *MathMLRenderer) node(n *ast.Node) string {
	if n == nil {
		value.Errorf("cannot render empty node")
	}
	switch n.Kind {
	case ast.Number:
		return "<mn>" + xmlEscape(n.Text) + "</mn>"
	case ast.String:
		return "<ms>" + xmlEscape(n.Text) + "</ms>"
	case ast.Ident:
		if infinityName.MatchString(n.Name) {
			return "<mi>&infin;</mi>"
		}
		return "<mi>" + xmlEscape(n.Name) + "</mi>"
	case ast.End:
		return "<mi>end</mi>"
	case ast.Colon:
		return "<mo>:</mo>"
	case ast.Wildcard:
		return "<mi>~</mi>"
	case ast.Binary:
		return r.binary(n)
	case ast.Prefix:
		return "<mrow><mo>" + xmlEscape(n.Op) + "</mo>" + r.node(n.Child) + "</mrow>"
	case ast.Postfix:
		if n.Op == "'" || n.Op == ".'" {
			return "<msup>" + r.node(n.Child) + "<mo>&prime;</mo></msup>"
		}
		return "<mrow>" + r.node(n.Child) + "<mo>" + xmlEscape(n.Op) + "</mo></mrow>"
	case ast.Paren:
		return "<mrow><mo>(</mo>" + r.node(n.Child) + "<mo>)</mo></mrow>"
	case ast.Assign:
		return "<mrow>" + r.node(n.Left) + "<mo>" + xmlEscape(n.Op) + "</mo>" + r.node(n.Right) + "</mrow>"
	case ast.Range:
		s := "<mrow>" + r.node(n.Start) + "<mo>:</mo>"
		if n.Stride != nil {
			s += r.node(n.Stride) + "<mo>:</mo>"
		}
		return s + r.node(n.Stop) + "</mrow>"
	case ast.List:
		var b strings.Builder
		b.WriteString("<mtable>")
		for _, item := range n.Items {
			b.WriteString("<mtr><mtd>" + r.node(item) + "</mtd></mtr>")
		}
		b.WriteString("</mtable>")
		return b.String()
	case ast.Index:
		return r.index(n)
	case ast.Field:
		var b strings.Builder
		b.WriteString("<mrow>" + r.node(n.Obj))
		for _, sel := range n.Fields {
			b.WriteString("<mo>.</mo>")
			if sel.Expr != nil {
				b.WriteString("<mrow><mo>(</mo>" + r.node(sel.Expr) + "<mo>)</mo></mrow>")
			} else {
				b.WriteString("<mi>" + xmlEscape(sel.Name) + "</mi>")
			}
		}
		b.WriteString("</mrow>")
		return b.String()
	case ast.Matrix:
		open, close := "[", "]"
		if n.Cell {
			open, close = "{", "}"
		}
		var b strings.Builder
		b.WriteString("<mrow><mo>" + open + "</mo><mtable>")
		for _, row := range n.Rows {
			b.WriteString("<mtr>")
			for _, el := range row {
				b.WriteString("<mtd>" + r.node(el) + "</mtd>")
			}
			b.WriteString("</mtr>")
		}
		b.WriteString("</mtable><mo>" + close + "</mo></mrow>")
		return b.String()
	case ast.Command:
		return "<mtext>" + xmlEscape(r.ev.Unparse(n)) + "</mtext>"
	case ast.If:
		return "<mtext>" + xmlEscape(r.ev.Unparse(n)) + "</mtext>"
	}
	value.Errorf("cannot render %s node as MathML", n.Kind)
	return ""
}

func (r *MathMLRenderer) binary(n *ast.Node) string {
	switch n.Op {
	case "/", "./":
		return "<mfrac>" + r.node(n.Left) + r.node(n.Right) + "</mfrac>"
	case "^", "**", ".^", ".**":
		return "<msup>" + r.node(n.Left) + r.node(n.Right) + "</msup>"
	case "*", ".*":
		return "<mrow>" + r.node(n.Left) + "<mo>&sdot;</mo>" + r.node(n.Right) + "</mrow>"
	}
	return "<mrow>" + r.node(n.Left) + "<mo>" + xmlEscape(n.Op) + "</mo>" + r.node(n.Right) + "</mrow>"
}

// index renders head(args). Registered base functions may carry a
// decorative override; anything else renders as fname(arg, …).
func (r *MathMLRenderer) index(n *ast.Node) string {
	if n.Head.Kind == ast.Ident {
		if bf := r.ev.BaseFunc(n.Head.Name); bf != nil && bf.MathML != nil {
			return bf.MathML(r, n)
		}
	}
	open, close := "(", ")"
	if n.Brace {
		open, close = "{", "}"
	}
	var b strings.Builder
	b.WriteString("<mrow>" + r.node(n.Head) + "<mo>" + open + "</mo>")
	for i, arg := range n.Args {
		if i > 0 {
			b.WriteString("<mo>,</mo>")
		}
		b.WriteString(r.node(arg))
	}
	b.WriteString("<mo>" + close + "</mo></mrow>")
	return b.String()
}

func (r *MathMLRenderer) argOrError(n *ast.Node, i int) *ast.Node {
	if i >= len(n.Args) {
		value.Errorf("missing argument in MathML rendering")
	}
	return n.Args[i]
}

// installMathMLOverrides attaches the decorative renderings to the
// base-function entries that have one.
func installMathMLOverrides(t map[string]*Builtin) {
	override := func(name string, fn func(r *MathMLRenderer, n *ast.Node) string) {
		if bf := t[name]; bf != nil {
			bf.MathML = fn
		}
	}
	override("abs", func(r *MathMLRenderer, n *ast.Node) string {
		return "<mrow><mo>|</mo>" + r.node(r.argOrError(n, 0)) + "<mo>|</mo></mrow>"
	})
	override("sqrt", func(r *MathMLRenderer, n *ast.Node) string {
		return "<msqrt>" + r.node(r.argOrError(n, 0)) + "</msqrt>"
	})
	override("exp", func(r *MathMLRenderer, n *ast.Node) string {
		return "<msup><mi>e</mi>" + r.node(r.argOrError(n, 0)) + "</msup>"
	})
	override("gamma", func(r *MathMLRenderer, n *ast.Node) string {
		return "<mrow><mi mathvariant=\"normal\">&Gamma;</mi><mo>(</mo>" +
			r.node(r.argOrError(n, 0)) + "<mo>)</mo></mrow>"
	})
	override("factorial", func(r *MathMLRenderer, n *ast.Node) string {
		return "<mrow>" + r.node(r.argOrError(n, 0)) + "<mo>!</mo></mrow>"
	})
	override("log", func(r *MathMLRenderer, n *ast.Node) string {
		return "<mrow><mi>ln</mi><mo>(</mo>" + r.node(r.argOrError(n, 0)) + "<mo>)</mo></mrow>"
	})
	override("log10", func(r *MathMLRenderer, n *ast.Node) string {
		return "<mrow><msub><mi>log</mi><mn>10</mn></msub><mo>(</mo>" +
			r.node(r.argOrError(n, 0)) + "<mo>)</mo></mrow>"
	})
	override("logb", func(r *MathMLRenderer, n *ast.Node) string {
		return "<mrow><msub><mi>log</mi>" + r.node(r.argOrError(n, 0)) + "</msub><mo>(</mo>" +
			r.node(r.argOrError(n, 1)) + "<mo>)</mo></mrow>"
	})
}
