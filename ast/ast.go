// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the tagged syntax tree consumed by the
// evaluator. Any front end producing this shape is acceptable; the
// parser in this repository is one such front end.
//
// Nodes carry mutable back-links to their parent and their position
// among siblings. The links are set during evaluation, not during
// parsing: the sentinels end and : take their meaning from the
// enclosing index expression found by walking them.
package ast

// Kind discriminates the node variants.
type Kind int

const (
	Invalid  Kind = iota
	Number        // numeric literal; Text holds the source form
	String        // string literal; Text and Quote
	Ident         // identifier; Name
	End           // range-end sentinel
	Colon         // colon sentinel
	Wildcard      // ~ discard target
	Binary        // Op, Left, Right
	Prefix        // Op, Child
	Postfix       // Op, Child
	Paren         // Child; preserved for unparsing fidelity
	Assign        // Op ("=" or compound), Left, Right
	Range         // Start, Stop, optional Stride
	List          // Items with per-item OmitOut
	Index         // Head, Args, Brace
	Field         // Obj, Fields
	Matrix        // Rows, Cell
	Command       // Name, CmdArgs
	If            // Conds, Thens, Else
)

var kindNames = map[Kind]string{
	Invalid: "INVALID", Number: "NUMBER", String: "STRING", Ident: "IDENT",
	End: "ENDRANGE", Colon: "COLON", Wildcard: "WILDCARD", Binary: "BINARY",
	Prefix: "PREFIX", Postfix: "POSTFIX", Paren: "PAREN", Assign: "ASSIGN",
	Range: "RANGE", List: "LIST", Index: "IDX", Field: "FIELD",
	Matrix: "MATRIX", Command: "CMDWLIST", If: "IF",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "INVALID"
}

// FieldSel is one field designator: a literal name, or an expression
// that must evaluate to a string (dynamic field).
type FieldSel struct {
	Name string
	Expr *Node // non-nil for a dynamic designator
}

// Node is a syntax-tree node. Only the fields relevant to Kind are set.
type Node struct {
	Kind Kind

	Text  string // Number: source text; String: decoded contents
	Quote byte   // String: original quote character
	Name  string // Ident, Command

	Op          string // Binary, Prefix, Postfix, Assign
	Left, Right *Node  // Binary, Assign
	Child       *Node  // Prefix, Postfix, Paren

	Items   []*Node // List
	OmitOut []bool  // List: true when the statement ended in ;

	Head  *Node   // Index
	Args  []*Node // Index
	Brace bool    // Index: {} delimiters

	Obj    *Node      // Field
	Fields []FieldSel // Field

	Rows [][]*Node // Matrix
	Cell bool      // Matrix: {} literal

	CmdArgs []string // Command

	Conds []*Node // If: conditions, index 0 is the if itself
	Thens []*Node // If: bodies matching Conds
	Else  *Node   // If: optional else body

	Start, Stop, Stride *Node // Range

	Line, Col int // source position of top-level statements

	// Back-links, set during evaluation.
	Parent *Node
	ArgPos int
}

// Convenience constructors, used by tests and programmatic front ends.

func Num(text string) *Node { return &Node{Kind: Number, Text: text} }
func Str(text string) *Node { return &Node{Kind: String, Text: text, Quote: '\''} }
func Id(name string) *Node  { return &Node{Kind: Ident, Name: name} }
func Bin(op string, l, r *Node) *Node {
	return &Node{Kind: Binary, Op: op, Left: l, Right: r}
}
func Asn(op string, l, r *Node) *Node {
	return &Node{Kind: Assign, Op: op, Left: l, Right: r}
}
func Idx(head *Node, args ...*Node) *Node {
	return &Node{Kind: Index, Head: head, Args: args}
}
