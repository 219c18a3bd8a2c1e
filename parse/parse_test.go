// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"testing"

	"github.com/mexlang/mexl/ast"
)

var testCommands = map[string]bool{"clear": true, "format": true}

func parseOne(t *testing.T, input string) *ast.Node {
	t.Helper()
	prog, err := Parse(input, testCommands)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	if len(prog.Items) != 1 {
		t.Fatalf("Parse(%q): %d statements, want 1", input, len(prog.Items))
	}
	return prog.Items[0]
}

func TestPrecedence(t *testing.T) {
	// 2 + 3*4 parses as 2 + (3*4).
	n := parseOne(t, "2 + 3*4")
	if n.Kind != ast.Binary || n.Op != "+" {
		t.Fatalf("root: %v %q", n.Kind, n.Op)
	}
	if n.Right.Kind != ast.Binary || n.Right.Op != "*" {
		t.Fatalf("right: %v %q", n.Right.Kind, n.Right.Op)
	}
	// -2^2 parses as -(2^2).
	n = parseOne(t, "-2^2")
	if n.Kind != ast.Prefix || n.Child.Kind != ast.Binary || n.Child.Op != "^" {
		t.Fatal("-2^2 should be -(2^2)")
	}
	// Power is left-associative: 2^3^2 is (2^3)^2.
	n = parseOne(t, "2^3^2")
	if n.Left.Kind != ast.Binary || n.Left.Op != "^" {
		t.Fatal("2^3^2 should associate left")
	}
	// The colon binds looser than arithmetic: 1:3+1 is 1:(3+1).
	n = parseOne(t, "1:3+1")
	if n.Kind != ast.Range || n.Stop.Kind != ast.Binary {
		t.Fatal("1:3+1 should be 1:(3+1)")
	}
}

func TestAssignment(t *testing.T) {
	n := parseOne(t, "x = 5")
	if n.Kind != ast.Assign || n.Op != "=" || n.Left.Name != "x" {
		t.Fatalf("x = 5: %+v", n)
	}
	n = parseOne(t, "x += 2")
	if n.Kind != ast.Assign || n.Op != "+=" {
		t.Fatalf("x += 2: %q", n.Op)
	}
	n = parseOne(t, "[a,~] = size(x)")
	if n.Kind != ast.Assign || n.Left.Kind != ast.Matrix {
		t.Fatal("multi-assignment left side should be a matrix literal")
	}
	if n.Left.Rows[0][1].Kind != ast.Wildcard {
		t.Fatal("~ in assignment target should be a wildcard")
	}
}

func TestIndexAndField(t *testing.T) {
	n := parseOne(t, "A(2, :)")
	if n.Kind != ast.Index || n.Brace || len(n.Args) != 2 {
		t.Fatalf("A(2,:): %+v", n)
	}
	if n.Args[1].Kind != ast.Colon {
		t.Fatal("lone : should be the colon sentinel")
	}
	n = parseOne(t, "x(end-1)")
	if n.Args[0].Kind != ast.Binary || n.Args[0].Left.Kind != ast.End {
		t.Fatal("end-1 should parse inside the index")
	}
	n = parseOne(t, "c{2}")
	if n.Kind != ast.Index || !n.Brace {
		t.Fatal("c{2} should be a brace index")
	}
	n = parseOne(t, "s.a.('b')")
	if n.Kind != ast.Field || len(n.Fields) != 2 {
		t.Fatalf("s.a.('b'): %+v", n)
	}
	if n.Fields[0].Name != "a" || n.Fields[1].Expr == nil {
		t.Fatal("field designators wrong")
	}
}

func TestMatrixLiteral(t *testing.T) {
	n := parseOne(t, "[1,2;3,4]")
	if n.Kind != ast.Matrix || n.Cell || len(n.Rows) != 2 || len(n.Rows[0]) != 2 {
		t.Fatalf("[1,2;3,4]: %+v", n)
	}
	n = parseOne(t, "{1,'a'}")
	if n.Kind != ast.Matrix || !n.Cell {
		t.Fatal("{…} should be a cell literal")
	}
	n = parseOne(t, "[]")
	if n.Kind != ast.Matrix || len(n.Rows) != 0 {
		t.Fatal("[] should be an empty matrix literal")
	}
}

func TestIf(t *testing.T) {
	n := parseOne(t, "if 0; 1; elseif 1; 2; else 3; endif")
	if n.Kind != ast.If {
		t.Fatalf("if: %v", n.Kind)
	}
	if len(n.Conds) != 2 || len(n.Thens) != 2 || n.Else == nil {
		t.Fatalf("if shape: %d conds, %d thens, else %v", len(n.Conds), len(n.Thens), n.Else)
	}
}

func TestCommandWords(t *testing.T) {
	prog, err := Parse("clear pi x", testCommands)
	if err != nil {
		t.Fatal(err)
	}
	n := prog.Items[0]
	if n.Kind != ast.Command || n.Name != "clear" {
		t.Fatalf("clear pi x: %+v", n)
	}
	if len(n.CmdArgs) != 2 || n.CmdArgs[0] != "pi" || n.CmdArgs[1] != "x" {
		t.Fatalf("args: %q", n.CmdArgs)
	}
	// A bare command name stays an identifier; the evaluator rewrites it.
	n = parseOne(t, "clear")
	if n.Kind != ast.Ident {
		t.Fatalf("bare clear should stay an identifier, got %v", n.Kind)
	}
	// A command name used as a variable is an expression.
	n = parseOne(t, "clear = 5")
	if n.Kind != ast.Assign {
		t.Fatalf("clear = 5 should be an assignment, got %v", n.Kind)
	}
}

func TestStatementSeparators(t *testing.T) {
	prog, err := Parse("1; 2, 3\n4", testCommands)
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Items) != 4 {
		t.Fatalf("%d statements, want 4", len(prog.Items))
	}
	want := []bool{true, false, false, false}
	for i, w := range want {
		if prog.OmitOut[i] != w {
			t.Errorf("statement %d: omit %v, want %v", i, prog.OmitOut[i], w)
		}
	}
}

func TestTranspose(t *testing.T) {
	n := parseOne(t, "A'")
	if n.Kind != ast.Postfix || n.Op != "'" {
		t.Fatalf("A': %+v", n)
	}
	n = parseOne(t, "A.'")
	if n.Kind != ast.Postfix || n.Op != ".'" {
		t.Fatalf("A.': %+v", n)
	}
}

func TestErrors(t *testing.T) {
	for _, bad := range []string{"1 +", "1 ~ 2", "if 1; 2", "x(", "(1"} {
		if _, err := Parse(bad, testCommands); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}
