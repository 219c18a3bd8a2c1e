// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval_test

import (
	"strings"
	"testing"

	"github.com/mexlang/mexl/ast"
)

func unparsed(t *testing.T, input string) string {
	t.Helper()
	ev := newEval(t)
	prog, err := ev.Parse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	if len(prog.Items) == 1 {
		return ev.Unparse(prog.Items[0])
	}
	return ev.Unparse(prog)
}

func TestUnparse(t *testing.T) {
	tests := []struct{ input, want string }{
		{"1+2*3", "1 + 2 * 3"},
		{"(1+2)*3", "(1 + 2) * 3"},
		{"-x", "-x"},
		{"x'", "x'"},
		{"1:5", "1:5"},
		{"1:2:9", "1:2:9"},
		{"[1,2;3,4]", "[1,2;3,4]"},
		{"{1,'a'}", "{1,'a'}"},
		{"f(x, 1)", "f(x, 1)"},
		{"c{2}", "c{2}"},
		{"A(2, :)", "A(2, :)"},
		{"x(end)", "x(end)"},
		{"s.a.b", "s.a.b"},
		{"s.('a')", "s.('a')"},
		{"x = 5", "x = 5"},
		{"x += 5", "x += 5"},
		{"clear pi x", "clear pi x"},
		{"'it''s'", "'it''s'"},
		{`"hi"`, `"hi"`},
		{"~x", "~x"},
	}
	for _, test := range tests {
		if got := unparsed(t, test.input); got != test.want {
			t.Errorf("unparse %q = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestUnparseIf(t *testing.T) {
	got := unparsed(t, "if 0; 1; elseif 1; 2; else 3; endif")
	for _, frag := range []string{"if 0", "elseif 1", "else", "endif"} {
		if !strings.Contains(got, frag) {
			t.Errorf("if unparse %q missing %q", got, frag)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Error("if bodies should be on separate lines")
	}
}

func TestUnparseSentinels(t *testing.T) {
	ev := newEval(t)
	if got := ev.Unparse(&ast.Node{Kind: ast.Kind(999)}); got != "<INVALID>" {
		t.Errorf("unknown discriminator = %q, want <INVALID>", got)
	}
	if got := ev.Unparse(42); got != "<INVALID>" {
		t.Errorf("non-node = %q, want <INVALID>", got)
	}
	if got := ev.Unparse((*ast.Node)(nil)); got != "<INVALID>" {
		t.Errorf("nil node = %q, want <INVALID>", got)
	}
}

func TestUnparseValues(t *testing.T) {
	ev := newEval(t)
	tests := []struct{ input, want string }{
		{"14", "14"},
		{"2+3i", "2+3i"},
		{"[1,2;3,4]", "[1,2;3,4]"},
		{"'str'", "'str'"},
		{"s.a = 5; s", "struct(a = 5)"},
	}
	for _, test := range tests {
		v, err := ev.Run(test.input)
		if err != nil {
			t.Fatal(err)
		}
		if got := ev.Unparse(lastValue(v)); got != test.want {
			t.Errorf("unparse value of %q = %q, want %q", test.input, got, test.want)
		}
	}
}
