// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scan

import "testing"

func tokens(input string) []Token {
	s := New(input)
	var out []Token
	for {
		tok := s.Next()
		out = append(out, tok)
		if tok.Type == EOF || tok.Type == Error {
			return out
		}
	}
}

func texts(input string) []string {
	var out []string
	for _, tok := range tokens(input) {
		if tok.Type == EOF {
			break
		}
		out = append(out, tok.Text)
	}
	return out
}

func TestTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a = 2 + 3*4", []string{"a", "=", "2", "+", "3", "*", "4"}},
		{"x.^2", []string{"x", ".^", "2"}},
		{"x .\\ y", []string{"x", ".\\", "y"}},
		{"a&&b||c", []string{"a", "&&", "b", "||", "c"}},
		{"x+=1", []string{"x", "+=", "1"}},
		{"x~=y", []string{"x", "~=", "y"}},
		{"s.a.b", []string{"s", ".", "a", ".", "b"}},
		{"1.5e3 .5 2i 3j", []string{"1.5e3", ".5", "2i", "3j"}},
		{"A(1,end)", []string{"A", "(", "1", ",", "end", ")"}},
		{"f(x){y}", []string{"f", "(", "x", ")", "{", "y", "}"}},
	}
	for _, test := range tests {
		got := texts(test.input)
		if len(got) != len(test.want) {
			t.Errorf("%q: got %q, want %q", test.input, got, test.want)
			continue
		}
		for i := range got {
			if got[i] != test.want[i] {
				t.Errorf("%q: token %d = %q, want %q", test.input, i, got[i], test.want[i])
			}
		}
	}
}

func TestQuoteDisambiguation(t *testing.T) {
	// After a value, ' is the transpose operator; elsewhere it opens
	// a string.
	toks := tokens("x' + 'abc'")
	if toks[1].Type != Operator || toks[1].Text != "'" {
		t.Errorf("x': second token should be transpose, got %v", toks[1])
	}
	if toks[3].Type != String || toks[3].Text != "abc" {
		t.Errorf("'abc' should scan as a string, got %v", toks[3])
	}
	toks = tokens("[1,2]'")
	if toks[5].Type != Operator {
		t.Errorf("]' should be transpose, got %v", toks[5])
	}
}

func TestStrings(t *testing.T) {
	toks := tokens(`'it''s' "say ""hi"""`)
	if toks[0].Text != "it's" || toks[0].Quote != '\'' {
		t.Errorf("doubled single quote: %q", toks[0].Text)
	}
	if toks[1].Text != `say "hi"` || toks[1].Quote != '"' {
		t.Errorf("doubled double quote: %q", toks[1].Text)
	}
	if toks := tokens("'unterminated"); toks[0].Type != Error {
		t.Error("unterminated string should be an error")
	}
}

func TestComments(t *testing.T) {
	toks := texts("1 + 2 % trailing\n3 # another")
	want := []string{"1", "+", "2", "\n", "3"}
	if len(toks) != len(want) {
		t.Fatalf("comments: got %q", toks)
	}
}

func TestKeywords(t *testing.T) {
	toks := tokens("if x elseif y else endif end")
	wantTypes := []Type{Keyword, Identifier, Keyword, Identifier, Keyword, Keyword, Keyword}
	for i, w := range wantTypes {
		if toks[i].Type != w {
			t.Errorf("token %d (%q): type %v, want %v", i, toks[i].Text, toks[i].Type, w)
		}
	}
}

func TestImaginarySuffix(t *testing.T) {
	// i attaches to a number only when it does not start a longer word.
	toks := tokens("2i 2in")
	if toks[0].Text != "2i" {
		t.Errorf("2i: %q", toks[0].Text)
	}
	if toks[1].Text != "2" || toks[2].Text != "in" {
		t.Errorf("2in should split: %q %q", toks[1].Text, toks[2].Text)
	}
}
