// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval_test

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/mexlang/mexl/eval"
)

func mathmlOf(t *testing.T, input string, display eval.Display) string {
	t.Helper()
	ev := newEval(t)
	prog, err := ev.Parse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return ev.UnparseMathML(prog.Items[0], display)
}

func TestMathMLEnvelope(t *testing.T) {
	got := mathmlOf(t, "x + 1", eval.Inline)
	if !strings.HasPrefix(got, `<math xmlns="http://www.w3.org/1998/Math/MathML" display="inline">`) {
		t.Errorf("bad envelope: %s", got)
	}
	if !strings.HasSuffix(got, "</math>") {
		t.Errorf("unterminated: %s", got)
	}
	got = mathmlOf(t, "x + 1", eval.Block)
	if !strings.Contains(got, `display="block"`) {
		t.Errorf("block display missing: %s", got)
	}
}

func TestMathMLFragments(t *testing.T) {
	tests := []struct{ input, frag string }{
		{"42", "<mn>42</mn>"},
		{"x", "<mi>x</mi>"},
		{"'str'", "<ms>str</ms>"},
		{"x + 1", "<mo>+</mo>"},
		{"x / y", "<mfrac><mi>x</mi><mi>y</mi></mfrac>"},
		{"x ^ 2", "<msup><mi>x</mi><mn>2</mn></msup>"},
		{"x'", "<msup><mi>x</mi><mo>&prime;</mo></msup>"},
		{"sqrt(2)", "<msqrt><mn>2</mn></msqrt>"},
		{"abs(x)", "<mo>|</mo><mi>x</mi><mo>|</mo>"},
		{"gamma(x)", "&Gamma;"},
		{"factorial(n)", "<mi>n</mi><mo>!</mo>"},
		{"log10(x)", "<msub><mi>log</mi><mn>10</mn></msub>"},
		{"exp(x)", "<msup><mi>e</mi><mi>x</mi></msup>"},
		{"Inf", "<mi>&infin;</mi>"},
		{"inf", "<mi>&infin;</mi>"},
		{"INF", "<mi>INF</mi>"},
		{"f(x, y)", "<mi>f</mi><mo>(</mo>"},
		{"a < b", "<mo>&lt;</mo>"},
	}
	for _, test := range tests {
		got := mathmlOf(t, test.input, eval.Inline)
		if !strings.Contains(got, test.frag) {
			t.Errorf("mathml(%q) = %s, want fragment %s", test.input, got, test.frag)
		}
	}
}

func TestMathMLValues(t *testing.T) {
	ev := newEval(t)
	v, err := ev.Run("[1,2;3,4]")
	if err != nil {
		t.Fatal(err)
	}
	got := ev.UnparseMathML(lastValue(v), eval.Block)
	for _, frag := range []string{"<mtable>", "<mtr>", "<mtd><mn>3</mn></mtd>"} {
		if !strings.Contains(got, frag) {
			t.Errorf("matrix mathml missing %s: %s", frag, got)
		}
	}
}

func TestMathMLErrorFallback(t *testing.T) {
	ev := newEval(t)
	got := ev.UnparseMathML(3.14, eval.Inline) // not a value or node
	if !strings.Contains(got, "<mi>error</mi>") {
		t.Errorf("error fallback missing: %s", got)
	}
	// With the debug flag the failure propagates instead.
	ev.Config().SetDebug("mathml", true)
	defer func() {
		if recover() == nil {
			t.Error("mathml debug flag should re-raise")
		}
	}()
	ev.UnparseMathML(make(chan int), eval.Inline)
}

// TestMathMLWellFormed feeds fragments through an XML parser; emitted
// MathML must parse under a standard renderer.
func TestMathMLWellFormed(t *testing.T) {
	for _, input := range []string{"x + 1", "sqrt(2)", "[1,2;3,4]", "x/y ^ 2"} {
		got := mathmlOf(t, input, eval.Block)
		// Entity references are not XML built-ins; expand for the check.
		expanded := strings.NewReplacer("&infin;", "∞", "&prime;", "′", "&sdot;", "⋅", "&Gamma;", "Γ").Replace(got)
		dec := xml.NewDecoder(strings.NewReader(expanded))
		for {
			_, err := dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("mathml(%q) is not well-formed: %v\n%s", input, err, got)
				break
			}
		}
	}
}
