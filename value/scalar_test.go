// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"strings"
	"testing"

	"github.com/mexlang/mexl/config"
)

var testConf = new(config.Config)

func num(t *testing.T, s string) Scalar {
	t.Helper()
	v, err := ParseNumber(testConf, s)
	if err != nil {
		t.Fatalf("ParseNumber(%q): %v", s, err)
	}
	return v
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		a, op, b string
		want     string
	}{
		{"2", "+", "3", "5"},
		{"2", "-", "5", "-3"},
		{"3", "*", "4", "12"},
		{"1", "/", "4", "0.25"},
		{"0.1", "+", "0.2", "0.3"},
		{"2", "^", "10", "1024"},
		{"2", "^", "-2", "0.25"},
		{"2i", "*", "3i", "-6"},
		{"2", "+", "3i", "2+3i"},
		{"1", "/", "0", "Inf"},
		{"-1", "/", "0", "-Inf"},
		{"0", "/", "0", "NaN"},
	}
	ops := map[string]func(*config.Config, Scalar, Scalar) Scalar{
		"+": Add, "-": Sub, "*": Mul, "/": Div, "^": Pow,
	}
	for _, test := range tests {
		got := ops[test.op](testConf, num(t, test.a), num(t, test.b)).Sprint(testConf)
		if got != test.want {
			t.Errorf("%s %s %s = %s, want %s", test.a, test.op, test.b, got, test.want)
		}
	}
}

func TestComplexMul(t *testing.T) {
	// (2+3i)(2-3i) = 13
	a := Add(testConf, num(t, "2"), num(t, "3i"))
	b := Sub(testConf, num(t, "2"), num(t, "3i"))
	if got := Mul(testConf, a, b).Sprint(testConf); got != "13" {
		t.Errorf("(2+3i)(2-3i) = %s, want 13", got)
	}
}

func TestGuardBand(t *testing.T) {
	// √2 squared must equal 2 at display precision: the working
	// precision carries a 7-digit guard band for exactly this.
	root := Sqrt(testConf, num(t, "2"))
	sq := Mul(testConf, root, root)
	if !Equal(testConf, sq, num(t, "2")) {
		t.Errorf("sqrt(2)^2 != 2 at display precision: %s", sq.Sprint(testConf))
	}
}

func TestCommutativity(t *testing.T) {
	pairs := [][2]string{{"0.1", "0.2"}, {"3.25", "-7"}, {"1e10", "2.5e-3"}}
	for _, p := range pairs {
		a, b := num(t, p[0]), num(t, p[1])
		if !Equal(testConf, Add(testConf, a, b), Add(testConf, b, a)) {
			t.Errorf("%s+%s not commutative", p[0], p[1])
		}
		ab := Mul(testConf, a, b)
		ba := Mul(testConf, b, a)
		if !Equal(testConf, ab, ba) {
			t.Errorf("%s*%s not commutative", p[0], p[1])
		}
	}
}

func TestPolarCompare(t *testing.T) {
	// Complex order is by magnitude, ties by argument in (-π, π].
	a := num(t, "3i") // |3|, arg π/2
	b := num(t, "4")  // |4|
	c, ok := Compare(testConf, a, b)
	if !ok || c >= 0 {
		t.Errorf("3i should order below 4, got %d", c)
	}
	d := Add(testConf, num(t, "3"), num(t, "4i")) // 3+4i, |5|
	e := Add(testConf, num(t, "4"), num(t, "3i")) // 4+3i, |5|, smaller arg
	c, ok = Compare(testConf, d, e)
	if !ok || c <= 0 {
		t.Errorf("3+4i should order above 4+3i by argument, got %d", c)
	}
}

func TestNaNComparisons(t *testing.T) {
	n := NaN(testConf)
	if _, ok := Compare(testConf, n, num(t, "1")); ok {
		t.Error("NaN should not be comparable")
	}
	if Equal(testConf, n, n) {
		t.Error("NaN should not equal itself")
	}
}

func TestRounding(t *testing.T) {
	tests := []struct {
		fn   func(*config.Config, Scalar) Scalar
		in   string
		want string
	}{
		{Floor, "2.7", "2"},
		{Floor, "-2.3", "-3"},
		{Ceil, "2.3", "3"},
		{Ceil, "-2.7", "-2"},
		{Round, "2.5", "3"},
		{Round, "-2.5", "-3"},
		{Fix, "2.7", "2"},
		{Fix, "-2.7", "-2"},
	}
	for _, test := range tests {
		if got := test.fn(testConf, num(t, test.in)).Sprint(testConf); got != test.want {
			t.Errorf("round-family(%s) = %s, want %s", test.in, got, test.want)
		}
	}
}

func TestElementary(t *testing.T) {
	two := num(t, "2")
	if got := Sqrt(testConf, num(t, "9")).Sprint(testConf); got != "3" {
		t.Errorf("sqrt(9) = %s", got)
	}
	if !Equal(testConf, Exp(testConf, Log(testConf, two)), two) {
		t.Error("exp(log 2) != 2")
	}
	if !Equal(testConf, Log10(testConf, num(t, "1000")), num(t, "3")) {
		t.Error("log10(1000) != 3")
	}
	if !Equal(testConf, LogB(testConf, two, num(t, "8")), num(t, "3")) {
		t.Error("log2(8) != 3")
	}
	// sin²+cos² = 1
	x := num(t, "0.7")
	s, c := Sin(testConf, x), Cos(testConf, x)
	one := Add(testConf, Mul(testConf, s, s), Mul(testConf, c, c))
	if !Equal(testConf, one, num(t, "1")) {
		t.Errorf("sin²+cos² = %s", one.Sprint(testConf))
	}
	// sinh/cosh/tanh agree.
	th := Tanh(testConf, x)
	quot := Div(testConf, Sinh(testConf, x), Cosh(testConf, x))
	if !Equal(testConf, th, quot) {
		t.Error("tanh != sinh/cosh")
	}
	// Inverses round-trip.
	if !Equal(testConf, Sin(testConf, Asin(testConf, num(t, "0.5"))), num(t, "0.5")) {
		t.Error("sin(asin(0.5)) != 0.5")
	}
	if !Equal(testConf, Tan(testConf, Atan(testConf, two)), two) {
		t.Error("tan(atan(2)) != 2")
	}
}

func TestSqrtNegative(t *testing.T) {
	// √-4 = 2i on the principal branch.
	if got := Sqrt(testConf, num(t, "-4")).Sprint(testConf); got != "2i" {
		t.Errorf("sqrt(-4) = %s, want 2i", got)
	}
}

func TestFactorial(t *testing.T) {
	want := []string{"1", "1", "2", "6", "24", "120", "720"}
	for n, w := range want {
		got := Factorial(testConf, Int64(testConf, int64(n))).Sprint(testConf)
		if got != w {
			t.Errorf("factorial(%d) = %s, want %s", n, got, w)
		}
	}
	// factorial(n) equals prod(1:n).
	prod := Int64(testConf, 1)
	for k := int64(1); k <= 15; k++ {
		prod = Mul(testConf, prod, Int64(testConf, k))
	}
	if !Equal(testConf, Factorial(testConf, Int64(testConf, 15)), prod) {
		t.Error("factorial(15) != prod(1:15)")
	}
}

func TestFactorialDomain(t *testing.T) {
	for _, bad := range []string{"-1", "2.5"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("factorial(%s) should fail", bad)
				}
			}()
			Factorial(testConf, num(t, bad))
		}()
	}
}

func TestGammaMatchesFactorial(t *testing.T) {
	// Γ(n+1) = n! exactly for integer arguments.
	if !Equal(testConf, Gamma(testConf, Int64(testConf, 6)), Factorial(testConf, Int64(testConf, 5))) {
		t.Error("gamma(6) != 5!")
	}
}

func TestConstants(t *testing.T) {
	pi := Pi(testConf).Sprint(testConf)
	if !strings.HasPrefix(pi, "3.14159265358979323846") {
		t.Errorf("pi = %.30s...", pi)
	}
	e := E(testConf).Sprint(testConf)
	if !strings.HasPrefix(e, "2.71828182845904523536") {
		t.Errorf("e = %.30s...", e)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0", "0"},
		{"-14", "-14"},
		{"0.5", "0.5"},
		{"1e20", "1e+20"},
		{"1e-8", "1e-8"},
		{"123456.25", "123456.25"},
		{"1e19", "10000000000000000000"},
	}
	for _, test := range tests {
		if got := num(t, test.in).Sprint(testConf); got != test.want {
			t.Errorf("format %s = %s, want %s", test.in, got, test.want)
		}
	}
}
