// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"

	"github.com/mexlang/mexl/config"
)

// Lanczos approximation of the gamma function, g=7, nine terms.
// Reflection handles the left half-plane. Positive-integer arguments
// short-circuit to the exact factorial so that Γ(n+1) == n! holds at
// full display precision.

var lanczosCoefficients = []float64{
	0.99999999999980993,
	676.5203681218851,
	-1259.1392167224028,
	771.32342877765313,
	-176.61502916214059,
	12.507343278686905,
	-0.13857109526572012,
	9.9843695780195716e-6,
	1.5056327351493116e-7,
}

// Gamma returns Γ(z).
func Gamma(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsInt() && a.re.Sign() > 0 {
		if n, acc := a.re.Int64(); acc == big.Exact && n <= 1e5 {
			return factorialInt(conf, n-1)
		}
	}
	if a.IsInt() && a.re.Sign() <= 0 {
		// Poles at zero and the negative integers.
		return Inf(conf, 1)
	}
	half := NewScalar(newF(conf).SetFloat64(0.5), newF(conf))
	if a.re.Cmp(half.re) < 0 {
		// Reflection: Γ(z) = π / (sin(πz)·Γ(1−z)).
		pi := NewScalar(newF(conf).Set(floatPi(conf)), newF(conf))
		s := Sin(conf, Mul(conf, pi, a))
		if s.IsZero() {
			return Inf(conf, 1)
		}
		g := Gamma(conf, Sub(conf, Int64(conf, 1), a))
		return Div(conf, pi, Mul(conf, s, g))
	}

	z := Sub(conf, a, Int64(conf, 1))
	x := NewScalar(newF(conf).SetFloat64(lanczosCoefficients[0]), newF(conf))
	for i := 1; i < len(lanczosCoefficients); i++ {
		ci := NewScalar(newF(conf).SetFloat64(lanczosCoefficients[i]), newF(conf))
		den := Add(conf, z, Int64(conf, int64(i)))
		x = Add(conf, x, Div(conf, ci, den))
	}
	// t = z + g + ½
	t := Add(conf, z, NewScalar(newF(conf).SetFloat64(7.5), newF(conf)))
	// Γ(z+1) = √(2π) · t^(z+½) · e⁻ᵗ · x
	twoPi := newFInt64(conf, 2)
	twoPi.Mul(twoPi, floatPi(conf))
	sqrtTwoPi := NewScalar(floatSqrt(conf, twoPi), newF(conf))
	exponent := Add(conf, z, half)
	result := Mul(conf, sqrtTwoPi, Pow(conf, t, exponent))
	result = Mul(conf, result, Exp(conf, Neg(conf, t)))
	return Mul(conf, result, x)
}

// Factorial returns n! for a non-negative integer argument; anything
// else is a domain error.
func Factorial(conf *config.Config, a Scalar) Scalar {
	if a.nan || !a.IsInt() || a.re.Sign() < 0 {
		Errorf("factorial of non-integral or negative number")
	}
	n, acc := a.re.Int64()
	if acc != big.Exact || n > 1e6 {
		Errorf("factorial argument too large")
	}
	return factorialInt(conf, n)
}

// factorialInt computes n! exactly using the swinging-factorial
// decomposition n! = (⌊n/2⌋!)²·n𝜎.
func factorialInt(conf *config.Config, n int64) Scalar {
	z := factorialBig(int(n))
	return Scalar{re: newF(conf).SetInt(z), im: newF(conf)}
}

func factorialBig(n int) *big.Int {
	if n < 2 {
		return big.NewInt(1)
	}
	half := factorialBig(n / 2)
	half.Mul(half, half)
	return half.Mul(half, swing(n))
}

// primeGen returns a generator of the primes in 2…n, for the
// factorization inside swing.
func primeGen(n int) func() int {
	marked := make([]bool, n+1)
	i := 2
	return func() int {
		for ; i <= n; i++ {
			if marked[i] {
				continue
			}
			for j := i; j <= n; j += i {
				marked[j] = true
			}
			return i
		}
		return 0
	}
}

// swing calculates the swinging factorial n𝜎 = n!/⌊n/2⌋!².
func swing(n int) *big.Int {
	nextPrime := primeGen(n)
	factors := make([]int, 0, 100)
	for {
		prime := nextPrime()
		if prime == 0 {
			break
		}
		q, p := n, 1
		for q != 0 {
			q = q / prime
			if q&1 == 1 {
				p *= prime
			}
		}
		if p > 1 {
			factors = append(factors, p)
		}
	}
	return product(factors)
}

// product multiplies the factor list by recursive halving, which beats
// a linear scan for large lists.
func product(f []int) *big.Int {
	switch len(f) {
	case 0:
		return big.NewInt(1)
	case 1:
		return big.NewInt(int64(f[0]))
	}
	n := len(f) / 2
	left := product(f[:n])
	right := product(f[n:])
	return left.Mul(left, right)
}
