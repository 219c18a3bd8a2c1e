// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"

	"github.com/mexlang/mexl/config"
)

// twoPiReduce reduces non-negative x modulo 2π.
func twoPiReduce(conf *config.Config, x *big.Float) {
	twoPi := newFInt64(conf, 2)
	twoPi.Mul(twoPi, floatPi(conf))
	if x.Cmp(twoPi) < 0 {
		return
	}
	// Subtract the integer multiple in one step.
	q := newF(conf).Quo(x, twoPi)
	i, _ := q.Int(nil)
	q.SetInt(i)
	q.Mul(q, twoPi)
	x.Sub(x, q)
	for x.Cmp(twoPi) >= 0 {
		x.Sub(x, twoPi)
	}
}

// floatSin computes sin(x) by argument reduction and Taylor series.
func floatSin(conf *config.Config, x *big.Float) *big.Float {
	if x.IsInf() {
		Errorf("sine of infinity")
	}
	z := newF(conf).Set(x)
	negate := false
	if z.Sign() < 0 {
		z.Neg(z)
		negate = true
	}
	twoPiReduce(conf, z)
	// sin(x) = x − x³/3! + x⁵/5! − …
	result := sincos(conf, 3, z, newF(conf).Set(z), 6)
	if negate {
		result.Neg(result)
	}
	return result
}

// floatCos computes cos(x) by argument reduction and Taylor series.
func floatCos(conf *config.Config, x *big.Float) *big.Float {
	if x.IsInf() {
		Errorf("cosine of infinity")
	}
	z := newF(conf).Abs(x)
	twoPiReduce(conf, z)
	// cos(x) = 1 − x²/2! + x⁴/4! − …
	return sincos(conf, 2, z, newFInt64(conf, 1), 2)
}

// sincos iterates a sin or cos Taylor series. index is the exponent of
// the first term computed in the loop, z the accumulated sum so far and
// fac0 the factorial of index.
func sincos(conf *config.Config, index int, x, z *big.Float, fac0 int64) *big.Float {
	exponent := newFInt64(conf, int64(index))
	factorial := newFInt64(conf, fac0)
	one := newFInt64(conf, 1)
	term := newFInt64(conf, 1)
	for j := 0; j < index; j++ {
		term.Mul(term, x)
	}
	xN := newF(conf).Set(term)
	x2 := newF(conf).Mul(x, x)
	t := newF(conf)
	plus := false
	for l := newLoop(conf, "sin/cos", 4); ; {
		t.Quo(term, factorial)
		if plus {
			z.Add(z, t)
		} else {
			z.Sub(z, t)
		}
		plus = !plus
		if l.done(z) {
			break
		}
		// Advance xᴺ by x².
		term.Mul(xN, x2)
		xN.Set(term)
		// Advance exponent and factorial twice.
		exponent.Add(exponent, one)
		factorial.Mul(factorial, exponent)
		exponent.Add(exponent, one)
		factorial.Mul(factorial, exponent)
	}
	return z
}

// Sin returns sin z. For complex z,
// sin(x+iy) = sin x·cosh y + i·cos x·sinh y.
func Sin(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() {
		return Scalar{re: floatSin(conf, a.re), im: newF(conf)}
	}
	re := newF(conf).Mul(floatSin(conf, a.re), floatCosh(conf, a.im))
	im := newF(conf).Mul(floatCos(conf, a.re), floatSinh(conf, a.im))
	return Scalar{re: re, im: im}
}

// Cos returns cos z. For complex z,
// cos(x+iy) = cos x·cosh y − i·sin x·sinh y.
func Cos(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() {
		return Scalar{re: floatCos(conf, a.re), im: newF(conf)}
	}
	re := newF(conf).Mul(floatCos(conf, a.re), floatCosh(conf, a.im))
	im := newF(conf).Mul(floatSin(conf, a.re), floatSinh(conf, a.im))
	im.Neg(im)
	return Scalar{re: re, im: im}
}

// Tan returns sin z / cos z.
func Tan(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	c := Cos(conf, a)
	if c.IsZero() {
		return Inf(conf, 1)
	}
	return Div(conf, Sin(conf, a), c)
}

// Asin returns the principal arcsine. Real arguments in (-1, 1) use
// asin(x) = atan(x/√(1−x²)) and ±1 give ±π/2; outside [-1, 1], and for
// complex arguments, asin(z) = −i·ln(iz + √(1−z²)).
func Asin(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() {
		one := newFInt64(conf, 1)
		abs := newF(conf).Abs(a.re)
		switch abs.Cmp(one) {
		case 0:
			z := newF(conf).Set(floatPi(conf))
			z.Quo(z, newFInt64(conf, 2))
			if a.re.Sign() < 0 {
				z.Neg(z)
			}
			return Scalar{re: z, im: newF(conf)}
		case -1:
			den := newF(conf).Mul(a.re, a.re)
			den.Sub(one, den)
			den = floatSqrt(conf, den)
			return Scalar{re: floatAtan(conf, newF(conf).Quo(a.re, den)), im: newF(conf)}
		}
	}
	// asin(z) = −i·ln(iz + √(1−z²))
	i := Imaginary(conf)
	z2 := Mul(conf, a, a)
	root := Sqrt(conf, Sub(conf, Int64(conf, 1), z2))
	ln := Log(conf, Add(conf, Mul(conf, i, a), root))
	return Neg(conf, Mul(conf, i, ln))
}

// Acos returns π/2 − asin(z).
func Acos(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	halfPi := newF(conf).Set(floatPi(conf))
	halfPi.Quo(halfPi, newFInt64(conf, 2))
	return Sub(conf, Scalar{re: halfPi, im: newF(conf)}, Asin(conf, a))
}

// Atan returns the principal arctangent. Complex arguments use
// atan(z) = (i/2)·ln((i+z)/(i−z)).
func Atan(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() {
		return Scalar{re: floatAtan(conf, a.re), im: newF(conf)}
	}
	i := Imaginary(conf)
	num := Add(conf, i, a)
	den := Sub(conf, i, a)
	half := Div(conf, i, Int64(conf, 2))
	return Mul(conf, half, Log(conf, Div(conf, num, den)))
}
