// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"

	"github.com/mexlang/mexl/config"
)

// Real elementary functions on big.Float, by Newton iteration and
// Taylor series with argument reduction.

// floatSqrt computes the square root of non-negative x by Newton's
// method: z ← z − (z²−x)/2z. A good starting point halves the exponent.
func floatSqrt(conf *config.Config, x *big.Float) *big.Float {
	switch {
	case x.Sign() < 0:
		Errorf("square root of negative number")
	case x.Sign() == 0:
		return newF(conf)
	case x.IsInf():
		return newF(conf).Set(x)
	}
	z := newF(conf)
	exp := x.MantExp(z)
	z.SetMantExp(z, exp/2)

	zSquared := newF(conf)
	num := newF(conf)
	den := newF(conf)
	two := newFInt64(conf, 2)
	for l := newLoop(conf, "sqrt", 1); ; {
		zSquared.Mul(z, z)
		num.Sub(zSquared, x)
		den.Mul(two, z)
		num.Quo(num, den)
		z.Sub(z, num)
		if l.done(z) {
			break
		}
	}
	return z
}

// exponential computes eˣ. The argument is scaled into (-½, ½) by
// halving k times, the Taylor series summed there, and the result
// squared k times.
func exponential(conf *config.Config, x *big.Float) *big.Float {
	if x.IsInf() {
		if x.Sign() < 0 {
			return newF(conf)
		}
		return newF(conf).SetInf(false)
	}
	if x.Sign() == 0 {
		return newFInt64(conf, 1)
	}
	xs := newF(conf).Set(x)
	two := newFInt64(conf, 2)
	half := newF(conf).SetFloat64(0.5)
	k := 0
	for newF(conf).Abs(xs).Cmp(half) > 0 {
		xs.Quo(xs, two)
		k++
	}

	// eˣ = 1 + x + x²/2! + x³/3! + …
	z := newFInt64(conf, 1)
	term := newFInt64(conf, 1)
	n := newF(conf)
	for l, i := newLoop(conf, "exp", 4), int64(1); ; i++ {
		term.Mul(term, xs)
		term.Quo(term, n.SetInt64(i))
		z.Add(z, term)
		if l.done(z) {
			break
		}
	}
	for i := 0; i < k; i++ {
		z.Mul(z, z)
	}
	return z
}

// floatLogPositive computes the natural logarithm of positive x.
// Split x = mant·2^exp with mant in [½, 1); then
// ln x = ln mant + exp·ln 2, and ln mant comes from the atanh series
// ln a = 2·atanh((a−1)/(a+1)), which converges fast on that interval.
func floatLogPositive(conf *config.Config, x *big.Float) *big.Float {
	if x.Sign() <= 0 {
		Errorf("log of non-positive number")
	}
	if x.IsInf() {
		return newF(conf).SetInf(false)
	}
	mant := newF(conf)
	exp := x.MantExp(mant)

	num := newF(conf).Sub(mant, newFInt64(conf, 1))
	den := newF(conf).Add(mant, newFInt64(conf, 1))
	t := num.Quo(num, den)
	z := atanhSeries(conf, t)
	z.Mul(z, newFInt64(conf, 2))

	if exp != 0 {
		e := newFInt64(conf, int64(exp))
		e.Mul(e, floatLn2(conf))
		z.Add(z, e)
	}
	return z
}

// floatAtan computes atan(x). The Taylor series converges only for
// small arguments, so the halving identity
// atan(x) = 2·atan(x/(1+√(1+x²))) is applied until |x| < ½.
func floatAtan(conf *config.Config, x *big.Float) *big.Float {
	if x.IsInf() {
		z := newF(conf).Set(floatPi(conf))
		z.Quo(z, newFInt64(conf, 2))
		if x.Sign() < 0 {
			z.Neg(z)
		}
		return z
	}
	xs := newF(conf).Set(x)
	half := newF(conf).SetFloat64(0.5)
	one := newFInt64(conf, 1)
	k := 0
	for newF(conf).Abs(xs).Cmp(half) > 0 {
		// x ← x/(1+√(1+x²))
		t := newF(conf).Mul(xs, xs)
		t.Add(t, one)
		t = floatSqrt(conf, t)
		t.Add(t, one)
		xs.Quo(xs, t)
		k++
	}

	// atan(x) = x − x³/3 + x⁵/5 − …
	x2 := newF(conf).Mul(xs, xs)
	xN := newF(conf).Set(xs)
	z := newF(conf).Set(xs)
	t := newF(conf)
	for l, n := newLoop(conf, "atan", 4), int64(3); ; n += 2 {
		xN.Mul(xN, x2)
		xN.Neg(xN)
		t.Quo(xN, newFInt64(conf, n))
		z.Add(z, t)
		if l.done(z) {
			break
		}
	}
	// Undo the halvings: each one contributed a factor of 2.
	if k > 0 {
		z.Mul(z, newFInt64(conf, int64(1)<<uint(k)))
	}
	return z
}

// floatAtan2 computes the angle of the point (x, y) in (-π, π].
func floatAtan2(conf *config.Config, y, x *big.Float) *big.Float {
	pi := floatPi(conf)
	switch {
	case x.Sign() > 0:
		return floatAtan(conf, newF(conf).Quo(y, x))
	case x.Sign() < 0:
		if y.Sign() == 0 {
			return newF(conf).Set(pi)
		}
		z := floatAtan(conf, newF(conf).Quo(y, x))
		if y.Sign() > 0 {
			return z.Add(z, pi)
		}
		return z.Sub(z, pi)
	default:
		z := newF(conf).Set(pi)
		z.Quo(z, newFInt64(conf, 2))
		switch y.Sign() {
		case 1:
			return z
		case -1:
			return z.Neg(z)
		}
		return newF(conf)
	}
}

// Complex elementary functions on scalars.

// Sqrt returns the principal square root.
func Sqrt(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() && a.re.Sign() >= 0 {
		return Scalar{re: floatSqrt(conf, a.re), im: newF(conf)}
	}
	// √z = √((r+re)/2) + i·sign(im)·√((r−re)/2), r = |z|.
	r := Abs(conf, a).re
	two := newFInt64(conf, 2)
	reSq := newF(conf).Add(r, a.re)
	reSq.Quo(reSq, two)
	imSq := newF(conf).Sub(r, a.re)
	imSq.Quo(imSq, two)
	re := floatSqrt(conf, reSq)
	im := floatSqrt(conf, imSq)
	if a.im.Sign() < 0 {
		im.Neg(im)
	}
	return Scalar{re: re, im: im}
}

// Exp returns eᶻ: e^re·(cos im + i·sin im).
func Exp(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	ex := exponential(conf, a.re)
	if a.IsReal() {
		return Scalar{re: ex, im: newF(conf)}
	}
	cosY := floatCos(conf, a.im)
	sinY := floatSin(conf, a.im)
	re, ok1 := fmul(conf, cosY, ex)
	im, ok2 := fmul(conf, sinY, ex)
	if !ok1 || !ok2 {
		return NaN(conf)
	}
	return Scalar{re: re, im: im}
}

// Log returns the principal natural logarithm: ln|z| + i·arg z.
func Log(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsZero() {
		return Inf(conf, -1)
	}
	if a.IsReal() && a.re.Sign() > 0 {
		return Scalar{re: floatLogPositive(conf, a.re), im: newF(conf)}
	}
	mag := Abs(conf, a).re
	return Scalar{re: floatLogPositive(conf, mag), im: floatAtan2(conf, a.im, a.re)}
}

// Log10 returns the base-10 logarithm.
func Log10(conf *config.Config, a Scalar) Scalar {
	z := Log(conf, a)
	if z.nan {
		return z
	}
	ln10 := floatLn10(conf)
	re, _ := fquo(conf, z.re, ln10)
	im, _ := fquo(conf, z.im, ln10)
	return Scalar{re: re, im: im}
}

// LogB returns the base-b logarithm of x.
func LogB(conf *config.Config, b, x Scalar) Scalar {
	return Div(conf, Log(conf, x), Log(conf, b))
}
