// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"

	"github.com/mexlang/mexl/config"
)

// Hyperbolic functions, built on the exponential and logarithm.

func floatSinh(conf *config.Config, x *big.Float) *big.Float {
	// sinh(x) = (eˣ − e⁻ˣ)/2
	ex := exponential(conf, x)
	emx := exponential(conf, newF(conf).Neg(x))
	z := newF(conf).Sub(ex, emx)
	return z.Quo(z, newFInt64(conf, 2))
}

func floatCosh(conf *config.Config, x *big.Float) *big.Float {
	// cosh(x) = (eˣ + e⁻ˣ)/2
	ex := exponential(conf, x)
	emx := exponential(conf, newF(conf).Neg(x))
	z := newF(conf).Add(ex, emx)
	return z.Quo(z, newFInt64(conf, 2))
}

// Sinh returns sinh z. For complex z,
// sinh(x+iy) = sinh x·cos y + i·cosh x·sin y.
func Sinh(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() {
		return Scalar{re: floatSinh(conf, a.re), im: newF(conf)}
	}
	re := newF(conf).Mul(floatSinh(conf, a.re), floatCos(conf, a.im))
	im := newF(conf).Mul(floatCosh(conf, a.re), floatSin(conf, a.im))
	return Scalar{re: re, im: im}
}

// Cosh returns cosh z. For complex z,
// cosh(x+iy) = cosh x·cos y + i·sinh x·sin y.
func Cosh(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() {
		return Scalar{re: floatCosh(conf, a.re), im: newF(conf)}
	}
	re := newF(conf).Mul(floatCosh(conf, a.re), floatCos(conf, a.im))
	im := newF(conf).Mul(floatSinh(conf, a.re), floatSin(conf, a.im))
	return Scalar{re: re, im: im}
}

// Tanh returns sinh z / cosh z.
func Tanh(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() && a.re.IsInf() {
		return Int64(conf, int64(a.re.Sign()))
	}
	c := Cosh(conf, a)
	if c.IsZero() {
		return Inf(conf, 1)
	}
	return Div(conf, Sinh(conf, a), c)
}

// Asinh returns ln(z + √(z²+1)).
func Asinh(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	z2 := Mul(conf, a, a)
	root := Sqrt(conf, Add(conf, z2, Int64(conf, 1)))
	return Log(conf, Add(conf, a, root))
}

// Acosh returns ln(z + √(z−1)·√(z+1)).
func Acosh(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	r1 := Sqrt(conf, Sub(conf, a, Int64(conf, 1)))
	r2 := Sqrt(conf, Add(conf, a, Int64(conf, 1)))
	return Log(conf, Add(conf, a, Mul(conf, r1, r2)))
}

// Atanh returns ½·ln((1+z)/(1−z)).
func Atanh(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	one := Int64(conf, 1)
	num := Add(conf, one, a)
	den := Sub(conf, one, a)
	if den.IsZero() {
		return Inf(conf, 1)
	}
	return Div(conf, Log(conf, Div(conf, num, den)), Int64(conf, 2))
}
