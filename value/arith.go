// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"

	"github.com/mexlang/mexl/config"
)

// Real-component helpers. math/big panics with ErrNaN on the
// indeterminate forms (∞−∞, 0·∞, 0/0, ∞/∞); these wrappers return
// ok=false instead so the scalar layer can produce a NaN value.

func fadd(conf *config.Config, x, y *big.Float) (*big.Float, bool) {
	if x.IsInf() && y.IsInf() && x.Sign() != y.Sign() {
		return nil, false
	}
	return newF(conf).Add(x, y), true
}

func fsub(conf *config.Config, x, y *big.Float) (*big.Float, bool) {
	if x.IsInf() && y.IsInf() && x.Sign() == y.Sign() {
		return nil, false
	}
	return newF(conf).Sub(x, y), true
}

func fmul(conf *config.Config, x, y *big.Float) (*big.Float, bool) {
	if (x.IsInf() && y.Sign() == 0) || (x.Sign() == 0 && y.IsInf()) {
		return nil, false
	}
	return newF(conf).Mul(x, y), true
}

func fquo(conf *config.Config, x, y *big.Float) (*big.Float, bool) {
	if y.Sign() == 0 {
		if x.Sign() == 0 {
			return nil, false
		}
		return newF(conf).SetInf(x.Sign() < 0), true
	}
	if x.IsInf() && y.IsInf() {
		return nil, false
	}
	return newF(conf).Quo(x, y), true
}

// Add returns a+b.
func Add(conf *config.Config, a, b Scalar) Scalar {
	if a.nan || b.nan {
		return NaN(conf)
	}
	re, ok1 := fadd(conf, a.re, b.re)
	im, ok2 := fadd(conf, a.im, b.im)
	if !ok1 || !ok2 {
		return NaN(conf)
	}
	return Scalar{re: re, im: im}
}

// Sub returns a-b.
func Sub(conf *config.Config, a, b Scalar) Scalar {
	if a.nan || b.nan {
		return NaN(conf)
	}
	re, ok1 := fsub(conf, a.re, b.re)
	im, ok2 := fsub(conf, a.im, b.im)
	if !ok1 || !ok2 {
		return NaN(conf)
	}
	return Scalar{re: re, im: im}
}

// Mul returns a·b.
func Mul(conf *config.Config, a, b Scalar) Scalar {
	if a.nan || b.nan {
		return NaN(conf)
	}
	// (ar+ai·i)(br+bi·i) = ar·br − ai·bi + (ar·bi + ai·br)i
	t1, ok1 := fmul(conf, a.re, b.re)
	t2, ok2 := fmul(conf, a.im, b.im)
	t3, ok3 := fmul(conf, a.re, b.im)
	t4, ok4 := fmul(conf, a.im, b.re)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return NaN(conf)
	}
	re, ok5 := fsub(conf, t1, t2)
	im, ok6 := fadd(conf, t3, t4)
	if !ok5 || !ok6 {
		return NaN(conf)
	}
	return Scalar{re: re, im: im}
}

// Div returns a/b (right division).
func Div(conf *config.Config, a, b Scalar) Scalar {
	if a.nan || b.nan {
		return NaN(conf)
	}
	if b.IsZero() {
		if a.IsZero() {
			return NaN(conf)
		}
		// ±∞ following the sign of the numerator, componentwise.
		infOrZero := func(f *big.Float) *big.Float {
			if f.Sign() == 0 {
				return newF(conf)
			}
			return newF(conf).SetInf(f.Sign() < 0)
		}
		return Scalar{re: infOrZero(a.re), im: infOrZero(a.im)}
	}
	if isInfScalar(b) {
		if isInfScalar(a) {
			return NaN(conf)
		}
		return Scalar{re: newF(conf), im: newF(conf)}
	}
	if b.IsReal() {
		re, ok1 := fquo(conf, a.re, b.re)
		im, ok2 := fquo(conf, a.im, b.re)
		if !ok1 || !ok2 {
			return NaN(conf)
		}
		return Scalar{re: re, im: im}
	}
	// (a/b) = a·conj(b) / |b|²
	denom := newF(conf).Mul(b.re, b.re)
	denom.Add(denom, newF(conf).Mul(b.im, b.im))
	num := Mul(conf, a, Conj(conf, b))
	if num.nan {
		return NaN(conf)
	}
	re, ok1 := fquo(conf, num.re, denom)
	im, ok2 := fquo(conf, num.im, denom)
	if !ok1 || !ok2 {
		return NaN(conf)
	}
	return Scalar{re: re, im: im}
}

// LDiv returns a\b, the left division b/a.
func LDiv(conf *config.Config, a, b Scalar) Scalar {
	return Div(conf, b, a)
}

func isInfScalar(s Scalar) bool {
	return !s.nan && (s.re.IsInf() || s.im.IsInf())
}

// Neg returns -a.
func Neg(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	return Scalar{re: newF(conf).Neg(a.re), im: newF(conf).Neg(a.im)}
}

// Real returns the real component of a.
func Real(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	return Scalar{re: newF(conf).Set(a.re), im: newF(conf)}
}

// Imag returns the imaginary component of a, as a real scalar.
func Imag(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	return Scalar{re: newF(conf).Set(a.im), im: newF(conf)}
}

// Conj returns the complex conjugate of a.
func Conj(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	return Scalar{re: newF(conf).Set(a.re), im: newF(conf).Neg(a.im)}
}

// Abs returns |a|.
func Abs(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsReal() {
		return Scalar{re: newF(conf).Abs(a.re), im: newF(conf)}
	}
	if a.re.IsInf() || a.im.IsInf() {
		return Inf(conf, 1)
	}
	h := newF(conf).Mul(a.re, a.re)
	h.Add(h, newF(conf).Mul(a.im, a.im))
	return Scalar{re: floatSqrt(conf, h), im: newF(conf)}
}

// Arg returns the argument (phase angle) of a, in (-π, π].
func Arg(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	return Scalar{re: floatAtan2(conf, a.im, a.re), im: newF(conf)}
}

// Sign returns a/|a|, or zero for zero. For real values this is the
// usual -1, 0 or 1.
func Sign(conf *config.Config, a Scalar) Scalar {
	if a.nan {
		return NaN(conf)
	}
	if a.IsZero() {
		return Int64(conf, 0)
	}
	if a.IsReal() {
		return Int64(conf, int64(a.re.Sign()))
	}
	return Div(conf, a, Abs(conf, a))
}

// Componentwise integer rounding.

func ffloor(conf *config.Config, f *big.Float) *big.Float {
	if f.IsInf() || f.IsInt() {
		return newF(conf).Set(f)
	}
	i, _ := f.Int(nil) // truncation toward zero
	z := newF(conf).SetInt(i)
	if f.Sign() < 0 {
		z.Sub(z, newFInt64(conf, 1))
	}
	return z
}

func fceil(conf *config.Config, f *big.Float) *big.Float {
	if f.IsInf() || f.IsInt() {
		return newF(conf).Set(f)
	}
	i, _ := f.Int(nil)
	z := newF(conf).SetInt(i)
	if f.Sign() > 0 {
		z.Add(z, newFInt64(conf, 1))
	}
	return z
}

func fround(conf *config.Config, f *big.Float) *big.Float {
	if f.IsInf() {
		return newF(conf).Set(f)
	}
	half := newF(conf).SetFloat64(0.5)
	if f.Sign() >= 0 {
		return ffloor(conf, newF(conf).Add(f, half))
	}
	return fceil(conf, newF(conf).Sub(f, half))
}

func ffix(conf *config.Config, f *big.Float) *big.Float {
	if f.IsInf() {
		return newF(conf).Set(f)
	}
	i, _ := f.Int(nil)
	return newF(conf).SetInt(i)
}

func componentwise(conf *config.Config, a Scalar, fn func(*config.Config, *big.Float) *big.Float) Scalar {
	if a.nan {
		return NaN(conf)
	}
	return Scalar{re: fn(conf, a.re), im: fn(conf, a.im)}
}

// Floor rounds the components toward -∞.
func Floor(conf *config.Config, a Scalar) Scalar { return componentwise(conf, a, ffloor) }

// Ceil rounds the components toward +∞.
func Ceil(conf *config.Config, a Scalar) Scalar { return componentwise(conf, a, fceil) }

// Round rounds the components to the nearest integer, halves away from zero.
func Round(conf *config.Config, a Scalar) Scalar { return componentwise(conf, a, fround) }

// Fix truncates the components toward zero.
func Fix(conf *config.Config, a Scalar) Scalar { return componentwise(conf, a, ffix) }

// Compare orders two scalars. Real operands use the usual order;
// complex operands use polar lexicographic order: by absolute value,
// ties broken by argument in (-π, π]. The second result is false when
// either operand is NaN, in which case no order exists.
func Compare(conf *config.Config, a, b Scalar) (int, bool) {
	if a.nan || b.nan {
		return 0, false
	}
	if a.IsReal() && b.IsReal() {
		return a.re.Cmp(b.re), true
	}
	absA := displayRound(conf, Abs(conf, a).re)
	absB := displayRound(conf, Abs(conf, b).re)
	if c := absA.Cmp(absB); c != 0 {
		return c, true
	}
	argA := displayRound(conf, Arg(conf, a).re)
	argB := displayRound(conf, Arg(conf, b).re)
	return argA.Cmp(argB), true
}

// Equal tests equality at display precision. NaN compares unequal to
// everything, itself included.
func Equal(conf *config.Config, a, b Scalar) bool {
	if a.nan || b.nan {
		return false
	}
	re1 := displayRound(conf, a.re)
	re2 := displayRound(conf, b.re)
	im1 := displayRound(conf, a.im)
	im2 := displayRound(conf, b.im)
	return re1.Cmp(re2) == 0 && im1.Cmp(im2) == 0
}

// Pow returns a**b on the complex principal branch, exp(b·log a),
// with a real shortcut when a ≥ 0 and b is real. Integer exponents of
// moderate size are computed exactly by repeated squaring.
func Pow(conf *config.Config, a, b Scalar) Scalar {
	if a.nan || b.nan {
		return NaN(conf)
	}
	if b.IsZero() {
		return Int64(conf, 1)
	}
	if a.IsZero() {
		if b.IsReal() {
			switch b.re.Sign() {
			case 1:
				return Int64(conf, 0)
			case -1:
				return Inf(conf, 1)
			}
		}
		return NaN(conf)
	}
	if b.IsInt() && !isInfScalar(a) {
		if n, acc := b.re.Int64(); acc == big.Exact && -1e6 < n && n < 1e6 {
			return powInt(conf, a, n)
		}
	}
	if a.IsReal() && b.IsReal() && a.re.Sign() > 0 && !a.re.IsInf() && !b.re.IsInf() {
		z := floatLogPositive(conf, a.re)
		z.Mul(z, b.re)
		return Scalar{re: exponential(conf, z), im: newF(conf)}
	}
	return Exp(conf, Mul(conf, b, Log(conf, a)))
}

// powInt computes a**n by binary exponentiation.
func powInt(conf *config.Config, a Scalar, n int64) Scalar {
	neg := n < 0
	if neg {
		n = -n
	}
	z := Int64(conf, 1)
	base := a
	for n > 0 {
		if n&1 == 1 {
			z = Mul(conf, z, base)
		}
		n >>= 1
		if n > 0 {
			base = Mul(conf, base, base)
		}
	}
	if neg {
		return Div(conf, Int64(conf, 1), z)
	}
	return z
}
