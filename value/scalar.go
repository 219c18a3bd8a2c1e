// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"math/big"
	"strings"

	"github.com/mexlang/mexl/config"
)

// Scalar is an arbitrary-precision complex number. Logical scalars carry
// only 0 or 1 and tag the results of comparisons and logical operators.
// A Scalar is immutable after construction; its components are never
// written through.
type Scalar struct {
	re, im  *big.Float
	logical bool
	nan     bool
}

// NewScalar builds a scalar from real and imaginary components.
// The components are adopted, not copied; callers must not mutate them.
func NewScalar(re, im *big.Float) Scalar {
	return Scalar{re: re, im: im}
}

// NewReal builds a real scalar.
func NewReal(conf *config.Config, re *big.Float) Scalar {
	return Scalar{re: re, im: newF(conf)}
}

// Int64 builds a real scalar from an integer.
func Int64(conf *config.Config, x int64) Scalar {
	return Scalar{re: newFInt64(conf, x), im: newF(conf)}
}

// NewLogical builds a logical scalar holding 0 or 1.
func NewLogical(conf *config.Config, t bool) Scalar {
	x := int64(0)
	if t {
		x = 1
	}
	return Scalar{re: newFInt64(conf, x), im: newF(conf), logical: true}
}

// NaN is the quiet not-a-number scalar.
func NaN(conf *config.Config) Scalar {
	return Scalar{re: newF(conf), im: newF(conf), nan: true}
}

// Inf returns a scalar infinity with the given sign.
func Inf(conf *config.Config, sign int) Scalar {
	return Scalar{re: newF(conf).SetInf(sign < 0), im: newF(conf)}
}

// Imaginary returns the imaginary unit i.
func Imaginary(conf *config.Config) Scalar {
	return Scalar{re: newF(conf), im: newFInt64(conf, 1)}
}

// Pi returns π at the working precision.
func Pi(conf *config.Config) Scalar {
	return Scalar{re: newF(conf).Set(floatPi(conf)), im: newF(conf)}
}

// E returns e at the working precision.
func E(conf *config.Config) Scalar {
	return Scalar{re: newF(conf).Set(floatE(conf)), im: newF(conf)}
}

// ParseNumber parses a numeric literal, with an optional trailing
// i or j marking an imaginary literal.
func ParseNumber(conf *config.Config, s string) (Scalar, error) {
	imaginary := false
	if n := len(s); n > 0 && (s[n-1] == 'i' || s[n-1] == 'j') {
		imaginary = true
		s = s[:n-1]
	}
	f, _, err := big.ParseFloat(s, 10, conf.FloatPrec(), big.ToNearestEven)
	if err != nil {
		return Scalar{}, err
	}
	if imaginary {
		return Scalar{re: newF(conf), im: f}, nil
	}
	return Scalar{re: f, im: newF(conf)}, nil
}

// Components returns the real and imaginary parts.
// The results must not be mutated.
func (s Scalar) Components() (re, im *big.Float) {
	return s.re, s.im
}

// IsNaN reports whether the scalar is not-a-number.
func (s Scalar) IsNaN() bool { return s.nan }

// IsLogical reports whether the scalar carries the logical class tag.
func (s Scalar) IsLogical() bool { return s.logical }

// IsReal reports whether the imaginary part is zero.
func (s Scalar) IsReal() bool {
	return !s.nan && s.im.Sign() == 0
}

// IsZero reports whether the scalar is exactly zero.
func (s Scalar) IsZero() bool {
	return !s.nan && s.re.Sign() == 0 && s.im.Sign() == 0
}

// IsInt reports whether the scalar is a real integer.
func (s Scalar) IsInt() bool {
	return s.IsReal() && !s.re.IsInf() && s.re.IsInt()
}

// Int returns the scalar as an int. It must be a real integer in range.
func (s Scalar) Int() int {
	if !s.IsInt() {
		Errorf("not an integer: %v", s.Sprint(debugConf))
	}
	i, _ := s.re.Int64()
	return int(i)
}

// True reports the boolean projection of the scalar: nonzero and not NaN.
func (s Scalar) True() bool {
	return !s.nan && !s.IsZero()
}

// asDecimal drops the logical tag, for arithmetic results.
func (s Scalar) asDecimal() Scalar {
	s.logical = false
	return s
}

var debugConf = new(config.Config)

// Sprint renders the scalar. Real values print positionally inside the
// scientific-notation boundaries and in exponent form outside them;
// complex values print as a+bi.
func (s Scalar) Sprint(conf *config.Config) string {
	if s.nan {
		return "NaN"
	}
	if s.IsReal() {
		return formatFloat(conf, displayRound(conf, s.re))
	}
	imStr := formatFloat(conf, displayRound(conf, s.im))
	if s.re.Sign() == 0 && !s.re.IsInf() {
		return imStr + "i"
	}
	reStr := formatFloat(conf, displayRound(conf, s.re))
	if strings.HasPrefix(imStr, "-") {
		return reStr + "-" + imStr[1:] + "i"
	}
	return reStr + "+" + imStr + "i"
}
