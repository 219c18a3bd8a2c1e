// Copyright 2025 The Mexl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/mexlang/mexl/config"
)

// newF returns a zero big.Float at the working precision.
func newF(conf *config.Config) *big.Float {
	return new(big.Float).SetPrec(conf.FloatPrec())
}

func newFInt64(conf *config.Config, x int64) *big.Float {
	return newF(conf).SetInt64(x)
}

// loop tracks convergence of an iterative calculation.
// Adapted to instance-scoped precision; the shape is the usual
// Newton/Taylor stall detector.
type loop struct {
	name          string
	i             uint64
	maxIterations uint64
	stallCount    int
	prevZ         *big.Float
	delta         *big.Float
	prevDelta     *big.Float
}

// newLoop returns a new convergence checker for the named function.
// itersPerBit scales the iteration budget with the working precision.
func newLoop(conf *config.Config, name string, itersPerBit uint) *loop {
	return &loop{
		name:          name,
		maxIterations: 10 + uint64(itersPerBit)*uint64(conf.FloatPrec()),
		prevZ:         newF(conf),
		delta:         newF(conf),
		prevDelta:     newF(conf),
	}
}

// done reports whether the iteration has converged on z.
func (l *loop) done(z *big.Float) bool {
	l.delta.Sub(l.prevZ, z)
	if l.delta.Sign() == 0 {
		return true
	}
	if l.delta.Sign() < 0 {
		l.delta.Neg(l.delta)
	}
	if l.delta.Cmp(l.prevDelta) == 0 {
		// Oscillating at the limit of precision.
		l.stallCount++
		if l.stallCount > 3 {
			return true
		}
	} else {
		l.stallCount = 0
	}
	l.i++
	if l.i == l.maxIterations {
		Errorf("%s: did not converge after %d iterations", l.name, l.maxIterations)
	}
	l.prevDelta.Set(l.delta)
	l.prevZ.Set(z)
	return false
}

// Fundamental constants are computed once per precision and cached.
var (
	constMu   sync.Mutex
	constPi   = make(map[uint]*big.Float)
	constE    = make(map[uint]*big.Float)
	constLn2  = make(map[uint]*big.Float)
	constLn10 = make(map[uint]*big.Float)
)

// floatPi returns π at the working precision, computed by Machin's
// formula π = 16·atan(1/5) − 4·atan(1/239). Both arguments are small,
// so the plain Taylor series converges quickly and needs no π itself.
func floatPi(conf *config.Config) *big.Float {
	constMu.Lock()
	defer constMu.Unlock()
	prec := conf.FloatPrec()
	if pi, ok := constPi[prec]; ok {
		return pi
	}
	a := atanRecip(conf, 5)
	a.Mul(a, newFInt64(conf, 16))
	b := atanRecip(conf, 239)
	b.Mul(b, newFInt64(conf, 4))
	pi := a.Sub(a, b)
	constPi[prec] = pi
	return pi
}

// atanRecip computes atan(1/n) by Taylor series.
func atanRecip(conf *config.Config, n int64) *big.Float {
	x := newFInt64(conf, 1)
	x.Quo(x, newFInt64(conf, n))
	x2 := newF(conf).Mul(x, x)
	term := newF(conf).Set(x)
	z := newF(conf).Set(x)
	t := newF(conf)
	for l, k := newLoop(conf, "atan", 4), int64(3); ; k += 2 {
		term.Mul(term, x2)
		term.Neg(term)
		t.Quo(term, newFInt64(conf, k))
		z.Add(z, t)
		if l.done(z) {
			break
		}
	}
	return z
}

// floatE returns e at the working precision.
func floatE(conf *config.Config) *big.Float {
	constMu.Lock()
	prec := conf.FloatPrec()
	if e, ok := constE[prec]; ok {
		constMu.Unlock()
		return e
	}
	constMu.Unlock()
	e := exponential(conf, newFInt64(conf, 1))
	constMu.Lock()
	constE[prec] = e
	constMu.Unlock()
	return e
}

// floatLn2 returns ln 2 = 2·atanh(1/3) at the working precision.
func floatLn2(conf *config.Config) *big.Float {
	constMu.Lock()
	defer constMu.Unlock()
	prec := conf.FloatPrec()
	if v, ok := constLn2[prec]; ok {
		return v
	}
	third := newFInt64(conf, 1)
	third.Quo(third, newFInt64(conf, 3))
	v := atanhSeries(conf, third)
	v.Mul(v, newFInt64(conf, 2))
	constLn2[prec] = v
	return v
}

// floatLn10 returns ln 10 at the working precision.
func floatLn10(conf *config.Config) *big.Float {
	constMu.Lock()
	prec := conf.FloatPrec()
	if v, ok := constLn10[prec]; ok {
		constMu.Unlock()
		return v
	}
	constMu.Unlock()
	v := floatLogPositive(conf, newFInt64(conf, 10))
	constMu.Lock()
	constLn10[prec] = v
	constMu.Unlock()
	return v
}

// atanhSeries computes atanh(x) = x + x³/3 + x⁵/5 + … for |x| < 1.
func atanhSeries(conf *config.Config, x *big.Float) *big.Float {
	x2 := newF(conf).Mul(x, x)
	xN := newF(conf).Set(x)
	z := newF(conf).Set(x)
	t := newF(conf)
	for l, k := newLoop(conf, "atanh", 4), int64(3); ; k += 2 {
		xN.Mul(xN, x2)
		t.Quo(xN, newFInt64(conf, k))
		z.Add(z, t)
		if l.done(z) {
			break
		}
	}
	return z
}

// displayRound rounds f to the display precision: the working precision
// minus the guard band, in decimal digits. Comparison and rendering go
// through here.
func displayRound(conf *config.Config, f *big.Float) *big.Float {
	if f.IsInf() || f.Sign() == 0 {
		return f
	}
	s := f.Text('e', conf.DisplayDigits()-1)
	r, _, err := big.ParseFloat(s, 10, conf.FloatPrec(), big.ToNearestEven)
	if err != nil {
		return f
	}
	return r
}

// formatFloat renders f with up to DisplayDigits significant digits,
// positional inside the scientific-notation boundaries and exponent
// form outside them. Trailing zeros are trimmed.
func formatFloat(conf *config.Config, f *big.Float) string {
	if f.IsInf() {
		if f.Sign() < 0 {
			return "-Inf"
		}
		return "Inf"
	}
	if f.Sign() == 0 {
		return "0"
	}
	dd := conf.DisplayDigits()
	s := f.Text('e', dd-1)
	mant, expStr, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	neg := strings.HasPrefix(mant, "-")
	if neg {
		mant = mant[1:]
	}
	digits := strings.Replace(mant, ".", "", 1)
	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		digits = "0"
	}
	exp10 := atoi(expStr)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	// exp10 is the power of ten of the leading digit.
	switch {
	case exp10 >= log10OrSo(conf.LargeThreshold()) || exp10 < log10OrSo(conf.SmallThreshold()):
		b.WriteByte(digits[0])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		if exp10 < 0 {
			fmt.Fprintf(&b, "e-%d", -exp10)
		} else {
			fmt.Fprintf(&b, "e+%d", exp10)
		}
	case exp10 >= 0:
		if len(digits) > exp10+1 {
			b.WriteString(digits[:exp10+1])
			b.WriteByte('.')
			b.WriteString(digits[exp10+1:])
		} else {
			b.WriteString(digits)
			b.WriteString(strings.Repeat("0", exp10+1-len(digits)))
		}
	default:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -exp10-1))
		b.WriteString(digits)
	}
	return b.String()
}

// log10OrSo returns the decimal exponent of a power-of-ten threshold.
func log10OrSo(t float64) int {
	n := 0
	for t >= 10 {
		t /= 10
		n++
	}
	for t < 1 {
		t *= 10
		n--
	}
	return n
}

func atoi(s string) int {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	if neg {
		return -n
	}
	return n
}
