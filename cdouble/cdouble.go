// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cdouble provides an unevaluated double-double scalar for
// compensated accumulation.
//
// A CDouble represents a value as the exact sum 𝚑𝚒 + 𝚕𝚘 of two float64 where
// |𝚕𝚘| ≤ ½𝚞𝚕𝚙(𝚑𝚒). Sums use the 2Sum error-free transformation and products
// recover their rounding error through a fused multiply-add, so a chain of
// operations keeps roughly twice the significand of a plain float64. The type
// is meant for order-independent accumulation of long dot products and
// right-hand sides, not as a general quad-precision replacement.
//
// T.J. Dekker, 'A floating-point technique for extending the available
// precision', Numerische Mathematik 18, 1971.
package cdouble

import "math"

// CDouble is an extended-precision value hi + lo.
// The zero value is the number 0.
type CDouble struct {
	hi, lo float64
}

// twoSum computes s, e with s = fl(a+b) and a + b = s + e exactly.
func twoSum(a, b float64) (s, e float64) {
	s = a + b
	v := s - a
	e = (a - (s - v)) + (b - v)
	return
}

// quickSum is twoSum under the precondition |a| ≥ |b|.
func quickSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return
}

// twoProd computes p, e with p = fl(a·b) and a·b = p + e exactly.
func twoProd(a, b float64) (p, e float64) {
	p = a * b
	e = math.FMA(a, b, -p)
	return
}

// From converts a float64 to a CDouble.
func From(x float64) CDouble { return CDouble{hi: x} }

// Prod returns the exact product a·b as a CDouble.
func Prod(a, b float64) CDouble {
	p, e := twoProd(a, b)
	return CDouble{hi: p, lo: e}
}

// Float64 rounds x to the nearest float64.
func (x CDouble) Float64() float64 { return x.hi + x.lo }

// Renormalize restores the non-overlapping invariant |lo| ≤ ½ulp(hi).
func (x CDouble) Renormalize() CDouble {
	s, e := quickSum(x.hi, x.lo)
	return CDouble{hi: s, lo: e}
}

// Neg returns -x.
func (x CDouble) Neg() CDouble { return CDouble{hi: -x.hi, lo: -x.lo} }

// Abs returns |x|.
func (x CDouble) Abs() CDouble {
	if x.Float64() < 0 {
		return x.Neg()
	}
	return x
}

// AddFloat returns x + y.
func (x CDouble) AddFloat(y float64) CDouble {
	s, e := twoSum(x.hi, y)
	e += x.lo
	s, e = quickSum(s, e)
	return CDouble{hi: s, lo: e}
}

// SubFloat returns x - y.
func (x CDouble) SubFloat(y float64) CDouble { return x.AddFloat(-y) }

// Add returns x + y.
func (x CDouble) Add(y CDouble) CDouble {
	s, e := twoSum(x.hi, y.hi)
	e += x.lo + y.lo
	s, e = quickSum(s, e)
	return CDouble{hi: s, lo: e}
}

// Sub returns x - y.
func (x CDouble) Sub(y CDouble) CDouble { return x.Add(y.Neg()) }

// MulFloat returns x · y.
func (x CDouble) MulFloat(y float64) CDouble {
	p, e := twoProd(x.hi, y)
	e = math.FMA(x.lo, y, e)
	p, e = quickSum(p, e)
	return CDouble{hi: p, lo: e}
}

// Mul returns x · y.
func (x CDouble) Mul(y CDouble) CDouble {
	p, e := twoProd(x.hi, y.hi)
	e += x.hi*y.lo + x.lo*y.hi
	p, e = quickSum(p, e)
	return CDouble{hi: p, lo: e}
}

// DivFloat returns x / y.
func (x CDouble) DivFloat(y float64) CDouble {
	q1 := x.hi / y
	// r = x - q1·y computed exactly
	p, e := twoProd(q1, y)
	r := x.Sub(CDouble{hi: p, lo: e})
	q2 := (r.hi + r.lo) / y
	s, t := quickSum(q1, q2)
	return CDouble{hi: s, lo: t}
}

// Div returns x / y.
func (x CDouble) Div(y CDouble) CDouble {
	q1 := x.hi / y.hi
	r := x.Sub(y.MulFloat(q1))
	q2 := r.Float64() / y.hi
	r = r.Sub(y.MulFloat(q2))
	q3 := r.Float64() / y.hi
	s, e := quickSum(q1, q2)
	return CDouble{hi: s, lo: e}.AddFloat(q3)
}

// AddProd returns x + a·b with the product formed exactly.
func (x CDouble) AddProd(a, b float64) CDouble { return x.Add(Prod(a, b)) }

// SubProd returns x - a·b with the product formed exactly.
func (x CDouble) SubProd(a, b float64) CDouble { return x.Sub(Prod(a, b)) }

// Floor returns ⌊x⌋.
func (x CDouble) Floor() CDouble {
	f := math.Floor(x.hi)
	if f == x.hi {
		// hi is integral, the fractional part lives in lo
		return CDouble{hi: f, lo: math.Floor(x.lo)}.Renormalize()
	}
	return CDouble{hi: f}
}

// Ceil returns ⌈x⌉.
func (x CDouble) Ceil() CDouble { return x.Neg().Floor().Neg() }

// Round returns ⌊x + ½⌋: the nearest integer with halves rounding toward +∞.
func (x CDouble) Round() CDouble { return x.AddFloat(0.5).Floor() }
