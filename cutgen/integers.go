// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"

	"github.com/curioloop/cutgen/cdouble"
)

func gcd64(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// denominator finds a small d ≤ maxdenom such that d·x is within d·eps of an
// integer, walking the continued fraction expansion of x. Returns 1 when x is
// already integral within eps, maxdenom when the expansion exceeds the cap.
func denominator(x, eps float64, maxdenom int64) int64 {
	ai := math.Floor(x)
	frac := x - ai
	k0, k1 := int64(0), int64(1)

	for frac > eps && k1 < maxdenom {
		xi := 1.0 / frac
		ai = math.Floor(xi)
		k0, k1 = k1, int64(ai)*k1+k0
		frac = xi - ai

		scaled := x * float64(k1)
		if math.Abs(scaled-math.Round(scaled)) <= float64(k1)*eps {
			break
		}
	}

	if k1 > maxdenom {
		k1 = maxdenom
	}
	return max(k1, 1)
}

// integralScale determines a scale s such that s·v is integral within the
// tolerances for every v in vals, or 0 when no safe scale exists.
//
// The seed denominator 75·2ᵏ covers the denominators composed of the factors
// 2, 3 and 5 at once, with k chosen so the smallest magnitude is not below
// one half. Values still fractional under the seed contribute an extra
// continued-fraction denominator (capped at 1000). The final scale is reduced
// by the gcd of the scaled integer values.
func integralScale(vals []float64, deltadown, deltaup float64) float64 {
	if len(vals) == 0 {
		return 0.0
	}

	minval := math.Abs(vals[0])
	for _, v := range vals[1:] {
		if a := math.Abs(v); a < minval {
			minval = a
		}
	}

	_, e := math.Frexp(minval)
	expshift := 3
	if e < 0 {
		expshift = 3 - e
	}
	if expshift > 50 {
		return 0.0
	}

	denom := uint64(75) << uint(expshift)

	// first pass: extend the denominator until every value is integral
	for _, v := range vals {
		val := cdouble.Prod(float64(denom), v)
		downval := math.Floor(val.Float64() + deltaup)
		frac := val.SubFloat(downval)

		if frac.Float64() > deltadown {
			d := denominator(frac.Float64(), deltaup, 1000)
			if float64(denom)*float64(d) > 1e15 {
				return 0.0
			}
			denom *= uint64(d)
			val = cdouble.Prod(float64(denom), v)
			downval = math.Floor(val.Float64() + deltaup)
			frac = val.SubFloat(downval)
			if frac.Float64() > deltadown {
				return 0.0
			}
		}
	}

	// second pass: reduce the scale by the gcd of the integer values
	currgcd := uint64(0)
	for _, v := range vals {
		val := cdouble.Prod(float64(denom), v)
		downval := math.Floor(val.Float64() + deltaup)
		if val.SubFloat(downval).Float64() > deltadown {
			return 0.0
		}
		if currgcd == 1 {
			continue
		}
		if i := uint64(math.Abs(downval)); i != 0 {
			if currgcd == 0 {
				currgcd = i
			} else {
				currgcd = gcd64(currgcd, i)
			}
		}
	}

	if currgcd == 0 {
		return 0.0
	}
	return float64(denom) / float64(currgcd)
}
