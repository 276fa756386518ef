// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"
	"sort"

	"github.com/curioloop/cutgen/cdouble"
)

// liftKnapsackCover lifts the cover inequality ∑_{j∈C} xⱼ ≤ |C|-1 of a pure
// 0/1 knapsack row to the full support.
//
// A per-cover constant ā is determined by water-filling the excess λ over the
// sorted cover coefficients; the lifting function counts how many prefix sums
// of min(ā, aⱼ) a coefficient exceeds. When the row admits only half-integral
// lift values a +0.5 correction applies and the cut is doubled to stay
// integral. Cannot fail; the result always has integral support and
// coefficients.
func (g *Generator) liftKnapsackCover() {
	coversize := len(g.cover)

	S := make([]float64, coversize)
	coverflag := make([]int8, g.rowlen)
	sort.Slice(g.cover, func(a, b int) bool {
		return g.vals[g.cover[a]] > g.vals[g.cover[b]]
	})

	abartmp := cdouble.From(g.vals[g.cover[0]])
	sigma := g.lambda
	for i := 1; i != coversize; i++ {
		delta := abartmp.SubFloat(g.vals[g.cover[i]])
		kdelta := delta.MulFloat(float64(i))
		if kdelta.Float64() < sigma.Float64() {
			abartmp = cdouble.From(g.vals[g.cover[i]])
			sigma = sigma.Sub(kdelta)
		} else {
			abartmp = abartmp.Sub(sigma.MulFloat(1.0 / float64(i)))
			sigma = cdouble.CDouble{}
			break
		}
	}

	if sigma.Float64() > 0 {
		abartmp = g.rhs.DivFloat(float64(coversize))
	}

	abar := abartmp.Float64()

	sum := cdouble.CDouble{}
	cplussize := 0
	for i := 0; i != coversize; i++ {
		sum = sum.AddFloat(math.Min(abar, g.vals[g.cover[i]]))
		S[i] = sum.Float64()

		if g.vals[g.cover[i]] > abar+g.feastol {
			cplussize++
			coverflag[g.cover[i]] = 1
		} else {
			coverflag[g.cover[i]] = -1
		}
	}

	halfintegral := false

	// the lifting function: number of prefix sums of min(ā,aⱼ) below z,
	// with a half step when z falls on a multiple of ā inside C+
	step := func(z float64) float64 {
		hfrac := z / abar
		coef := 0.0

		h := int(math.Floor(hfrac + 0.5))
		if h != 0 && math.Abs(hfrac-float64(h))*math.Max(1.0, abar) <= g.epsilon &&
			h <= cplussize-1 {
			halfintegral = true
			coef = 0.5
		}

		h = max(h-1, 0)
		for ; h < coversize; h++ {
			if z <= S[h]+g.feastol {
				break
			}
		}
		return coef + float64(h)
	}

	g.rhs = cdouble.From(float64(coversize - 1))

	for i := 0; i != g.rowlen; i++ {
		if g.vals[i] == 0.0 {
			continue
		}
		if coverflag[i] == -1 {
			g.vals[i] = 1
		} else {
			g.vals[i] = step(g.vals[i])
		}
	}

	if halfintegral {
		g.rhs = g.rhs.MulFloat(2)
		for i := 0; i != g.rowlen; i++ {
			g.vals[i] *= 2
		}
	}

	// resulting cut is always integral
	g.integralSupport = true
	g.integralCoefficients = true
}
