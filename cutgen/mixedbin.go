// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/curioloop/cutgen/cdouble"
)

// liftMixedBinaryCover lifts a cover of a mixed-binary knapsack set.
//
// Cover coefficients are clipped to λ and moved to the right-hand side,
// non-cover binary terms go through the piecewise-linear lifting function φ
// built from the prefix sums of the cover coefficients above λ. Continuous
// terms keep nothing: positive coefficients are dropped, negative ones break
// the integral support. Fails when every cover coefficient is below λ.
func (g *Generator) liftMixedBinaryCover() bool {
	coversize := len(g.cover)
	if coversize == 0 {
		return false
	}

	S := make([]float64, coversize)
	coverflag := bitset.New(uint(g.rowlen))
	for _, i := range g.cover {
		coverflag.Set(uint(i))
	}

	sort.Slice(g.cover, func(a, b int) bool {
		return g.vals[g.cover[a]] > g.vals[g.cover[b]]
	})

	sum := cdouble.CDouble{}
	lambda := g.lambda.Float64()

	p := coversize
	for i := 0; i != coversize; i++ {
		if g.vals[g.cover[i]]-lambda <= g.epsilon {
			p = i
			break
		}
		sum = sum.AddFloat(g.vals[g.cover[i]])
		S[i] = sum.Float64()
	}
	if p == 0 {
		return false
	}

	// the lifting function
	phi := func(a float64) float64 {
		for i := 0; i < p; i++ {
			if a <= S[i]-lambda {
				return g.lambda.MulFloat(float64(i)).Float64()
			}
			if a <= S[i] {
				return g.lambda.MulFloat(float64(i + 1)).
					Add(cdouble.From(a).SubFloat(S[i])).Float64()
			}
		}
		return g.lambda.MulFloat(float64(p)).
			Add(cdouble.From(a).SubFloat(S[p-1])).Float64()
	}

	g.rhs = g.lambda.Neg()

	g.integralCoefficients = false
	g.integralSupport = true
	for i := 0; i != g.rowlen; i++ {
		if !g.rel.IsColIntegral(g.inds[i]) {
			if g.vals[i] < 0 {
				g.integralSupport = false
			} else {
				g.vals[i] = 0
			}
			continue
		}

		if coverflag.Test(uint(i)) {
			g.vals[i] = math.Min(g.vals[i], lambda)
			g.rhs = g.rhs.AddFloat(g.vals[i])
		} else {
			g.vals[i] = phi(g.vals[i])
		}
	}

	return true
}
