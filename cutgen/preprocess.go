// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// preprocessBaseInequality cleans and classifies the working row before any
// derivation runs:
//
//  1. rescale by a power of two derived from the largest coefficient so all
//     magnitudes sit in a well-conditioned range
//  2. cancel coefficients at or below the feasibility tolerance against the
//     column bounds, rejecting the row when an infinite bound would be needed
//  3. classify the row (continuous / general integer / unbounded integer)
//     while accumulating the maximal activity
//  4. cap the density at 100 + 0.15·numCols by cancelling the smallest
//     safely-cancelable terms (slack at or below the tolerance)
//
// Returns ok=false when no cut can come from this row: a bound substitution
// hit an infinite bound, too few terms were safely cancelable, or the row is
// trivially satisfied (maxact ≤ rhs).
func (g *Generator) preprocessBaseInequality() (hasUnboundedInts, hasGeneralInts, hasContinuous, ok bool) {
	numZeros := 0
	maxact := -g.feastol

	maxAbsVal := floats.Norm(g.vals[:g.rowlen], math.Inf(1))
	_, expshift := math.Frexp(maxAbsVal)
	expshift = -expshift
	g.rhs = g.rhs.MulFloat(math.Ldexp(1.0, expshift))
	floats.Scale(math.Ldexp(1.0, expshift), g.vals[:g.rowlen])

	for i := 0; i != g.rowlen; i++ {
		if math.Abs(g.vals[i]) <= g.feastol {
			if g.vals[i] < 0 {
				if math.IsInf(g.upper[i], 1) {
					return hasUnboundedInts, hasGeneralInts, hasContinuous, false
				}
				g.rhs = g.rhs.SubProd(g.vals[i], g.upper[i])
			}
			numZeros++
			g.vals[i] = 0.0
			continue
		}

		if !g.rel.IsColIntegral(g.inds[i]) {
			hasContinuous = true
			if g.vals[i] > 0 {
				if math.IsInf(g.upper[i], 1) {
					maxact = math.Inf(1)
				} else {
					maxact += g.vals[i] * g.upper[i]
				}
			}
		} else {
			if math.IsInf(g.upper[i], 1) {
				hasUnboundedInts = true
				hasGeneralInts = true
				if g.vals[i] > 0 {
					maxact = math.Inf(1)
				}
			} else {
				if g.upper[i] != 1.0 {
					hasGeneralInts = true
				}
				if g.vals[i] > 0 {
					maxact += g.vals[i] * g.upper[i]
				}
			}
		}
	}

	maxLen := 100 + int(0.15*float64(g.rel.NumCols()))

	if g.rowlen-numZeros > maxLen {
		numCancel := g.rowlen - numZeros - maxLen
		var cancelNzs []int

		for i := 0; i != g.rowlen; i++ {
			cancelSlack := g.solval[i]
			if g.vals[i] <= 0 {
				cancelSlack = g.upper[i] - g.solval[i]
			}
			if cancelSlack <= g.feastol {
				cancelNzs = append(cancelNzs, i)
			}
		}

		if len(cancelNzs) < numCancel {
			return hasUnboundedInts, hasGeneralInts, hasContinuous, false
		}
		if len(cancelNzs) > numCancel {
			sort.Slice(cancelNzs, func(a, b int) bool {
				return math.Abs(g.vals[cancelNzs[a]]) < math.Abs(g.vals[cancelNzs[b]])
			})
		}

		for i := 0; i < numCancel; i++ {
			j := cancelNzs[i]
			if g.vals[j] < 0 {
				g.rhs = g.rhs.SubProd(g.vals[j], g.upper[j])
			} else {
				maxact -= g.vals[j] * g.upper[j]
			}
			g.vals[j] = 0.0
		}

		numZeros += numCancel
	}

	if numZeros != 0 {
		g.removeZeros(numZeros)
	}

	return hasUnboundedInts, hasGeneralInts, hasContinuous, maxact > g.rhs.Float64()
}
