// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/curioloop/cutgen/cdouble"
)

// derive runs the derivation selected by the preprocessing classification on
// the working row.
func (g *Generator) derive(hasUnboundedInts, hasGeneralInts, hasContinuous bool, lpSol bool) bool {
	if hasUnboundedInts {
		// the lifting functions need finite domain widths
		return g.cmirCut()
	}

	// the cover does not need to be minimal: none of the lifting functions
	// has minimality of the cover as a necessary facet condition
	if !g.determineCover(lpSol) {
		return false
	}

	switch {
	case !hasContinuous && !hasGeneralInts:
		g.liftKnapsackCover()
		return true
	case hasGeneralInts:
		return g.liftMixedIntegerCover()
	default:
		return g.liftMixedBinaryCover()
	}
}

// GenerateCut derives a cut from the base inequality inds·vals ≤ rhs given in
// original variable space, using the current LP solution.
//
// The row is mapped to cut space, preprocessed, complemented where integer
// coefficients remained negative, run through c-MIR or cover lifting
// depending on its structure, postprocessed, mapped back and checked for
// violation against the live solution. Only a cut violated by more than
// 10·feastol is coefficient-tightened and submitted to the pool. Returns true
// iff the pool accepted the cut; every failure mode reports false.
func (g *Generator) GenerateCut(tr Transform, dom Domain, inds []int, vals []float64, rhs float64) bool {
	row, ok := tr.Transform(inds, vals, rhs)
	if !ok {
		return false
	}
	g.loadRow(row.Inds, row.Vals, row.Upper, row.Solval, row.Rhs)

	hasUnboundedInts, hasGeneralInts, hasContinuous, ok := g.preprocessBaseInequality()
	if !ok {
		g.log.Debug().Msg("base inequality rejected by preprocessing")
		return false
	}

	// an unbounded integer may have kept the transform from complementing
	// all integers to positive coefficients, and preprocessing may since
	// have cancelled that column: complement the remaining negative integer
	// coefficients here so the lifted inequalities stay applicable
	if !hasUnboundedInts && !row.IntsPositive {
		g.ensureComplementation()
		for i := 0; i != g.rowlen; i++ {
			if g.vals[i] > 0 || !g.rel.IsColIntegral(g.inds[i]) {
				continue
			}
			g.compl.Flip(uint(i))
			g.rhs = g.rhs.SubProd(g.upper[i], g.vals[i])
			g.vals[i] = -g.vals[i]
		}
	}

	if !g.derive(hasUnboundedInts, hasGeneralInts, hasContinuous, true) {
		g.log.Debug().
			Bool("unboundedInts", hasUnboundedInts).
			Bool("generalInts", hasGeneralInts).
			Bool("continuous", hasContinuous).
			Msg("no cut derived from base inequality")
		return false
	}

	// scaling and removal of small coefficients
	if !g.postprocessCut() {
		return false
	}

	// remove the complementation before leaving cut space
	if g.compl != nil {
		for i := 0; i != g.rowlen; i++ {
			if g.compl.Test(uint(i)) {
				g.rhs = g.rhs.SubProd(g.upper[i], g.vals[i])
				g.vals[i] = -g.vals[i]
			}
		}
	}

	cutIntegral := g.integralSupport && g.integralCoefficients
	outInds, outVals, outRhs, ok := tr.Untransform(
		g.inds[:g.rowlen], g.vals[:g.rowlen], g.rhs.Float64(), cutIntegral)
	if !ok {
		return false
	}

	// determine the violation of the cut in the original space
	sol := g.rel.Solution()
	violation := cdouble.From(-outRhs)
	for i := range outInds {
		violation = violation.AddProd(sol[outInds[i]], outVals[i])
	}

	if violation.Float64() <= 10*g.feastol {
		g.log.Debug().
			Float64("violation", violation.Float64()).
			Msg("cut not sufficiently violated")
		return false
	}

	outRhs = dom.TightenCoefficients(outInds, outVals, outRhs)

	cutindex := g.pool.AddCut(outInds, outVals, outRhs, cutIntegral)
	g.log.Debug().
		Int("cut", cutindex).
		Int("len", len(outInds)).
		Float64("violation", violation.Float64()).
		Bool("integral", cutIntegral).
		Msg("cut submitted")

	// true only if the cut was no duplicate of a pool member
	return cutindex != -1
}

// GenerateConflict derives a cut from a proof of infeasibility over domain
// bounds. The row is given in original variable space; complementation and
// domain widths are built from the difference of the global and local bounds
// instead of the LP transform, and the violation gate does not apply: a
// conflict is a logical implication, not an LP-violated cut.
func (g *Generator) GenerateConflict(global, local Domain, inds []int, vals []float64, rhs float64) bool {
	g.inds = append(g.inds[:0], inds...)
	g.vals = append(g.vals[:0], vals...)
	g.rowlen = len(inds)
	g.rhs = cdouble.From(rhs)
	g.integralSupport = false
	g.integralCoefficients = false

	g.compl = bitset.New(uint(g.rowlen))
	g.upper = resize(g.upper, g.rowlen)
	g.solval = resize(g.solval, g.rowlen)

	for i := 0; i != g.rowlen; i++ {
		col := g.inds[i]
		g.upper[i] = global.ColUpper(col) - global.ColLower(col)

		if g.vals[i] < 0 && !math.IsInf(global.ColUpper(col), 1) {
			g.rhs = g.rhs.SubProd(global.ColUpper(col), g.vals[i])
			g.vals[i] = -g.vals[i]
			g.compl.Set(uint(i))
			g.solval[i] = global.ColUpper(col) - local.ColUpper(col)
		} else {
			g.rhs = g.rhs.SubProd(global.ColLower(col), g.vals[i])
			g.solval[i] = local.ColLower(col) - global.ColLower(col)
		}
	}

	hasUnboundedInts, hasGeneralInts, hasContinuous, ok := g.preprocessBaseInequality()
	if !ok {
		return false
	}

	if !g.derive(hasUnboundedInts, hasGeneralInts, hasContinuous, false) {
		return false
	}

	if !g.postprocessCut() {
		return false
	}

	// remove the complementation against the global bounds
	for i := 0; i != g.rowlen; i++ {
		if g.compl.Test(uint(i)) {
			g.rhs = g.rhs.SubProd(global.ColUpper(g.inds[i]), g.vals[i])
			g.vals[i] = -g.vals[i]
		} else {
			g.rhs = g.rhs.AddProd(global.ColLower(g.inds[i]), g.vals[i])
		}
	}

	// compact zeros in place; the side arrays are no longer needed
	for i := g.rowlen - 1; i >= 0; i-- {
		if g.vals[i] == 0.0 {
			g.rowlen--
			g.inds[i] = g.inds[g.rowlen]
			g.vals[i] = g.vals[g.rowlen]
		}
	}

	outInds := g.inds[:g.rowlen]
	outVals := g.vals[:g.rowlen]
	cutIntegral := g.integralSupport && g.integralCoefficients

	outRhs := global.TightenCoefficients(outInds, outVals, g.rhs.Float64())

	return g.pool.AddCut(outInds, outVals, outRhs, cutIntegral) != -1
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
