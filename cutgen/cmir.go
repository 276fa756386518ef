// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"
	"sort"

	"github.com/curioloop/cutgen/cdouble"
)

// cmirEfficacy evaluates the MIR cut obtained from scaling the working row
// by 1/delta: efficacy is the violation divided by the Euclidean norm of the
// resulting coefficients. Reports ok=false for degenerate fractionalities
// f0 outside [0.01, 0.99] or excessive dynamism of the scaled cut.
func (g *Generator) cmirEfficacy(delta float64, contribution, sqrnorm0 cdouble.CDouble, integerinds []int) (float64, bool) {
	scale := cdouble.From(1.0).DivFloat(delta)
	scalrhs := g.rhs.Mul(scale)
	downrhs := math.Floor(scalrhs.Float64())

	f0 := scalrhs.SubFloat(downrhs)
	if f0.Float64() < 0.01 || f0.Float64() > 0.99 {
		return 0, false
	}
	oneoveroneminusf0 := cdouble.From(1.0).Div(cdouble.From(1.0).Sub(f0))
	if oneoveroneminusf0.Float64()*scale.Float64() > 1e4 {
		return 0, false
	}

	sqrnorm := scale.Mul(scale).Mul(sqrnorm0)
	viol := contribution.Mul(oneoveroneminusf0).Sub(scalrhs)

	for _, j := range integerinds {
		scalaj := scale.MulFloat(g.vals[j])
		downaj := math.Floor(scalaj.Float64())
		fj := scalaj.SubFloat(downaj)
		var aj float64
		if fj.Float64() > f0.Float64() {
			aj = cdouble.From(downaj).Add(fj).Sub(f0).Float64()
		} else {
			aj = downaj
		}

		viol = viol.AddProd(aj, g.solval[j])
		sqrnorm = sqrnorm.AddProd(aj, aj)
	}

	return viol.DivFloat(math.Sqrt(sqrnorm.Float64())).Float64(), true
}

// cmirCut runs the complemented mixed-integer rounding heuristic, the only
// derivation applicable when unbounded integer columns are present.
//
// Integer columns past half their domain width are complemented first so
// solution values trend toward zero. Candidate scaling factors are the
// distinct coefficient magnitudes of fractional integer columns in
// [1e-4, 1e4] plus 1.0 and maxabsdelta+1; the best-efficacy delta is kept,
// retried at 2·, 4· and 8·, and a greedy pass flips the complementation of
// each bounded integer column when that improves efficacy. Fails when no
// admissible delta exists.
func (g *Generator) cmirCut() bool {
	var deltas []float64

	continuouscontribution := cdouble.CDouble{}
	continuoussqrnorm := cdouble.CDouble{}
	integerinds := make([]int, 0, g.rowlen)
	maxabsdelta := 0.0

	g.ensureComplementation()

	for i := 0; i != g.rowlen; i++ {
		if g.rel.IsColIntegral(g.inds[i]) {
			integerinds = append(integerinds, i)

			if g.upper[i] < 2*g.solval[i] {
				g.flipComplement(i)
			}

			if g.solval[i] > g.feastol {
				delta := math.Abs(g.vals[i])
				if delta <= 1e-4 || delta >= 1e4 {
					continue
				}
				maxabsdelta = math.Max(maxabsdelta, delta)
				deltas = append(deltas, delta)
			}
		} else {
			continuouscontribution = continuouscontribution.AddProd(g.vals[i], g.solval[i])
			continuoussqrnorm = continuoussqrnorm.AddProd(g.vals[i], g.vals[i])
		}
	}

	if maxabsdelta+1.0 > 1e-4 && maxabsdelta+1.0 < 1e4 {
		deltas = append(deltas, maxabsdelta+1.0)
	}
	deltas = append(deltas, 1.0)

	if len(deltas) == 0 {
		return false
	}

	sort.Float64s(deltas)
	next := 1
	for i := 1; i < len(deltas); i++ {
		if deltas[i]-deltas[next-1] > g.feastol {
			deltas[next] = deltas[i]
			next++
		}
	}
	deltas = deltas[:next]

	bestdelta := -1.0
	bestefficacy := 0.0

	for _, delta := range deltas {
		efficacy, ok := g.cmirEfficacy(delta, continuouscontribution, continuoussqrnorm, integerinds)
		if ok && efficacy > bestefficacy {
			bestdelta = delta
			bestefficacy = efficacy
		}
	}

	if bestdelta == -1 {
		return false
	}

	// try if multiplying the best delta by 2, 4 or 8 gives a better efficacy
	for k := 1; k <= 3; k++ {
		delta := bestdelta * float64(int(1)<<k)
		if delta <= 1e-4 || delta >= 1e4 {
			continue
		}
		efficacy, ok := g.cmirEfficacy(delta, continuouscontribution, continuoussqrnorm, integerinds)
		if ok && efficacy > bestefficacy {
			bestdelta = delta
			bestefficacy = efficacy
		}
	}

	// try to flip the complementation of bounded integers to increase efficacy
	for _, k := range integerinds {
		if math.IsInf(g.upper[k], 1) {
			continue
		}

		g.flipComplement(k)
		efficacy, ok := g.cmirEfficacy(bestdelta, continuouscontribution, continuoussqrnorm, integerinds)
		if ok && efficacy > bestefficacy {
			bestefficacy = efficacy
		} else {
			g.flipComplement(k)
		}
	}

	// apply the final delta
	scale := cdouble.From(1.0).DivFloat(bestdelta)
	scalrhs := g.rhs.Mul(scale)
	downrhs := math.Floor(scalrhs.Float64())

	f0 := scalrhs.SubFloat(downrhs)
	oneoveroneminusf0 := cdouble.From(1.0).Div(cdouble.From(1.0).Sub(f0))

	g.rhs = cdouble.Prod(downrhs, bestdelta)
	g.integralSupport = true
	g.integralCoefficients = false
	for j := 0; j != g.rowlen; j++ {
		if g.vals[j] == 0.0 {
			continue
		}
		if !g.rel.IsColIntegral(g.inds[j]) {
			if g.vals[j] > 0.0 {
				g.vals[j] = 0.0
			} else {
				g.vals[j] = oneoveroneminusf0.MulFloat(g.vals[j]).Float64()
				g.integralSupport = false
			}
		} else {
			scalaj := scale.MulFloat(g.vals[j])
			downaj := math.Floor(scalaj.Float64())
			fj := scalaj.SubFloat(downaj)
			var aj cdouble.CDouble
			if fj.Float64() > f0.Float64() {
				aj = cdouble.From(downaj).Add(fj).Sub(f0)
			} else {
				aj = cdouble.From(downaj)
			}
			g.vals[j] = aj.MulFloat(bestdelta).Float64()
		}
	}

	return true
}
