// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/cutgen/cdouble"
)

// postprocessCut stabilizes the finished cut numerically without weakening
// its validity beyond necessity.
//
// Cuts with integral support get coefficients below max(100·feastol·maxabs,
// epsilon) removed by bound substitution, then an integral rescaling is
// attempted: a common scale that makes every coefficient an exact integer,
// kept only while all scaled values stay representable below 2⁵³. Where
// rounding would have strengthened a coefficient the upper-bound constraint
// is added instead, weakening the right-hand side, which is floored at the
// end. Without a safe integral scale the cut is shifted by a power-of-two
// exponent so the smallest coefficient magnitude approaches one. Cuts without
// integral support only get the exponent shift and the relative
// small-coefficient removal. Fails when a removal would need an infinite
// bound.
func (g *Generator) postprocessCut() bool {
	if g.integralSupport {
		if g.integralCoefficients {
			return true
		}

		// with integral support a maximal dynamism of 1e4 is allowed
		maxAbsValue := floats.Norm(g.vals[:g.rowlen], math.Inf(1))
		minCoefficientValue := math.Max(maxAbsValue*100*g.feastol, g.epsilon)

		for i := 0; i != g.rowlen; i++ {
			if g.vals[i] == 0 {
				continue
			}
			if math.Abs(g.vals[i]) <= minCoefficientValue {
				if g.vals[i] < 0 {
					if math.IsInf(g.upper[i], 1) {
						return false
					}
					g.rhs = g.rhs.SubProd(g.upper[i], g.vals[i])
				}
				g.vals[i] = 0.0
			}
		}

		nonzerovals := make([]float64, 0, g.rowlen)
		for i := 0; i != g.rowlen; i++ {
			if g.vals[i] != 0 {
				nonzerovals = append(nonzerovals, g.vals[i])
			}
		}

		intscale := integralScale(nonzerovals, g.feastol, g.epsilon)

		scaleSmallestValToOne := true

		if intscale != 0.0 &&
			intscale*math.Max(1.0, maxAbsValue) <= float64(uint64(1)<<53) {
			// A scale that makes all values integral was found. It is only
			// rejected in a range where not all integral values are
			// representable in double precision anymore; otherwise it is
			// always applied for numerical safety. If the resulting values
			// are too large the cut is scaled back down by an exponent
			// shift.
			g.rhs = g.rhs.Renormalize().MulFloat(intscale)
			maxAbsValue = math.Round(maxAbsValue * intscale)
			for i := 0; i != g.rowlen; i++ {
				if g.vals[i] == 0.0 {
					continue
				}

				scaleval := cdouble.Prod(intscale, g.vals[i])
				intval := scaleval.Round()
				delta := scaleval.Sub(intval).Float64()

				g.vals[i] = intval.Float64()

				// where rounding would strengthen the coefficient, add the
				// upper bound constraint to make it exactly integral and
				// weaken the right-hand side instead
				if delta < 0.0 {
					if math.IsInf(g.upper[i], 1) {
						return false
					}
					g.rhs = g.rhs.SubProd(delta, g.upper[i])
				}
			}

			// rounding down the right-hand side mostly absorbs the small
			// errors for which bound constraints were used above
			g.rhs = g.rhs.AddFloat(g.epsilon).Floor()

			if intscale*maxAbsValue*g.feastol <= 1.0 {
				scaleSmallestValToOne = false
				g.integralCoefficients = true
			}
		}

		if scaleSmallestValToOne {
			minAbsValue := math.Inf(1)
			for i := 0; i != g.rowlen; i++ {
				if g.vals[i] == 0.0 {
					continue
				}
				minAbsValue = math.Min(math.Abs(g.vals[i]), minAbsValue)
			}

			_, expshift := math.Frexp(minAbsValue - g.epsilon)
			expshift = -expshift

			g.rhs = cdouble.From(math.Ldexp(g.rhs.Float64(), expshift))

			for i := 0; i != g.rowlen; i++ {
				if g.vals[i] == 0 {
					continue
				}
				g.vals[i] = math.Ldexp(g.vals[i], expshift)
			}
		}
	} else {
		maxAbsValue := floats.Norm(g.vals[:g.rowlen], math.Inf(1))

		_, expshift := math.Frexp(maxAbsValue)
		expshift = -expshift

		minCoefficientValue := math.Ldexp(maxAbsValue*100*g.feastol, expshift)
		g.rhs = cdouble.From(math.Ldexp(g.rhs.Float64(), expshift))

		for i := 0; i != g.rowlen; i++ {
			if g.vals[i] == 0.0 {
				continue
			}

			g.vals[i] = math.Ldexp(g.vals[i], expshift)

			if math.Abs(g.vals[i]) <= minCoefficientValue {
				if g.vals[i] < 0.0 {
					if math.IsInf(g.upper[i], 1) {
						return false
					}
					g.rhs = g.rhs.SubProd(g.vals[i], g.upper[i])
				} else {
					g.vals[i] = 0.0
				}
			}
		}
	}

	return true
}
