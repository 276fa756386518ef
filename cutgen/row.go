// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/curioloop/cutgen/cdouble"
)

// loadRow copies a transformed base inequality into the working buffers.
func (g *Generator) loadRow(inds []int, vals, upper, solval []float64, rhs float64) {
	g.inds = append(g.inds[:0], inds...)
	g.vals = append(g.vals[:0], vals...)
	g.upper = append(g.upper[:0], upper...)
	g.solval = append(g.solval[:0], solval...)
	g.rowlen = len(inds)
	g.rhs = cdouble.From(rhs)
	g.compl = nil
	g.integralSupport = false
	g.integralCoefficients = false
}

// ensureComplementation allocates the complementation flags on first use.
func (g *Generator) ensureComplementation() {
	if g.compl == nil {
		g.compl = bitset.New(uint(g.rowlen))
	}
}

// removeZeros compacts the row in place by swapping zeroed terms with the
// last term and shrinking. All side arrays, including the complementation
// flags when present, move in lockstep.
func (g *Generator) removeZeros(numZeros int) {
	for i := g.rowlen - 1; i >= 0 && numZeros > 0; i-- {
		if g.vals[i] != 0.0 {
			continue
		}
		g.rowlen--
		g.inds[i] = g.inds[g.rowlen]
		g.vals[i] = g.vals[g.rowlen]
		g.upper[i] = g.upper[g.rowlen]
		g.solval[i] = g.solval[g.rowlen]
		if g.compl != nil {
			g.compl.SetTo(uint(i), g.compl.Test(uint(g.rowlen)))
		}
		numZeros--
	}
}

// flipComplement substitutes term i by (width - x), flipping its coefficient
// sign and toggling the complementation flag. Self-inverse.
func (g *Generator) flipComplement(i int) {
	g.compl.Flip(uint(i))
	g.rhs = g.rhs.SubProd(g.upper[i], g.vals[i])
	g.vals[i] = -g.vals[i]
	g.solval[i] = g.upper[i] - g.solval[i]
}
