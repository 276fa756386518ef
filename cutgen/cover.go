// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"
	"sort"

	"github.com/curioloop/cutgen/cdouble"
)

// determineCover selects a subset C of the integer terms whose width-weighted
// coefficient sum exceeds the right-hand side by λ = coverweight - rhs.
//
// When lpSol is set, terms sitting at their upper bound in the current
// solution enter the cover unconditionally; the remaining candidates are
// taken in order of decreasing activity contribution solval·val, with the
// coefficient as secondary key and a hash of (column, pool size) as the final
// tie-break. Terms are added until λ exceeds max(10·feastol, feastol·|rhs|).
//
// The cover is not required to be inclusion-minimal: none of the lifting
// functions needs minimality as a facet condition.
func (g *Generator) determineCover(lpSol bool) bool {
	if g.rhs.Float64() <= 10*g.feastol {
		return false
	}

	g.cover = g.cover[:0]
	for j := 0; j != g.rowlen; j++ {
		if !g.rel.IsColIntegral(g.inds[j]) {
			continue
		}
		if g.solval[j] <= g.feastol {
			continue
		}
		g.cover = append(g.cover, j)
	}

	maxCoverSize := len(g.cover)
	coversize := 0
	g.coverweight = cdouble.CDouble{}
	if lpSol {
		// take all variables that sit at their upper bound into the cover
		for i, j := range g.cover {
			if g.solval[j] >= g.upper[j]-g.feastol {
				g.cover[i], g.cover[coversize] = g.cover[coversize], g.cover[i]
				coversize++
			}
		}
		for i := 0; i != coversize; i++ {
			j := g.cover[i]
			g.coverweight = g.coverweight.AddProd(g.vals[j], g.upper[j])
		}
	}

	// sort the remaining variables by their contribution to the row activity
	// in the current solution
	numCuts := uint32(g.pool.NumCuts())
	rest := g.cover[coversize:maxCoverSize]
	sort.Slice(rest, func(a, b int) bool {
		i, j := rest[a], rest[b]
		contributionA := g.solval[i] * g.vals[i]
		contributionB := g.solval[j] * g.vals[j]

		// for equal contributions take the larger coefficient first because
		// this makes some of the lifting functions more likely to generate
		// a facet
		if math.Abs(contributionA-contributionB) <= g.feastol {
			if math.Abs(g.vals[i]-g.vals[j]) <= g.feastol {
				return hashPair(uint32(g.inds[i]), numCuts) >
					hashPair(uint32(g.inds[j]), numCuts)
			}
			return g.vals[i] > g.vals[j]
		}
		return contributionA > contributionB
	})

	minlambda := math.Max(10*g.feastol, g.feastol*math.Abs(g.rhs.Float64()))

	for ; coversize != maxCoverSize; coversize++ {
		lambda := g.coverweight.Sub(g.rhs).Float64()
		if lambda > minlambda {
			break
		}
		j := g.cover[coversize]
		g.coverweight = g.coverweight.AddProd(g.vals[j], g.upper[j])
	}
	if coversize == 0 {
		return false
	}

	g.coverweight = g.coverweight.Renormalize()
	g.lambda = g.coverweight.Sub(g.rhs)

	if g.lambda.Float64() <= minlambda {
		return false
	}

	g.cover = g.cover[:coversize]
	return true
}
