// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cutgen derives strengthened valid inequalities ("cuts") from single
// rows of a mixed-integer program inside a branch-and-cut search.
//
// Given a base inequality 𝐚ᵀ𝐱 ≤ b expressed in a transformed space where every
// column is non-negative with a known (possibly infinite) domain width, the
// generator decides whether a violated valid inequality can be derived from it
// and, if so, submits the cut to a shared pool. The derivation never cuts off
// an integer-feasible point of the original problem.
//
// Two families of derivations are used:
//
//   - Cover lifting: a violated knapsack cover is selected and extended to the
//     full row with a superadditive lifting function. Three lifting functions
//     cover pure binary, mixed-binary and bounded mixed-integer knapsack sets.
//   - Complemented mixed-integer rounding (c-MIR): when unbounded integer
//     columns rule out cover lifting, a scaling factor δ is searched so that
//     fractional rounding of the scaled row yields a high-efficacy cut.
//
// Accumulating sums (right-hand sides, cover weights, lifting prefix sums)
// are carried in double-double precision (package cdouble) so the results do
// not depend on summation order.
//
// A Generator is not safe for concurrent use: each independent search context
// needs its own instance. The cut pool is the only shared collaborator and is
// expected to synchronize internally.
//
// Z. Gu, G.L. Nemhauser, M.W.P. Savelsbergh, 'Lifted cover inequalities for
// 0-1 integer programs', INFORMS J. Comput. 10, 1998.
// H. Marchand, L.A. Wolsey, 'Aggregation and mixed integer rounding to
// generate cuts for mixed 0-1 programs', Math. Program. 85, 1999.
package cutgen

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"

	"github.com/curioloop/cutgen/cdouble"
)

// Generator derives cuts from base inequalities row by row.
// All per-row state lives in reusable working buffers; nothing survives a
// call except read-only references to the relaxation and the pool.
type Generator struct {
	rel  Relaxation
	pool Pool

	feastol float64
	epsilon float64
	log     zerolog.Logger

	// working row in cut space, index-aligned flat arrays
	inds   []int
	vals   []float64
	upper  []float64 // domain widths, +Inf when unbounded
	solval []float64 // solution values relative to the lower bound
	rowlen int
	rhs    cdouble.CDouble
	compl  *bitset.BitSet // complementation flags, nil while unused

	cover       []int // row positions, not column indices
	coverweight cdouble.CDouble
	lambda      cdouble.CDouble // coverweight - rhs

	integralSupport      bool
	integralCoefficients bool
}

// New creates a cut generator bound to the given relaxation and cut pool.
func New(rel Relaxation, pool Pool) *Generator {
	return &Generator{
		rel:     rel,
		pool:    pool,
		feastol: rel.FeasTol(),
		epsilon: rel.Epsilon(),
		log:     zerolog.Nop(),
	}
}

// SetLogger installs a logger for debug-level generation events.
// The default logger discards everything.
func (g *Generator) SetLogger(log zerolog.Logger) { g.log = log }

// hashPair mixes a column index with the current pool size into a
// well-distributed 64-bit value (splitmix64 finalizer). Used as the final
// tie-break of the cover ordering so that repeated rounds do not
// systematically favor low column indices.
func hashPair(a, b uint32) uint64 {
	x := uint64(a)<<32 | uint64(b)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
