// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

// Relaxation exposes the read-only LP relaxation state the generator needs:
// column count, integrality flags, the current fractional solution and the
// numerical tolerances of the surrounding solver.
type Relaxation interface {
	NumCols() int
	IsColIntegral(col int) bool
	// Solution returns the current column values, indexed by column.
	Solution() []float64
	// FeasTol is the feasibility tolerance; cut violation below 10·FeasTol
	// is not worth separating.
	FeasTol() float64
	// Epsilon is the zero tolerance for coefficient comparisons.
	Epsilon() float64
}

// TransformedRow is a base inequality expressed in cut space: every column is
// shifted to be non-negative, Upper holds its domain width (+Inf when
// unbounded) and Solval the solution value relative to the lower bound.
// IntsPositive reports whether the transform managed to complement all
// integer columns to non-negative coefficients; it may fail to do so when an
// unbounded integer column is present.
type TransformedRow struct {
	Inds         []int
	Vals         []float64
	Upper        []float64
	Solval       []float64
	Rhs          float64
	IntsPositive bool
}

// Transform maps rows between the original variable space and cut space
// (bound shifting, complementation, slack substitution). A false result means
// no valid mapping exists for this row.
type Transform interface {
	Transform(inds []int, vals []float64, rhs float64) (TransformedRow, bool)
	// Untransform maps a finished cut back to the original space, mutating
	// nothing on failure. The integral hint reports whether the cut has
	// integral support and coefficients.
	Untransform(inds []int, vals []float64, rhs float64, integral bool) ([]int, []float64, float64, bool)
}

// Domain exposes column bounds of a branch-and-bound domain and the
// coefficient tightening post-pass applied to finished cuts.
type Domain interface {
	ColLower(col int) float64
	ColUpper(col int) float64
	// TightenCoefficients strengthens the cut in place and returns the
	// possibly weakened right-hand side.
	TightenCoefficients(inds []int, vals []float64, rhs float64) float64
}

// Pool is the shared repository of accepted cuts. AddCut must be internally
// synchronized and admit a logically duplicate cut at most once, returning -1
// for rejected duplicates. NumCuts is only read as a tie-break seed.
type Pool interface {
	AddCut(inds []int, vals []float64, rhs float64, integral bool) int
	NumCuts() int
}
