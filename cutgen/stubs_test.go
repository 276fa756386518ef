// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import "math"

// stubRelax is a fixed LP relaxation snapshot.
type stubRelax struct {
	integral []bool
	sol      []float64
	feastol  float64
	epsilon  float64
}

func (r *stubRelax) NumCols() int               { return len(r.integral) }
func (r *stubRelax) IsColIntegral(col int) bool { return r.integral[col] }
func (r *stubRelax) Solution() []float64        { return r.sol }
func (r *stubRelax) FeasTol() float64           { return r.feastol }
func (r *stubRelax) Epsilon() float64           { return r.epsilon }

// allIntegralRelax builds a relaxation where every column is integral.
func allIntegralRelax(sol []float64) *stubRelax {
	integral := make([]bool, len(sol))
	for i := range integral {
		integral[i] = true
	}
	return &stubRelax{integral: integral, sol: sol, feastol: 1e-6, epsilon: 1e-9}
}

// stubPool accepts every cut and never reports duplicates.
type stubPool struct {
	inds [][]int
	vals [][]float64
	rhs  []float64
}

func (p *stubPool) AddCut(inds []int, vals []float64, rhs float64, integral bool) int {
	p.inds = append(p.inds, append([]int(nil), inds...))
	p.vals = append(p.vals, append([]float64(nil), vals...))
	p.rhs = append(p.rhs, rhs)
	return len(p.rhs) - 1
}

func (p *stubPool) NumCuts() int { return len(p.rhs) }

// identityTransform maps rows unchanged: columns are assumed already
// non-negative with the given widths, so cut space equals original space.
type identityTransform struct {
	upper  []float64
	solval []float64
}

func (t identityTransform) Transform(inds []int, vals []float64, rhs float64) (TransformedRow, bool) {
	upper := make([]float64, len(inds))
	solval := make([]float64, len(inds))
	for i, col := range inds {
		upper[i] = t.upper[col]
		solval[i] = t.solval[col]
	}
	return TransformedRow{
		Inds:         append([]int(nil), inds...),
		Vals:         append([]float64(nil), vals...),
		Upper:        upper,
		Solval:       solval,
		Rhs:          rhs,
		IntsPositive: true,
	}, true
}

func (t identityTransform) Untransform(inds []int, vals []float64, rhs float64, integral bool) ([]int, []float64, float64, bool) {
	return inds, vals, rhs, true
}

// stubDomain holds fixed bounds and applies no coefficient tightening.
type stubDomain struct {
	lower []float64
	upper []float64
}

func (d stubDomain) ColLower(col int) float64 { return d.lower[col] }
func (d stubDomain) ColUpper(col int) float64 { return d.upper[col] }
func (d stubDomain) TightenCoefficients(inds []int, vals []float64, rhs float64) float64 {
	return rhs
}

// binaryDomain is the unit box over n columns.
func binaryDomain(n int) stubDomain {
	return stubDomain{lower: make([]float64, n), upper: ones(n)}
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func newTestGen(rel Relaxation) *Generator { return New(rel, &stubPool{}) }

var posInf = math.Inf(1)
