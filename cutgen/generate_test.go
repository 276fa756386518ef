// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioloop/cutgen/cutpool"
)

func TestGenerateCutLiftedKnapsack(t *testing.T) {
	rel := allIntegralRelax([]float64{0.5, 0.5, 0.5, 0.5})
	pool := cutpool.New()
	g := New(rel, pool)

	tr := identityTransform{upper: ones(4), solval: rel.sol}
	dom := binaryDomain(4)

	inds := []int{0, 1, 2, 3}
	vals := []float64{2, 3, 4, 5}

	require.True(t, g.GenerateCut(tr, dom, inds, vals, 6))
	require.Equal(t, 1, pool.NumCuts())

	cut := pool.Cut(0)
	assert.Equal(t, []int{0, 1, 2, 3}, cut.Inds)
	assert.Equal(t, []float64{0, 1, 2, 2}, cut.Vals)
	assert.Equal(t, 2.0, cut.Rhs)
	assert.True(t, cut.Integral)

	// resubmitting the same base inequality reproduces the cut, which the
	// pool rejects as a duplicate
	assert.False(t, g.GenerateCut(tr, dom, inds, vals, 6))
	assert.Equal(t, 1, pool.NumCuts())
}

func TestGenerateCutViolationGate(t *testing.T) {
	sol := []float64{0.5, 0.5, 0.5, 0.3}
	tr := identityTransform{upper: ones(4), solval: sol}
	dom := binaryDomain(4)
	inds := []int{0, 1, 2, 3}
	vals := []float64{2, 3, 4, 5}

	// with a loose tolerance the violation of 0.1 falls below 10·feastol
	// and the cut is withheld
	loose := &stubRelax{
		integral: []bool{true, true, true, true},
		sol:      sol, feastol: 0.02, epsilon: 1e-9,
	}
	pool := cutpool.New()
	assert.False(t, New(loose, pool).GenerateCut(tr, dom, inds, vals, 6))
	assert.Equal(t, 0, pool.NumCuts())

	// with the standard tolerance the same cut passes
	tight := &stubRelax{
		integral: []bool{true, true, true, true},
		sol:      sol, feastol: 1e-6, epsilon: 1e-9,
	}
	assert.True(t, New(tight, pool).GenerateCut(tr, dom, inds, vals, 6))
	assert.Equal(t, 1, pool.NumCuts())
}

func TestGenerateCutRejectsRedundantRow(t *testing.T) {
	rel := allIntegralRelax([]float64{0.5, 0.5})
	pool := cutpool.New()
	g := New(rel, pool)

	tr := identityTransform{upper: ones(2), solval: rel.sol}

	// maximal activity 5 never reaches the right-hand side
	assert.False(t, g.GenerateCut(tr, binaryDomain(2), []int{0, 1}, []float64{2, 3}, 6))
	assert.Equal(t, 0, pool.NumCuts())
}

func TestGenerateConflict(t *testing.T) {
	rel := &stubRelax{
		integral: []bool{true, true},
		sol:      []float64{0, 0},
		feastol:  1e-6,
		epsilon:  1e-9,
	}
	pool := &stubPool{}
	g := New(rel, pool)

	global := binaryDomain(2)
	// both columns locally fixed to zero
	local := stubDomain{lower: []float64{0, 0}, upper: []float64{0, 0}}

	// the bound proof -x₀ - x₁ ≤ -1 states that not both can be zero
	require.True(t, g.GenerateConflict(global, local, []int{0, 1}, []float64{-1, -1}, -1))
	require.Equal(t, 1, pool.NumCuts())

	assert.Equal(t, []int{0, 1}, pool.inds[0])
	assert.Equal(t, []float64{-1, -1}, pool.vals[0])
	assert.Equal(t, -1.0, pool.rhs[0])
}

func TestGenerateCutKeepsFeasibleBinaryPoints(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(1)
	properties := gopter.NewProperties(parameters)

	properties.Property("derived cuts keep every feasible 0/1 point", prop.ForAll(
		func(coefs []int, sol []float64, rhsInt int) bool {
			n := len(coefs)
			inds := make([]int, n)
			vals := make([]float64, n)
			for i := range coefs {
				inds[i] = i
				vals[i] = float64(coefs[i])
			}
			rhs := float64(rhsInt)

			rel := allIntegralRelax(sol)
			pool := &stubPool{}
			g := New(rel, pool)

			if !g.GenerateCut(identityTransform{upper: ones(n), solval: sol},
				binaryDomain(n), inds, vals, rhs) {
				return true
			}

			cutInds := pool.inds[0]
			cutVals := pool.vals[0]
			cutRhs := pool.rhs[0]

			for mask := 0; mask < 1<<n; mask++ {
				base := 0.0
				for j := 0; j < n; j++ {
					if mask&(1<<j) != 0 {
						base += vals[j]
					}
				}
				if base > rhs+1e-9 {
					continue
				}
				cut := 0.0
				for j, col := range cutInds {
					if mask&(1<<col) != 0 {
						cut += cutVals[j]
					}
				}
				if cut > cutRhs+1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.IntRange(1, 6)),
		gen.SliceOfN(4, gen.Float64Range(0, 1)),
		gen.IntRange(2, 17),
	))

	properties.TestingRun(t)
}

func TestGenerateCutKeepsFeasibleIntegerPoints(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.Rng.Seed(2)
	properties := gopter.NewProperties(parameters)

	properties.Property("derived cuts keep every feasible integer point", prop.ForAll(
		func(coefs []int, uppers []int, fracs []float64, rhsInt int) bool {
			n := len(coefs)
			inds := make([]int, n)
			vals := make([]float64, n)
			upper := make([]float64, n)
			sol := make([]float64, n)
			for i := range coefs {
				inds[i] = i
				vals[i] = float64(coefs[i])
				upper[i] = float64(uppers[i])
				sol[i] = fracs[i] * upper[i]
			}
			rhs := float64(rhsInt)

			rel := allIntegralRelax(sol)
			pool := &stubPool{}
			g := New(rel, pool)

			dom := stubDomain{lower: make([]float64, n), upper: upper}
			if !g.GenerateCut(identityTransform{upper: upper, solval: sol},
				dom, inds, vals, rhs) {
				return true
			}

			cutInds := pool.inds[0]
			cutVals := pool.vals[0]
			cutRhs := pool.rhs[0]

			point := make([]int, n)
			for {
				base := 0.0
				for j := 0; j < n; j++ {
					base += vals[j] * float64(point[j])
				}
				if base <= rhs+1e-9 {
					cut := 0.0
					for j, col := range cutInds {
						cut += cutVals[j] * float64(point[col])
					}
					if cut > cutRhs+1e-6 {
						return false
					}
				}

				k := 0
				for ; k < n; k++ {
					if point[k] < uppers[k] {
						point[k]++
						break
					}
					point[k] = 0
				}
				if k == n {
					return true
				}
			}
		},
		gen.SliceOfN(3, gen.IntRange(1, 5)),
		gen.SliceOfN(3, gen.IntRange(1, 3)),
		gen.SliceOfN(3, gen.Float64Range(0, 1)),
		gen.IntRange(2, 20),
	))

	properties.TestingRun(t)
}
