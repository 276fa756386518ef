// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineCoverPicksLargestContributions(t *testing.T) {
	g := newTestGen(allIntegralRelax([]float64{0.5, 0.5, 0.5, 0.5}))
	g.loadRow([]int{0, 1, 2, 3}, []float64{2, 3, 4, 5}, ones(4), []float64{0.5, 0.5, 0.5, 0.5}, 6)

	require.True(t, g.determineCover(true))

	// terms enter by decreasing solval·val until the excess λ is positive
	assert.Equal(t, []int{3, 2}, g.cover)
	assert.InDelta(t, 9, g.coverweight.Float64(), 1e-12)
	assert.InDelta(t, 3, g.lambda.Float64(), 1e-12)
}

func TestDetermineCoverTakesUpperBoundTermsFirst(t *testing.T) {
	g := newTestGen(allIntegralRelax([]float64{1.0, 0.5, 0.5, 0.5}))
	g.loadRow([]int{0, 1, 2, 3}, []float64{2, 3, 4, 5}, ones(4), []float64{1.0, 0.5, 0.5, 0.5}, 6)

	require.True(t, g.determineCover(true))

	assert.Equal(t, []int{0, 3}, g.cover)
	assert.InDelta(t, 1, g.lambda.Float64(), 1e-12)
}

func TestDetermineCoverIgnoresUpperBoundsWithoutSolution(t *testing.T) {
	g := newTestGen(allIntegralRelax([]float64{1.0, 0.5, 0.5, 0.5}))
	g.loadRow([]int{0, 1, 2, 3}, []float64{2, 3, 4, 5}, ones(4), []float64{1.0, 0.5, 0.5, 0.5}, 6)

	require.True(t, g.determineCover(false))

	// without the at-upper pass the contribution of term 0 ranks last
	assert.Equal(t, []int{3, 2}, g.cover)
}

func TestDetermineCoverWeightMonotoneInWidth(t *testing.T) {
	weight := func(upper3 float64) float64 {
		g := newTestGen(allIntegralRelax([]float64{0.5, 0.5, 0.5, 0.5}))
		upper := ones(4)
		upper[3] = upper3
		g.loadRow([]int{0, 1, 2, 3}, []float64{2, 3, 4, 5}, upper, []float64{0.5, 0.5, 0.5, 0.5}, 6)
		require.True(t, g.determineCover(true))
		return g.coverweight.Float64()
	}

	// widening a cover member cannot shrink the cover weight
	assert.GreaterOrEqual(t, weight(2), weight(1))
}

func TestDetermineCoverRejectsTinyRhs(t *testing.T) {
	g := newTestGen(allIntegralRelax([]float64{0.5}))
	g.loadRow([]int{0}, []float64{2}, ones(1), []float64{0.5}, 1e-6)

	assert.False(t, g.determineCover(true))
}

func TestDetermineCoverRejectsZeroSolution(t *testing.T) {
	g := newTestGen(allIntegralRelax([]float64{0, 0}))
	g.loadRow([]int{0, 1}, []float64{2, 3}, ones(2), []float64{0, 0}, 4)

	assert.False(t, g.determineCover(true))
}

func TestDetermineCoverSkipsContinuousTerms(t *testing.T) {
	rel := &stubRelax{
		integral: []bool{true, false, true},
		sol:      []float64{0.5, 0.5, 0.5},
		feastol:  1e-6,
		epsilon:  1e-9,
	}
	g := newTestGen(rel)
	g.loadRow([]int{0, 1, 2}, []float64{4, 9, 5}, ones(3), []float64{0.5, 0.5, 0.5}, 6)

	require.True(t, g.determineCover(true))
	for _, j := range g.cover {
		assert.NotEqual(t, 1, j)
	}
}

func TestDetermineCoverIsDeterministic(t *testing.T) {
	// identical contributions and coefficients fall through to the hash
	// tie-break, which must be stable for a fixed pool size
	run := func() []int {
		g := newTestGen(allIntegralRelax([]float64{0.5, 0.5, 0.5}))
		g.loadRow([]int{0, 1, 2}, []float64{3, 3, 3}, ones(3), []float64{0.5, 0.5, 0.5}, 4)
		require.True(t, g.determineCover(true))
		return append([]int(nil), g.cover...)
	}

	assert.Equal(t, run(), run())
}
