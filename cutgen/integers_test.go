// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGcd64(t *testing.T) {
	assert.Equal(t, uint64(6), gcd64(12, 18))
	assert.Equal(t, uint64(5), gcd64(0, 5))
	assert.Equal(t, uint64(7), gcd64(7, 0))
	assert.Equal(t, uint64(1), gcd64(13, 27))
}

func TestDenominator(t *testing.T) {
	assert.Equal(t, int64(4), denominator(0.25, 1e-9, 1000))
	assert.Equal(t, int64(7), denominator(1.0/7, 1e-9, 1000))
	assert.Equal(t, int64(3), denominator(2.0/3, 1e-9, 1000))

	// integral input needs no denominator
	assert.Equal(t, int64(1), denominator(3.0, 1e-9, 1000))

	// the expansion is capped when it overshoots
	assert.Equal(t, int64(10), denominator(0.14159265358979, 1e-12, 10))
}

func TestIntegralScale(t *testing.T) {
	// thirds are covered by the 75·2ᵏ seed denominator
	scale := integralScale([]float64{1.0 / 3, 2.0 / 3}, 1e-6, 1e-9)
	assert.InDelta(t, 3, scale, 1e-12)

	scale = integralScale([]float64{0.5, 0.25}, 1e-6, 1e-9)
	assert.InDelta(t, 4, scale, 1e-12)

	scale = integralScale([]float64{1, 3, 4}, 1e-6, 1e-9)
	assert.InDelta(t, 1, scale, 1e-12)

	// fifths combined with a power of two
	scale = integralScale([]float64{0.2, 0.6, 1.0}, 1e-6, 1e-9)
	assert.InDelta(t, 5, scale, 1e-12)
}

func TestIntegralScaleFails(t *testing.T) {
	assert.Equal(t, 0.0, integralScale(nil, 1e-6, 1e-9))

	// magnitudes this small would need an exponent shift beyond the guard
	assert.Equal(t, 0.0, integralScale([]float64{1e-16}, 1e-6, 1e-9))
}

func TestIntegralScaleRoundTrip(t *testing.T) {
	vals := []float64{0.5, 1.5, 2.0}
	scale := integralScale(vals, 1e-6, 1e-9)
	assert.InDelta(t, 2, scale, 1e-12)
	for _, v := range vals {
		scaled := v * scale
		assert.InDelta(t, scaled, float64(int64(scaled+0.5)), 1e-9)
	}
}
