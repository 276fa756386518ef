// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutgen

import (
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/curioloop/cutgen/cdouble"
)

// liftMixedIntegerCover lifts a cover of a bounded mixed-integer knapsack set.
//
// One cover column l serves as the lifting base of an MIR-style inequality;
// candidates are scanned for the one most likely to satisfy the facet
// conditions of the superadditive function γ, preferring columns not at their
// upper bound, then the highest score m(C⁺) + η·a_l. The base needs a
// non-degenerate gap μ = u_l·a_l - λ > 10·feastol, a coefficient above
// 1000·feastol and a non-integral μ/a_l. Two piecewise lifting functions
// parameterized by η = ⌈μ/a_l⌉ and the remainder r = μ - ⌊μ/a_l⌋·a_l are then
// applied: φ_l to the cover terms and γ_l to the rest. Fails when no valid
// lifting base exists.
func (g *Generator) liftMixedIntegerCover() bool {
	coversize := len(g.cover)

	coverflag := bitset.New(uint(g.rowlen))
	for _, i := range g.cover {
		coverflag.Set(uint(i))
	}

	sort.Slice(g.cover, func(x, y int) bool {
		return g.vals[g.cover[x]] > g.vals[g.cover[y]]
	})

	a := make([]cdouble.CDouble, coversize)
	u := make([]cdouble.CDouble, coversize+1)
	m := make([]cdouble.CDouble, coversize+1)

	// partial sums of the upper bounds and the weighted contributions
	usum := cdouble.CDouble{}
	msum := cdouble.CDouble{}
	for c := 0; c != coversize; c++ {
		i := g.cover[c]
		u[c] = usum
		m[c] = msum
		a[c] = cdouble.From(g.vals[i])
		ub := g.upper[i]
		usum = usum.AddFloat(ub)
		msum = msum.Add(a[c].MulFloat(ub))
	}
	u[coversize] = usum
	m[coversize] = msum

	// select the cover variable to build the MIR inequality from: the one
	// with the highest chance of satisfying the facet conditions for the
	// superadditive lifting function, preferring variables not at their
	// upper bound
	lpos := -1
	bestlCplusend := -1
	bestlVal := 0.0
	bestlAtUpper := true

	for i := 0; i != coversize; i++ {
		j := g.cover[i]
		ub := g.upper[j]

		atUpper := g.solval[j] >= ub-g.feastol
		if atUpper && !bestlAtUpper {
			continue
		}

		mju := ub * g.vals[j]
		mu := cdouble.From(mju).Sub(g.lambda)

		if mu.Float64() <= 10*g.feastol {
			continue
		}
		if math.Abs(g.vals[j]) < 1000*g.feastol {
			continue
		}

		mudival := mu.DivFloat(g.vals[j]).Float64()
		if math.Abs(math.Round(mudival)-mudival) <= g.feastol {
			continue
		}
		eta := math.Ceil(mudival)

		ulminusetaplusone := cdouble.From(ub).SubFloat(eta).AddFloat(1.0)
		cplusthreshold := ulminusetaplusone.MulFloat(g.vals[j]).Float64()

		// first cover position whose coefficient drops below the threshold
		cplusend := sort.Search(coversize, func(k int) bool {
			return cplusthreshold > g.vals[g.cover[k]]
		})

		mcplus := m[cplusend]
		if i < cplusend {
			mcplus = mcplus.SubFloat(mju)
		}

		jlVal := mcplus.AddProd(eta, g.vals[j]).Float64()

		if jlVal > bestlVal || (!atUpper && bestlAtUpper) {
			lpos = i
			bestlCplusend = cplusend
			bestlVal = jlVal
			bestlAtUpper = atUpper
		}
	}

	if lpos == -1 {
		return false
	}

	l := g.cover[lpos]
	al := cdouble.From(g.vals[l])
	upperl := g.upper[l]
	mlu := al.MulFloat(upperl)
	mu := mlu.Sub(g.lambda)

	a = a[:bestlCplusend]
	g.cover = g.cover[:bestlCplusend]
	u = u[:bestlCplusend+1]
	m = m[:bestlCplusend+1]

	if lpos < bestlCplusend {
		a = append(a[:lpos], a[lpos+1:]...)
		g.cover = append(g.cover[:lpos], g.cover[lpos+1:]...)
		u = append(u[:lpos+1], u[lpos+2:]...)
		m = append(m[:lpos+1], m[lpos+2:]...)
		for i := lpos + 1; i < bestlCplusend; i++ {
			u[i] = u[i].SubFloat(upperl)
			m[i] = m[i].Sub(mlu)
		}
	}

	cplussize := len(a)

	mudival := mu.Div(al).Float64()
	eta := math.Ceil(mudival)
	r := mu.Sub(al.MulFloat(math.Floor(mudival)))
	// r multiplies lifted terms, so guard against a tiny negative residue
	// flipping its sign
	if r.Float64() < 0 {
		r = cdouble.CDouble{}
	}

	ulminusetaplusone := cdouble.From(upperl).SubFloat(eta).AddFloat(1.0)
	cplusthreshold := ulminusetaplusone.Mul(al)

	alminusr := al.Sub(r)
	alF := al.Float64()

	kmin := int64(math.Floor(eta - upperl - 0.5))

	phiL := func(z float64) float64 {
		// z < 0 on every call
		k := min(int64(z/alF), int64(-1))

		for ; k >= kmin; k-- {
			kal := al.MulFloat(float64(k))
			if z >= kal.Add(r).Float64() {
				return cdouble.From(z).Sub(r.MulFloat(float64(k + 1))).Float64()
			}
			if z >= kal.Float64() {
				return alminusr.MulFloat(float64(k)).Float64()
			}
		}
		return alminusr.MulFloat(float64(kmin)).Float64()
	}

	kmax := int64(math.Floor(upperl - eta + 0.5))

	gammaL := func(z float64) float64 {
		// z > 0 on every call
		for i := 0; i < cplussize; i++ {
			upperi := int(g.upper[g.cover[i]])

			for h := 0; h <= upperi; h++ {
				mih := m[i].Add(a[i].MulFloat(float64(h)))
				uih := u[i].AddFloat(float64(h))
				mihplusdeltai := mih.Add(a[i]).Sub(cplusthreshold)
				if z <= mihplusdeltai.Float64() {
					return uih.Mul(ulminusetaplusone).Mul(alminusr).Float64()
				}

				k := int64(cdouble.From(z).Sub(mihplusdeltai).Div(al).Float64()) - 1
				for ; k <= kmax; k++ {
					if z <= mihplusdeltai.Add(al.MulFloat(float64(k))).Add(r).Float64() {
						return uih.Mul(ulminusetaplusone).AddFloat(float64(k)).
							Mul(alminusr).Float64()
					}
					if z <= mihplusdeltai.Add(al.MulFloat(float64(k + 1))).Float64() {
						return uih.Mul(ulminusetaplusone).Mul(alminusr).
							AddFloat(z).Sub(mih).Sub(a[i]).Add(cplusthreshold).
							Sub(r.MulFloat(float64(k + 1))).Float64()
					}
				}
			}
		}

		p := int64(cdouble.From(z).Sub(m[cplussize]).Div(al).Float64()) - 1
		for ; ; p++ {
			if z <= m[cplussize].Add(al.MulFloat(float64(p))).Add(r).Float64() {
				return u[cplussize].Mul(ulminusetaplusone).AddFloat(float64(p)).
					Mul(alminusr).Float64()
			}
			if z <= m[cplussize].Add(al.MulFloat(float64(p + 1))).Float64() {
				return u[cplussize].Mul(ulminusetaplusone).Mul(alminusr).
					AddFloat(z).Sub(m[cplussize]).
					Sub(r.MulFloat(float64(p + 1))).Float64()
			}
		}
	}

	g.rhs = cdouble.From(upperl).SubFloat(eta).Mul(r).Sub(g.lambda)
	g.integralSupport = true
	g.integralCoefficients = false
	for i := 0; i != g.rowlen; i++ {
		if g.vals[i] == 0.0 {
			continue
		}
		if !g.rel.IsColIntegral(g.inds[i]) {
			if g.vals[i] < 0.0 {
				g.integralSupport = false
			} else {
				g.vals[i] = 0.0
			}
			continue
		}

		if coverflag.Test(uint(i)) {
			g.vals[i] = -phiL(-g.vals[i])
			g.rhs = g.rhs.AddProd(g.vals[i], g.upper[i])
		} else {
			g.vals[i] = gammaL(g.vals[i])
		}
	}

	return true
}
