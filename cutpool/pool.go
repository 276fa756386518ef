// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cutpool stores the cuts accepted across a branch-and-cut search.
//
// The pool is safe for concurrent use; insertion admits a logically
// duplicate cut at most once. Cuts are kept in canonical form: the support
// sorted by column index, the coefficients permuted alongside.
package cutpool

import (
	"math"
	"sort"
	"sync"
)

// Cut is a stored inequality inds·vals ≤ rhs with canonically ordered
// support. Integral reports whether all coefficients attach to integer
// columns and are exact integers.
type Cut struct {
	Inds     []int
	Vals     []float64
	Rhs      float64
	Integral bool
}

// Pool is a synchronized, deduplicating cut repository.
// It satisfies the cutgen.Pool collaborator interface.
type Pool struct {
	mu    sync.Mutex
	cuts  []Cut
	index map[uint64][]int
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{index: make(map[uint64][]int)}
}

// AddCut inserts a copy of the cut in canonical form and returns its index,
// or -1 when an identical cut is already stored.
func (p *Pool) AddCut(inds []int, vals []float64, rhs float64, integral bool) int {
	cut := canonical(inds, vals, rhs, integral)
	h := hash(cut)

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range p.index[h] {
		if equal(p.cuts[id], cut) {
			return -1
		}
	}

	id := len(p.cuts)
	p.cuts = append(p.cuts, cut)
	p.index[h] = append(p.index[h], id)
	return id
}

// NumCuts returns the number of stored cuts.
func (p *Pool) NumCuts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cuts)
}

// Cut returns the stored cut with the given index. The returned slices are
// owned by the pool and must not be mutated.
func (p *Pool) Cut(id int) Cut {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cuts[id]
}

func canonical(inds []int, vals []float64, rhs float64, integral bool) Cut {
	cut := Cut{
		Inds:     append([]int(nil), inds...),
		Vals:     append([]float64(nil), vals...),
		Rhs:      rhs,
		Integral: integral,
	}
	sort.Sort(bySupport{&cut})
	return cut
}

type bySupport struct{ c *Cut }

func (s bySupport) Len() int           { return len(s.c.Inds) }
func (s bySupport) Less(i, j int) bool { return s.c.Inds[i] < s.c.Inds[j] }
func (s bySupport) Swap(i, j int) {
	s.c.Inds[i], s.c.Inds[j] = s.c.Inds[j], s.c.Inds[i]
	s.c.Vals[i], s.c.Vals[j] = s.c.Vals[j], s.c.Vals[i]
}

func equal(a, b Cut) bool {
	if len(a.Inds) != len(b.Inds) || a.Rhs != b.Rhs {
		return false
	}
	for i := range a.Inds {
		if a.Inds[i] != b.Inds[i] || a.Vals[i] != b.Vals[i] {
			return false
		}
	}
	return true
}

// hash mixes the canonical support and coefficients into a 64-bit bucket key
// (splitmix64 finalizer per word).
func hash(c Cut) uint64 {
	h := mix(math.Float64bits(c.Rhs))
	for i := range c.Inds {
		h = mix(h ^ uint64(c.Inds[i]))
		h = mix(h ^ math.Float64bits(c.Vals[i]))
	}
	return h
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
