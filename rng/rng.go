// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rng provides the uniform-random primitives the solver portfolio
// needs: uniform integers, uniform doubles, and Fisher-Yates permutation
// generation. Every heuristic and the PDF sampler draw randomness only
// through the Source interface, never through math/rand directly, so that
// a run is fully reproducible given a seed (spec.md §8, "Deterministic
// reproducibility").
package rng

import (
	"math/rand"
	"time"
)

// Source is the uniform-random surface every component in this module is
// allowed to depend on. It mirrors the interface described in spec.md §1
// ("pseudo-random number generation (uniform integer, uniform double,
// Fisher-Yates)") and the Source field convention used throughout
// gonum.org/v1/gonum/stat/distuv (e.g. distuv.Gamma.Source, distuv.Normal.Source).
type Source interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int

	// Float64 returns a uniform double in [0, 1).
	Float64() float64

	// Shuffle randomizes the order of n elements via swap, using the
	// Fisher-Yates algorithm.
	Shuffle(n int, swap func(i, j int))
}

// MathRand is a Source backed by math/rand. It is the only Source
// implementation this module ships; it exists so every consumer depends on
// the small Source interface instead of *rand.Rand directly.
type MathRand struct {
	r *rand.Rand
}

// NewSource returns a MathRand seeded with seed. If seed < 0, a seed is
// derived from the wall clock and returned alongside the Source, matching
// the original Randomize() (tools.h): the caller is expected to print it so
// an unseeded run remains reproducible after the fact.
func NewSource(seed int64) (*MathRand, int64) {
	if seed < 0 {
		seed = time.Now().UnixNano() & 0x7fffffff
	}
	return &MathRand{r: rand.New(rand.NewSource(seed))}, seed
}

func (m *MathRand) Intn(n int) int      { return m.r.Intn(n) }
func (m *MathRand) Float64() float64    { return m.r.Float64() }
func (m *MathRand) Shuffle(n int, swap func(i, j int)) { m.r.Shuffle(n, swap) }

// Uniform returns a uniform integer in [inf, sup], the closed-interval form
// used throughout the original C code as Random_Interval(inf, sup).
func Uniform(src Source, inf, sup int) int {
	if sup < inf {
		panic("rng: empty interval")
	}
	return inf + src.Intn(sup-inf+1)
}

// Permutation returns a uniform-random permutation of {0,...,n-1} using the
// Fisher-Yates shuffle, the Go analogue of Random_Permut(vec, size, NULL, 0)
// in tools.h when no actual_value/base_value override is requested.
func Permutation(src Source, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	src.Shuffle(n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}

// CheckPermutation reports whether p is a bijection on {0,...,len(p)-1},
// returning the index of the first violation (or -1 if p is valid). This is
// Random_Permut_Check from tools.h, used by the driver when READ_INITIAL
// supplies a permutation from standard input.
func CheckPermutation(p []int) int {
	seen := make([]bool, len(p))
	for i, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return i
		}
		seen[v] = true
	}
	return -1
}
