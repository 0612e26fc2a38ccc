// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/rng"
)

// BruteForce enumerates every permutation in lexicographic successor
// order, reporting each one visited. Grounded on brute-force.c.
type BruteForce struct {
	Src rng.Source // used only when RandomStart is set

	randomStart bool
}

// NewBruteForce returns a BruteForce heuristic that draws its random
// starting permutation (when -R is given) from src.
func NewBruteForce(src rng.Source) *BruteForce {
	return &BruteForce{Src: src}
}

func (b *BruteForce) Name() string { return "brute-force" }

// Init registers -R, grounded on brute-force.c's Init_Main.
func (b *BruteForce) Init(fs *flag.FlagSet) {
	fs.BoolVar(&b.randomStart, "R", false, "start from a random permutation (instead of 0..n-1)")
}

func (b *BruteForce) Describe(inst *instance.Instance, targetCost int64, w io.Writer) error {
	_, err := fmt.Fprintf(w, "brute force: random start: %v\n", b.randomStart)
	return err
}

// Solve walks lexicographic successor order over an index vector, applying
// the same sequence of position-swaps to e so that e's permutation stays
// in lockstep with the index vector (Swap in brute-force.c). The index
// vector starts as 0..n-1, or, when -R is given, a random permutation of
// it (rng.Source.Shuffle): the walk then wraps from the last permutation
// in lexicographic order back to the first and stops on returning to the
// starting vector, so all n! permutations are still visited (see
// DESIGN.md).
func (b *BruteForce) Solve(ctx context.Context, e *engine.Engine, report ReportFunc) error {
	n := e.N()
	t := make([]int, n)
	for i := range t {
		t[i] = i
	}
	if b.randomStart {
		b.Src.Shuffle(n, func(i, j int) { t[i], t[j] = t[j], t[i] })
	}
	e.SetSolution(t)
	start := append([]int(nil), t...)

	swap := func(r, s int) {
		t[r], t[s] = t[s], t[r]
		e.DoSwap(r, s)
	}

	iter := 0
	for {
		if contextDone(ctx) {
			return nil
		}
		if !report(iter, e.Cost()) {
			return nil
		}
		iter++
		if !nextPermutation(t, swap) {
			// t is the last (descending) permutation: reversing it gives
			// the first (ascending) one.
			for r, s := n-1, 0; r > s; r, s = r-1, s+1 {
				swap(r, s)
			}
		}
		if permsEqual(t, start) {
			return nil
		}
	}
}

// nextPermutation advances t to its lexicographic successor, invoking
// swap for each position-pair transposition performed, and reports
// whether a successor existed. Grounded on Next_Permutation.
func nextPermutation(t []int, swap func(r, s int)) bool {
	n := len(t)
	j := n - 2
	for j >= 0 && t[j] >= t[j+1] {
		j--
	}
	if j < 0 {
		return false
	}
	k := n - 1
	for t[j] >= t[k] {
		k--
	}
	swap(j, k)
	for r, s := n-1, j+1; r > s; r, s = r-1, s+1 {
		swap(r, s)
	}
	return true
}
