// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math/rand"
	"testing"

	"github.com/dhconnelly-labs/qap/instance"
)

func identityInstance(n int) *instance.Instance {
	a := make([][]int64, n)
	b := make([][]int64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]int64, n)
		b[i] = make([]int64, n)
		a[i][i] = 1
		b[i][i] = 1
	}
	return &instance.Instance{N: n, A: a, B: b}
}

func randomInstance(n int, maxVal int64, r *rand.Rand) *instance.Instance {
	a := make([][]int64, n)
	b := make([][]int64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]int64, n)
		b[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			a[i][j] = r.Int63n(maxVal)
			b[i][j] = r.Int63n(maxVal)
		}
	}
	return &instance.Instance{N: n, A: a, B: b}
}

func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func TestCostMatchesIdentityInstance(t *testing.T) {
	// A = B = I: cost of any permutation is n (spec.md §8 scenario 2).
	inst := identityInstance(4)
	e := New(inst, identityPerm(4))
	if e.Cost() != 4 {
		t.Fatalf("Cost() = %d, want 4", e.Cost())
	}
	e.DoSwap(0, 3)
	if e.Cost() != 4 {
		t.Fatalf("after swap: Cost() = %d, want 4", e.Cost())
	}
}

func TestDeltaMatchesProbeSwap(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	inst := randomInstance(8, 50, r)
	e := New(inst, identityPerm(8))
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			want := probeSwapDelta(e, i, j)
			if got := e.GetDelta(i, j); got != want {
				t.Fatalf("GetDelta(%d,%d) = %d, want %d", i, j, got, want)
			}
		}
	}
}

// probeSwapDelta computes cost_of(p with i,j swapped) - cost_of(p) the
// slow way, independent of the engine's incremental machinery.
func probeSwapDelta(e *Engine, i, j int) int64 {
	p := e.Perm()
	before := e.CostOf(p)
	p[i], p[j] = p[j], p[i]
	after := e.CostOf(p)
	return after - before
}

func TestDoSwapFuzzConsistency(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	inst := randomInstance(10, 100, r)
	e := New(inst, identityPerm(10))

	for step := 0; step < 1000; step++ {
		i, j := r.Intn(10), r.Intn(10)
		if i == j {
			continue
		}
		if i > j {
			i, j = j, i
		}
		e.DoSwap(i, j)

		if got, want := e.Cost(), e.CostOf(e.Perm()); got != want {
			t.Fatalf("step %d: Cost() = %d, want %d (CostOf(Perm()))", step, got, want)
		}

		pi, pj := r.Intn(10), r.Intn(10)
		if pi == pj {
			continue
		}
		if pi > pj {
			pi, pj = pj, pi
		}
		if got, want := e.GetDelta(pi, pj), probeSwapDelta(e, pi, pj); got != want {
			t.Fatalf("step %d: GetDelta(%d,%d) = %d, want %d", step, pi, pj, got, want)
		}
	}
}

func TestSetSolutionRecomputesFromScratch(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	inst := randomInstance(6, 20, r)
	e := New(inst, identityPerm(6))
	e.DoSwap(0, 1)
	e.DoSwap(2, 3)

	fresh := []int{5, 4, 3, 2, 1, 0}
	e.SetSolution(fresh)
	if got, want := e.Cost(), e.CostOf(fresh); got != want {
		t.Fatalf("Cost() after SetSolution = %d, want %d", got, want)
	}
	if !e.SelfCheck() {
		t.Fatal("SelfCheck() failed after SetSolution")
	}
}

func TestCostIfSwapDoesNotMutate(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	inst := randomInstance(6, 20, r)
	e := New(inst, identityPerm(6))
	before := e.Cost()
	probe := e.CostIfSwap(1, 4)
	if e.Cost() != before {
		t.Fatalf("CostIfSwap mutated engine cost: before=%d after=%d", before, e.Cost())
	}
	e.DoSwap(1, 4)
	if e.Cost() != probe {
		t.Fatalf("DoSwap(1,4) cost = %d, want CostIfSwap result %d", e.Cost(), probe)
	}
}
