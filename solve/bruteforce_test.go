// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"testing"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/rng"
)

// identityInstance returns an n×n instance with A = B = identity, whose
// cost is n for every permutation (spec.md §8 scenario 2).
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

func TestBruteForceEnumeratesAllPermutations(t *testing.T) {
	const n = 4
	inst := identityInstance(n)
	e := engine.New(inst, []int{0, 1, 2, 3})

	bf := NewBruteForce(nil)

	calls := 0
	err := bf.Solve(context.Background(), e, func(iter int, cost int64) bool {
		calls++
		if cost != n {
			t.Errorf("iter %d: cost = %d, want %d", iter, cost, n)
		}
		return true
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if calls != 24 {
		t.Errorf("got %d report calls, want 4! = 24", calls)
	}
}

func TestBruteForceRandomStartShufflesIndexVector(t *testing.T) {
	const n = 5
	inst := identityInstance(n)
	src, _ := rng.NewSource(9)
	e := engine.New(inst, rng.Permutation(src, n))

	bf := NewBruteForce(src)
	bf.randomStart = true

	calls := 0
	err := bf.Solve(context.Background(), e, func(iter int, cost int64) bool {
		calls++
		return calls < 10
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if idx := rng.CheckPermutation(e.Perm()); idx != -1 {
		t.Fatalf("engine permutation broken at index %d: %v", idx, e.Perm())
	}
}
