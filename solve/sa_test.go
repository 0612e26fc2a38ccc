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

func TestSAProducesValidPermutation(t *testing.T) {
	const n = 8
	a := make([][]int64, n)
	b := make([][]int64, n)
	src, _ := rng.NewSource(42)
	for i := range a {
		a[i] = make([]int64, n)
		b[i] = make([]int64, n)
		for j := range a[i] {
			if i != j {
				a[i][j] = int64(rng.Uniform(src, 1, 10))
				b[i][j] = int64(rng.Uniform(src, 1, 10))
			}
		}
	}
	inst := &instance.Instance{N: n, A: a, B: b}
	e := engine.New(inst, rng.Permutation(src, n))

	sa := NewSA(src)
	sa.Budget = 500

	ctx, cancel := context.WithCancel(context.Background())
	iters := 0
	err := sa.Solve(ctx, e, func(iter int, cost int64) bool {
		iters++
		if iters >= 500 {
			cancel()
			return false
		}
		return true
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if idx := rng.CheckPermutation(e.Perm()); idx != -1 {
		t.Fatalf("engine permutation broken at index %d: %v", idx, e.Perm())
	}
	if e.Cost() != e.CostOf(e.Perm()) {
		t.Fatalf("Cost() = %d, CostOf(Perm()) = %d", e.Cost(), e.CostOf(e.Perm()))
	}
}

func TestSAStopsOnContextCancel(t *testing.T) {
	const n = 6
	a := make([][]int64, n)
	b := make([][]int64, n)
	src, _ := rng.NewSource(7)
	for i := range a {
		a[i] = make([]int64, n)
		b[i] = make([]int64, n)
	}
	inst := &instance.Instance{N: n, A: a, B: b}
	e := engine.New(inst, rng.Permutation(src, n))

	sa := NewSA(src)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := sa.Solve(ctx, e, func(iter int, cost int64) bool {
		calls++
		return true
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if calls != 0 {
		t.Errorf("report called %d times after cancellation, want 0", calls)
	}
}
