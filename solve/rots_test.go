// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"strings"
	"testing"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/rng"
)

func TestROTSProducesValidPermutation(t *testing.T) {
	const n = 8
	a := make([][]int64, n)
	b := make([][]int64, n)
	src, _ := rng.NewSource(11)
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

	r := NewROTS(src)

	ctx, cancel := context.WithCancel(context.Background())
	iters := 0
	err := r.Solve(ctx, e, func(iter int, cost int64) bool {
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

func TestROTSDescribeReportsCubeVsUniform(t *testing.T) {
	inst := &instance.Instance{N: 10, A: make([][]int64, 10), B: make([][]int64, 10)}
	for i := range inst.A {
		inst.A[i] = make([]int64, 10)
		inst.B[i] = make([]int64, 10)
	}

	r := NewROTS(nil)
	r.tabuDurationFactor = -8
	var buf strings.Builder
	if err := r.Describe(inst, 0, &buf); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if r.doCube {
		t.Error("negative tabu duration factor should select the uniform draw, not cube")
	}
	if r.tabuDuration != 8*10 {
		t.Errorf("tabuDuration = %d, want %d", r.tabuDuration, 8*10)
	}
}

func TestROTSStopsOnContextCancel(t *testing.T) {
	const n = 6
	a := make([][]int64, n)
	b := make([][]int64, n)
	src, _ := rng.NewSource(13)
	for i := range a {
		a[i] = make([]int64, n)
		b[i] = make([]int64, n)
	}
	inst := &instance.Instance{N: n, A: a, B: b}
	e := engine.New(inst, rng.Permutation(src, n))

	r := NewROTS(src)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := r.Solve(ctx, e, func(iter int, cost int64) bool {
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
