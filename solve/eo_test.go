// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/rng"
)

func TestEODescribeResolvesPDF(t *testing.T) {
	src, _ := rng.NewSource(21)
	inst := newRandomInstance(t, 10, src)

	eo := NewEO(src)
	eo.PDFName = "power"
	var buf bytes.Buffer
	if err := eo.Describe(inst, 0, &buf); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if eo.pdf == nil {
		t.Fatal("Describe did not resolve a PDF")
	}
	if eo.pdf.Family != "power" {
		t.Errorf("Family = %q, want power", eo.pdf.Family)
	}
	if buf.Len() == 0 {
		t.Error("Describe wrote nothing")
	}
}

func TestEOProducesValidPermutations(t *testing.T) {
	const n = 9
	src, _ := rng.NewSource(22)
	inst := newRandomInstance(t, n, src)
	e := engine.New(inst, rng.Permutation(src, n))

	eo := NewEO(src)
	eo.PDFName = "exponential"
	var buf bytes.Buffer
	if err := eo.Describe(inst, 0, &buf); err != nil {
		t.Fatalf("Describe: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	iters := 0
	err := eo.Solve(ctx, e, func(iter int, cost int64) bool {
		if idx := rng.CheckPermutation(e.Perm()); idx != -1 {
			t.Fatalf("engine permutation broken at index %d: %v", idx, e.Perm())
		}
		iters++
		if iters >= 30 {
			cancel()
			return false
		}
		return true
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
}

func TestEOTauWinsWarnsAndClearsForce(t *testing.T) {
	src, _ := rng.NewSource(23)
	inst := newRandomInstance(t, 10, src)

	eo := NewEO(src)
	eo.PDFName = "power"
	eo.Tau = 2.0
	eo.Force = 0.5
	var buf bytes.Buffer
	if err := eo.Describe(inst, 0, &buf); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !math.IsNaN(eo.Force) {
		t.Errorf("Force = %g, want NaN after -t wins", eo.Force)
	}
	if eo.pdf.Tau != 2.0 {
		t.Errorf("pdf.Tau = %g, want 2", eo.pdf.Tau)
	}
}
