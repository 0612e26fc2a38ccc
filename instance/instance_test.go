// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const nug5 = `5 50

0 1 1 2 3
1 0 2 1 2
1 2 0 1 2
2 1 1 0 1
3 2 2 1 0

0 5 2 4 1
5 0 3 0 2
2 3 0 0 0
4 0 0 0 5
1 2 0 5 0
`

func TestLoadNug5(t *testing.T) {
	inst, err := Load(strings.NewReader(nug5), "nug5")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if inst.N != 5 {
		t.Fatalf("N = %d, want 5", inst.N)
	}
	if inst.BKS != 50 {
		t.Fatalf("BKS = %d, want 50", inst.BKS)
	}
	wantA := [][]int64{
		{0, 1, 1, 2, 3},
		{1, 0, 2, 1, 2},
		{1, 2, 0, 1, 2},
		{2, 1, 1, 0, 1},
		{3, 2, 2, 1, 0},
	}
	if diff := cmp.Diff(wantA, inst.A); diff != "" {
		t.Fatalf("A mismatch (-want +got):\n%s", diff)
	}
	if inst.B[0][1] != 5 || inst.B[4][3] != 5 {
		t.Fatalf("B not parsed correctly: %v", inst.B)
	}
}

func TestLoadHeaderVariants(t *testing.T) {
	tests := []struct {
		header           string
		wantOpt, wantBKS int64
		wantBound        int64
	}{
		{"3", 0, 0, 0},
		{"3 42", 0, 42, 0},
		{"3 100 42", 100, 42, 100},
		{"3 -30 42", 0, 42, 30},
	}
	body := "\n0 0 0\n0 0 0\n0 0 0\n\n0 0 0\n0 0 0\n0 0 0\n"
	for _, tc := range tests {
		inst, err := Load(strings.NewReader(tc.header+body), "t")
		if err != nil {
			t.Fatalf("header %q: Load: %v", tc.header, err)
		}
		if inst.Opt != tc.wantOpt || inst.BKS != tc.wantBKS || inst.Bound != tc.wantBound {
			t.Fatalf("header %q: got opt=%d bks=%d bound=%d, want opt=%d bks=%d bound=%d",
				tc.header, inst.Opt, inst.BKS, inst.Bound, tc.wantOpt, tc.wantBKS, tc.wantBound)
		}
	}
}

func TestLoadRejectsShortMatrix(t *testing.T) {
	_, err := Load(strings.NewReader("3\n1 2 3\n4 5 6\n"), "t")
	if err == nil {
		t.Fatal("expected error on truncated instance")
	}
}

func TestTarget(t *testing.T) {
	cases := []struct {
		inst Instance
		want int64
	}{
		{Instance{Opt: 10, BKS: 5, Bound: 1}, 10},
		{Instance{BKS: 5, Bound: 1}, 5},
		{Instance{Bound: 1}, 1},
		{Instance{}, 0},
	}
	for _, c := range cases {
		if got := c.inst.Target(); got != c.want {
			t.Errorf("Target() = %d, want %d", got, c.want)
		}
	}
}

func TestWriteAndReadSolutionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	perm := []int{2, 0, 1, 3}
	if err := WriteSolution(&buf, 4, 123, perm); err != nil {
		t.Fatalf("WriteSolution: %v", err)
	}
	n, cost, got, err := ReadSolution(&buf)
	if err != nil {
		t.Fatalf("ReadSolution: %v", err)
	}
	if n != 4 || cost != 123 {
		t.Fatalf("n=%d cost=%d, want 4, 123", n, cost)
	}
	if diff := cmp.Diff(perm, got); diff != "" {
		t.Fatalf("permutation mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSolutionRejectsInvalidPermutation(t *testing.T) {
	_, _, _, err := ReadSolution(strings.NewReader("3 10\n1 1 2\n"))
	if err == nil {
		t.Fatal("expected error on duplicate index")
	}
}
