// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the Δ-engine: the mutable search state (the
// current permutation, its cost, and the strictly-upper-triangular matrix
// of prospective swap gains) that every heuristic in package solve queries
// and mutates through swap primitives. It maintains Δ incrementally in
// O(n²) per accepted swap using Taillard's recurrence (spec.md §4.B),
// grounded on qap-utils.c (QAP_Compute_Delta, QAP_Compute_Delta_Part,
// QAP_Executed_Swap, QAP_Do_Swap).
package engine

import "github.com/dhconnelly-labs/qap/instance"

// Engine owns the permutation, its cost, and the Δ matrix for one
// instance. It is not safe for concurrent use; spec.md §5 states the
// engine is held exclusively by whichever heuristic is running.
type Engine struct {
	inst  *instance.Instance
	n     int
	perm  []int
	cost  int64
	delta [][]int64 // strictly upper triangular; delta[i][j] meaningful for i<j

	// scratch is reused by DoSwap to avoid an allocation per swap; it
	// holds the pre-swap snapshot of delta rows touched by the update.
	scratch [][]int64
}

// New builds an Engine around inst with the given starting permutation
// (copied; the caller's slice is never aliased), computing the cost and
// full Δ matrix once. This is QAP_Set_Solution applied to a fresh engine.
func New(inst *instance.Instance, perm []int) *Engine {
	if len(perm) != inst.N {
		panic("engine: permutation length does not match instance size")
	}
	e := &Engine{
		inst: inst,
		n:    inst.N,
		perm: append([]int(nil), perm...),
	}
	e.delta = newMatrix(e.n)
	e.scratch = newMatrix(e.n)
	e.SetSolution(perm)
	return e
}

func newMatrix(n int) [][]int64 {
	m := make([][]int64, n)
	for i := range m {
		m[i] = make([]int64, n)
	}
	return m
}

// N returns the problem size.
func (e *Engine) N() int { return e.n }

// Cost returns the cost of the current permutation, maintained
// incrementally: the central invariant of spec.md §3 is that this value
// always equals CostOf(e.Perm()).
func (e *Engine) Cost() int64 { return e.cost }

// Perm returns a copy of the current permutation. Callers that only need
// read access to a single position should use At instead, to avoid the
// copy.
func (e *Engine) Perm() []int { return append([]int(nil), e.perm...) }

// At returns the value assigned to position i in the current permutation.
func (e *Engine) At(i int) int { return e.perm[i] }

// CostOf recomputes the true O(n^3) cost of an arbitrary permutation p of
// the same length as this engine's instance. It is used for the debug
// self-check and in tests that assert the central invariant; it never
// mutates the engine. Grounded on QAP_Cost_Of_Solution.
func (e *Engine) CostOf(p []int) int64 {
	a, b := e.inst.A, e.inst.B
	var cost int64
	for i := 0; i < e.n; i++ {
		for j := 0; j < e.n; j++ {
			cost += a[i][j] * b[p[i]][p[j]]
		}
	}
	return cost
}

// SetSolution replaces the current permutation with p (copied) and
// recomputes cost and the full Δ matrix from scratch. Grounded on
// QAP_Set_Solution.
func (e *Engine) SetSolution(p []int) {
	if len(p) != e.n {
		panic("engine: permutation length does not match instance size")
	}
	copy(e.perm, p)
	e.cost = e.CostOf(e.perm)
	e.ComputeAllDelta()
}

// ComputeDelta computes Δ[i][j], the cost change from swapping positions i
// and j, in O(n) via Taillard's recurrence, and stores it. i must be < j.
// Grounded on QAP_Compute_Delta.
func (e *Engine) ComputeDelta(i, j int) int64 {
	e.delta[i][j] = e.computeDeltaFull(i, j)
	return e.delta[i][j]
}

func (e *Engine) computeDeltaFull(i, j int) int64 {
	a, b, p := e.inst.A, e.inst.B, e.perm
	pi, pj := p[i], p[j]
	d := (a[i][i]-a[j][j])*(b[pj][pj]-b[pi][pi]) +
		(a[i][j]-a[j][i])*(b[pj][pi]-b[pi][pj])
	for k := 0; k < e.n; k++ {
		if k == i || k == j {
			continue
		}
		pk := p[k]
		d += (a[k][i]-a[k][j])*(b[pk][pj]-b[pk][pi]) +
			(a[i][k]-a[j][k])*(b[pj][pk]-b[pi][pk])
	}
	return d
}

// ComputeAllDelta recomputes the entire Δ matrix in O(n^3). Grounded on
// QAP_Compute_All_Delta.
func (e *Engine) ComputeAllDelta() {
	for i := 0; i < e.n; i++ {
		e.delta[i][i] = 0
		for j := i + 1; j < e.n; j++ {
			e.ComputeDelta(i, j)
		}
	}
}

// GetDelta returns Δ[min(i,j)][max(i,j)]. Grounded on QAP_Get_Delta.
func (e *Engine) GetDelta(i, j int) int64 {
	if i < j {
		return e.delta[i][j]
	}
	return e.delta[j][i]
}

// CostIfSwap returns the cost that would result from swapping positions i
// and j, without performing the swap. Grounded on QAP_Cost_If_Swap.
func (e *Engine) CostIfSwap(i, j int) int64 {
	return e.cost + e.GetDelta(i, j)
}

// DoSwap swaps positions i and j, updates the cost, and patches the Δ
// matrix in O(n²).
//
// Update ordering contract (spec.md §4.B): the permutation and cost are
// updated first; the Δ patch formula for pairs disjoint from {i,j} needs
// the pre-swap Δ values, so those are read out of the live matrix into a
// reused scratch buffer before any entry is overwritten, and writes land
// only after every read that needed the old value has happened — a
// two-phase update, the "simpler alternative" DESIGN NOTES §9 endorses
// over the original's careful single-pass ordering (QAP_Executed_Swap).
func (e *Engine) DoSwap(i, j int) int64 {
	e.cost = e.CostIfSwap(i, j)
	e.perm[i], e.perm[j] = e.perm[j], e.perm[i]

	n := e.n
	for r := 0; r < n; r++ {
		for c := r + 1; c < n; c++ {
			e.scratch[r][c] = e.delta[r][c]
		}
	}

	for r := 0; r < n; r++ {
		for c := r + 1; c < n; c++ {
			switch {
			case r == i || r == j || c == i || c == j:
				e.delta[r][c] = e.computeDeltaFull(r, c)
			default:
				e.delta[r][c] = e.patchDelta(r, c, i, j)
			}
		}
	}

	return e.cost
}

// patchDelta applies the O(1) incremental recurrence to the pre-swap Δ[r][c]
// (read from scratch) given that positions i, j (post-swap) were just
// transposed. Grounded on QAP_Compute_Delta_Part.
func (e *Engine) patchDelta(r, c, i, j int) int64 {
	a, b, p := e.inst.A, e.inst.B, e.perm
	pr, pc, pi, pj := p[r], p[c], p[i], p[j]
	d := e.scratch[r][c]
	d += (a[i][r]-a[i][c]+a[j][c]-a[j][r])*(b[pj][pr]-b[pj][pc]+b[pi][pc]-b[pi][pr]) +
		(a[r][i]-a[c][i]+a[c][j]-a[r][j])*(b[pr][pj]-b[pc][pj]+b[pc][pi]-b[pr][pi])
	return d
}

// SelfCheck recomputes the true cost and reports whether it matches the
// incrementally-maintained cost. It is the debug-mode invariant check
// spec.md §4.B/§7 describes; it is O(n^3) and is intended to be wired
// behind an opt-in driver flag, not run on every iteration of a real
// search.
func (e *Engine) SelfCheck() bool {
	return e.CostOf(e.perm) == e.cost
}
