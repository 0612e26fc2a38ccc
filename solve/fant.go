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

// FANT implements Taillard's Fast Ant System: a pheromone matrix biases a
// roulette-wheel construction of each trial permutation, which is then
// locally improved by a two-scan first-improvement sweep. Grounded on
// fant-qap.c.
type FANT struct {
	Src rng.Source

	r float64 // reinforcement applied to the global best's cells

	trace     [][]float64
	increment float64
	bestPerm  []int
	bestCost  int64
	haveBest  bool
}

// NewFANT returns a FANT heuristic drawing its construction randomness
// from src.
func NewFANT(src rng.Source) *FANT {
	return &FANT{Src: src, r: 10}
}

func (f *FANT) Name() string { return "fant" }

// Init registers -R, grounded on fant-qap.c's Init_Main.
func (f *FANT) Init(fs *flag.FlagSet) {
	fs.Float64Var(&f.r, "R", 10, "set reinforcement factor for best solution")
}

func (f *FANT) Describe(inst *instance.Instance, targetCost int64, w io.Writer) error {
	_, err := fmt.Fprintf(w, "fast ant system, reinforcement: %g\n", f.r)
	return err
}

// Solve runs the construct/improve/reinforce cycle. Grounded on
// fant-qap.c's Solve.
func (f *FANT) Solve(ctx context.Context, e *engine.Engine, report ReportFunc) error {
	n := e.N()
	if f.trace == nil || len(f.trace) != n {
		f.trace = make([][]float64, n)
		for i := range f.trace {
			f.trace[i] = make([]float64, n)
		}
		f.increment = 1
		resetTrace(f.trace, f.increment)
		f.haveBest = false
	}

	rows := make([]int, n)
	cols := make([]int, n)
	used := make([]bool, n)
	p := make([]int, n)
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
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

		f.constructPermutation(n, rows, cols, used, p)
		e.SetSolution(p)

		f.localSearch(e, pairs)

		cur := e.Perm()
		if !f.haveBest || e.Cost() < f.bestCost {
			f.bestCost = e.Cost()
			f.bestPerm = append([]int(nil), cur...)
			f.haveBest = true
		}

		if permsEqual(cur, f.bestPerm) {
			f.increment++
			resetTrace(f.trace, f.increment)
		} else {
			for i := 0; i < n; i++ {
				f.trace[i][cur[i]] += f.increment
				f.trace[i][f.bestPerm[i]] += f.r
			}
		}
	}
}

// constructPermutation samples p by walking a shuffled row order and, for
// each row, a roulette draw over that row's remaining pheromone weight in
// a shuffled column order, decrementing each unprocessed row's remaining
// mass as columns are consumed. Grounded on generate_solution_trace.
func (f *FANT) constructPermutation(n int, rows, cols []int, used []bool, p []int) {
	for i := range rows {
		rows[i] = i
		cols[i] = i
		used[i] = false
	}
	f.Src.Shuffle(n, func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	f.Src.Shuffle(n, func(i, j int) { cols[i], cols[j] = cols[j], cols[i] })

	remaining := make([]float64, n)
	for i := range remaining {
		remaining[i] = 0
		for _, c := range cols {
			if !used[c] {
				remaining[i] += f.trace[rows[i]][c]
			}
		}
	}

	for idx, r := range rows {
		target := f.Src.Float64() * remaining[idx]
		var cum float64
		chosen := -1
		for _, c := range cols {
			if used[c] {
				continue
			}
			cum += f.trace[r][c]
			if cum >= target {
				chosen = c
				break
			}
		}
		if chosen == -1 {
			for _, c := range cols {
				if !used[c] {
					chosen = c
					break
				}
			}
		}
		p[r] = chosen
		used[chosen] = true
		for k := idx + 1; k < n; k++ {
			remaining[k] -= f.trace[rows[k]][chosen]
		}
	}
}

// localSearch runs up to two shuffled first-improvement scans over every
// position pair, continuing to a second scan only if the first performed
// at least one swap. Grounded on Local_Search in fant-qap.c.
func (f *FANT) localSearch(e *engine.Engine, pairs [][2]int) {
	f.Src.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
	for scan := 0; scan < 2; scan++ {
		improved := false
		for _, rs := range pairs {
			if e.GetDelta(rs[0], rs[1]) < 0 {
				e.DoSwap(rs[0], rs[1])
				improved = true
			}
		}
		if !improved {
			return
		}
	}
}

func resetTrace(trace [][]float64, increment float64) {
	for i := range trace {
		for j := range trace[i] {
			trace[i][j] = increment
		}
	}
}

func permsEqual(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
