// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver implements the execution/restart control loop shared by
// every cmd/ entry point: it drives a solve.Heuristic against a fresh
// engine.Engine for a configured number of executions, each made up of
// restarts bounded by an iteration budget, merging each restart's best
// solution into the execution's best and each execution's best into a
// set of cross-execution aggregates. Grounded on main.c's
// exec_no/restart_no nesting and Report_Solution.
package driver

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/rng"
	"github.com/dhconnelly-labs/qap/solve"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Config holds every knob main.c's option table registers for the shared
// driver (spec.md §4.E).
type Config struct {
	NExecs             int
	ProbReuse          float64
	ReadInitial        bool
	Target             int64
	Verbose            int
	MaxIters           int
	ItersBeforeRestart int

	// SelfCheck, when set, calls e.SelfCheck() at every report callback
	// and panics on mismatch, the always-on counterpart to the
	// original's #if 0-guarded debug block (engine.SelfCheck, spec.md
	// §4.B/§7). Off by default: it is O(n^3) per call.
	SelfCheck bool
}

// resolvedTarget clamps Target to inst's target cost per spec.md §4.E:
// "TARGET... if ≤ 0, defaults to opt, else bks, else bound; clamped up to
// bound."
func (c Config) resolvedTarget(inst *instance.Instance) int64 {
	target := c.Target
	if target <= 0 {
		target = inst.Target()
	}
	if target < inst.Bound {
		target = inst.Bound
	}
	return target
}

// Status reports why Run stopped, mirroring the three ways
// optimize.Status distinguishes a converged run from one that simply
// ran out of budget or was asked to stop (spec.md §7).
type Status int

const (
	// BudgetExhausted means every execution ran to MaxIters without
	// reaching Target.
	BudgetExhausted Status = iota
	// Interrupted means ctx was canceled before all executions ran.
	Interrupted
	// TargetReached means the final execution's best cost met Target.
	TargetReached
)

func (s Status) String() string {
	switch s {
	case Interrupted:
		return "interrupted"
	case TargetReached:
		return "target reached"
	default:
		return "budget exhausted"
	}
}

// Result is the outcome of one Run: the best solution found in each
// execution plus the cross-execution aggregates main.c prints when
// NExecs > 1.
type Result struct {
	Target int64
	Status Status

	ExecBestCost []int64
	ExecBestPerm [][]int
	ExecTime     []time.Duration

	MinCost, AvgCost, MaxCost float64
	MinTime, AvgTime, MaxTime time.Duration
}

// String formats a Result the way main.c's final summary block does,
// using Format_Cost_And_Gap's "cost  pd: p%" shape per execution.
func (r Result) String() string {
	s := ""
	for i, cost := range r.ExecBestCost {
		s += fmt.Sprintf("Exec #%d   cost: %s   time: %.3f sec\n",
			i+1, formatCostAndGap(cost, r.Target), r.ExecTime[i].Seconds())
	}
	if len(r.ExecBestCost) > 1 {
		s += fmt.Sprintf("\n#execs: %d\n", len(r.ExecBestCost))
		s += fmt.Sprintf("Cost: Min:%s  Avg:%s  Max:%s\n",
			formatCostAndGap(int64(r.MinCost), r.Target),
			formatCostAndGap(int64(r.AvgCost), r.Target),
			formatCostAndGap(int64(r.MaxCost), r.Target))
		s += fmt.Sprintf("Time: Min:%9.2f sec  Avg:%9.2f sec  Max:%9.2f sec\n",
			r.MinTime.Seconds(), r.AvgTime.Seconds(), r.MaxTime.Seconds())
	}
	s += fmt.Sprintf("status: %s\n", r.Status)
	return s
}

// formatCostAndGap mirrors Format_Cost_And_Gap: the cost, plus a percent
// gap against target when target is nonzero.
func formatCostAndGap(cost, target int64) string {
	if target == 0 {
		return fmt.Sprintf("%9d", cost)
	}
	pd := 100.0 * float64(cost-target) / float64(target)
	return fmt.Sprintf("%9d  pd: %6.3f %%", cost, pd)
}

// Run drives h against inst according to cfg, using src for every random
// starting permutation. Per-restart and per-iteration progress (when
// cfg.Verbose > 0) is logged through the standard log package, the same
// as every other diagnostic in this module. Run returns cleanly
// (Result.Status == Interrupted, no error) when ctx is canceled, matching
// spec.md §7 ("interrupted... normal termination with current best").
func Run(ctx context.Context, inst *instance.Instance, h solve.Heuristic, cfg Config, src rng.Source) (*Result, error) {
	target := cfg.resolvedTarget(inst)
	itersBeforeRestart := cfg.ItersBeforeRestart
	if itersBeforeRestart > cfg.MaxIters {
		itersBeforeRestart = cfg.MaxIters
	}

	if sa, ok := h.(*solve.SA); ok {
		sa.Budget = itersBeforeRestart
	}

	res := &Result{Target: target}

	nExecs := cfg.NExecs
	if nExecs <= 0 {
		nExecs = 1
	}

	var p []int
	wasInterrupted := false
	execNo := 0
	for ; execNo < nExecs; execNo++ {
		if contextDone(ctx) {
			wasInterrupted = true
			break
		}

		reuse := false
		switch {
		case cfg.ReadInitial:
			var err error
			p, err = readInitialPermutation(inst.N)
			if err != nil {
				return res, fmt.Errorf("qap: driver: %w", err)
			}
		case execNo == 0 || src.Float64() >= cfg.ProbReuse:
			p = rng.Permutation(src, inst.N)
		default:
			reuse = true
		}

		if nExecs > 1 {
			if reuse {
				log.Printf("qap: exec #%d (reuse previous configuration)", execNo+1)
			} else {
				log.Printf("qap: exec #%d", execNo+1)
			}
		}

		e := engine.New(inst, p)
		start := time.Now()

		var execBestCost int64 = maxCost
		var execBestPerm []int
		execIters := 0
		interrupted := false

		for restartNo := 0; !interrupted && execBestCost > target && execIters < cfg.MaxIters; restartNo++ {
			if restartNo > 0 {
				if cfg.Verbose > 0 {
					log.Printf("qap: restart #%d", restartNo)
				}
				e.SetSolution(rng.Permutation(src, inst.N))
			}

			var restartBestCost int64 = maxCost
			var restartBestPerm []int
			iterNo := 0

			report := func(iter int, cost int64) bool {
				iterNo = iter
				execIters++
				if cfg.SelfCheck && !e.SelfCheck() {
					panic("driver: engine cost invariant violated")
				}
				if cost < restartBestCost {
					restartBestCost = cost
					restartBestPerm = e.Perm()
					if cfg.Verbose > 0 {
						improved := ""
						if cost < execBestCost {
							improved = " *** IMPROVED ***"
						}
						log.Printf("qap: iter:%9d  cost: %s  time: %.3f sec%s", iter, formatCostAndGap(cost, target), time.Since(start).Seconds(), improved)
						if cfg.Verbose > 1 {
							var buf strings.Builder
							if err := instance.WriteSolution(&buf, inst.N, cost, restartBestPerm); err == nil {
								log.Print(buf.String())
							}
						}
					}
				}
				return !contextDone(ctx) && cost > target && execIters <= cfg.MaxIters && iterNo <= itersBeforeRestart
			}

			if err := h.Solve(ctx, e, report); err != nil {
				return res, fmt.Errorf("qap: driver: %w", err)
			}
			if contextDone(ctx) {
				interrupted = true
			}

			if restartBestPerm != nil && restartBestCost < execBestCost {
				execBestCost = restartBestCost
				execBestPerm = restartBestPerm
			}
		}

		runTime := time.Since(start)
		if execBestPerm == nil {
			execBestPerm = e.Perm()
			execBestCost = e.Cost()
		}

		log.Printf("qap: exec #%d   cost: %s   time: %.3f sec", execNo+1, formatCostAndGap(execBestCost, target), runTime.Seconds())

		res.ExecBestCost = append(res.ExecBestCost, execBestCost)
		res.ExecBestPerm = append(res.ExecBestPerm, execBestPerm)
		res.ExecTime = append(res.ExecTime, runTime)

		// Carry the final permutation forward so a PROB_REUSE hit on the
		// next execution continues from where this one left off, not
		// from this execution's own starting point (main.c reuses
		// qi->sol, which Solve mutated in place to its final state).
		p = e.Perm()

		if interrupted {
			wasInterrupted = true
			break
		}
	}

	switch {
	case wasInterrupted:
		res.Status = Interrupted
	case len(res.ExecBestCost) > 0 && res.ExecBestCost[len(res.ExecBestCost)-1] <= target:
		res.Status = TargetReached
	default:
		res.Status = BudgetExhausted
	}

	if len(res.ExecBestCost) > 0 {
		costs := make([]float64, len(res.ExecBestCost))
		times := make([]float64, len(res.ExecTime))
		for i, c := range res.ExecBestCost {
			costs[i] = float64(c)
			times[i] = res.ExecTime[i].Seconds()
		}
		res.AvgCost = stat.Mean(costs, nil)
		res.AvgTime = time.Duration(stat.Mean(times, nil) * float64(time.Second))
		minCost, _ := floats.Min(costs)
		maxCostF, _ := floats.Max(costs)
		minTime, _ := floats.Min(times)
		maxTime, _ := floats.Max(times)
		res.MinCost, res.MaxCost = minCost, maxCostF
		res.MinTime = time.Duration(minTime * float64(time.Second))
		res.MaxTime = time.Duration(maxTime * float64(time.Second))
	}

	return res, nil
}

const maxCost = int64(1) << 62

func contextDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// readInitialPermutation reads n integers from standard input, accepting
// 0- or 1-based indices, and validates them as a permutation. Grounded
// on Read_Values in main.c.
func readInitialPermutation(n int) ([]int, error) {
	p := make([]int, n)
	based1 := true
	for i := 0; i < n; i++ {
		var v int
		if _, err := fmt.Scan(&v); err != nil {
			return nil, fmt.Errorf("reading initial permutation entry %d: %w", i, err)
		}
		if v == 0 {
			based1 = false
		}
		p[i] = v
	}
	if based1 {
		for i := range p {
			p[i]--
		}
	}
	if idx := rng.CheckPermutation(p); idx != -1 {
		return nil, fmt.Errorf("not a valid permutation, error at index %d: value %d", idx, p[idx])
	}
	return p, nil
}
