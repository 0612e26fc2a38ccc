// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solve implements the pluggable local-search heuristics that run
// against a shared Δ-engine: brute-force enumeration, Robust Taboo
// Search, Simulated Annealing, the Fast Ant System, and Extended
// Extremal Optimization. Grounded on brute-force.c, rots-qap.c,
// sa-qap.c, fant-qap.c and eo-qap.c, each of which exposes the same
// three-symbol contract (Init_Main, Display_Parameters, Solve) that this
// package reifies as the Heuristic interface (shape grounded on
// gonum.org/v1/gonum/optimize's Method: Init/Iterate/Status split the
// same responsibilities this interface's Init/Describe/Solve do).
package solve

import (
	"context"
	"flag"
	"io"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
)

// ReportFunc is called exactly once per iteration with the current
// iteration number (restart-scoped; 0 on the first call, which every
// heuristic makes before its first move) and the engine's current cost. It returns whether the heuristic should continue running.
// Grounded on Report_Solution in main.c.
type ReportFunc func(iter int, cost int64) bool

// Heuristic is one pluggable local-search strategy.
type Heuristic interface {
	// Name identifies the heuristic on the command line and in logs.
	Name() string

	// Init registers the heuristic's command-line flags on fs, grounded
	// on Init_Main.
	Init(fs *flag.FlagSet)

	// Describe writes a human-readable summary of the heuristic's
	// resolved parameters, grounded on Display_Parameters. It runs once
	// per process, after flags are parsed and the instance is loaded,
	// before the first execution.
	Describe(inst *instance.Instance, targetCost int64, w io.Writer) error

	// Solve runs the heuristic against e until report returns false or
	// ctx is canceled, grounded on each file's Solve. The heuristic
	// mutates state exclusively through e's swap primitives (spec.md
	// §5) and must check ctx at each iteration boundary.
	Solve(ctx context.Context, e *engine.Engine, report ReportFunc) error
}

// Registry maps heuristic names to constructors that return a fresh
// Heuristic value (heuristics hold per-run mutable state such as tabu
// matrices or pheromone trails). No cmd/ binary or test in this module
// uses it; each cmd/ main constructs its heuristic directly.
type Registry map[string]func() Heuristic

// contextDone reports whether ctx has been canceled, the single check
// every heuristic's main loop performs alongside calling report — this
// is the Go analogue of the original's Is_Interrupted().
func contextDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
