// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/rng"
)

// warmupIters is nb_iter_initialisation in sa-qap.c: Connolly proposes
// nb_iterations/100, but the original hardcodes 1000.
const warmupIters = 1000

// SA implements D. T. Connolly's simulated annealing schedule for QAP.
// Grounded on sa-qap.c.
type SA struct {
	Src rng.Source

	// Budget is M, the restart iteration budget the Connolly cooling
	// rate β is derived from (spec.md §4.D.3). The driver sets this
	// from Config.ItersBeforeRestart before calling Solve, since the
	// shared Heuristic interface has no other channel for it.
	Budget int
}

// NewSA returns an SA heuristic drawing its random swaps from src.
func NewSA(src rng.Source) *SA {
	return &SA{Src: src, Budget: 100000}
}

func (s *SA) Name() string { return "sa" }

// Init registers no heuristic-specific flags: SA's only parameter is the
// shared -r ITERS_BEFORE_RESTART budget.
func (s *SA) Init(fs *flag.FlagSet) {}

func (s *SA) Describe(inst *instance.Instance, targetCost int64, w io.Writer) error {
	_, err := fmt.Fprintf(w, "simulated annealing (Connolly schedule), budget: %d\n", s.Budget)
	return err
}

// Solve runs Connolly's annealing schedule: a warmup phase of random
// swaps to calibrate the initial/final temperatures, then a
// deterministic sweep over all n(n-1)/2 position pairs with the cooling
// step T <- T/(1+βT), reheating on a run of consecutive failures.
// Grounded on sa-qap.c's Solve.
func (s *SA) Solve(ctx context.Context, e *engine.Engine, report ReportFunc) error {
	n := e.N()

	var dmin int64 = math.MaxInt64
	var dmax int64
	for i := 0; i < warmupIters; i++ {
		r := rng.Uniform(s.Src, 0, n-1)
		st := rng.Uniform(s.Src, 0, n-2)
		if st >= r {
			st++
		}
		d := e.GetDelta(r, st)
		if d > 0 {
			if d < dmin {
				dmin = d
			}
			if d > dmax {
				dmax = d
			}
		}
		e.DoSwap(r, st)
	}

	t0 := float64(dmin) + float64(dmax-dmin)/10.0
	tf := float64(dmin)
	beta := (t0 - tf) / (float64(s.Budget) * t0 * tf)

	k := n * (n - 1) / 2
	mxfail := k
	nbFail := 0
	tfound := t0
	temperature := t0
	bestCost := e.Cost()
	r, c := 0, 1

	iter := 0
	for {
		if contextDone(ctx) {
			return nil
		}
		if !report(iter, e.Cost()) {
			return nil
		}
		iter++

		temperature = temperature / (1.0 + beta*temperature)

		c++
		if c >= n {
			r++
			if r >= n-1 {
				r = 0
			}
			c = r + 1
		}

		d := e.GetDelta(r, c)
		accept := d < 0 || s.Src.Float64() < math.Exp(-float64(d)/temperature) || mxfail == nbFail
		if accept {
			e.DoSwap(r, c)
			nbFail = 0
		} else {
			nbFail++
		}
		if mxfail == nbFail {
			beta = 0
			temperature = tfound
		}

		if e.Cost() < bestCost {
			bestCost = e.Cost()
			tfound = temperature
		}
	}
}
