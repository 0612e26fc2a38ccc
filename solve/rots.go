// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solve

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/rng"
)

// ROTS implements E. Taillard's Robust Taboo Search. Grounded on
// rots-qap.c.
type ROTS struct {
	Src     rng.Source
	Verbose int // set from Common.Verbose by internal/cli; reserved for future use

	tabuDurationFactor float64
	aspirationFactor   float64

	doCube       bool
	tabuDuration int
	aspiration   int
}

// NewROTS returns a ROTS heuristic drawing its tabu-duration randomness
// from src.
func NewROTS(src rng.Source) *ROTS {
	return &ROTS{Src: src, tabuDurationFactor: 8, aspirationFactor: 5}
}

func (r *ROTS) Name() string { return "rots" }

// Init registers -t and -a, grounded on rots-qap.c's Init_Main.
func (r *ROTS) Init(fs *flag.FlagSet) {
	fs.Float64Var(&r.tabuDurationFactor, "t", 8, "set tabu duration factor (x N)")
	fs.Float64Var(&r.aspirationFactor, "a", 5, "set aspiration factor (x NxN)")
}

func (r *ROTS) Describe(inst *instance.Instance, targetCost int64, w io.Writer) error {
	n := inst.N
	r.doCube = true
	if r.tabuDurationFactor < 0 {
		r.tabuDurationFactor = -r.tabuDurationFactor
		r.doCube = false
	}
	r.tabuDuration = int(r.tabuDurationFactor * float64(n))
	r.aspiration = int(r.aspirationFactor * float64(n) * float64(n))

	shape := "cube"
	if !r.doCube {
		shape = "uniform"
	}
	if _, err := fmt.Fprintf(w, "tabu duration : %.2f * %d   = %d (%s)\n", r.tabuDurationFactor, n, r.tabuDuration, shape); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "aspiration    : %.2f * %d^2 = %d\n", r.aspirationFactor, n, r.aspiration)
	return err
}

func cube(x float64) float64 { return x * x * x }

// Solve runs the robust taboo search main loop. Grounded on rots-qap.c's
// Solve.
func (r *ROTS) Solve(ctx context.Context, e *engine.Engine, report ReportFunc) error {
	n := e.N()
	tabuDuration, aspiration, doCube := r.tabuDuration, r.aspiration, r.doCube
	if tabuDuration == 0 {
		// Describe has not resolved the factors: resolve them the same
		// way here, without changing r.
		doCube = r.tabuDurationFactor >= 0
		tabuDuration = int(math.Abs(r.tabuDurationFactor) * float64(n))
		aspiration = int(r.aspirationFactor * float64(n) * float64(n))
	}
	tabuList := make([][]int, n)
	for i := range tabuList {
		tabuList[i] = make([]int, n)
		for j := range tabuList[i] {
			tabuList[i][j] = -(n*i + j)
		}
	}

	currentCost := e.Cost()
	bestCost := currentCost

	iter := 0
	for {
		if contextDone(ctx) {
			return nil
		}
		if !report(iter, e.Cost()) {
			return nil
		}
		iter++

		iRetained, jRetained := -1, -1
		var minDelta int64 = math.MaxInt64
		alreadyAspired := false

		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				d := e.GetDelta(i, j)
				pi, pj := e.At(i), e.At(j)

				authorized := tabuList[i][pj] < iter || tabuList[j][pi] < iter
				aspired := tabuList[i][pj] < iter-aspiration ||
					tabuList[j][pi] < iter-aspiration ||
					currentCost+d < bestCost

				switch {
				case aspired && !alreadyAspired:
				case aspired && alreadyAspired && d <= minDelta:
				case !aspired && !alreadyAspired && d <= minDelta && authorized:
				default:
					continue
				}

				iRetained, jRetained = i, j
				minDelta = d
				if aspired {
					alreadyAspired = true
				}
			}
		}

		if iRetained < 0 {
			log.Println("rots: all moves are tabu")
			continue
		}

		currentCost = e.DoSwap(iRetained, jRetained)
		if currentCost < bestCost {
			bestCost = currentCost
		}

		tenure := tabuDuration
		u := r.Src.Float64()
		factor := u
		if doCube {
			factor = cube(u)
		}
		t1 := int(factor * float64(tenure))
		for t1 <= 2 {
			u = r.Src.Float64()
			factor = u
			if doCube {
				factor = cube(u)
			}
			t1 = int(factor * float64(tenure))
		}

		tabuList[iRetained][e.At(jRetained)] = iter + t1
		tabuList[jRetained][e.At(iRetained)] = iter + t1
	}
}
