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
	"sort"
	"strings"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/pdfsampler"
	"github.com/dhconnelly-labs/qap/rng"
)

// EO implements Extended Extremal Optimization: every position is scored
// by the best delta it could achieve with some partner (with the
// partner recorded as a witness), ranks are sorted by that fitness, and
// a PDF biases which rank's position gets swapped. Grounded on
// eo-qap.c and eo-pdf.c.
type EO struct {
	Src rng.Source

	PDFName   string
	Tau       float64
	Force     float64
	Graph     string
	ShowGraph string

	pdf *pdfsampler.PDF
}

// NewEO returns an EO heuristic drawing its tie-break and PDF-pick
// randomness from src.
func NewEO(src rng.Source) *EO {
	return &EO{Src: src, Tau: math.NaN(), Force: math.NaN()}
}

func (eo *EO) Name() string { return "eo" }

// Init registers -p, -t, -f, -g and -G, grounded on eo-qap.c's Init_Main.
func (eo *EO) Init(fs *flag.FlagSet) {
	fs.StringVar(&eo.PDFName, "p", "", fmt.Sprintf("use PDF (Prob Dist Function): %s", strings.Join(pdfsampler.Names(), " ")))
	fs.Float64Var(&eo.Tau, "t", math.NaN(), "specify PDF parameter tau")
	fs.Float64Var(&eo.Force, "f", math.NaN(), "specify PDF force level (in [0:1])")
	fs.StringVar(&eo.Graph, "g", "", "generate a graph file FILE.svg of the PDF")
	fs.StringVar(&eo.ShowGraph, "G", "", "same as -g (the graph file is written, not opened)")
}

// Describe resolves the PDF against the instance size and reports its
// parameters, grounded on Display_Parameters.
func (eo *EO) Describe(inst *instance.Instance, targetCost int64, w io.Writer) error {
	if !math.IsNaN(eo.Tau) && !math.IsNaN(eo.Force) {
		if _, err := fmt.Fprintln(w, "Warning: both -t and -f are given, -f is ignored"); err != nil {
			return err
		}
		eo.Force = math.NaN()
	}

	pdf, err := pdfsampler.New(eo.Src, inst.N, eo.PDFName, eo.Tau, eo.Force)
	if err != nil {
		return fmt.Errorf("qap: eo: %w", err)
	}
	eo.pdf = pdf

	if _, err := fmt.Fprintf(w, "used PDF      : %s\n", pdf.Family); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "tau parameter : %g\n", pdf.Tau); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "force level   : %g\n", pdf.Force); err != nil {
		return err
	}

	path := eo.ShowGraph
	if path == "" {
		path = eo.Graph
	}
	if path != "" {
		if err := eo.pdf.Plot(path + ".svg"); err != nil {
			return fmt.Errorf("qap: eo: plotting pdf: %w", err)
		}
	}
	return nil
}

// fitInfo is one position's entry in the fitness table: the best delta
// achievable by swapping it with some partner, and that partner's index.
type fitInfo struct {
	index   int
	fitness int64
	index2  int
}

// Solve runs the fitness-table/PDF-pick/swap cycle. Grounded on
// eo-qap.c's Solve, with FAST_VAR2_SELECTION as the only second-variable
// strategy (spec.md §4.D.5 step 1 codifies it).
func (eo *EO) Solve(ctx context.Context, e *engine.Engine, report ReportFunc) error {
	n := e.N()
	tbl := make([]fitInfo, n)

	iter := 0
	for {
		if contextDone(ctx) {
			return nil
		}
		if !report(iter, e.Cost()) {
			return nil
		}
		iter++

		for i := 0; i < n; i++ {
			var f int64 = math.MaxInt64
			i2, nbI2 := 0, 0
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				d := e.GetDelta(i, j)
				switch {
				case d < f:
					f = d
					i2 = j
					nbI2 = 1
				case d == f:
					nbI2++
					if eo.Src.Intn(nbI2) == 0 {
						i2 = j
					}
				}
			}
			tbl[i] = fitInfo{index: i, fitness: f, index2: i2}
		}

		sort.SliceStable(tbl, func(a, b int) bool { return tbl[a].fitness < tbl[b].fitness })

		rank := eo.pdf.Pick(eo.Src)
		target := tbl[rank].fitness
		kDeb, kEnd := rank, rank
		for kDeb-1 >= 0 && tbl[kDeb-1].fitness == target {
			kDeb--
		}
		for kEnd+1 < n && tbl[kEnd+1].fitness == target {
			kEnd++
		}
		selectedRank := rng.Uniform(eo.Src, kDeb, kEnd)

		i := tbl[selectedRank].index
		j := tbl[selectedRank].index2
		e.DoSwap(i, j)
	}
}
