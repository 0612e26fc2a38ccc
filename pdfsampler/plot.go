// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfsampler

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot renders P[1..N] as a line chart to path (format inferred from its
// extension by gonum/plot), replacing the original's gnuplot-script
// generation (PDF_Gener_GNUplot in eo-pdf.c) with a native Go renderer.
func (p *PDF) Plot(path string) error {
	plt := plot.New()
	plt.Title.Text = fmt.Sprintf("PDF: %s  size: %d  force: %g", p.Family, p.N, p.Force)
	plt.X.Label.Text = "rank"
	plt.Y.Label.Text = "probability"
	plt.X.Min = 1
	plt.X.Max = float64(p.N)
	plt.Y.Min = 0
	maxP, _ := floats.Max(p.P[1:])
	plt.Y.Max = maxP * 1.1

	pts := make(plotter.XYs, p.N)
	for x := 1; x <= p.N; x++ {
		pts[x-1].X = float64(x)
		pts[x-1].Y = p.P[x]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("pdfsampler: plot: %w", err)
	}

	plt.Add(line)
	plt.Legend.Add(fmt.Sprintf("tau = %g", p.Tau), line)

	if err := plt.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("pdfsampler: plot: %w", err)
	}
	return nil
}
