// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdfsampler implements the rank-based probability distribution
// sampler that drives EO's variable selection (spec.md §4.C). A PDF is
// tabulated over ranks 1..n from one of six families, parameterized
// either directly by a shape parameter τ or by a normalized "force"
// level that is converted to τ by bisection (monotone families) or grid
// refinement (the non-monotone gamma family). Grounded on eo-pdf.c and
// eo-pdf.h in full.
package pdfsampler

import (
	"fmt"
	"math"

	"github.com/dhconnelly-labs/qap/rng"
	"gonum.org/v1/gonum/floats"
)

const (
	epsilon = 1e-10
)

// PDF is a tabulated discrete distribution over ranks 1..N. P[0] is
// unused, matching the original's 1-based indexing; P[1:] sums to 1.
type PDF struct {
	N      int
	Family string
	Tau    float64
	Force  float64
	P      []float64
}

// Names returns the names of the six available families, in table
// order. Grounded on PDF_Get_Function_Name.
func Names() []string {
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.name
	}
	return names
}

// New builds a PDF of size n from familyName ("random" picks uniformly
// among the six families using src) given exactly one of tau or force;
// pass math.NaN() for whichever is not given. Grounded on PDF_Init.
func New(src rng.Source, n int, familyName string, tau, force float64) (*PDF, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pdfsampler: size must be positive, got %d", n)
	}
	if !math.IsNaN(tau) && !math.IsNaN(force) {
		// tau wins if both are given (PDF_Init: "p->force = NAN").
		force = math.NaN()
	}

	fam, err := resolveFamily(src, familyName)
	if err != nil {
		return nil, err
	}

	switch {
	case !math.IsNaN(force):
		inf, sup := fam.bracket(n)
		if fam.monot == nonMonotone {
			tau = searchTauNonMonotone(fam, n, force, inf, sup)
		} else {
			tau = searchTauMonotone(fam, n, force, inf, sup)
		}
	case math.IsNaN(tau):
		tau = fam.defaultTau(n)
	}

	p := tabulate(fam, n, tau)
	normalize(p)

	pdf := &PDF{N: n, Family: fam.name, Tau: tau, P: p}
	if math.IsNaN(force) {
		pdf.Force = computeForce(n, p)
	} else {
		pdf.Force = force
	}
	return pdf, nil
}

func resolveFamily(src rng.Source, name string) (family, error) {
	if name == "" || name == "random" {
		return families[src.Intn(len(families))], nil
	}
	fam, ok := familyByName(name)
	if !ok {
		return family{}, fmt.Errorf("pdfsampler: unknown PDF family %q", name)
	}
	return fam, nil
}

// tabulate evaluates fam.prob(x, tau) for x=1..n into a length-(n+1)
// slice with index 0 unused.
func tabulate(fam family, n int, tau float64) []float64 {
	p := make([]float64, n+1)
	for x := 1; x <= n; x++ {
		p[x] = fam.prob(x, tau)
	}
	return p
}

// normalize divides p (index 0 unused) by its own sum so it is a valid
// discrete distribution; this matches eo-pdf.c's comment that
// "normalizing... happens very often, e.g. for semi-PDFs".
func normalize(p []float64) {
	sum := floats.Sum(p[1:])
	if sum == 1.0 || sum == 0 {
		return
	}
	for i := 1; i < len(p); i++ {
		p[i] /= sum
	}
}

// forceBounds returns x_min, x_max, and the rank x_f whose cumulative
// probability mass should equal force, per spec.md §4.C: x_min=1,
// x_max=0.2n (clamped to n), x_f = x_max - force*(x_max - x_min).
func forceBounds(n int, force float64) (xMin, xMax float64, xf int) {
	xMin = 1
	xMax = 0.2 * float64(n)
	if xMax > float64(n) {
		xMax = float64(n)
	}
	xf = int(xMax - force*(xMax-xMin))
	if xf > n {
		xf = n
	}
	return xMin, xMax, xf
}

// cumulativeAt tabulates fam at tau into scratch (unnormalized) and
// returns the total sum and the normalized cumulative mass of ranks
// 1..forceX.
func cumulativeAt(fam family, n int, tau float64, forceX int, scratch []float64) (sum, mass float64) {
	for x := 1; x <= n; x++ {
		y := fam.prob(x, tau)
		scratch[x] = y
		sum += y
	}
	for x := 1; x <= forceX; x++ {
		mass += scratch[x] / sum
		if mass > 1 {
			break
		}
	}
	return sum, mass
}

// searchTauMonotone finds τ by bisection on [inf, sup] so that the
// cumulative mass of ranks 1..x_f matches force, for families whose
// force response is monotone in τ. Grounded on
// PDF_Compute_Tau_From_Force_Monot.
func searchTauMonotone(fam family, n int, force, inf, sup float64) float64 {
	_, _, forceX := forceBounds(n, force)
	scratch := make([]float64, n+1)

	tauInf, tauSup := inf, sup
	var tau, mass float64
	for {
		tau = (tauInf + tauSup) / 2
		_, mass = cumulativeAt(fam, n, tau, forceX, scratch)

		grows := fam.monot == growsWithTau
		if (grows && mass > force) || (!grows && mass < force) {
			tauSup = tau
		} else {
			tauInf = tau
		}

		if math.Abs(mass-force) <= epsilon || tauSup-tauInf <= epsilon {
			break
		}
	}
	return tau
}

// searchTauNonMonotone finds τ for the gamma family (whose force
// response is not monotone) by iterated grid refinement: sample
// nrSamples points across [inf, sup], keep the closest to target force,
// then shrink the bracket around it and double the sample density, up
// to 1000 refinements. Grounded on PDF_Compute_Tau_From_Force_Non_Monot.
func searchTauNonMonotone(fam family, n int, force, inf, sup float64) float64 {
	_, _, forceX := forceBounds(n, force)
	scratch := make([]float64, n+1)

	tauInf, tauSup := inf, sup
	nrSamples := 16.0
	tries := 1000
	bestTau := 0.0
	bestDist := math.Inf(1)

	for {
		step := (tauSup - tauInf) / nrSamples
		for tau := tauInf; tau <= tauSup; tau += step {
			_, mass := cumulativeAt(fam, n, tau, forceX, scratch)
			if dist := math.Abs(mass - force); dist < bestDist {
				bestDist = dist
				bestTau = tau
			}
		}

		if bestDist < epsilon || tries == 0 {
			break
		}
		tries--

		t := bestTau - step
		if t > tauInf {
			tauInf = t
		}
		t = bestTau + step
		if t < tauSup {
			tauSup = t
		}
		if nrSamples < 256 {
			nrSamples *= 2
		} else {
			nrSamples *= 1.2
		}

		if tauSup-tauInf < epsilon {
			break
		}
	}
	return bestTau
}

// computeForce recovers the force level implied by an already-tabulated,
// normalized PDF: it scans x from 1 to x_max accumulating mass, and
// picks the x in [x_min, x_max] whose implied force level
// (x_max-x)/(x_max-x_min) is closest to the accumulated mass. Grounded
// on PDF_Compute_Force.
func computeForce(n int, p []float64) float64 {
	xMin, xMax := 1.0, 0.2*float64(n)
	if xMax > float64(n) {
		xMax = float64(n)
	}

	var sum float64
	bestDist := math.Inf(1)
	bestForce := 0.0
	for x := 1; x <= int(xMax); x++ {
		sum += p[x]
		if float64(x) < xMin {
			continue
		}
		force := (xMax - float64(x)) / (xMax - xMin)
		if dist := math.Abs(force - sum); dist < bestDist {
			bestDist = dist
			bestForce = force
		}
	}
	return bestForce
}

// Pick draws a rank in [0, N) by roulette-wheel selection over P,
// returning a 0-based rank (P is 1-based). Grounded on PDF_Pick.
func (p *PDF) Pick(src rng.Source) int {
	prob := src.Float64()
	x := 0
	for x < p.N {
		x++
		fx := p.P[x]
		if fx >= prob {
			break
		}
		prob -= fx
	}
	return x - 1
}
