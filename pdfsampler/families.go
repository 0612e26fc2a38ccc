// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfsampler

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// monotonicity classifies how a family's force level responds to an
// increasing τ, which determines whether τ↔force conversion can use
// bisection or needs the slower grid-refinement search. Grounded on the
// force_monot enum in eo-pdf.c.
type monotonicity int

const (
	growsWithTau monotonicity = iota
	growsWithInvTau
	nonMonotone
)

// family is one entry of eo-pdf.c's pdf_tbl[]: a name, a probability
// function pdf(x, τ), a default-τ rule used when neither τ nor force is
// given, a force-search bracket [τ_inf, τ_sup], and a monotonicity class.
type family struct {
	name       string
	prob       func(x int, tau float64) float64
	defaultTau func(n int) float64
	bracket    func(n int) (inf, sup float64)
	monot      monotonicity
}

// families is the fixed table of the six PDFs EO can sample from, in the
// order eo-pdf.c declares them; "random" (resolveFamily) picks uniformly
// among these.
var families = [...]family{
	{
		name:       "power",
		prob:       func(x int, tau float64) float64 { return math.Pow(float64(x), -tau) },
		defaultTau: func(n int) float64 { return 1.0 + 1.0/math.Log(float64(n)) },
		bracket:    func(n int) (float64, float64) { return epsilon, float64(n) },
		monot:      growsWithTau,
	},
	{
		name:       "exponential",
		prob:       func(x int, tau float64) float64 { return math.Exp(-tau * float64(x)) },
		defaultTau: func(n int) float64 { return 15.0 / float64(n) },
		bracket:    func(n int) (float64, float64) { return epsilon, float64(n) },
		monot:      growsWithTau,
	},
	{
		name: "normal",
		prob: func(x int, tau float64) float64 {
			return distuv.Normal{Mu: 1, Sigma: tau}.Prob(float64(x))
		},
		defaultTau: func(n int) float64 { return math.Log(float64(n)) },
		bracket: func(n int) (float64, float64) {
			return 0, float64(n) * math.Log(float64(n))
		},
		monot: growsWithInvTau,
	},
	{
		name: "gamma",
		prob: func(x int, tau float64) float64 {
			// distuv.Gamma is rate-parameterized (Beta = 1/θ); the
			// original is scale-parameterized with θ = exp(τ).
			k := tau
			if k <= 0 {
				k = epsilon
			}
			return distuv.Gamma{Alpha: k, Beta: 1 / math.Exp(tau)}.Prob(float64(x))
		},
		defaultTau: func(n int) float64 { return 0.5304325176*math.Log(float64(n)) - 0.9087826636 },
		bracket:    func(n int) (float64, float64) { return epsilon, 10 },
		monot:      nonMonotone,
	},
	{
		name:       "cauchy",
		prob:       func(x int, tau float64) float64 { return cauchy(float64(x), 1, tau) },
		defaultTau: func(n int) float64 { return float64(n) / 22.22 },
		bracket:    func(n int) (float64, float64) { return 0, float64(n) },
		monot:      growsWithInvTau,
	},
	{
		name:       "triangular",
		prob:       func(x int, tau float64) float64 { return triangular(float64(x), 0, 1, tau) },
		defaultTau: func(n int) float64 { return float64(n) / 5.0 },
		bracket:    func(n int) (float64, float64) { return 0, float64(n) },
		monot:      growsWithInvTau,
	},
}

// cauchy is the standard Cauchy density, unavailable in the retrieved
// distuv package (which holds only beta, gamma, normal, studentst).
func cauchy(x, x0, a float64) float64 {
	return 0.31830988618379067154 * (a / (math.Pow(x-x0, 2) + a*a))
}

// triangular is the standard triangular density, also absent from distuv.
func triangular(x, a, c, b float64) float64 {
	if x <= a || x >= b {
		return 0
	}
	if x <= c {
		return 2.0 * (x - a) / ((b - a) * (c - a))
	}
	return 2.0 * (b - x) / ((b - a) * (b - c))
}

func familyByName(name string) (family, bool) {
	for _, f := range families {
		if f.name == name {
			return f, true
		}
	}
	return family{}, false
}
