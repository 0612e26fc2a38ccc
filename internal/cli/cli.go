// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli holds the flag-registration and run-loop boilerplate shared
// by every cmd/qap-* binary: the common options every heuristic accepts
// (-s, -i, -b, -P, -T, -v, -m, -r, -C), instance loading, signal-driven
// cancellation, and result printing. Grounded on main.c's option table and
// its Parse_Cmd_Line/Ctrl_C_Handler/Report_Solution wiring, reified as a
// single Run entry point so each cmd/ main is just flag registration plus
// a heuristic constructor.
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/dhconnelly-labs/qap/driver"
	"github.com/dhconnelly-labs/qap/instance"
	"github.com/dhconnelly-labs/qap/rng"
	"github.com/dhconnelly-labs/qap/solve"
)

// Common holds the flags main.c registers for every heuristic binary,
// spec.md §6, plus the SelfCheck debug toggle spec.md §4.B/§7 adds.
type Common struct {
	Seed               int64
	ReadInitial        bool
	NExecs             int
	ProbReuse          float64
	Target             int64
	Verbose            int
	MaxIters           int
	ItersBeforeRestart int
	SelfCheck          bool
}

// Register adds the common flags to fs, with main.c's defaults
// (max_exec_iters=10000, max_restart_iters unbounded until clamped).
func (c *Common) Register(fs *flag.FlagSet) {
	fs.Int64Var(&c.Seed, "s", -1, "set random seed (<0: derive from wall time)")
	fs.BoolVar(&c.ReadInitial, "i", false, "read initial configuration from standard input")
	fs.IntVar(&c.NExecs, "b", 1, "execute N_EXECS times")
	fs.Float64Var(&c.ProbReuse, "P", 0, "probability to reuse current configuration for next execution")
	fs.Int64Var(&c.Target, "T", 0, "set target (default: stop when the opt or bks is reached)")
	fs.IntVar(&c.Verbose, "v", 0, "set verbosity level")
	fs.IntVar(&c.MaxIters, "m", 10000, "set maximum #iterations")
	fs.IntVar(&c.ItersBeforeRestart, "r", 1<<30, "set #iterations before restart")
	fs.BoolVar(&c.SelfCheck, "C", false, "recompute and verify cost at every iteration (debug, slow)")
}

// Config builds the driver.Config this Common resolves to.
func (c *Common) Config() driver.Config {
	return driver.Config{
		NExecs:             c.NExecs,
		ProbReuse:          c.ProbReuse,
		ReadInitial:        c.ReadInitial,
		Target:             c.Target,
		Verbose:            c.Verbose,
		MaxIters:           c.MaxIters,
		ItersBeforeRestart: c.ItersBeforeRestart,
		SelfCheck:          c.SelfCheck,
	}
}

// Run implements the full cmd/qap-<name> main body: it registers h's
// flags alongside the common ones, parses argv (the sole positional
// argument is the instance file), loads the instance, derives the seeded
// rng.Source and wires it into h (so the same stream drives both the
// heuristic and the driver's restart permutations, spec.md §8
// "deterministic reproducibility"), describes the heuristic's resolved
// parameters, installs a real signal.Notify so Ctrl-C cancels the
// context cooperatively (spec.md §5, §9 "signal handler flag ->
// cooperative cancellation token"), runs the driver, and prints the
// result. It never returns: it calls log.Fatal on any fatal error (exit
// 1, spec.md §6) or os.Exit(0) otherwise.
//
// h must be freshly constructed with a nil rng.Source (e.g.
// solve.NewROTS(nil)): Run supplies the real, seed-derived Source once
// the seed flag has been parsed.
func Run(h solve.Heuristic) {
	var c Common
	fs := flag.NewFlagSet(h.Name(), flag.ExitOnError)
	c.Register(fs)
	h.Init(fs)
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] instance-file\n", h.Name())
		fs.Usage()
		os.Exit(1)
	}

	inst, err := instance.LoadFile(fs.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	src, seed := rng.NewSource(c.Seed)
	if c.Seed < 0 {
		log.Printf("qap: seed = %d", seed)
	}
	wireCommon(h, src, c)

	target := c.Config().Target
	if target <= 0 {
		target = inst.Target()
	}
	if err := h.Describe(inst, target, os.Stdout); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := driver.Run(ctx, inst, h, c.Config(), src)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(res)
	os.Exit(0)
}

// wireCommon wires src into h's exported Src field, plus any common
// flag values a heuristic exposes fields for (currently ROTS.Verbose).
// Every heuristic takes its rng.Source this same way at construction
// (NewROTS(src), etc.); Run needs to supply it a second time, after
// flags are parsed, since the seed flag isn't known until then.
func wireCommon(h solve.Heuristic, src rng.Source, c Common) {
	switch v := h.(type) {
	case *solve.ROTS:
		v.Src = src
		v.Verbose = c.Verbose
	case *solve.SA:
		v.Src = src
	case *solve.FANT:
		v.Src = src
	case *solve.EO:
		v.Src = src
	case *solve.BruteForce:
		v.Src = src
	}
}
