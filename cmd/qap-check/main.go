// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qap-check recomputes the cost of a solution against a QAP
// instance and reports whether it matches the cost the solution file
// claims. Deliberately thin, grounded on check-sol.c.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dhconnelly-labs/qap/engine"
	"github.com/dhconnelly-labs/qap/instance"
)

func main() {
	exchange := flag.Bool("x", false, "check against the exchanged (B, A) matrices instead of (A, B)")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: qap-check [-x] instance-file solution-file")
		os.Exit(1)
	}

	inst, err := instance.LoadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	sf, err := os.Open(flag.Arg(1))
	if err != nil {
		log.Fatal(err)
	}
	defer sf.Close()

	n, claimedCost, perm, err := instance.ReadSolution(sf)
	if err != nil {
		log.Fatal(err)
	}
	if n != inst.N {
		log.Fatalf("qap: check: solution size %d does not match instance size %d", n, inst.N)
	}

	a, b := inst.A, inst.B
	if *exchange {
		a, b = b, a
	}
	e := engine.New(&instance.Instance{N: inst.N, A: a, B: b}, perm)
	cost := e.Cost()

	fmt.Printf("solution (0-based): %v\n", perm)
	fmt.Printf("computed cost: %d\n", cost)
	if cost != claimedCost {
		fmt.Printf("MISMATCH: solution file claims cost %d\n", claimedCost)
		os.Exit(1)
	}
	fmt.Println("cost matches")
}
