// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qap-reformat re-emits a QAP instance in normalized form: a
// single "n opt bks" header followed by the two matrices, every entry
// right-aligned to the width of the largest value present. Deliberately
// thin, grounded on qap-new-format.c.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dhconnelly-labs/qap/instance"
)

func main() {
	exchange := flag.Bool("x", false, "swap the flow/distance matrices on output")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: qap-reformat [-x] instance-file")
		os.Exit(1)
	}

	inst, err := instance.LoadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	a, b := inst.A, inst.B
	if *exchange {
		a, b = b, a
	}

	opt := inst.Opt
	if opt <= 0 {
		opt = -inst.Bound
	}
	fmt.Printf("%d %d %d\n", inst.N, opt, inst.BKS)

	width := fieldWidth(a, b)
	printMatrix(os.Stdout, a, width)
	printMatrix(os.Stdout, b, width)
}

// fieldWidth returns the decimal width of the largest entry in a or b,
// the same right-justification nb10 computes in qap-new-format.c.
func fieldWidth(a, b [][]int64) int {
	var max int64
	for _, m := range [][][]int64{a, b} {
		for _, row := range m {
			for _, v := range row {
				if v > max {
					max = v
				}
			}
		}
	}
	width := 1
	for max >= 10 {
		max /= 10
		width++
	}
	return width
}

func printMatrix(w io.Writer, m [][]int64, width int) {
	for _, row := range m {
		fmt.Fprint(w, "\n")
		for j, v := range row {
			if j > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%*d", width, v)
		}
	}
	fmt.Fprintln(w)
}
