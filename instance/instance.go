// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instance loads and formats Quadratic Assignment Problem
// instances: two n×n integer matrices (flows A, distances B) plus header
// metadata (known optimum, lower bound, best known solution). See
// spec.md §4.A and the original QAP_Load_Problem in qap-utils.c.
package instance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Instance is an immutable QAP problem: A and B are never mutated after
// construction (spec.md §3, "A and B are not mutated after construction").
type Instance struct {
	N        int
	A, B     [][]int64
	Opt      int64 // 0 if unknown
	Bound    int64 // 0 if unknown
	BKS      int64 // 0 if unknown
	FileName string
}

// Target returns the cost the driver should stop at when no explicit
// -T TARGET is given: opt if known, else bks, else bound (spec.md §4.E).
func (inst *Instance) Target() int64 {
	switch {
	case inst.Opt > 0:
		return inst.Opt
	case inst.BKS > 0:
		return inst.BKS
	default:
		return inst.Bound
	}
}

// LoadFile opens path and parses it as a QAP instance.
func LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qap: instance: %w", err)
	}
	defer f.Close()
	return Load(f, path)
}

// Load parses a QAP instance from r. The format (spec.md §6) is:
//
//	n [meta]
//	A (n×n ints, whitespace separated, blank lines allowed)
//	B (n×n ints, whitespace separated, blank lines allowed)
//
// meta is empty, one integer (bks, possibly negative to encode a bound as
// its absolute value), or two integers (v1 = opt if >0 else −bound, v2 =
// bks). Parsing the header as its own line (rather than as tokens
// indistinguishable from the matrix that follows) mirrors QAP_Load_Problem,
// which reads the whole first line with fgets before fscanf'ing the
// matrices.
func Load(r io.Reader, fileName string) (*Instance, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("qap: %s: reading size: %w", fileName, err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("qap: %s: empty header line", fileName)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("qap: %s: invalid size %q", fileName, fields[0])
	}

	if len(fields) > 3 {
		return nil, fmt.Errorf("qap: %s: too many header values (expected at most 2)", fileName)
	}
	meta := make([]int64, 0, 2)
	for _, f := range fields[1:] {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("qap: %s: invalid header value %q", fileName, f)
		}
		meta = append(meta, v)
	}

	inst := &Instance{N: n, FileName: fileName}
	switch len(meta) {
	case 1:
		if meta[0] < 0 {
			inst.Bound = -meta[0]
		} else {
			inst.BKS = meta[0]
		}
	case 2:
		inst.Opt, inst.BKS = meta[0], meta[1]
	}
	if inst.Opt < 0 {
		inst.Bound = -inst.Opt
		inst.Opt = 0
	} else if inst.Opt > 0 {
		inst.Bound = inst.Opt
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	if inst.A, err = readMatrix(sc, n); err != nil {
		return nil, fmt.Errorf("qap: %s: reading flow matrix: %w", fileName, err)
	}
	if inst.B, err = readMatrix(sc, n); err != nil {
		return nil, fmt.Errorf("qap: %s: reading distance matrix: %w", fileName, err)
	}

	return inst, nil
}

func readMatrix(sc *bufio.Scanner, n int) ([][]int64, error) {
	m := make([][]int64, n)
	for i := range m {
		m[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, fmt.Errorf("at [%d][%d]: %w", i, j, err)
				}
				return nil, fmt.Errorf("at [%d][%d]: %w", i, j, io.ErrUnexpectedEOF)
			}
			text := sc.Text()
			v, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("at [%d][%d]: not an integer: %q", i, j, text)
			}
			m[i][j] = v
		}
	}
	return m, nil
}

// WriteSolution writes the check-tool solution format (spec.md §6): a
// single line "n cost" followed by n 1-based indices, the Go analogue of
// QAP_Display_Vector applied to a 1-based copy of perm.
func WriteSolution(w io.Writer, n int, cost int64, perm []int) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", n, cost); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i, v := range perm {
		if i > 0 {
			if _, err := bw.WriteString(" "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%d", v+1); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadSolution parses the check-tool solution format: a header line "n
// cost" followed by n 1-based indices. Grounded on check-sol.c's input
// handling.
func ReadSolution(r io.Reader) (n int, cost int64, perm []int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	nextInt := func(what string) (int64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("unexpected end of input reading %s", what)
		}
		v, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("reading %s: not an integer: %q", what, sc.Text())
		}
		return v, nil
	}

	nv, err := nextInt("size")
	if err != nil {
		return 0, 0, nil, err
	}
	n = int(nv)

	cost, err = nextInt("cost")
	if err != nil {
		return 0, 0, nil, err
	}

	perm = make([]int, n)
	for i := 0; i < n; i++ {
		v, err := nextInt("permutation entry")
		if err != nil {
			return 0, 0, nil, err
		}
		perm[i] = int(v) - 1
	}
	if i := checkPermutation(perm); i >= 0 {
		return 0, 0, nil, fmt.Errorf("not a valid permutation, error at index %d: value %d", i, perm[i]+1)
	}
	return n, cost, perm, nil
}

func checkPermutation(p []int) int {
	seen := make([]bool, len(p))
	for i, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return i
		}
		seen[v] = true
	}
	return -1
}
