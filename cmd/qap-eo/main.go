// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qap-eo solves a QAP instance with Extended Extremal Optimization.
package main

import (
	"github.com/dhconnelly-labs/qap/internal/cli"
	"github.com/dhconnelly-labs/qap/solve"
)

func main() {
	cli.Run(solve.NewEO(nil))
}
