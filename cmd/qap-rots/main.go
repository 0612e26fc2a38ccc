// Copyright ©2026 The QAP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qap-rots solves a QAP instance with Robust Taboo Search.
package main

import (
	"github.com/dhconnelly-labs/qap/internal/cli"
	"github.com/dhconnelly-labs/qap/solve"
)

func main() {
	cli.Run(solve.NewROTS(nil))
}
