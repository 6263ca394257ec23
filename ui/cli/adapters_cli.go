// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.
package cli

import (
	"fmt"

	"github.com/randlab/randlab/internal/core"
)

// cliReporter implements core.Reporter by printing to stdout.
type cliReporter struct{}

func (r *cliReporter) Reportf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

var _ core.Reporter = (*cliReporter)(nil)
