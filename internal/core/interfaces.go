// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package core

// Reporter is used by workflows to emit progress or human-readable
// messages. UIs provide their own implementation; a nil Reporter is
// always allowed and silences the workflow.
type Reporter interface {
	Reportf(format string, args ...any)
}

func reportf(rep Reporter, format string, args ...any) {
	if rep != nil {
		rep.Reportf(format, args...)
	}
}
