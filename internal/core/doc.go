// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core contains the UI-agnostic experiment workflows shared by the
// CLI and the TUI. Each workflow builds its bit source from options, runs
// the corresponding lab operation and persists the result through the db
// facade, returning both the stored record and the transient detail the
// UIs render.
package core // import "github.com/randlab/randlab/internal/core"
