// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Randlab using Cobra.
// It wires configuration, default services, and provides commands that
// delegate to the deterministic `internal/core` workflows. CLI code should
// remain thin and leave the lab logic to core.
package cli
