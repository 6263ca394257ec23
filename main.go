// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Randlab.
//
// Usage:
//
//	go run . [flags]
//	./randlab [flags]
//
// This launches the Randlab CLI. See --help for options.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/randlab/randlab/ui/cli"
)

// version is set at build time using -ldflags, e.g.:
// go build -ldflags "-X main.version=1.2.3"
var version = "dev"

// main is the entrypoint for the Randlab CLI.
func main() {
	// Print version info if requested (optional, placeholder for future flag parsing)
	if os.Getenv("RANDLAB_SHOW_VERSION") == "1" {
		fmt.Fprintf(os.Stderr, "Randlab version: %s\n", version)
	}

	if err := cli.Execute(); err != nil {
		log.Printf("Randlab CLI error: %v", err)
		os.Exit(1)
	}
}
