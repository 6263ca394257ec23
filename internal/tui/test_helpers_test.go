// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"testing"

	"github.com/randlab/randlab/internal/db"
)

// initTestDBT initializes an in-memory sqlite DB for tests and registers cleanup.
func initTestDBT(t *testing.T) {
	t.Helper()
	if err := db.InitDB("sqlite", ":memory:"); err != nil {
		t.Fatalf("initTestDBT: db.InitDB failed: %v", err)
	}
}

// stubSaver records Save calls so language tests never touch a real
// config file.
type stubSaver struct {
	calls int
	err   error
}

func (s *stubSaver) Save() error {
	s.calls++
	return s.err
}

// withStubConfigSaver swaps the package config saver for the duration of
// the test.
func withStubConfigSaver(t *testing.T) *stubSaver {
	t.Helper()
	s := &stubSaver{}
	prev := configSaver
	configSaver = s
	t.Cleanup(func() { configSaver = prev })
	return s
}
