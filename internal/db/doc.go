// Package db contains the data-access layer for Randlab.
//
// It abstracts the underlying database (SQLite, PostgreSQL, MySQL) behind a
// consistent Store interface, so the CLI and TUI can persist and browse
// experiment results without caring about the backend. The centralized
// Bun-based query helpers live in bun_adapter.go; per-backend stores add
// only the SQL that genuinely differs between engines.
//
// Testing notes
//   - Prefer `db.InitDB("sqlite", ":memory:")` in tests that need real DB
//     semantics and migrations.
//   - The package-level helpers operate on the store set by InitDB; tests
//     that need isolation should construct stores via NewStoreFromDSN.
package db
