// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Randlab.
// This file contains the SQLite implementation of the database store.
package db // import "github.com/randlab/randlab/internal/db"

import (
	"context"
	"fmt"

	"github.com/randlab/randlab/internal/model"
	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying Bun handle for tests and maintenance tooling.
func (s *SqliteStore) BunDB() *bun.DB { return s.bun }

// AddTrialResult adds a trial result batch to the database.
func (s *SqliteStore) AddTrialResult(r model.TrialResult) (int, error) {
	return AddTrialResultBun(s.bun, r)
}

// GetAllTrialResults retrieves all trial results from the database.
func (s *SqliteStore) GetAllTrialResults() ([]model.TrialResult, error) {
	return GetAllTrialResultsBun(s.bun)
}

// GetTrialResultByID retrieves a single trial result by its ID.
func (s *SqliteStore) GetTrialResultByID(id int) (*model.TrialResult, error) {
	return GetTrialResultByIDBun(s.bun, id)
}

// DeleteTrialResult removes a trial result from the database by its ID.
func (s *SqliteStore) DeleteTrialResult(id int) error {
	return DeleteTrialResultBun(s.bun, id)
}

// AddCryptoResult adds a crypto result to the database.
func (s *SqliteStore) AddCryptoResult(r model.CryptoResult) (int, error) {
	return AddCryptoResultBun(s.bun, r)
}

// GetAllCryptoResults retrieves all crypto results from the database.
func (s *SqliteStore) GetAllCryptoResults() ([]model.CryptoResult, error) {
	return GetAllCryptoResultsBun(s.bun)
}

// DeleteCryptoResult removes a crypto result from the database by its ID.
func (s *SqliteStore) DeleteCryptoResult(id int) error {
	return DeleteCryptoResultBun(s.bun, id)
}

// AddExtractionRun adds an extraction run to the database.
func (s *SqliteStore) AddExtractionRun(r model.ExtractionRun) (int, error) {
	return AddExtractionRunBun(s.bun, r)
}

// GetAllExtractionRuns retrieves all extraction runs from the database.
func (s *SqliteStore) GetAllExtractionRuns() ([]model.ExtractionRun, error) {
	return GetAllExtractionRunsBun(s.bun)
}

// DeleteExtractionRun removes an extraction run from the database by its ID.
func (s *SqliteStore) DeleteExtractionRun(id int) error {
	return DeleteExtractionRunBun(s.bun, id)
}

// CountResults returns per-table row counts.
func (s *SqliteStore) CountResults() (model.Counts, error) {
	return CountResultsBun(s.bun)
}

// PurgeResults deletes every stored result. SQLite has no TRUNCATE; plain
// DELETEs plus a sqlite_sequence reset give the same effect.
func (s *SqliteStore) PurgeResults() error {
	ctx := context.Background()
	return s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range resultTables {
			if _, err := ExecRaw(ctx, tx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to purge %s: %w", table, err)
			}
			// Reset AUTOINCREMENT bookkeeping; ignore errors when the table
			// never allocated a rowid.
			_, _ = ExecRaw(ctx, tx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
		return nil
	})
}

// ExportDataForBackup retrieves all data from the database for a backup.
// It uses a transaction to ensure a consistent snapshot of the data.
func (s *SqliteStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
// It performs a full wipe-and-replace within a single transaction to ensure atomicity.
func (s *SqliteStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores data from a backup in a non-destructive way,
// skipping entries that already exist.
func (s *SqliteStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}
