// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Randlab.
// This file contains the PostgreSQL implementation of the database store.
package db // import "github.com/randlab/randlab/internal/db"

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/randlab/randlab/internal/model"
	"github.com/uptrace/bun"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying Bun handle for tests and maintenance tooling.
func (s *PostgresStore) BunDB() *bun.DB { return s.bun }

// AddTrialResult adds a trial result batch to the database.
func (s *PostgresStore) AddTrialResult(r model.TrialResult) (int, error) {
	return AddTrialResultBun(s.bun, r)
}

// GetAllTrialResults retrieves all trial results from the database.
func (s *PostgresStore) GetAllTrialResults() ([]model.TrialResult, error) {
	return GetAllTrialResultsBun(s.bun)
}

// GetTrialResultByID retrieves a single trial result by its ID.
func (s *PostgresStore) GetTrialResultByID(id int) (*model.TrialResult, error) {
	return GetTrialResultByIDBun(s.bun, id)
}

// DeleteTrialResult removes a trial result from the database by its ID.
func (s *PostgresStore) DeleteTrialResult(id int) error {
	return DeleteTrialResultBun(s.bun, id)
}

// AddCryptoResult adds a crypto result to the database.
func (s *PostgresStore) AddCryptoResult(r model.CryptoResult) (int, error) {
	return AddCryptoResultBun(s.bun, r)
}

// GetAllCryptoResults retrieves all crypto results from the database.
func (s *PostgresStore) GetAllCryptoResults() ([]model.CryptoResult, error) {
	return GetAllCryptoResultsBun(s.bun)
}

// DeleteCryptoResult removes a crypto result from the database by its ID.
func (s *PostgresStore) DeleteCryptoResult(id int) error {
	return DeleteCryptoResultBun(s.bun, id)
}

// AddExtractionRun adds an extraction run to the database.
func (s *PostgresStore) AddExtractionRun(r model.ExtractionRun) (int, error) {
	return AddExtractionRunBun(s.bun, r)
}

// GetAllExtractionRuns retrieves all extraction runs from the database.
func (s *PostgresStore) GetAllExtractionRuns() ([]model.ExtractionRun, error) {
	return GetAllExtractionRunsBun(s.bun)
}

// DeleteExtractionRun removes an extraction run from the database by its ID.
func (s *PostgresStore) DeleteExtractionRun(id int) error {
	return DeleteExtractionRunBun(s.bun, id)
}

// CountResults returns per-table row counts.
func (s *PostgresStore) CountResults() (model.Counts, error) {
	return CountResultsBun(s.bun)
}

// PurgeResults deletes every stored result. TRUNCATE with RESTART IDENTITY
// also resets the id sequences in one statement.
func (s *PostgresStore) PurgeResults() error {
	ctx := context.Background()
	q := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", strings.Join(resultTables, ", "))
	if _, err := ExecRaw(ctx, s.bun, q); err != nil {
		return fmt.Errorf("failed to purge results: %w", err)
	}
	return nil
}

// ExportDataForBackup retrieves all data from the database for a backup.
func (s *PostgresStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
func (s *PostgresStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores data from a backup in a non-destructive way,
// skipping entries that already exist.
func (s *PostgresStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}
