// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Randlab.
// This file contains the MySQL implementation of the database store.
package db // import "github.com/randlab/randlab/internal/db"

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/randlab/randlab/internal/model"
	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying Bun handle for tests and maintenance tooling.
func (s *MySQLStore) BunDB() *bun.DB { return s.bun }

// AddTrialResult adds a trial result batch to the database.
func (s *MySQLStore) AddTrialResult(r model.TrialResult) (int, error) {
	return AddTrialResultBun(s.bun, r)
}

// GetAllTrialResults retrieves all trial results from the database.
func (s *MySQLStore) GetAllTrialResults() ([]model.TrialResult, error) {
	return GetAllTrialResultsBun(s.bun)
}

// GetTrialResultByID retrieves a single trial result by its ID.
func (s *MySQLStore) GetTrialResultByID(id int) (*model.TrialResult, error) {
	return GetTrialResultByIDBun(s.bun, id)
}

// DeleteTrialResult removes a trial result from the database by its ID.
func (s *MySQLStore) DeleteTrialResult(id int) error {
	return DeleteTrialResultBun(s.bun, id)
}

// AddCryptoResult adds a crypto result to the database.
func (s *MySQLStore) AddCryptoResult(r model.CryptoResult) (int, error) {
	return AddCryptoResultBun(s.bun, r)
}

// GetAllCryptoResults retrieves all crypto results from the database.
func (s *MySQLStore) GetAllCryptoResults() ([]model.CryptoResult, error) {
	return GetAllCryptoResultsBun(s.bun)
}

// DeleteCryptoResult removes a crypto result from the database by its ID.
func (s *MySQLStore) DeleteCryptoResult(id int) error {
	return DeleteCryptoResultBun(s.bun, id)
}

// AddExtractionRun adds an extraction run to the database.
func (s *MySQLStore) AddExtractionRun(r model.ExtractionRun) (int, error) {
	return AddExtractionRunBun(s.bun, r)
}

// GetAllExtractionRuns retrieves all extraction runs from the database.
func (s *MySQLStore) GetAllExtractionRuns() ([]model.ExtractionRun, error) {
	return GetAllExtractionRunsBun(s.bun)
}

// DeleteExtractionRun removes an extraction run from the database by its ID.
func (s *MySQLStore) DeleteExtractionRun(id int) error {
	return DeleteExtractionRunBun(s.bun, id)
}

// CountResults returns per-table row counts.
func (s *MySQLStore) CountResults() (model.Counts, error) {
	return CountResultsBun(s.bun)
}

// PurgeResults deletes every stored result. MySQL TRUNCATE cannot name
// multiple tables, so truncate each in turn; TRUNCATE implies an implicit
// commit per statement on InnoDB anyway.
func (s *MySQLStore) PurgeResults() error {
	ctx := context.Background()
	for _, table := range resultTables {
		if _, err := ExecRaw(ctx, s.bun, "TRUNCATE TABLE "+table); err != nil {
			return fmt.Errorf("failed to purge %s: %w", table, err)
		}
	}
	return nil
}

// ExportDataForBackup retrieves all data from the database for a backup.
func (s *MySQLStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
func (s *MySQLStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores data from a backup in a non-destructive way,
// skipping entries that already exist.
func (s *MySQLStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}
