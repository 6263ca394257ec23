// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for Randlab.
// This file contains the centralized Bun query helpers shared by all
// backend stores. Backend files delegate here; only SQL that differs
// between engines lives in the per-backend files.
package db // import "github.com/randlab/randlab/internal/db"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/randlab/randlab/internal/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// schemaVersion is stamped into exported backups so a future restore can
// translate old layouts.
const schemaVersion = 1

// AddTrialResultBun inserts a trial result and returns its new ID.
func AddTrialResultBun(bdb *bun.DB, r model.TrialResult) (int, error) {
	ctx := context.Background()

	m := trialResultFromModel(r)
	m.ID = 0
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if _, err := bdb.NewInsert().Model(&m).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return m.ID, nil
}

// GetAllTrialResultsBun retrieves all trial results, most recent first.
func GetAllTrialResultsBun(bdb *bun.DB) ([]model.TrialResult, error) {
	ctx := context.Background()

	var ms []TrialResultModel
	if err := bdb.NewSelect().Model(&ms).OrderExpr("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.TrialResult, 0, len(ms))
	for _, m := range ms {
		out = append(out, trialResultToModel(m))
	}
	return out, nil
}

// GetTrialResultByIDBun retrieves a single trial result. A missing row is
// not an error; it returns (nil, nil).
func GetTrialResultByIDBun(bdb *bun.DB, id int) (*model.TrialResult, error) {
	ctx := context.Background()

	var m TrialResultModel
	err := bdb.NewSelect().Model(&m).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r := trialResultToModel(m)
	return &r, nil
}

// DeleteTrialResultBun removes a trial result by ID.
func DeleteTrialResultBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	_, err := bdb.NewDelete().Model((*TrialResultModel)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// AddCryptoResultBun inserts a crypto result and returns its new ID.
func AddCryptoResultBun(bdb *bun.DB, r model.CryptoResult) (int, error) {
	ctx := context.Background()

	m := cryptoResultFromModel(r)
	m.ID = 0
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if _, err := bdb.NewInsert().Model(&m).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return m.ID, nil
}

// GetAllCryptoResultsBun retrieves all crypto results, most recent first.
func GetAllCryptoResultsBun(bdb *bun.DB) ([]model.CryptoResult, error) {
	ctx := context.Background()

	var ms []CryptoResultModel
	if err := bdb.NewSelect().Model(&ms).OrderExpr("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.CryptoResult, 0, len(ms))
	for _, m := range ms {
		out = append(out, cryptoResultToModel(m))
	}
	return out, nil
}

// DeleteCryptoResultBun removes a crypto result by ID.
func DeleteCryptoResultBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	_, err := bdb.NewDelete().Model((*CryptoResultModel)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// AddExtractionRunBun inserts an extraction run and returns its new ID.
func AddExtractionRunBun(bdb *bun.DB, r model.ExtractionRun) (int, error) {
	ctx := context.Background()

	m := extractionRunFromModel(r)
	m.ID = 0
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if _, err := bdb.NewInsert().Model(&m).Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return m.ID, nil
}

// GetAllExtractionRunsBun retrieves all extraction runs, most recent first.
func GetAllExtractionRunsBun(bdb *bun.DB) ([]model.ExtractionRun, error) {
	ctx := context.Background()

	var ms []ExtractionRunModel
	if err := bdb.NewSelect().Model(&ms).OrderExpr("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.ExtractionRun, 0, len(ms))
	for _, m := range ms {
		out = append(out, extractionRunToModel(m))
	}
	return out, nil
}

// DeleteExtractionRunBun removes an extraction run by ID.
func DeleteExtractionRunBun(bdb *bun.DB, id int) error {
	ctx := context.Background()
	_, err := bdb.NewDelete().Model((*ExtractionRunModel)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// CountResultsBun returns per-table row counts for the dashboard.
func CountResultsBun(bdb *bun.DB) (model.Counts, error) {
	ctx := context.Background()

	var c model.Counts
	var err error
	if c.TrialResults, err = bdb.NewSelect().Model((*TrialResultModel)(nil)).Count(ctx); err != nil {
		return model.Counts{}, err
	}
	if c.CryptoResults, err = bdb.NewSelect().Model((*CryptoResultModel)(nil)).Count(ctx); err != nil {
		return model.Counts{}, err
	}
	if c.ExtractionRuns, err = bdb.NewSelect().Model((*ExtractionRunModel)(nil)).Count(ctx); err != nil {
		return model.Counts{}, err
	}
	return c, nil
}

// ExportDataForBackupBun retrieves all data from the database for a backup.
// It uses a transaction to ensure a consistent snapshot of the data.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()

	backup := &model.BackupData{SchemaVersion: schemaVersion}
	err := bdb.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var trials []TrialResultModel
		if err := tx.NewSelect().Model(&trials).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("failed to export trial results: %w", err)
		}
		for _, m := range trials {
			backup.TrialResults = append(backup.TrialResults, trialResultToModel(m))
		}

		var cryptos []CryptoResultModel
		if err := tx.NewSelect().Model(&cryptos).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("failed to export crypto results: %w", err)
		}
		for _, m := range cryptos {
			backup.CryptoResults = append(backup.CryptoResults, cryptoResultToModel(m))
		}

		var runs []ExtractionRunModel
		if err := tx.NewSelect().Model(&runs).OrderExpr("id ASC").Scan(ctx); err != nil {
			return fmt.Errorf("failed to export extraction runs: %w", err)
		}
		for _, m := range runs {
			backup.ExtractionRuns = append(backup.ExtractionRuns, extractionRunToModel(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// ImportDataFromBackupBun restores the database from a backup data structure.
// It performs a full wipe-and-replace within a single transaction to ensure
// atomicity. Row IDs from the backup are preserved.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	isPG := bdb.Dialect().Name() == dialect.PG

	return bdb.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Use raw DELETEs because Bun requires a WHERE clause for Delete
		// queries to prevent accidental full-table deletes.
		for _, table := range resultTables {
			if _, err := ExecRaw(ctx, tx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if len(backup.TrialResults) > 0 {
			ms := make([]TrialResultModel, 0, len(backup.TrialResults))
			for _, r := range backup.TrialResults {
				ms = append(ms, trialResultFromModel(r))
			}
			if _, err := tx.NewInsert().Model(&ms).Exec(ctx); err != nil {
				return fmt.Errorf("failed to restore trial results: %w", err)
			}
		}
		if len(backup.CryptoResults) > 0 {
			ms := make([]CryptoResultModel, 0, len(backup.CryptoResults))
			for _, r := range backup.CryptoResults {
				ms = append(ms, cryptoResultFromModel(r))
			}
			if _, err := tx.NewInsert().Model(&ms).Exec(ctx); err != nil {
				return fmt.Errorf("failed to restore crypto results: %w", err)
			}
		}
		if len(backup.ExtractionRuns) > 0 {
			ms := make([]ExtractionRunModel, 0, len(backup.ExtractionRuns))
			for _, r := range backup.ExtractionRuns {
				ms = append(ms, extractionRunFromModel(r))
			}
			if _, err := tx.NewInsert().Model(&ms).Exec(ctx); err != nil {
				return fmt.Errorf("failed to restore extraction runs: %w", err)
			}
		}

		// Postgres sequences do not advance on explicit-ID inserts; bump
		// them past the restored rows so later inserts don't collide.
		if isPG {
			for _, table := range resultTables {
				q := fmt.Sprintf(
					"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
					table, table)
				if _, err := ExecRaw(ctx, tx, q); err != nil {
					return fmt.Errorf("failed to reset %s id sequence: %w", table, err)
				}
			}
		}
		return nil
	})
}

// IntegrateDataFromBackupBun restores data from a backup in a non-destructive
// way, skipping entries whose IDs already exist.
func IntegrateDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()
	isPG := bdb.Dialect().Name() == dialect.PG

	return bdb.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, r := range backup.TrialResults {
			skip, err := rowExists(ctx, tx, (*TrialResultModel)(nil), r.ID)
			if err != nil {
				return err
			}
			if skip {
				continue
			}
			m := trialResultFromModel(r)
			if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
				return fmt.Errorf("failed to integrate trial result %d: %w", r.ID, err)
			}
		}
		for _, r := range backup.CryptoResults {
			skip, err := rowExists(ctx, tx, (*CryptoResultModel)(nil), r.ID)
			if err != nil {
				return err
			}
			if skip {
				continue
			}
			m := cryptoResultFromModel(r)
			if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
				return fmt.Errorf("failed to integrate crypto result %d: %w", r.ID, err)
			}
		}
		for _, r := range backup.ExtractionRuns {
			skip, err := rowExists(ctx, tx, (*ExtractionRunModel)(nil), r.ID)
			if err != nil {
				return err
			}
			if skip {
				continue
			}
			m := extractionRunFromModel(r)
			if _, err := tx.NewInsert().Model(&m).Exec(ctx); err != nil {
				return fmt.Errorf("failed to integrate extraction run %d: %w", r.ID, err)
			}
		}

		if isPG {
			for _, table := range resultTables {
				q := fmt.Sprintf(
					"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
					table, table)
				if _, err := ExecRaw(ctx, tx, q); err != nil {
					return fmt.Errorf("failed to reset %s id sequence: %w", table, err)
				}
			}
		}
		return nil
	})
}

// resultTables lists every result table in restore order.
var resultTables = []string{"trial_results", "crypto_results", "extraction_runs"}

func rowExists(ctx context.Context, tx bun.Tx, m interface{}, id int) (bool, error) {
	if id == 0 {
		// Rows without an ID can't collide; always insert them.
		return false, nil
	}
	return tx.NewSelect().Model(m).Where("id = ?", id).Exists(ctx)
}
