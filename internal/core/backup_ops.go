// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/model"
)

// RestoreOptions controls restore behavior.
type RestoreOptions struct {
	// Merge integrates backup rows into the existing data instead of
	// replacing it.
	Merge bool
}

// Backup exports the full store.
func Backup() (*model.BackupData, error) {
	return db.ExportDataForBackup()
}

// WriteBackup writes zstd-compressed JSON backup data to w.
func WriteBackup(data *model.BackupData, w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zstd writer: %w", err)
	}
	return nil
}

// ReadBackup decodes a zstd-compressed JSON backup stream.
func ReadBackup(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return &data, nil
}

// Restore reads a backup stream and replays it into the store.
func Restore(r io.Reader, opts RestoreOptions) error {
	data, err := ReadBackup(r)
	if err != nil {
		return err
	}
	if opts.Merge {
		return db.IntegrateDataFromBackup(data)
	}
	return db.ImportDataFromBackup(data)
}

// Migrate exports every persisted result from the current database and
// performs a full, destructive import into a freshly migrated target
// database. The configured database stays untouched.
func Migrate(targetType, targetDsn string) error {
	data, err := db.ExportDataForBackup()
	if err != nil {
		return fmt.Errorf("could not export current database: %w", err)
	}
	target, err := db.NewStoreFromDSN(targetType, targetDsn)
	if err != nil {
		return fmt.Errorf("could not connect to target database: %w", err)
	}
	if err := target.ImportDataFromBackup(data); err != nil {
		return fmt.Errorf("could not import into target database: %w", err)
	}
	return nil
}
