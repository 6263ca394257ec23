// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/randlab/randlab/internal/model"
)

// Store defines the interface for all database operations in Randlab.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Trial result methods
	AddTrialResult(r model.TrialResult) (int, error)
	GetAllTrialResults() ([]model.TrialResult, error)
	GetTrialResultByID(id int) (*model.TrialResult, error)
	DeleteTrialResult(id int) error

	// Crypto result methods
	AddCryptoResult(r model.CryptoResult) (int, error)
	GetAllCryptoResults() ([]model.CryptoResult, error)
	DeleteCryptoResult(id int) error

	// Extraction run methods
	AddExtractionRun(r model.ExtractionRun) (int, error)
	GetAllExtractionRuns() ([]model.ExtractionRun, error)
	DeleteExtractionRun(id int) error

	// Maintenance methods
	CountResults() (model.Counts, error)
	PurgeResults() error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
	IntegrateDataFromBackup(backup *model.BackupData) error
}
