// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.
package model

// BackupData is a container for all data to be exported for a backup.
// It holds slices of all the persisted result tables.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	// Data from each table.
	TrialResults   []TrialResult   `json:"trial_results"`
	CryptoResults  []CryptoResult  `json:"crypto_results"`
	ExtractionRuns []ExtractionRun `json:"extraction_runs"`
}

// Counts holds the per-table row counts shown on the dashboard.
type Counts struct {
	TrialResults   int
	CryptoResults  int
	ExtractionRuns int
}

// Total returns the number of rows across all result tables.
func (c Counts) Total() int {
	return c.TrialResults + c.CryptoResults + c.ExtractionRuns
}
