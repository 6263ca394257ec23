// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the persisted result records shared by the store,
// the CLI and the TUI.
package model // import "github.com/randlab/randlab/internal/model"

import (
	"fmt"
	"time"
)

// MetricSummary is the stored aggregate for one statistical metric over a
// trial batch.
type MetricSummary struct {
	// Mean of the metric across trials.
	Mean float64
	// CI is the half-width of the 95% confidence interval.
	CI float64
	// Passed counts the trials whose verdict for this metric was a pass.
	Passed int
}

// String renders the summary in the mean ± ci (passed/total is appended by
// callers that know the trial count) form used across the UIs.
func (m MetricSummary) String() string {
	return fmt.Sprintf("%.4f ± %.4f", m.Mean, m.CI)
}

// TrialResult is one persisted batch of statistical trials.
type TrialResult struct {
	ID        int
	CreatedAt time.Time
	// Source is the bit source name the batch ran against.
	Source string
	// Extracted is true when the bits went through Von Neumann debiasing.
	Extracted bool
	Trials    int
	BitLength int

	Entropy        MetricSummary
	ChiSquare      MetricSummary
	Frequency      MetricSummary
	Runs           MetricSummary
	BlockFrequency MetricSummary
	ApproxEntropy  MetricSummary
}

// Label returns the short run description used in result lists.
func (r TrialResult) Label() string {
	mode := "raw"
	if r.Extracted {
		mode = "extracted"
	}
	return fmt.Sprintf("%s/%s %dx%d", r.Source, mode, r.Trials, r.BitLength)
}

// CryptoResult is one persisted key generation plus its avalanche analysis.
type CryptoResult struct {
	ID        int
	CreatedAt time.Time
	Source    string
	Extracted bool
	// KeyHex is the generated key. Results are lab artifacts, not secrets;
	// keys generated here are never used outside an experiment.
	KeyHex      string
	KeyEntropy  float64
	RawBitsUsed int
	Efficiency  float64

	AvalancheMean   float64
	AvalancheStdDev float64
	AvalancheTrials int
}

// ExtractionRun is one persisted fixed-length extraction with its yield
// accounting.
type ExtractionRun struct {
	ID            int
	CreatedAt     time.Time
	Source        string
	BitsRequested int
	RawBitsUsed   int
	Efficiency    float64
	// Entropy of the extracted output bits.
	Entropy float64
}
