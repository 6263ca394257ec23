// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/randlab/randlab/internal/model"
	"github.com/uptrace/bun"
)

// TrialResultModel maps the `trial_results` table for Bun queries. The six
// metric summaries are stored flat, one column triple per metric.
type TrialResultModel struct {
	bun.BaseModel `bun:"table:trial_results"`
	ID            int       `bun:"id,pk,autoincrement"`
	CreatedAt     time.Time `bun:"created_at"`
	Source        string    `bun:"source"`
	Extracted     bool      `bun:"extracted"`
	Trials        int       `bun:"trials"`
	BitLength     int       `bun:"bit_length"`

	EntropyMean        float64 `bun:"entropy_mean"`
	EntropyCI          float64 `bun:"entropy_ci"`
	EntropyPass        int     `bun:"entropy_pass"`
	ChiSquareMean      float64 `bun:"chi_square_mean"`
	ChiSquareCI        float64 `bun:"chi_square_ci"`
	ChiSquarePass      int     `bun:"chi_square_pass"`
	FrequencyMean      float64 `bun:"frequency_mean"`
	FrequencyCI        float64 `bun:"frequency_ci"`
	FrequencyPass      int     `bun:"frequency_pass"`
	RunsMean           float64 `bun:"runs_mean"`
	RunsCI             float64 `bun:"runs_ci"`
	RunsPass           int     `bun:"runs_pass"`
	BlockFrequencyMean float64 `bun:"block_frequency_mean"`
	BlockFrequencyCI   float64 `bun:"block_frequency_ci"`
	BlockFrequencyPass int     `bun:"block_frequency_pass"`
	ApproxEntropyMean  float64 `bun:"approx_entropy_mean"`
	ApproxEntropyCI    float64 `bun:"approx_entropy_ci"`
	ApproxEntropyPass  int     `bun:"approx_entropy_pass"`
}

// CryptoResultModel maps the `crypto_results` table for Bun queries.
type CryptoResultModel struct {
	bun.BaseModel `bun:"table:crypto_results"`
	ID            int       `bun:"id,pk,autoincrement"`
	CreatedAt     time.Time `bun:"created_at"`
	Source        string    `bun:"source"`
	Extracted     bool      `bun:"extracted"`
	KeyHex        string    `bun:"key_hex"`
	KeyEntropy    float64   `bun:"key_entropy"`
	RawBitsUsed   int       `bun:"raw_bits_used"`
	Efficiency    float64   `bun:"efficiency"`

	AvalancheMean   float64 `bun:"avalanche_mean"`
	AvalancheStdDev float64 `bun:"avalanche_stddev"`
	AvalancheTrials int     `bun:"avalanche_trials"`
}

// ExtractionRunModel maps the `extraction_runs` table for Bun queries.
type ExtractionRunModel struct {
	bun.BaseModel `bun:"table:extraction_runs"`
	ID            int       `bun:"id,pk,autoincrement"`
	CreatedAt     time.Time `bun:"created_at"`
	Source        string    `bun:"source"`
	BitsRequested int       `bun:"bits_requested"`
	RawBitsUsed   int       `bun:"raw_bits_used"`
	Efficiency    float64   `bun:"efficiency"`
	Entropy       float64   `bun:"entropy"`
}

func trialResultToModel(m TrialResultModel) model.TrialResult {
	return model.TrialResult{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		Source:    m.Source,
		Extracted: m.Extracted,
		Trials:    m.Trials,
		BitLength: m.BitLength,
		Entropy:        model.MetricSummary{Mean: m.EntropyMean, CI: m.EntropyCI, Passed: m.EntropyPass},
		ChiSquare:      model.MetricSummary{Mean: m.ChiSquareMean, CI: m.ChiSquareCI, Passed: m.ChiSquarePass},
		Frequency:      model.MetricSummary{Mean: m.FrequencyMean, CI: m.FrequencyCI, Passed: m.FrequencyPass},
		Runs:           model.MetricSummary{Mean: m.RunsMean, CI: m.RunsCI, Passed: m.RunsPass},
		BlockFrequency: model.MetricSummary{Mean: m.BlockFrequencyMean, CI: m.BlockFrequencyCI, Passed: m.BlockFrequencyPass},
		ApproxEntropy:  model.MetricSummary{Mean: m.ApproxEntropyMean, CI: m.ApproxEntropyCI, Passed: m.ApproxEntropyPass},
	}
}

func trialResultFromModel(r model.TrialResult) TrialResultModel {
	return TrialResultModel{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Source:    r.Source,
		Extracted: r.Extracted,
		Trials:    r.Trials,
		BitLength: r.BitLength,
		EntropyMean:        r.Entropy.Mean,
		EntropyCI:          r.Entropy.CI,
		EntropyPass:        r.Entropy.Passed,
		ChiSquareMean:      r.ChiSquare.Mean,
		ChiSquareCI:        r.ChiSquare.CI,
		ChiSquarePass:      r.ChiSquare.Passed,
		FrequencyMean:      r.Frequency.Mean,
		FrequencyCI:        r.Frequency.CI,
		FrequencyPass:      r.Frequency.Passed,
		RunsMean:           r.Runs.Mean,
		RunsCI:             r.Runs.CI,
		RunsPass:           r.Runs.Passed,
		BlockFrequencyMean: r.BlockFrequency.Mean,
		BlockFrequencyCI:   r.BlockFrequency.CI,
		BlockFrequencyPass: r.BlockFrequency.Passed,
		ApproxEntropyMean:  r.ApproxEntropy.Mean,
		ApproxEntropyCI:    r.ApproxEntropy.CI,
		ApproxEntropyPass:  r.ApproxEntropy.Passed,
	}
}

func cryptoResultToModel(m CryptoResultModel) model.CryptoResult {
	return model.CryptoResult{
		ID:              m.ID,
		CreatedAt:       m.CreatedAt,
		Source:          m.Source,
		Extracted:       m.Extracted,
		KeyHex:          m.KeyHex,
		KeyEntropy:      m.KeyEntropy,
		RawBitsUsed:     m.RawBitsUsed,
		Efficiency:      m.Efficiency,
		AvalancheMean:   m.AvalancheMean,
		AvalancheStdDev: m.AvalancheStdDev,
		AvalancheTrials: m.AvalancheTrials,
	}
}

func cryptoResultFromModel(r model.CryptoResult) CryptoResultModel {
	return CryptoResultModel{
		ID:              r.ID,
		CreatedAt:       r.CreatedAt,
		Source:          r.Source,
		Extracted:       r.Extracted,
		KeyHex:          r.KeyHex,
		KeyEntropy:      r.KeyEntropy,
		RawBitsUsed:     r.RawBitsUsed,
		Efficiency:      r.Efficiency,
		AvalancheMean:   r.AvalancheMean,
		AvalancheStdDev: r.AvalancheStdDev,
		AvalancheTrials: r.AvalancheTrials,
	}
}

func extractionRunToModel(m ExtractionRunModel) model.ExtractionRun {
	return model.ExtractionRun{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		Source:        m.Source,
		BitsRequested: m.BitsRequested,
		RawBitsUsed:   m.RawBitsUsed,
		Efficiency:    m.Efficiency,
		Entropy:       m.Entropy,
	}
}

func extractionRunFromModel(r model.ExtractionRun) ExtractionRunModel {
	return ExtractionRunModel{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		Source:        r.Source,
		BitsRequested: r.BitsRequested,
		RawBitsUsed:   r.RawBitsUsed,
		Efficiency:    r.Efficiency,
		Entropy:       r.Entropy,
	}
}
