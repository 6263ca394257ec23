// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/model"
	"github.com/randlab/randlab/internal/source"
	"github.com/randlab/randlab/internal/trials"
)

// TrialOptions selects the bit source and batch shape for a trial run.
type TrialOptions struct {
	// Source is the bit source name; empty selects the CSPRNG.
	Source string
	// Seed feeds the deterministic sources.
	Seed uint64
	// Bias is P(1) for the biased source.
	Bias float64
	// Extracted routes every draw through Von Neumann debiasing.
	Extracted bool
	Trials    int
	BitLength int
}

// RunTrialBatch draws and scores a batch of independent bitstrings,
// persists the aggregate and returns the stored record with its ID set.
func RunTrialBatch(ctx context.Context, opts TrialOptions, rep Reporter) (model.TrialResult, error) {
	if opts.Trials <= 0 {
		return model.TrialResult{}, fmt.Errorf("%w: trial count %d", bitstream.ErrInvalidParameter, opts.Trials)
	}
	src, err := source.ForName(opts.Source, opts.Seed, opts.Bias)
	if err != nil {
		return model.TrialResult{}, err
	}

	draw := trials.Raw(src)
	mode := "raw"
	if opts.Extracted {
		draw = trials.Extracted(src)
		mode = "extracted"
	}
	reportf(rep, "running %d trials of %d %s bits against %s", opts.Trials, opts.BitLength, mode, src.Name())

	report, err := trials.Run(ctx, draw, opts.Trials, opts.BitLength)
	if err != nil {
		return model.TrialResult{}, err
	}

	result := model.TrialResult{
		Source:         src.Name(),
		Extracted:      opts.Extracted,
		Trials:         report.Trials,
		BitLength:      report.BitLength,
		Entropy:        metricSummary(report.Entropy),
		ChiSquare:      metricSummary(report.ChiSquare),
		Frequency:      metricSummary(report.Frequency),
		Runs:           metricSummary(report.Runs),
		BlockFrequency: metricSummary(report.BlockFrequency),
		ApproxEntropy:  metricSummary(report.ApproxEntropy),
	}
	id, err := db.AddTrialResult(result)
	if err != nil {
		return model.TrialResult{}, fmt.Errorf("save trial result: %w", err)
	}
	result.ID = id
	return result, nil
}

func metricSummary(s trials.Summary) model.MetricSummary {
	return model.MetricSummary{Mean: s.Mean, CI: s.CI95, Passed: s.PassCount}
}
