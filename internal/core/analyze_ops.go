// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/extract"
	"github.com/randlab/randlab/internal/model"
	"github.com/randlab/randlab/internal/source"
	"github.com/randlab/randlab/internal/stats"
)

// AnalyzeOptions selects the source and the sample length for a
// raw-versus-extracted comparison.
type AnalyzeOptions struct {
	Source string
	Seed   uint64
	Bias   float64
	Bits   int
}

// Analysis is the raw-versus-extracted comparison of one source.
type Analysis struct {
	Source string
	// Raw describes a direct draw of the requested length.
	Raw stats.BitMetrics
	// Extracted describes a debiased stream of the same length drawn
	// afterwards from the same source.
	Extracted stats.BitMetrics
	// RawBitsUsed and Efficiency account for the extracted side.
	RawBitsUsed int
	Efficiency  float64
	// RunID is the persisted extraction run backing the comparison.
	RunID int
}

// AnalyzeSource measures a source before and after Von Neumann debiasing
// and persists the extraction accounting.
func AnalyzeSource(ctx context.Context, opts AnalyzeOptions, rep Reporter) (Analysis, error) {
	src, err := source.ForName(opts.Source, opts.Seed, opts.Bias)
	if err != nil {
		return Analysis{}, err
	}

	raw, err := src.RawBits(ctx, opts.Bits)
	if err != nil {
		return Analysis{}, fmt.Errorf("drawing %d raw bits from %s: %w", opts.Bits, src.Name(), err)
	}

	ex := extract.New(bitstream.NewBuffer(src))
	extracted, st, err := ex.ExtractN(ctx, opts.Bits)
	if err != nil {
		return Analysis{}, fmt.Errorf("extracting %d bits from %s: %w", opts.Bits, src.Name(), err)
	}

	analysis := Analysis{
		Source:      src.Name(),
		Raw:         stats.Metrics(raw),
		Extracted:   stats.Metrics(extracted),
		RawBitsUsed: st.RawBitsUsed,
		Efficiency:  st.Efficiency,
	}
	reportf(rep, "%s: raw bias %.4f, extracted bias %.4f, efficiency %.4f",
		src.Name(), analysis.Raw.Bias, analysis.Extracted.Bias, st.Efficiency)

	run := model.ExtractionRun{
		Source:        src.Name(),
		BitsRequested: opts.Bits,
		RawBitsUsed:   st.RawBitsUsed,
		Efficiency:    st.Efficiency,
		Entropy:       analysis.Extracted.Entropy,
	}
	id, err := db.AddExtractionRun(run)
	if err != nil {
		return Analysis{}, fmt.Errorf("save extraction run: %w", err)
	}
	analysis.RunID = id
	return analysis, nil
}
