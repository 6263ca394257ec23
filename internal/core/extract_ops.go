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

// ExtractOptions selects the source and the number of debiased bits to
// produce.
type ExtractOptions struct {
	Source string
	Seed   uint64
	Bias   float64
	Bits   int
}

// ExtractOutcome bundles the persisted run with the produced bits.
type ExtractOutcome struct {
	Run  model.ExtractionRun
	Bits bitstream.Bits
}

// RunExtraction produces a fixed-length debiased bitstring, persists the
// yield accounting and returns both.
func RunExtraction(ctx context.Context, opts ExtractOptions, rep Reporter) (ExtractOutcome, error) {
	src, err := source.ForName(opts.Source, opts.Seed, opts.Bias)
	if err != nil {
		return ExtractOutcome{}, err
	}

	ex := extract.New(bitstream.NewBuffer(src))
	bits, st, err := ex.ExtractN(ctx, opts.Bits)
	if err != nil {
		return ExtractOutcome{}, fmt.Errorf("extracting %d bits from %s: %w", opts.Bits, src.Name(), err)
	}
	reportf(rep, "extracted %d bits from %d raw (efficiency %.4f)", len(bits), st.RawBitsUsed, st.Efficiency)

	run := model.ExtractionRun{
		Source:        src.Name(),
		BitsRequested: opts.Bits,
		RawBitsUsed:   st.RawBitsUsed,
		Efficiency:    st.Efficiency,
		Entropy:       stats.Entropy(bits),
	}
	id, err := db.AddExtractionRun(run)
	if err != nil {
		return ExtractOutcome{}, fmt.Errorf("save extraction run: %w", err)
	}
	run.ID = id
	return ExtractOutcome{Run: run, Bits: bits}, nil
}
