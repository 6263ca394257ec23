// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package trials runs a bit source through the statistical suite across
// independent trials and reduces the per-trial scalars to mean plus 95%
// confidence half-width and pass counts.
package trials // import "github.com/randlab/randlab/internal/trials"

import (
	"context"
	"fmt"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/extract"
	"github.com/randlab/randlab/internal/source"
	"github.com/randlab/randlab/internal/stats"
)

// EntropyPassThreshold is the informational entropy cutoff applied when
// counting entropy passes. The entropy score itself has no built-in
// verdict.
const EntropyPassThreshold = 0.99

// BitSource produces one independent bitstring of the requested length
// per call.
type BitSource func(ctx context.Context, n int) (bitstream.Bits, error)

// Raw adapts a source to a BitSource without debiasing.
func Raw(src source.Source) BitSource {
	return func(ctx context.Context, n int) (bitstream.Bits, error) {
		return src.RawBits(ctx, n)
	}
}

// Extracted adapts a source to a BitSource that runs fixed-length Von
// Neumann extraction per call. The buffer is shared across trials so no
// raw bit is wasted between draws.
func Extracted(src source.Source) BitSource {
	ex := extract.New(bitstream.NewBuffer(src))
	return func(ctx context.Context, n int) (bitstream.Bits, error) {
		out, _, err := ex.ExtractN(ctx, n)
		return out, err
	}
}

// Summary reduces one metric across all trials. Valid is false when no
// trials ran; the undefined mean/CI are then zero by construction, never
// NaN.
type Summary struct {
	Mean      float64
	CI95      float64
	PassCount int
	Trials    int
	Valid     bool
}

// Report is the aggregate of a full trial session.
type Report struct {
	Trials    int
	BitLength int

	Entropy        Summary
	ChiSquare      Summary
	Frequency      Summary
	Runs           Summary
	BlockFrequency Summary
	ApproxEntropy  Summary

	// Cards retains the per-trial scorecards for persistence.
	Cards []stats.Scorecard
}

// Run executes trials independent draws of bitLength bits and scores
// each. trials == 0 yields a report of invalid summaries; negative
// counts and non-positive lengths are rejected.
func Run(ctx context.Context, src BitSource, trials, bitLength int) (*Report, error) {
	if bitLength <= 0 {
		return nil, fmt.Errorf("%w: bit length %d", bitstream.ErrInvalidParameter, bitLength)
	}
	if trials < 0 {
		return nil, fmt.Errorf("%w: trial count %d", bitstream.ErrInvalidParameter, trials)
	}

	report := &Report{Trials: trials, BitLength: bitLength}
	if trials == 0 {
		return report, nil
	}

	report.Cards = make([]stats.Scorecard, 0, trials)
	for i := 0; i < trials; i++ {
		bits, err := src(ctx, bitLength)
		if err != nil {
			return nil, fmt.Errorf("trial %d/%d: %w", i+1, trials, err)
		}
		if len(bits) != bitLength {
			return nil, fmt.Errorf("%w: trial %d returned %d bits, wanted %d",
				bitstream.ErrInvalidParameter, i+1, len(bits), bitLength)
		}
		report.Cards = append(report.Cards, stats.Score(bits))
	}

	report.Entropy = summarize(report.Cards, func(c stats.Scorecard) (float64, bool) {
		return c.Entropy, c.Entropy >= EntropyPassThreshold
	})
	report.ChiSquare = summarize(report.Cards, func(c stats.Scorecard) (float64, bool) {
		return c.ChiSquare, c.ChiSquarePass
	})
	report.Frequency = summarize(report.Cards, func(c stats.Scorecard) (float64, bool) {
		return c.FrequencyP, c.FrequencyPass
	})
	report.Runs = summarize(report.Cards, func(c stats.Scorecard) (float64, bool) {
		return c.RunsP, c.RunsPass
	})
	report.BlockFrequency = summarize(report.Cards, func(c stats.Scorecard) (float64, bool) {
		return c.BlockFrequencyP, c.BlockFrequencyPass
	})
	report.ApproxEntropy = summarize(report.Cards, func(c stats.Scorecard) (float64, bool) {
		return c.ApproxEntropyP, c.ApproxEntropyPass
	})
	return report, nil
}

func summarize(cards []stats.Scorecard, metric func(stats.Scorecard) (float64, bool)) Summary {
	values := make([]float64, 0, len(cards))
	passes := 0
	for _, c := range cards {
		v, pass := metric(c)
		values = append(values, v)
		if pass {
			passes++
		}
	}
	return Summary{
		Mean:      stats.Mean(values),
		CI95:      stats.ConfidenceInterval95(values),
		PassCount: passes,
		Trials:    len(cards),
		Valid:     true,
	}
}
