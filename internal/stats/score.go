// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// Scorecard bundles every test in the suite over one bitstream.

package stats

import "github.com/randlab/randlab/internal/bitstream"

// Scorecard holds the full battery result for a single bitstream. The
// parameterized tests run with their defaults; inputs too short for a
// parameterized test keep the zeroed failing result so a Scorecard is
// always total.
type Scorecard struct {
	Length int
	Zeros  int
	Ones   int

	Entropy float64

	ChiSquare     float64
	ChiSquarePass bool

	FrequencyP    float64
	FrequencyPass bool

	RunsP    float64
	RunsPass bool

	BlockFrequencyP    float64
	BlockFrequencyPass bool

	ApproxEntropyP    float64
	ApproxEntropyPass bool
}

// Score runs the whole suite with default parameters.
func Score(b bitstream.Bits) Scorecard {
	card := Scorecard{
		Length:  len(b),
		Zeros:   b.Zeros(),
		Ones:    b.Ones(),
		Entropy: Entropy(b),
	}

	chi := ChiSquare(b)
	card.ChiSquare = chi.Statistic
	card.ChiSquarePass = chi.Passed

	mono := Monobit(b)
	card.FrequencyP = mono.PValue
	card.FrequencyPass = mono.Passed

	runs := Runs(b)
	card.RunsP = runs.PValue
	card.RunsPass = runs.Passed

	if len(b) >= DefaultBlockSize {
		if bf, err := BlockFrequency(b, DefaultBlockSize); err == nil {
			card.BlockFrequencyP = bf.PValue
			card.BlockFrequencyPass = bf.Passed
		}
	}
	if len(b) >= DefaultApEnBlock+1 {
		if ae, err := ApproxEntropy(b, DefaultApEnBlock); err == nil {
			card.ApproxEntropyP = ae.PValue
			card.ApproxEntropyPass = ae.Passed
		}
	}
	return card
}
