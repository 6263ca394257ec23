// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package testutil provides canned result records for tests that need
// stored data without running real experiments.
package testutil

import (
	"time"

	"github.com/randlab/randlab/internal/model"
)

// FixtureTime is the CreatedAt stamp shared by all fixtures so rendered
// timestamps are deterministic.
var FixtureTime = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

// PassingTrial returns a trial batch where every metric passed all ten
// trials, with means typical of a healthy source.
func PassingTrial(source string, extracted bool) model.TrialResult {
	return model.TrialResult{
		CreatedAt: FixtureTime,
		Source:    source,
		Extracted: extracted,
		Trials:    10,
		BitLength: 10000,

		Entropy:        model.MetricSummary{Mean: 0.9999, CI: 0.0001, Passed: 10},
		ChiSquare:      model.MetricSummary{Mean: 0.9734, CI: 0.5811, Passed: 10},
		Frequency:      model.MetricSummary{Mean: 0.5012, CI: 0.1903, Passed: 10},
		Runs:           model.MetricSummary{Mean: 0.4873, CI: 0.2104, Passed: 10},
		BlockFrequency: model.MetricSummary{Mean: 0.5241, CI: 0.1788, Passed: 10},
		ApproxEntropy:  model.MetricSummary{Mean: 0.4698, CI: 0.2215, Passed: 10},
	}
}

// BiasedTrial returns a raw batch from a heavily biased source: entropy
// near H(0.8) and every verdict metric failing all trials.
func BiasedTrial(source string) model.TrialResult {
	return model.TrialResult{
		CreatedAt: FixtureTime,
		Source:    source,
		Extracted: false,
		Trials:    10,
		BitLength: 10000,

		Entropy:        model.MetricSummary{Mean: 0.7224, CI: 0.0012, Passed: 0},
		ChiSquare:      model.MetricSummary{Mean: 3589.2, CI: 41.3, Passed: 0},
		Frequency:      model.MetricSummary{Mean: 0.0, CI: 0.0, Passed: 0},
		Runs:           model.MetricSummary{Mean: 0.0, CI: 0.0, Passed: 0},
		BlockFrequency: model.MetricSummary{Mean: 0.0, CI: 0.0, Passed: 0},
		ApproxEntropy:  model.MetricSummary{Mean: 0.0, CI: 0.0, Passed: 0},
	}
}

// CryptoResult returns a key generation record with a plausible
// avalanche profile.
func CryptoResult(source string, extracted bool) model.CryptoResult {
	return model.CryptoResult{
		CreatedAt:   FixtureTime,
		Source:      source,
		Extracted:   extracted,
		KeyHex:      "6b0f1c2a3d4e5f60718293a4b5c6d7e8f9011223344556677889900aabbccdde",
		KeyEntropy:  0.9991,
		RawBitsUsed: 1034,
		Efficiency:  0.2476,

		AvalancheMean:   49.87,
		AvalancheStdDev: 3.12,
		AvalancheTrials: 5,
	}
}

// ExtractionRun returns a fixed-length extraction record with a yield
// typical of a fair source.
func ExtractionRun(source string) model.ExtractionRun {
	return model.ExtractionRun{
		CreatedAt:     FixtureTime,
		Source:        source,
		BitsRequested: 256,
		RawBitsUsed:   1042,
		Efficiency:    0.2457,
		Entropy:       0.9989,
	}
}
