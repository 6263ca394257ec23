// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"

	"github.com/randlab/randlab/internal/avalanche"
	"github.com/randlab/randlab/internal/channel"
	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/keygen"
	"github.com/randlab/randlab/internal/model"
	"github.com/randlab/randlab/internal/source"
)

// DefaultPlaintext is the avalanche probe message used when none is
// configured.
const DefaultPlaintext = "The quick brown fox jumps over the lazy dog"

// CryptoOptions selects the key source and the avalanche probe shape.
type CryptoOptions struct {
	Source string
	Seed   uint64
	Bias   float64
	// Direct skips debiasing and hashes raw source bits into the key.
	Direct          bool
	AvalancheTrials int
	Plaintext       string
}

// CryptoOutcome bundles the persisted record with the transient detail
// the UIs render.
type CryptoOutcome struct {
	Result  model.CryptoResult
	Key     keygen.Key
	Samples []avalanche.Sample
}

// RunCryptoTrial generates a key, measures its avalanche behavior under
// AES-256-CBC and persists the combined record.
func RunCryptoTrial(ctx context.Context, opts CryptoOptions, rep Reporter) (CryptoOutcome, error) {
	src, err := source.ForName(opts.Source, opts.Seed, opts.Bias)
	if err != nil {
		return CryptoOutcome{}, err
	}

	var key keygen.Key
	if opts.Direct {
		key, err = keygen.Direct(ctx, src)
	} else {
		key, err = keygen.Extracted(ctx, src)
	}
	if err != nil {
		return CryptoOutcome{}, err
	}
	reportf(rep, "generated %d-bit key from %s (entropy %.4f)", keygen.KeyBits, key.Source, key.BitEntropy)

	trialCount := opts.AvalancheTrials
	if trialCount <= 0 {
		trialCount = avalanche.DefaultTrials
	}
	plaintext := opts.Plaintext
	if plaintext == "" {
		plaintext = DefaultPlaintext
	}

	summary, samples, err := avalanche.Analyze(key.Bytes, channel.ZeroIV(), []byte(plaintext), trialCount, nil, channel.EncryptCBC)
	if err != nil {
		return CryptoOutcome{}, fmt.Errorf("avalanche analysis: %w", err)
	}
	reportf(rep, "avalanche over %d trials: %.2f%% ± %.2f%%", summary.Trials, summary.Mean, summary.StdDev)

	result := model.CryptoResult{
		Source:          key.Source,
		Extracted:       key.Extracted,
		KeyHex:          key.Hex(),
		KeyEntropy:      key.BitEntropy,
		RawBitsUsed:     key.RawBitsUsed,
		Efficiency:      key.Efficiency,
		AvalancheMean:   summary.Mean,
		AvalancheStdDev: summary.StdDev,
		AvalancheTrials: summary.Trials,
	}
	id, err := db.AddCryptoResult(result)
	if err != nil {
		return CryptoOutcome{}, fmt.Errorf("save crypto result: %w", err)
	}
	result.ID = id
	return CryptoOutcome{Result: result, Key: key, Samples: samples}, nil
}
