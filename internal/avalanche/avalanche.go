// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package avalanche measures cryptographic key sensitivity: flip one
// random key bit, re-encrypt the same plaintext under the same IV, and
// report the fraction of ciphertext bits that changed. A well-behaved
// block cipher lands near 50%.
package avalanche // import "github.com/randlab/randlab/internal/avalanche"

import (
	"fmt"
	"math/bits"
	randv2 "math/rand/v2"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/stats"
)

// DefaultTrials is the standard trial count for one analysis.
const DefaultTrials = 5

// Encrypter is the consumed encryption capability. It must be
// deterministic for identical inputs.
type Encrypter func(key, iv, plaintext []byte) ([]byte, error)

// IndexRand supplies the random bit index per trial. *math/rand/v2.Rand
// satisfies it; tests inject a seeded one for reproducible runs.
type IndexRand interface {
	IntN(n int) int
}

type systemRand struct{}

func (systemRand) IntN(n int) int { return randv2.IntN(n) }

// Sample is one trial outcome.
type Sample struct {
	BitIndex int
	Percent  float64
}

// Summary aggregates the trial percentages with the population standard
// deviation, since the trial set is the entire population measured.
type Summary struct {
	Mean   float64
	StdDev float64
	Trials int
}

// FlipBit returns a copy of key with exactly the given bit inverted.
func FlipBit(key []byte, index int) ([]byte, error) {
	if index < 0 || index >= len(key)*8 {
		return nil, fmt.Errorf("%w: bit index %d for a %d-bit key", bitstream.ErrInvalidParameter, index, len(key)*8)
	}
	out := make([]byte, len(key))
	copy(out, key)
	out[index/8] ^= 1 << uint(index%8)
	return out, nil
}

// HammingPercent returns the percentage of differing bits between a and
// b over the shorter length. Empty input yields 0 rather than a
// division by zero.
func HammingPercent(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	diff := 0
	for i := 0; i < n; i++ {
		diff += bits.OnesCount8(a[i] ^ b[i])
	}
	return 100 * float64(diff) / float64(n*8)
}

// Analyze runs the avalanche experiment: trials single-bit key flips
// against a fixed baseline encryption. IV and plaintext stay constant
// through the run so the only varying input is the flipped key bit. A
// nil rng uses the process-global generator.
func Analyze(key, iv, plaintext []byte, trials int, rng IndexRand, encrypt Encrypter) (Summary, []Sample, error) {
	if len(key) == 0 {
		return Summary{}, nil, fmt.Errorf("%w: empty key", bitstream.ErrInvalidParameter)
	}
	if trials <= 0 {
		return Summary{}, nil, fmt.Errorf("%w: trial count %d", bitstream.ErrInvalidParameter, trials)
	}
	if encrypt == nil {
		return Summary{}, nil, fmt.Errorf("%w: nil encrypter", bitstream.ErrInvalidParameter)
	}
	if rng == nil {
		rng = systemRand{}
	}

	baseline, err := encrypt(key, iv, plaintext)
	if err != nil {
		return Summary{}, nil, fmt.Errorf("baseline encryption: %w", err)
	}

	samples := make([]Sample, 0, trials)
	percents := make([]float64, 0, trials)
	for i := 0; i < trials; i++ {
		idx := rng.IntN(len(key) * 8)
		flipped, err := FlipBit(key, idx)
		if err != nil {
			return Summary{}, nil, err
		}
		ct, err := encrypt(flipped, iv, plaintext)
		if err != nil {
			return Summary{}, nil, fmt.Errorf("trial %d encryption: %w", i+1, err)
		}
		pct := HammingPercent(baseline, ct)
		samples = append(samples, Sample{BitIndex: idx, Percent: pct})
		percents = append(percents, pct)
	}

	return Summary{
		Mean:   stats.Mean(percents),
		StdDev: stats.PopulationStdDev(percents),
		Trials: trials,
	}, samples, nil
}
