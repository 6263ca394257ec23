// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package stats scores bitstreams against statistical randomness tests:
// Shannon entropy, chi-square uniformity, and four NIST-style hypothesis
// tests (monobit frequency, runs, block frequency, approximate entropy).
// All scoring functions are pure and total over well-formed bitstrings;
// degenerate input yields a zeroed failing result instead of an error.
package stats // import "github.com/randlab/randlab/internal/stats"

import (
	"fmt"
	"math"

	"github.com/randlab/randlab/internal/bitstream"
)

const (
	// Alpha is the significance level for the p-value tests.
	Alpha = 0.01
	// ChiSquareCritical is the rejection threshold for one degree of
	// freedom at significance 0.05.
	ChiSquareCritical = 3.841
	// DefaultBlockSize is the block length for the block frequency test.
	DefaultBlockSize = 128
	// DefaultApEnBlock is the pattern length m for approximate entropy.
	DefaultApEnBlock = 2
)

// TestResult is the outcome of one hypothesis test: the raw statistic,
// the p-value (or derived score), and the verdict at the fixed
// significance level.
type TestResult struct {
	Statistic float64
	PValue    float64
	Passed    bool
}

// Entropy computes the Shannon entropy over the {0,1} symbol
// frequencies, in bits per symbol. Empty input scores 0.
func Entropy(b bitstream.Bits) float64 {
	n := len(b)
	if n == 0 {
		return 0
	}
	h := 0.0
	for _, count := range []int{b.Zeros(), b.Ones()} {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// ChiSquare measures uniformity of the two symbol classes against the
// expected n/2 split. The verdict compares the statistic against the
// df=1 critical value; the p-value is reported for diagnostics.
func ChiSquare(b bitstream.Bits) TestResult {
	n := len(b)
	if n == 0 {
		return TestResult{}
	}
	expected := float64(n) / 2
	chi := 0.0
	for _, count := range []int{b.Zeros(), b.Ones()} {
		d := float64(count) - expected
		chi += d * d / expected
	}
	return TestResult{
		Statistic: chi,
		PValue:    igamc(0.5, chi/2),
		Passed:    chi < ChiSquareCritical,
	}
}

// Monobit is the NIST frequency test: bits map to ±1, the normalized
// absolute sum maps through erfc to a p-value.
func Monobit(b bitstream.Bits) TestResult {
	n := len(b)
	if n == 0 {
		return TestResult{}
	}
	s := b.Ones() - b.Zeros()
	stat := math.Abs(float64(s)) / math.Sqrt(float64(n))
	p := math.Erfc(stat / math.Sqrt2)
	return TestResult{Statistic: stat, PValue: p, Passed: p >= Alpha}
}

// Runs is the NIST runs test. When the proportion of ones deviates from
// one half by 2/sqrt(n) or more the test is inapplicable and reports
// p = 0 (a failure), matching the monobit prerequisite.
func Runs(b bitstream.Bits) TestResult {
	n := len(b)
	if n == 0 {
		return TestResult{}
	}
	pi := float64(b.Ones()) / float64(n)
	if math.Abs(pi-0.5) >= 2/math.Sqrt(float64(n)) {
		return TestResult{}
	}
	runs := 1
	for i := 1; i < n; i++ {
		if b[i] != b[i-1] {
			runs++
		}
	}
	num := math.Abs(float64(runs) - 2*float64(n)*pi*(1-pi))
	den := 2 * math.Sqrt(2*float64(n)) * pi * (1 - pi)
	p := math.Erfc(num / den)
	return TestResult{Statistic: float64(runs), PValue: p, Passed: p >= Alpha}
}

// BlockFrequency is the NIST block frequency test with block length m:
// the per-block proportions of ones fold into a chi-square statistic
// with N = floor(n/m) degrees of freedom halved through igamc. A block
// length that does not fit the input is rejected; empty input returns
// the zeroed failing result first.
func BlockFrequency(b bitstream.Bits, m int) (TestResult, error) {
	n := len(b)
	if n == 0 {
		return TestResult{}, nil
	}
	if m <= 0 || m > n {
		return TestResult{}, fmt.Errorf("%w: block size %d for %d bits", bitstream.ErrInvalidParameter, m, n)
	}
	blocks := n / m
	chi := 0.0
	for i := 0; i < blocks; i++ {
		ones := 0
		for _, bit := range b[i*m : (i+1)*m] {
			if bit == 1 {
				ones++
			}
		}
		d := float64(ones)/float64(m) - 0.5
		chi += d * d
	}
	chi *= 4 * float64(m)
	p := igamc(float64(blocks)/2, chi/2)
	return TestResult{Statistic: chi, PValue: p, Passed: p >= Alpha}, nil
}

// ApproxEntropy is the NIST approximate entropy test with pattern length
// m: it compares the frequency profiles of overlapping m- and (m+1)-bit
// patterns over the cyclically extended sequence. Input shorter than
// m+1 bits cannot form a single pattern and is rejected; empty input
// returns the zeroed failing result.
func ApproxEntropy(b bitstream.Bits, m int) (TestResult, error) {
	n := len(b)
	if n == 0 {
		return TestResult{}, nil
	}
	if m <= 0 || n < m+1 {
		return TestResult{}, fmt.Errorf("%w: pattern length %d for %d bits", bitstream.ErrInvalidParameter, m, n)
	}
	apEn := phi(b, m) - phi(b, m+1)
	chi := 2 * float64(n) * (math.Ln2 - apEn)
	p := igamc(math.Pow(2, float64(m-1)), chi/2)
	return TestResult{Statistic: apEn, PValue: p, Passed: p >= Alpha}, nil
}

// phi computes the pattern-frequency sum for block length m over the
// sequence extended by its own first m-1 bits.
func phi(b bitstream.Bits, m int) float64 {
	n := len(b)
	counts := make([]int, 1<<uint(m))
	mask := uint(1<<uint(m)) - 1
	// Seed the rolling window with the first m bits.
	var window uint
	for i := 0; i < m; i++ {
		window = window<<1 | uint(b[i%n])
	}
	counts[window&mask]++
	for i := 1; i < n; i++ {
		window = window<<1 | uint(b[(i+m-1)%n])
		counts[window&mask]++
	}
	sum := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		sum += p * math.Log(p)
	}
	return sum
}
