// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// Bias and readout-noise metrics for before/after extraction analysis.

package stats

import (
	"fmt"
	"math"

	"github.com/randlab/randlab/internal/bitstream"
)

// BitMetrics summarizes the first-order statistics of one bitstream.
type BitMetrics struct {
	Length     int
	Zeros      int
	Ones       int
	P0         float64
	P1         float64
	Bias       float64
	Entropy    float64
	FrequencyP float64
	RunsP      float64
}

// Bias returns |P(1) - 0.5|, 0 for empty input.
func Bias(b bitstream.Bits) float64 {
	if len(b) == 0 {
		return 0
	}
	return math.Abs(float64(b.Ones())/float64(len(b)) - 0.5)
}

// Metrics computes the full first-order report for a bitstream.
func Metrics(b bitstream.Bits) BitMetrics {
	m := BitMetrics{Length: len(b), Zeros: b.Zeros(), Ones: b.Ones()}
	if m.Length == 0 {
		return m
	}
	m.P0 = float64(m.Zeros) / float64(m.Length)
	m.P1 = float64(m.Ones) / float64(m.Length)
	m.Bias = math.Abs(m.P1 - 0.5)
	m.Entropy = Entropy(b)
	m.FrequencyP = Monobit(b).PValue
	m.RunsP = Runs(b).PValue
	return m
}

// FlipProbabilities estimates the asymmetric readout error from a
// sent/received bit pair: p01 is the chance a transmitted 0 was read as
// 1, p10 the reverse. A class absent from the sent stream contributes 0.
func FlipProbabilities(sent, received bitstream.Bits) (p01, p10 float64, err error) {
	if len(sent) != len(received) {
		return 0, 0, fmt.Errorf("%w: sent %d bits, received %d", bitstream.ErrInvalidParameter, len(sent), len(received))
	}
	var zeros, ones, flips01, flips10 int
	for i := range sent {
		if sent[i] == 0 {
			zeros++
			if received[i] == 1 {
				flips01++
			}
		} else {
			ones++
			if received[i] == 0 {
				flips10++
			}
		}
	}
	if zeros > 0 {
		p01 = float64(flips01) / float64(zeros)
	}
	if ones > 0 {
		p10 = float64(flips10) / float64(ones)
	}
	return p01, p10, nil
}

// ReadoutErrorEstimate collapses the asymmetric flip probabilities into
// a single average error rate.
func ReadoutErrorEstimate(p01, p10 float64) float64 {
	return (p01 + p10) / 2
}
