// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package extract implements Von Neumann debiasing with an adaptive
// yield controller. The pairwise transform removes first-order bias at
// the cost of a data-dependent discard rate; the controller sizes raw
// requests so a fixed-length extraction converges without overdraw.
package extract // import "github.com/randlab/randlab/internal/extract"

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/randlab/randlab/internal/bitstream"
)

// ErrStalled is returned when the adaptive loop exceeds its iteration
// bound without producing the requested output length.
var ErrStalled = errors.New("extraction stalled")

const (
	// initialEfficiency is the conservative starting yield estimate. A
	// fair source yields about 0.25; starting higher keeps the first raw
	// request small and lets the controller walk the estimate down.
	initialEfficiency = 0.30
	// efficiencyFloor keeps the estimate away from zero so the next raw
	// request stays finite even after a run of total discards.
	efficiencyFloor = 0.01
	// safetyMargin is added to every raw request to absorb small-sample
	// variance in the observed yield.
	safetyMargin = 32
	// blendPrior and blendObserved weight the exponential smoothing of
	// the yield estimate.
	blendPrior    = 0.7
	blendObserved = 0.3
	// maxIterations bounds the adaptive loop.
	maxIterations = 64
)

// Extract applies the pairwise debiasing transform to raw: each
// non-overlapping 2-bit window emits 0 for 01, 1 for 10, and nothing for
// 00 or 11. Returns the extracted bits and the observed efficiency
// len(out)/len(raw) (0 for empty input). A trailing odd bit is ignored.
func Extract(raw bitstream.Bits) (bitstream.Bits, float64) {
	out := make(bitstream.Bits, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		a, b := raw[i], raw[i+1]
		switch {
		case a == 0 && b == 1:
			out = append(out, 0)
		case a == 1 && b == 0:
			out = append(out, 1)
		}
	}
	if len(raw) == 0 {
		return out, 0
	}
	return out, float64(len(out)) / float64(len(raw))
}

// Stats reports what a fixed-length extraction cost.
type Stats struct {
	// RawBitsUsed is the number of raw bits pulled through the transform.
	RawBitsUsed int
	// Efficiency is output length over RawBitsUsed.
	Efficiency float64
}

// Extractor produces debiased bits of exact requested length from a
// buffered raw source.
type Extractor struct {
	buf *bitstream.Buffer
}

// New returns an Extractor reading from buf.
func New(buf *bitstream.Buffer) *Extractor {
	return &Extractor{buf: buf}
}

// controller is the per-call adaptive state. It is deliberately a value
// threaded through one ExtractN call; the extractor itself carries no
// cross-call state and is reentrant.
type controller struct {
	estimate float64
	rawUsed  int
}

func (c *controller) rawNeeded(remaining int) int {
	return int(math.Ceil(float64(remaining)/c.estimate)) + safetyMargin
}

func (c *controller) observe(eff float64) {
	if eff < efficiencyFloor {
		eff = efficiencyFloor
	}
	c.estimate = blendPrior*c.estimate + blendObserved*eff
}

// ExtractN returns exactly n debiased bits. It loops: size a raw request
// from the current yield estimate, pull, debias, append, re-estimate.
// n == 0 returns an empty sequence without touching the source. The
// loop aborts with ErrStalled after maxIterations.
func (e *Extractor) ExtractN(ctx context.Context, n int) (bitstream.Bits, Stats, error) {
	if n < 0 {
		return nil, Stats{}, fmt.Errorf("%w: requested %d bits", bitstream.ErrInvalidParameter, n)
	}
	if n == 0 {
		return bitstream.Bits{}, Stats{}, nil
	}

	ctl := controller{estimate: initialEfficiency}
	out := make(bitstream.Bits, 0, n)
	for iter := 0; len(out) < n; iter++ {
		if iter >= maxIterations {
			return nil, ctl.stats(len(out)), fmt.Errorf("%w: %d bits after %d iterations (wanted %d)",
				ErrStalled, len(out), maxIterations, n)
		}
		raw, err := e.buf.Request(ctx, ctl.rawNeeded(n-len(out)))
		if err != nil {
			return nil, ctl.stats(len(out)), err
		}
		ctl.rawUsed += len(raw)
		extracted, observed := Extract(raw)
		out = append(out, extracted...)
		ctl.observe(observed)
	}
	out = out[:n]
	return out, ctl.stats(n), nil
}

func (c *controller) stats(produced int) Stats {
	s := Stats{RawBitsUsed: c.rawUsed}
	if c.rawUsed > 0 {
		s.Efficiency = float64(produced) / float64(c.rawUsed)
	}
	return s
}
