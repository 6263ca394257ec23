// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package source provides the raw-bit sources the extraction pipeline
// draws from. Every source implements bitstream.RawSource plus a stable
// name used in persisted results; deterministic sources exist so whole
// runs can be reproduced from a seed.
package source // import "github.com/randlab/randlab/internal/source"

import (
	"context"
	"crypto/rand"
	"fmt"
	mathrand "math/rand/v2"

	"github.com/randlab/randlab/internal/bitstream"
)

// Source is a named raw-bit generator.
type Source interface {
	bitstream.RawSource
	Name() string
}

// Names of the built-in sources, as stored in results rows.
const (
	NameCSPRNG = "csprng"
	NamePCG    = "pcg"
	NameAESCTR = "aesctr"
	NameBiased = "biased"
)

func checkRequest(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: requested %d bits", bitstream.ErrInvalidParameter, n)
	}
	return ctx.Err()
}

// CSPRNG reads from the operating system entropy pool via crypto/rand.
// This is the default source.
type CSPRNG struct{}

// NewCSPRNG returns the system CSPRNG source.
func NewCSPRNG() CSPRNG { return CSPRNG{} }

// Name implements Source.
func (CSPRNG) Name() string { return NameCSPRNG }

// RawBits implements bitstream.RawSource.
func (CSPRNG) RawBits(ctx context.Context, n int) (bitstream.Bits, error) {
	if err := checkRequest(ctx, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return bitstream.Bits{}, nil
	}
	buf := make([]byte, (n+7)/8)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("reading system entropy: %w", err)
	}
	return bitstream.Unpack(buf)[:n], nil
}

// PCG is a seeded deterministic generator, the classical-PRNG baseline.
// Two PCG sources built from the same seed emit identical streams.
type PCG struct {
	rng *mathrand.Rand
}

// NewPCG returns a deterministic source for the given seed.
func NewPCG(seed uint64) *PCG {
	return &PCG{rng: mathrand.New(mathrand.NewPCG(seed, seed))}
}

// Name implements Source.
func (*PCG) Name() string { return NamePCG }

// RawBits implements bitstream.RawSource.
func (p *PCG) RawBits(ctx context.Context, n int) (bitstream.Bits, error) {
	if err := checkRequest(ctx, n); err != nil {
		return nil, err
	}
	out := make(bitstream.Bits, 0, n)
	for len(out) < n {
		word := p.rng.Uint64()
		for i := 0; i < 64 && len(out) < n; i++ {
			out = append(out, byte(word>>uint(63-i))&1)
		}
	}
	return out, nil
}

// Biased wraps another source and skews the ones probability, giving the
// extractor something worth debiasing. Each output bit spends ten bits
// of the inner stream on a threshold draw.
type Biased struct {
	inner Source
	p1    float64
}

// NewBiased returns a source with P(1) ~= p1 drawn over inner. p1 is
// clamped to [0, 1].
func NewBiased(inner Source, p1 float64) *Biased {
	if p1 < 0 {
		p1 = 0
	}
	if p1 > 1 {
		p1 = 1
	}
	return &Biased{inner: inner, p1: p1}
}

// Name implements Source.
func (*Biased) Name() string { return NameBiased }

// RawBits implements bitstream.RawSource.
func (b *Biased) RawBits(ctx context.Context, n int) (bitstream.Bits, error) {
	if err := checkRequest(ctx, n); err != nil {
		return nil, err
	}
	const resolution = 10 // threshold granularity 1/1024
	raw, err := b.inner.RawBits(ctx, n*resolution)
	if err != nil {
		return nil, err
	}
	threshold := uint(b.p1 * 1024)
	out := make(bitstream.Bits, n)
	for i := 0; i < n; i++ {
		var v uint
		for _, bit := range raw[i*resolution : (i+1)*resolution] {
			v = v<<1 | uint(bit)
		}
		if v < threshold {
			out[i] = 1
		}
	}
	return out, nil
}

// ForName resolves a configured source name. The seed feeds the
// deterministic sources; bias sets P(1) for the biased source, which
// draws over a PCG stream so biased runs stay reproducible.
func ForName(name string, seed uint64, bias float64) (Source, error) {
	switch name {
	case NameCSPRNG, "":
		return NewCSPRNG(), nil
	case NamePCG:
		return NewPCG(seed), nil
	case NameAESCTR:
		return NewAESCTRFromSeed(seed), nil
	case NameBiased:
		return NewBiased(NewPCG(seed), bias), nil
	default:
		return nil, fmt.Errorf("%w: unknown source %q", bitstream.ErrInvalidParameter, name)
	}
}
