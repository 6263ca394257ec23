// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package keygen turns raw or debiased bit streams into 256-bit keys.
// Extracted keys run through Von Neumann debiasing first and are then
// privacy-amplified with SHA-256, so residual structure in the source
// cannot survive into the key. Direct keys skip both steps and exist
// for comparison runs against classical generators.
package keygen // import "github.com/randlab/randlab/internal/keygen"

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/extract"
	"github.com/randlab/randlab/internal/source"
	"github.com/randlab/randlab/internal/stats"
)

// KeyBits is the fixed key width.
const KeyBits = 256

// Key is a generated key plus the measurements taken on it. BitEntropy
// is the Shannon entropy of the final key bits, not of the source
// stream that produced them.
type Key struct {
	Bytes       []byte
	BitEntropy  float64
	Source      string
	Extracted   bool
	RawBitsUsed int
	Efficiency  float64
}

// Hex returns the key as a lowercase hex string.
func (k Key) Hex() string { return hex.EncodeToString(k.Bytes) }

// Extracted generates a key from debiased source output: 256 extracted
// bits, hashed once with SHA-256.
func Extracted(ctx context.Context, src source.Source) (Key, error) {
	ex := extract.New(bitstream.NewBuffer(src))
	bits, st, err := ex.ExtractN(ctx, KeyBits)
	if err != nil {
		return Key{}, fmt.Errorf("extracting key material from %s: %w", src.Name(), err)
	}
	return finish(bits, src.Name(), true, st.RawBitsUsed, st.Efficiency)
}

// Direct generates a key straight from the source, without debiasing.
func Direct(ctx context.Context, src source.Source) (Key, error) {
	bits, err := src.RawBits(ctx, KeyBits)
	if err != nil {
		return Key{}, fmt.Errorf("reading key material from %s: %w", src.Name(), err)
	}
	return finish(bits, src.Name(), false, KeyBits, 1)
}

func finish(bits bitstream.Bits, name string, extracted bool, rawUsed int, eff float64) (Key, error) {
	material, err := bits.Pack()
	if err != nil {
		return Key{}, err
	}
	sum := sha256.Sum256(material)
	keyBits := bitstream.Unpack(sum[:])
	return Key{
		Bytes:       sum[:],
		BitEntropy:  stats.Entropy(keyBits),
		Source:      name,
		Extracted:   extracted,
		RawBitsUsed: rawUsed,
		Efficiency:  eff,
	}, nil
}
