// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package bitstream provides the bit-level building blocks for Randlab.
// A Bits value is an ordered sequence of binary symbols, one byte per
// symbol (0 or 1). Every operation that promises n bits returns exactly
// n bits, never more or fewer.
package bitstream // import "github.com/randlab/randlab/internal/bitstream"

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across the extraction pipeline.
var (
	// ErrSourceUnavailable wraps a failure of the underlying raw-bit source.
	ErrSourceUnavailable = errors.New("raw bit source unavailable")
	// ErrInvalidParameter marks a request that is rejected before any work
	// begins (negative lengths, oversized block sizes, bad indices).
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Bits is an ordered, append-only sequence of binary symbols. Each element
// holds the value 0 or 1.
type Bits []byte

// String renders the sequence as a literal '0'/'1' string.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		if bit == 0 {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}

// Parse converts a '0'/'1' string into Bits. Any other rune is rejected.
func Parse(s string) (Bits, error) {
	out := make(Bits, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		default:
			return nil, fmt.Errorf("%w: bitstring contains %q at offset %d", ErrInvalidParameter, s[i], i)
		}
	}
	return out, nil
}

// Ones returns the number of 1 symbols.
func (b Bits) Ones() int {
	n := 0
	for _, bit := range b {
		if bit == 1 {
			n++
		}
	}
	return n
}

// Zeros returns the number of 0 symbols.
func (b Bits) Zeros() int {
	return len(b) - b.Ones()
}

// Clone returns an independent copy of the sequence.
func (b Bits) Clone() Bits {
	out := make(Bits, len(b))
	copy(out, b)
	return out
}

// Pack converts the sequence into bytes, most significant bit first.
// The length must be a multiple of 8.
func (b Bits) Pack() ([]byte, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("%w: bit length %d is not a multiple of 8", ErrInvalidParameter, len(b))
	}
	out := make([]byte, len(b)/8)
	for i, bit := range b {
		if bit == 1 {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out, nil
}

// Unpack expands bytes into Bits, most significant bit first.
func Unpack(p []byte) Bits {
	out := make(Bits, 0, len(p)*8)
	for _, by := range p {
		for shift := 7; shift >= 0; shift-- {
			out = append(out, (by>>uint(shift))&1)
		}
	}
	return out
}
