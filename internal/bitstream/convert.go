// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// This file converts debiased bit sequences into integers and floats.
// Floats are built with the IEEE mantissa-fill trick: set the exponent
// for [1,2), fill the mantissa with random bits, subtract 1.

package bitstream

import (
	"fmt"
	"math"
)

// Uint32 interprets the first 32 bits as a big-endian unsigned integer.
func (b Bits) Uint32() (uint32, error) {
	if len(b) < 32 {
		return 0, fmt.Errorf("%w: need 32 bits, have %d", ErrInvalidParameter, len(b))
	}
	var v uint32
	for _, bit := range b[:32] {
		v = v<<1 | uint32(bit)
	}
	return v, nil
}

// Uint64 interprets the first 64 bits as a big-endian unsigned integer.
func (b Bits) Uint64() (uint64, error) {
	if len(b) < 64 {
		return 0, fmt.Errorf("%w: need 64 bits, have %d", ErrInvalidParameter, len(b))
	}
	var v uint64
	for _, bit := range b[:64] {
		v = v<<1 | uint64(bit)
	}
	return v, nil
}

// Float32 maps 32 bits onto [min, max). The top 23 random bits fill the
// mantissa of a float in [1, 2).
func (b Bits) Float32(min, max float64) (float64, error) {
	u, err := b.Uint32()
	if err != nil {
		return 0, err
	}
	v := float64(math.Float32frombits(0x3F800000|(u>>9)) - 1.0)
	return (max-min)*v + min, nil
}

// Float64 maps 64 bits onto [min, max) using the 52-bit mantissa.
func (b Bits) Float64(min, max float64) (float64, error) {
	u, err := b.Uint64()
	if err != nil {
		return 0, err
	}
	v := math.Float64frombits(0x3FF0000000000000|(u>>12)) - 1.0
	return (max-min)*v + min, nil
}
