// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/extract"
	"github.com/randlab/randlab/internal/source"
)

// Number kinds accepted by GenerateNumber.
const (
	KindInt32  = "int32"
	KindInt64  = "int64"
	KindFloat  = "float"
	KindDouble = "double"
)

// GenerateOptions selects the source, the number kind and the float
// range.
type GenerateOptions struct {
	Source string
	Seed   uint64
	Bias   float64
	Kind   string
	// Min and Max bound the float kinds; both zero means [0,1).
	Min float64
	Max float64
	// Raw skips debiasing and converts raw source bits.
	Raw bool
}

// Number is one generated value together with the bits it consumed.
type Number struct {
	Kind string
	// Bits are the debiased (or raw) bits the value was built from.
	Bits bitstream.Bits
	// Uint carries the integer kinds, Float the float kinds.
	Uint    uint64
	Float   float64
	IsFloat bool
}

// String renders the value: unsigned decimal for the integer kinds, %g
// for the float kinds.
func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatUint(n.Uint, 10)
}

// GenerateNumber draws bits and converts them into the requested kind.
func GenerateNumber(ctx context.Context, opts GenerateOptions) (Number, error) {
	var width int
	switch opts.Kind {
	case KindInt32, KindFloat:
		width = 32
	case KindInt64, KindDouble:
		width = 64
	default:
		return Number{}, fmt.Errorf("%w: unknown number kind %q", bitstream.ErrInvalidParameter, opts.Kind)
	}

	src, err := source.ForName(opts.Source, opts.Seed, opts.Bias)
	if err != nil {
		return Number{}, err
	}

	var bits bitstream.Bits
	if opts.Raw {
		bits, err = src.RawBits(ctx, width)
	} else {
		ex := extract.New(bitstream.NewBuffer(src))
		bits, _, err = ex.ExtractN(ctx, width)
	}
	if err != nil {
		return Number{}, fmt.Errorf("drawing %d bits from %s: %w", width, src.Name(), err)
	}

	min, max := opts.Min, opts.Max
	if min == 0 && max == 0 {
		max = 1
	}

	n := Number{Kind: opts.Kind, Bits: bits}
	switch opts.Kind {
	case KindInt32:
		v, cerr := bits.Uint32()
		if cerr != nil {
			return Number{}, cerr
		}
		n.Uint = uint64(v)
	case KindInt64:
		v, cerr := bits.Uint64()
		if cerr != nil {
			return Number{}, cerr
		}
		n.Uint = v
	case KindFloat:
		v, cerr := bits.Float32(min, max)
		if cerr != nil {
			return Number{}, cerr
		}
		n.Float, n.IsFloat = v, true
	case KindDouble:
		v, cerr := bits.Float64(min, max)
		if cerr != nil {
			return Number{}, cerr
		}
		n.Float, n.IsFloat = v, true
	}
	return n, nil
}
