// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// This file contains the FIFO buffer that mediates between a raw bit
// source and consumers needing exact-length bit requests.

package bitstream

import (
	"context"
	"fmt"
)

// RawSource supplies raw measurement bits. Implementations may block (a
// hardware queue, a remote service) and should honor ctx cancellation.
type RawSource interface {
	// RawBits returns up to the requested number of raw bits. Returning
	// fewer bits than asked is allowed; returning zero bits without an
	// error is treated as a source failure by the buffer.
	RawBits(ctx context.Context, n int) (Bits, error)
}

// DefaultChunkSize is the minimum number of raw bits the buffer pulls per
// source call. Pulling in chunks amortizes per-call source latency.
const DefaultChunkSize = 256

// Buffer is a FIFO accumulator of raw bits. It satisfies arbitrary-length
// requests by pulling more bits from the source on demand; surplus bits
// stay queued for the next request in arrival order. Not safe for
// concurrent use; every extraction session owns its own Buffer.
type Buffer struct {
	src    RawSource
	queue  Bits
	pulled int
	chunk  int
}

// BufferOption customizes a Buffer.
type BufferOption func(*Buffer)

// WithChunkSize sets the minimum per-call pull size. Values below 1 are
// ignored.
func WithChunkSize(n int) BufferOption {
	return func(b *Buffer) {
		if n >= 1 {
			b.chunk = n
		}
	}
}

// NewBuffer returns an empty buffer backed by src.
func NewBuffer(src RawSource, opts ...BufferOption) *Buffer {
	b := &Buffer{src: src, chunk: DefaultChunkSize}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Buffered returns the number of queued, not yet consumed bits.
func (b *Buffer) Buffered() int { return len(b.queue) }

// Pulled returns the total number of bits ever obtained from the source.
// Together with Buffered it makes the no-loss invariant checkable:
// pulled == consumed + buffered.
func (b *Buffer) Pulled() int { return b.pulled }

// Request returns exactly n bits in FIFO order. While fewer than n bits
// are buffered it pulls at least chunk bits from the source and appends
// them. A source failure aborts the request as a unit; bits already
// queued remain queued.
func (b *Buffer) Request(ctx context.Context, n int) (Bits, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: requested %d bits", ErrInvalidParameter, n)
	}
	if n == 0 {
		return Bits{}, nil
	}
	for len(b.queue) < n {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		want := n - len(b.queue)
		if want < b.chunk {
			want = b.chunk
		}
		got, err := b.src.RawBits(ctx, want)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		if len(got) == 0 {
			return nil, fmt.Errorf("%w: source returned no bits", ErrSourceUnavailable)
		}
		b.pulled += len(got)
		b.queue = append(b.queue, got...)
	}
	out := b.queue[:n].Clone()
	b.queue = append(Bits(nil), b.queue[n:]...)
	return out, nil
}
