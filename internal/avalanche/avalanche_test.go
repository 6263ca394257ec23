// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package avalanche

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/channel"
)

// xorEncrypter is a toy cipher with a fully predictable avalanche:
// flipping one key bit flips exactly one output bit per key repetition.
func xorEncrypter(key, iv, plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	for i := range plaintext {
		out[i] = plaintext[i] ^ key[i%len(key)]
	}
	return out, nil
}

type fixedRand struct {
	indices []int
	pos     int
}

func (f *fixedRand) IntN(n int) int {
	idx := f.indices[f.pos%len(f.indices)]
	f.pos++
	return idx % n
}

func TestFlipBit(t *testing.T) {
	key := []byte{0x00, 0xFF}

	flipped, err := FlipBit(key, 0)
	if err != nil {
		t.Fatalf("FlipBit: %v", err)
	}
	if !bytes.Equal(flipped, []byte{0x01, 0xFF}) {
		t.Errorf("bit 0: got %x", flipped)
	}

	flipped, err = FlipBit(key, 15)
	if err != nil {
		t.Fatalf("FlipBit: %v", err)
	}
	if !bytes.Equal(flipped, []byte{0x00, 0x7F}) {
		t.Errorf("bit 15: got %x", flipped)
	}

	if !bytes.Equal(key, []byte{0x00, 0xFF}) {
		t.Errorf("original key mutated: %x", key)
	}
}

func TestFlipBitOutOfRange(t *testing.T) {
	key := []byte{0xAB}
	for _, idx := range []int{-1, 8, 100} {
		if _, err := FlipBit(key, idx); !errors.Is(err, bitstream.ErrInvalidParameter) {
			t.Errorf("index %d: got %v, want ErrInvalidParameter", idx, err)
		}
	}
}

func TestHammingPercent(t *testing.T) {
	cases := []struct {
		name string
		a, b []byte
		want float64
	}{
		{"identical", []byte{0xAA, 0x55}, []byte{0xAA, 0x55}, 0},
		{"complement", []byte{0x00}, []byte{0xFF}, 100},
		{"one bit", []byte{0x00}, []byte{0x01}, 12.5},
		{"empty", nil, nil, 0},
		{"shorter wins", []byte{0x00, 0xFF}, []byte{0xFF}, 100},
	}
	for _, tc := range cases {
		if got := HammingPercent(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	key := []byte{0x0F, 0xF0, 0xAA, 0x55}
	plaintext := []byte("eight by") // 8 bytes, two key repetitions

	rng := &fixedRand{indices: []int{0, 9, 31}}
	summary, samples, err := Analyze(key, nil, plaintext, 3, rng, xorEncrypter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// One flipped key bit flips 2 of the 64 ciphertext bits: 3.125%.
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	wantIdx := []int{0, 9, 31}
	for i, s := range samples {
		if s.BitIndex != wantIdx[i] {
			t.Errorf("sample %d: index %d, want %d", i, s.BitIndex, wantIdx[i])
		}
		if s.Percent != 3.125 {
			t.Errorf("sample %d: percent %v, want 3.125", i, s.Percent)
		}
	}
	if summary.Mean != 3.125 || summary.StdDev != 0 || summary.Trials != 3 {
		t.Errorf("summary = %+v, want mean 3.125 stddev 0 trials 3", summary)
	}
}

func TestAnalyzeNilRand(t *testing.T) {
	key := []byte{0x12, 0x34}
	summary, samples, err := Analyze(key, nil, []byte{0xAB, 0xCD}, 4, nil, xorEncrypter)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// Whatever index the global rng picks, the toy cipher flips exactly
	// one of 16 bits.
	for _, s := range samples {
		if s.BitIndex < 0 || s.BitIndex >= 16 {
			t.Errorf("index %d out of key range", s.BitIndex)
		}
		if s.Percent != 6.25 {
			t.Errorf("percent %v, want 6.25", s.Percent)
		}
	}
	if summary.Mean != 6.25 {
		t.Errorf("mean %v, want 6.25", summary.Mean)
	}
}

func TestAnalyzeParameters(t *testing.T) {
	key := []byte{0x01}
	cases := []struct {
		name string
		run  func() error
	}{
		{"empty key", func() error {
			_, _, err := Analyze(nil, nil, []byte{1}, 1, nil, xorEncrypter)
			return err
		}},
		{"zero trials", func() error {
			_, _, err := Analyze(key, nil, []byte{1}, 0, nil, xorEncrypter)
			return err
		}},
		{"negative trials", func() error {
			_, _, err := Analyze(key, nil, []byte{1}, -3, nil, xorEncrypter)
			return err
		}},
		{"nil encrypter", func() error {
			_, _, err := Analyze(key, nil, []byte{1}, 1, nil, nil)
			return err
		}},
	}
	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, bitstream.ErrInvalidParameter) {
			t.Errorf("%s: got %v, want ErrInvalidParameter", tc.name, err)
		}
	}
}

func TestAnalyzeEncrypterFailure(t *testing.T) {
	boom := errors.New("cipher offline")
	failing := func(key, iv, plaintext []byte) ([]byte, error) { return nil, boom }

	_, _, err := Analyze([]byte{0x01}, nil, []byte{0x02}, 2, nil, failing)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped cipher error", err)
	}
}

// TestAnalyzeAES exercises the real cipher path: a single key bit flip
// through AES-256-CBC should scramble roughly half the ciphertext.
func TestAnalyzeAES(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}
	plaintext := bytes.Repeat([]byte("avalanche!"), 10)

	encrypt := func(k, iv, pt []byte) ([]byte, error) {
		return channel.EncryptCBC(k, iv, pt)
	}

	rng := &fixedRand{indices: []int{3, 77, 130, 200, 255}}
	summary, samples, err := Analyze(key, channel.ZeroIV(), plaintext, 5, rng, encrypt)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if summary.Trials != 5 || len(samples) != 5 {
		t.Fatalf("got %d trials, want 5", len(samples))
	}
	for _, s := range samples {
		if s.Percent < 30 || s.Percent > 70 {
			t.Errorf("trial at bit %d: %.2f%% outside sane avalanche band", s.BitIndex, s.Percent)
		}
	}
	if summary.Mean < 40 || summary.Mean > 60 {
		t.Errorf("mean %.2f%% outside 40-60%% band", summary.Mean)
	}
	if summary.StdDev < 0 || math.IsNaN(summary.StdDev) {
		t.Errorf("bad stddev %v", summary.StdDev)
	}
}
