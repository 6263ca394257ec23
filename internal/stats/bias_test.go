// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package stats

import (
	"errors"
	"testing"

	"github.com/randlab/randlab/internal/bitstream"
)

func TestBias(t *testing.T) {
	if b := Bias(nil); b != 0 {
		t.Errorf("bias(empty) = %v, want 0", b)
	}
	if b := Bias(repeat(t, "1", 64)); b != 0.5 {
		t.Errorf("bias(all ones) = %v, want 0.5", b)
	}
	if b := Bias(repeat(t, "01", 64)); b != 0 {
		t.Errorf("bias(balanced) = %v, want 0", b)
	}
}

func TestMetrics(t *testing.T) {
	m := Metrics(bits(t, "11101110"))
	if m.Length != 8 || m.Ones != 6 || m.Zeros != 2 {
		t.Fatalf("counts wrong: %+v", m)
	}
	if m.P1 != 0.75 || m.P0 != 0.25 {
		t.Errorf("p0/p1 = %v/%v, want 0.25/0.75", m.P0, m.P1)
	}
	if m.Bias != 0.25 {
		t.Errorf("bias = %v, want 0.25", m.Bias)
	}
	if m.Entropy <= 0 || m.Entropy >= 1 {
		t.Errorf("entropy = %v, want (0,1)", m.Entropy)
	}

	empty := Metrics(nil)
	if empty.Length != 0 || empty.Entropy != 0 || empty.Bias != 0 {
		t.Errorf("empty metrics: %+v", empty)
	}
}

func TestFlipProbabilities(t *testing.T) {
	sent := bits(t, "0011")
	received := bits(t, "0111")
	p01, p10, err := FlipProbabilities(sent, received)
	if err != nil {
		t.Fatalf("flip probabilities: %v", err)
	}
	if p01 != 0.5 {
		t.Errorf("p01 = %v, want 0.5", p01)
	}
	if p10 != 0 {
		t.Errorf("p10 = %v, want 0", p10)
	}
	if avg := ReadoutErrorEstimate(p01, p10); avg != 0.25 {
		t.Errorf("readout error = %v, want 0.25", avg)
	}
}

func TestFlipProbabilitiesOneSided(t *testing.T) {
	// No zeros in the sent stream: p01 has no denominator and stays 0.
	p01, p10, err := FlipProbabilities(bits(t, "1111"), bits(t, "1010"))
	if err != nil {
		t.Fatalf("flip probabilities: %v", err)
	}
	if p01 != 0 || p10 != 0.5 {
		t.Errorf("p01/p10 = %v/%v, want 0/0.5", p01, p10)
	}
}

func TestFlipProbabilitiesLengthMismatch(t *testing.T) {
	_, _, err := FlipProbabilities(bits(t, "01"), bits(t, "011"))
	if !errors.Is(err, bitstream.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}
