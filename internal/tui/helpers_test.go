// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"

	"github.com/randlab/randlab/internal/testutil"
)

func TestAlignFooter(t *testing.T) {
	got := AlignFooter("left", "right", 20)
	if len(got) != 20 {
		t.Fatalf("expected width 20, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got, "left") || !strings.HasSuffix(got, "right") {
		t.Fatalf("unexpected alignment: %q", got)
	}

	// Width too small still keeps one separating space.
	got = AlignFooter("left", "right", 3)
	if got != "left right" {
		t.Fatalf("expected single-space fallback, got %q", got)
	}
}

func TestFormatLabelPadding(t *testing.T) {
	got := formatLabelPadding("Trials", "12", 10)
	if got != "Trials     12" {
		t.Fatalf("unexpected padding: %q", got)
	}

	// Labels at or past the width degrade to a single space.
	got = formatLabelPadding("Verylonglabel", "x", 5)
	if got != "Verylonglabel x" {
		t.Fatalf("unexpected overflow handling: %q", got)
	}
}

func TestAllMetricsPassed(t *testing.T) {
	if !allMetricsPassed(testutil.PassingTrial("csprng", true)) {
		t.Fatalf("expected passing fixture to pass")
	}
	if allMetricsPassed(testutil.BiasedTrial("biased")) {
		t.Fatalf("expected biased fixture to fail")
	}

	// A single metric short of the trial count fails the whole batch.
	r := testutil.PassingTrial("pcg", false)
	r.Runs.Passed = r.Trials - 1
	if allMetricsPassed(r) {
		t.Fatalf("expected batch with one failing metric to fail")
	}
}

func TestParseIntField(t *testing.T) {
	if n, err := parseIntField("", 10); err != nil || n != 10 {
		t.Fatalf("empty field should default: %d %v", n, err)
	}
	if n, err := parseIntField("  25 ", 10); err != nil || n != 25 {
		t.Fatalf("expected 25, got %d %v", n, err)
	}
	if _, err := parseIntField("0", 10); err == nil {
		t.Fatalf("expected error for zero")
	}
	if _, err := parseIntField("abc", 10); err == nil {
		t.Fatalf("expected error for non-number")
	}
}

func TestParseSeedField(t *testing.T) {
	if s, err := parseSeedField("", 42); err != nil || s != 42 {
		t.Fatalf("empty field should default: %d %v", s, err)
	}
	if s, err := parseSeedField("18446744073709551615", 0); err != nil || s != 1<<64-1 {
		t.Fatalf("expected max uint64, got %d %v", s, err)
	}
	if _, err := parseSeedField("-1", 0); err == nil {
		t.Fatalf("expected error for negative seed")
	}
}

func TestParseBiasField(t *testing.T) {
	if p, err := parseBiasField("", 0.8); err != nil || p != 0.8 {
		t.Fatalf("empty field should default: %v %v", p, err)
	}
	if p, err := parseBiasField("0.25", 0.8); err != nil || p != 0.25 {
		t.Fatalf("expected 0.25, got %v %v", p, err)
	}
	for _, bad := range []string{"0", "1", "1.5", "-0.2", "x"} {
		if _, err := parseBiasField(bad, 0.8); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestChunkString(t *testing.T) {
	lines := chunkString("0101010101", 4)
	if len(lines) != 3 || lines[0] != "0101" || lines[2] != "01" {
		t.Fatalf("unexpected chunks: %v", lines)
	}
	lines = chunkString("01", 4)
	if len(lines) != 1 || lines[0] != "01" {
		t.Fatalf("short input should stay whole: %v", lines)
	}
}
