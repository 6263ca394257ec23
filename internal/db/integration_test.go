// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"

	"github.com/randlab/randlab/internal/model"
)

func TestCryptoResult_RoundTrip(t *testing.T) {
	_ = newTestDB(t)

	want := model.CryptoResult{
		Source:          "csprng",
		Extracted:       true,
		KeyHex:          "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff",
		KeyEntropy:      0.9987,
		RawBitsUsed:     1217,
		Efficiency:      0.21,
		AvalancheMean:   49.7,
		AvalancheStdDev: 3.1,
		AvalancheTrials: 5,
	}
	id, err := AddCryptoResult(want)
	if err != nil {
		t.Fatalf("AddCryptoResult failed: %v", err)
	}

	all, err := GetAllCryptoResults()
	if err != nil {
		t.Fatalf("GetAllCryptoResults failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 crypto result, got %d", len(all))
	}
	got := all[0]
	if got.ID != id || got.KeyHex != want.KeyHex || got.AvalancheMean != want.AvalancheMean {
		t.Errorf("round trip mangled crypto result: got %+v", got)
	}

	if err := DeleteCryptoResult(id); err != nil {
		t.Fatalf("DeleteCryptoResult failed: %v", err)
	}
	all, err = GetAllCryptoResults()
	if err != nil {
		t.Fatalf("GetAllCryptoResults after delete failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty table after delete, got %d rows", len(all))
	}
}

func TestExtractionRun_RoundTrip(t *testing.T) {
	_ = newTestDB(t)

	want := model.ExtractionRun{
		Source:        "biased",
		BitsRequested: 4096,
		RawBitsUsed:   25120,
		Efficiency:    0.163,
		Entropy:       0.9998,
	}
	id, err := AddExtractionRun(want)
	if err != nil {
		t.Fatalf("AddExtractionRun failed: %v", err)
	}

	all, err := GetAllExtractionRuns()
	if err != nil {
		t.Fatalf("GetAllExtractionRuns failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 extraction run, got %d", len(all))
	}
	got := all[0]
	if got.ID != id || got.BitsRequested != want.BitsRequested || got.RawBitsUsed != want.RawBitsUsed {
		t.Errorf("round trip mangled extraction run: got %+v", got)
	}

	if err := DeleteExtractionRun(id); err != nil {
		t.Fatalf("DeleteExtractionRun failed: %v", err)
	}
}

func TestCountAndPurgeResults(t *testing.T) {
	_ = newTestDB(t)

	if _, err := AddTrialResult(sampleTrialResult()); err != nil {
		t.Fatalf("AddTrialResult failed: %v", err)
	}
	if _, err := AddTrialResult(sampleTrialResult()); err != nil {
		t.Fatalf("AddTrialResult failed: %v", err)
	}
	if _, err := AddCryptoResult(model.CryptoResult{Source: "pcg", KeyHex: "ff"}); err != nil {
		t.Fatalf("AddCryptoResult failed: %v", err)
	}
	if _, err := AddExtractionRun(model.ExtractionRun{Source: "pcg", BitsRequested: 8, RawBitsUsed: 40}); err != nil {
		t.Fatalf("AddExtractionRun failed: %v", err)
	}

	counts, err := CountResults()
	if err != nil {
		t.Fatalf("CountResults failed: %v", err)
	}
	want := model.Counts{TrialResults: 2, CryptoResults: 1, ExtractionRuns: 1}
	if counts != want {
		t.Fatalf("counts = %+v; want %+v", counts, want)
	}
	if counts.Total() != 4 {
		t.Fatalf("Total() = %d; want 4", counts.Total())
	}

	if err := PurgeResults(); err != nil {
		t.Fatalf("PurgeResults failed: %v", err)
	}
	counts, err = CountResults()
	if err != nil {
		t.Fatalf("CountResults after purge failed: %v", err)
	}
	if counts.Total() != 0 {
		t.Fatalf("expected empty tables after purge, got %+v", counts)
	}
}
