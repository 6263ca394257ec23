package core

import (
	"context"
	"testing"

	"github.com/randlab/randlab/internal/db"
)

func TestRunCryptoTrialPersists(t *testing.T) {
	initCoreTestDB(t)

	outcome, err := RunCryptoTrial(context.Background(), CryptoOptions{
		Source:          "pcg",
		Seed:            7,
		AvalancheTrials: 10,
	}, nil)
	if err != nil {
		t.Fatalf("RunCryptoTrial failed: %v", err)
	}

	result := outcome.Result
	if result.ID <= 0 {
		t.Fatalf("result.ID = %d, want a positive persisted ID", result.ID)
	}
	if len(result.KeyHex) != 64 {
		t.Errorf("key hex is %d chars, want 64", len(result.KeyHex))
	}
	if result.KeyHex != outcome.Key.Hex() {
		t.Error("persisted key does not match the generated key")
	}
	if !result.Extracted || result.Source != "pcg" {
		t.Errorf("result source/mode = %s/%v, want pcg/extracted", result.Source, result.Extracted)
	}
	if result.AvalancheTrials != 10 || len(outcome.Samples) != 10 {
		t.Errorf("avalanche trials = %d with %d samples, want 10", result.AvalancheTrials, len(outcome.Samples))
	}
	if result.AvalancheMean < 30 || result.AvalancheMean > 70 {
		t.Errorf("avalanche mean = %v%%, want near 50%% for AES", result.AvalancheMean)
	}
	for _, s := range outcome.Samples {
		if s.Percent < 20 || s.Percent > 80 {
			t.Errorf("bit %d: avalanche %v%% out of range", s.BitIndex, s.Percent)
		}
	}

	all, err := db.GetAllCryptoResults()
	if err != nil {
		t.Fatalf("GetAllCryptoResults failed: %v", err)
	}
	if len(all) != 1 || all[0].ID != result.ID {
		t.Fatalf("stored crypto results = %+v, want the one persisted row", all)
	}
}

func TestRunCryptoTrialDirectMode(t *testing.T) {
	initCoreTestDB(t)

	outcome, err := RunCryptoTrial(context.Background(), CryptoOptions{
		Source: "pcg",
		Seed:   8,
		Direct: true,
	}, nil)
	if err != nil {
		t.Fatalf("RunCryptoTrial failed: %v", err)
	}
	result := outcome.Result
	if result.Extracted {
		t.Error("direct mode result marked extracted")
	}
	if result.RawBitsUsed != 256 || result.Efficiency != 1 {
		t.Errorf("direct accounting = %d raw at %v, want 256 at 1", result.RawBitsUsed, result.Efficiency)
	}
	if result.AvalancheTrials != 5 {
		t.Errorf("default avalanche trials = %d, want 5", result.AvalancheTrials)
	}
}

func TestRunCryptoTrialUnknownSource(t *testing.T) {
	initCoreTestDB(t)
	if _, err := RunCryptoTrial(context.Background(), CryptoOptions{Source: "zener"}, nil); err == nil {
		t.Fatal("unknown source accepted")
	}
}
