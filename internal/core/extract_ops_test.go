package core

import (
	"context"
	"errors"
	"testing"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/db"
)

func TestRunExtractionPersists(t *testing.T) {
	initCoreTestDB(t)

	outcome, err := RunExtraction(context.Background(), ExtractOptions{
		Source: "pcg",
		Seed:   5,
		Bits:   1024,
	}, nil)
	if err != nil {
		t.Fatalf("RunExtraction failed: %v", err)
	}
	if len(outcome.Bits) != 1024 {
		t.Fatalf("extracted %d bits, want 1024", len(outcome.Bits))
	}

	run := outcome.Run
	if run.ID <= 0 {
		t.Fatalf("run.ID = %d, want a positive persisted ID", run.ID)
	}
	if run.BitsRequested != 1024 {
		t.Errorf("BitsRequested = %d, want 1024", run.BitsRequested)
	}
	if run.RawBitsUsed < 2*1024 {
		t.Errorf("RawBitsUsed = %d, want at least two raw bits per output", run.RawBitsUsed)
	}
	if run.Efficiency <= 0 || run.Efficiency > 0.5 {
		t.Errorf("Efficiency = %v, want within (0, 0.5]", run.Efficiency)
	}
	if run.Entropy < 0.9 || run.Entropy > 1 {
		t.Errorf("Entropy = %v, want near 1 after debiasing", run.Entropy)
	}

	runs, err := db.GetAllExtractionRuns()
	if err != nil {
		t.Fatalf("GetAllExtractionRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("stored runs = %+v, want the one persisted row", runs)
	}
}

func TestGenerateNumberKinds(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		kind  string
		width int
	}{
		{KindInt32, 32},
		{KindInt64, 64},
		{KindFloat, 32},
		{KindDouble, 64},
	} {
		n, err := GenerateNumber(ctx, GenerateOptions{Source: "pcg", Seed: 5, Kind: tc.kind})
		if err != nil {
			t.Fatalf("GenerateNumber(%s) failed: %v", tc.kind, err)
		}
		if len(n.Bits) != tc.width {
			t.Errorf("%s consumed %d bits, want %d", tc.kind, len(n.Bits), tc.width)
		}
		if n.IsFloat != (tc.kind == KindFloat || tc.kind == KindDouble) {
			t.Errorf("%s: IsFloat = %v", tc.kind, n.IsFloat)
		}
		if n.IsFloat && (n.Float < 0 || n.Float >= 1) {
			t.Errorf("%s: value %v outside default [0,1)", tc.kind, n.Float)
		}
	}
}

func TestGenerateNumberDeterministicAndRanged(t *testing.T) {
	ctx := context.Background()
	opts := GenerateOptions{Source: "pcg", Seed: 77, Kind: KindDouble, Min: 10, Max: 20}

	first, err := GenerateNumber(ctx, opts)
	if err != nil {
		t.Fatalf("GenerateNumber failed: %v", err)
	}
	second, err := GenerateNumber(ctx, opts)
	if err != nil {
		t.Fatalf("GenerateNumber failed: %v", err)
	}
	if first.Float != second.Float {
		t.Errorf("seeded doubles disagree: %v vs %v", first.Float, second.Float)
	}
	if first.Float < 10 || first.Float >= 20 {
		t.Errorf("value %v outside [10,20)", first.Float)
	}

	raw, err := GenerateNumber(ctx, GenerateOptions{Source: "pcg", Seed: 77, Kind: KindInt32, Raw: true})
	if err != nil {
		t.Fatalf("GenerateNumber raw failed: %v", err)
	}
	if raw.String() == "" || raw.IsFloat {
		t.Errorf("raw int32 = %+v", raw)
	}
}

func TestGenerateNumberUnknownKind(t *testing.T) {
	_, err := GenerateNumber(context.Background(), GenerateOptions{Source: "pcg", Kind: "int128"})
	if !errors.Is(err, bitstream.ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestNumberString(t *testing.T) {
	if got := (Number{Uint: 42}).String(); got != "42" {
		t.Errorf("integer String() = %q, want 42", got)
	}
	if got := (Number{Float: 0.5, IsFloat: true}).String(); got != "0.5" {
		t.Errorf("float String() = %q, want 0.5", got)
	}
}
