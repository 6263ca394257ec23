package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/db"
)

func TestRunTrialBatchPersists(t *testing.T) {
	initCoreTestDB(t)
	rec := &recorder{}

	result, err := RunTrialBatch(context.Background(), TrialOptions{
		Source:    "pcg",
		Seed:      42,
		Trials:    4,
		BitLength: 256,
	}, rec)
	if err != nil {
		t.Fatalf("RunTrialBatch failed: %v", err)
	}
	if result.ID <= 0 {
		t.Fatalf("result.ID = %d, want a positive persisted ID", result.ID)
	}
	if result.Source != "pcg" || result.Extracted {
		t.Errorf("result = %s; want a raw pcg batch", result.Label())
	}
	if result.Trials != 4 || result.BitLength != 256 {
		t.Errorf("batch shape = %dx%d, want 4x256", result.Trials, result.BitLength)
	}
	if result.Entropy.Mean <= 0.9 || result.Entropy.Mean > 1 {
		t.Errorf("entropy mean = %v, want a value near 1 for a PCG draw", result.Entropy.Mean)
	}
	if result.Frequency.Passed < 0 || result.Frequency.Passed > 4 {
		t.Errorf("frequency passes = %d out of 4", result.Frequency.Passed)
	}

	stored, err := db.GetTrialResultByID(result.ID)
	if err != nil {
		t.Fatalf("GetTrialResultByID failed: %v", err)
	}
	if stored == nil {
		t.Fatal("stored result not found")
	}
	if stored.Label() != result.Label() {
		t.Errorf("stored label = %q, want %q", stored.Label(), result.Label())
	}
	if stored.Entropy != result.Entropy {
		t.Errorf("stored entropy summary = %+v, want %+v", stored.Entropy, result.Entropy)
	}

	if len(rec.lines) == 0 {
		t.Error("no progress reported")
	} else if !strings.Contains(rec.lines[0], "pcg") {
		t.Errorf("progress line %q does not name the source", rec.lines[0])
	}
}

func TestRunTrialBatchExtractedDeterministic(t *testing.T) {
	initCoreTestDB(t)
	ctx := context.Background()
	opts := TrialOptions{Source: "pcg", Seed: 99, Extracted: true, Trials: 3, BitLength: 200}

	first, err := RunTrialBatch(ctx, opts, nil)
	if err != nil {
		t.Fatalf("first RunTrialBatch failed: %v", err)
	}
	second, err := RunTrialBatch(ctx, opts, nil)
	if err != nil {
		t.Fatalf("second RunTrialBatch failed: %v", err)
	}
	if !first.Extracted {
		t.Error("result not marked extracted")
	}
	if first.Entropy != second.Entropy || first.ChiSquare != second.ChiSquare {
		t.Errorf("seeded batches disagree: %+v vs %+v", first, second)
	}
	if first.Label() != "pcg/extracted 3x200" {
		t.Errorf("Label() = %q", first.Label())
	}
}

func TestRunTrialBatchRejectsBadOptions(t *testing.T) {
	initCoreTestDB(t)
	ctx := context.Background()

	if _, err := RunTrialBatch(ctx, TrialOptions{Source: "pcg", Trials: 0, BitLength: 128}, nil); !errors.Is(err, bitstream.ErrInvalidParameter) {
		t.Errorf("zero trials: err = %v, want ErrInvalidParameter", err)
	}
	if _, err := RunTrialBatch(ctx, TrialOptions{Source: "pcg", Trials: 2, BitLength: 0}, nil); !errors.Is(err, bitstream.ErrInvalidParameter) {
		t.Errorf("zero bit length: err = %v, want ErrInvalidParameter", err)
	}
	if _, err := RunTrialBatch(ctx, TrialOptions{Source: "thermal", Trials: 2, BitLength: 128}, nil); !errors.Is(err, bitstream.ErrInvalidParameter) {
		t.Errorf("unknown source: err = %v, want ErrInvalidParameter", err)
	}
}
