// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"

	"github.com/randlab/randlab/internal/avalanche"
	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/keygen"
	"github.com/randlab/randlab/internal/stats"
	"github.com/randlab/randlab/internal/testutil"
)

func TestManyViews_RenderNonEmpty(t *testing.T) {
	i18n.Init("en")
	resetPickerConfig(t)

	// analyzeModel form and done views
	am := newAnalyzeModel()
	if v := am.View(); v == "" {
		t.Fatalf("analyzeModel.View returned empty string")
	}
	am.state = analyzeStateDone
	am.res = core.Analysis{
		Source:      "pcg",
		Raw:         stats.BitMetrics{Length: 4096, Ones: 2051, Zeros: 2045, P1: 0.5007, Bias: 0.0007, Entropy: 0.9999, FrequencyP: 0.92, RunsP: 0.73},
		Extracted:   stats.BitMetrics{Length: 4096, Ones: 2048, Zeros: 2048, P1: 0.5, Bias: 0.0, Entropy: 1.0, FrequencyP: 1.0, RunsP: 0.88},
		RawBitsUsed: 16501,
		Efficiency:  0.2482,
		RunID:       3,
	}
	v := am.View()
	if !strings.Contains(v, "entropy") || !strings.Contains(v, "16501") {
		t.Fatalf("expected comparison card in analyze done view, got %q", v)
	}

	// avalancheModel done view
	vm := newAvalancheModel()
	vm.state = avalancheStateDone
	vm.out = core.CryptoOutcome{
		Result: testutil.CryptoResult("csprng", true),
		Key:    keygen.Key{Bytes: []byte{0x6b, 0x0f, 0x1c, 0x2a}},
		Samples: []avalanche.Sample{
			{BitIndex: 17, Percent: 49.22},
			{BitIndex: 201, Percent: 31.64},
		},
	}
	v = vm.View()
	if !strings.Contains(v, "6b0f1c2a") {
		t.Fatalf("expected key hex in avalanche done view")
	}
	if !strings.Contains(v, "bit   17") || !strings.Contains(v, "bit  201") {
		t.Fatalf("expected sample rows in avalanche done view, got %q", v)
	}

	// extractModel done view
	em := newExtractModel()
	em.state = extractStateDone
	em.out = core.ExtractOutcome{
		Run:  testutil.ExtractionRun("csprng"),
		Bits: bitstream.Bits{1, 0, 1, 1, 0, 1, 0, 0},
	}
	v = em.View()
	if !strings.Contains(v, "Consumed 1042 raw bits") {
		t.Fatalf("expected yield line in extract done view, got %q", v)
	}

	// resultsModel confirmation dialog with no dimensions should not panic.
	rm := &resultsModel{state: resultsConfirmDelete}
	_ = rm.View()
}
