// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/randlab/randlab/internal/model"
)

// AlignFooter returns a single-line string where `right` is right-aligned
// within `width` columns and `left` is at the start. If width is too small
// a single space separates the tokens.
func AlignFooter(left, right string, width int) string {
	leftLen := utf8.RuneCountInString(left)
	rightLen := utf8.RuneCountInString(right)
	spaces := width - leftLen - rightLen
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

// formatLabelPadding pads `label` to labelWidth so a column of values
// lines up.
func formatLabelPadding(label, value string, labelWidth int) string {
	if labelWidth <= 0 || len(label) >= labelWidth {
		return label + " " + value
	}
	return label + strings.Repeat(" ", labelWidth-len(label)) + " " + value
}

// allMetricsPassed reports whether every metric of a batch passed in every
// trial.
func allMetricsPassed(t model.TrialResult) bool {
	n := t.Trials
	return t.Entropy.Passed == n &&
		t.ChiSquare.Passed == n &&
		t.Frequency.Passed == n &&
		t.Runs.Passed == n &&
		t.BlockFrequency.Passed == n &&
		t.ApproxEntropy.Passed == n
}

// scoreLine renders one scorecard row: metric name, mean ± ci and the pass
// fraction, colored by verdict.
func scoreLine(name string, s model.MetricSummary, trials, labelWidth int) string {
	line := formatLabelPadding(name, fmt.Sprintf("%s  %d/%d", s.String(), s.Passed, trials), labelWidth)
	if s.Passed == trials {
		return successStyle.Render(line)
	}
	return specialStyle.Render(line)
}

// parseIntField interprets a form field as a positive integer; an empty
// field falls back to def.
func parseIntField(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("not a positive number: %q", raw)
	}
	return n, nil
}

// parseSeedField interprets a form field as an unsigned 64-bit seed; an
// empty field falls back to def.
func parseSeedField(raw string, def uint64) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not an unsigned number: %q", raw)
	}
	return n, nil
}

// parseBiasField interprets a form field as a probability in (0, 1); an
// empty field falls back to def.
func parseBiasField(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p <= 0 || p >= 1 {
		return 0, fmt.Errorf("not a probability in (0, 1): %q", raw)
	}
	return p, nil
}

// parseFloatField interprets a form field as a float; an empty field
// falls back to def.
func parseFloatField(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}
