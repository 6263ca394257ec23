// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/randlab/randlab/internal/source"
)

// sourceNames lists the selectable bit sources in display order.
var sourceNames = []string{source.NameCSPRNG, source.NamePCG, source.NameAESCTR, source.NameBiased}

// pickerRows is the number of focusable rows a sourcePicker contributes to
// its parent form: the source selector, the seed input and the bias input.
const pickerRows = 3

// sourcePicker is the form fragment shared by the experiment views for
// choosing a bit source with its seed and bias parameters. The selector
// cycles with left/right; seed and bias are plain text inputs that only
// apply to the deterministic and biased sources.
type sourcePicker struct {
	cursor int // index into sourceNames
	seed   textinput.Model
	bias   textinput.Model
}

// newSourcePicker builds a picker seeded from the mirrored configuration.
func newSourcePicker() sourcePicker {
	p := sourcePicker{}

	configured := viper.GetString("source.name")
	for i, n := range sourceNames {
		if n == configured {
			p.cursor = i
		}
	}

	p.seed = textinput.New()
	p.seed.Prompt = ""
	p.seed.Placeholder = "42"
	p.seed.CharLimit = 20
	p.seed.Width = 20
	if s := viper.GetUint64("source.seed"); s != 0 {
		p.seed.SetValue(strconv.FormatUint(s, 10))
	}

	p.bias = textinput.New()
	p.bias.Prompt = ""
	p.bias.Placeholder = "0.8"
	p.bias.CharLimit = 8
	p.bias.Width = 8
	if b := viper.GetFloat64("source.bias"); b > 0 && b < 1 {
		p.bias.SetValue(strconv.FormatFloat(b, 'g', -1, 64))
	}

	return p
}

// Cycle moves the source selection left or right, wrapping around.
func (p *sourcePicker) Cycle(delta int) {
	p.cursor = (p.cursor + delta + len(sourceNames)) % len(sourceNames)
}

// Name returns the selected source name.
func (p sourcePicker) Name() string { return sourceNames[p.cursor] }

// UsesSeed reports whether the selected source is seed-driven.
func (p sourcePicker) UsesSeed() bool { return p.Name() != source.NameCSPRNG }

// UsesBias reports whether the selected source takes a bias parameter.
func (p sourcePicker) UsesBias() bool { return p.Name() == source.NameBiased }

// Values parses the picker state into source parameters. Empty fields fall
// back to the configured defaults.
func (p sourcePicker) Values() (string, uint64, float64, error) {
	seed, err := parseSeedField(p.seed.Value(), viper.GetUint64("source.seed"))
	if err != nil {
		return "", 0, 0, err
	}
	defBias := viper.GetFloat64("source.bias")
	if defBias <= 0 || defBias >= 1 {
		defBias = 0.8
	}
	bias, err := parseBiasField(p.bias.Value(), defBias)
	if err != nil {
		return "", 0, 0, err
	}
	return p.Name(), seed, bias, nil
}

// HandleKey processes a key press while one of the picker rows is focused
// and reports whether the key was consumed. Only the selector row consumes
// keys; the text inputs are fed through UpdateInputs.
func (p *sourcePicker) HandleKey(msg tea.KeyMsg, row int) bool {
	if row != 0 {
		return false
	}
	switch msg.String() {
	case "left", "right", " ":
		if msg.String() == "left" {
			p.Cycle(-1)
		} else {
			p.Cycle(1)
		}
		return true
	}
	return false
}

// SetFocus focuses the picker row at index 0..2, blurring the others. Any
// other index blurs everything.
func (p *sourcePicker) SetFocus(row int) tea.Cmd {
	p.seed.Blur()
	p.seed.TextStyle = itemStyle
	p.bias.Blur()
	p.bias.TextStyle = itemStyle

	switch row {
	case 1:
		p.seed.TextStyle = focusedStyle
		return p.seed.Focus()
	case 2:
		p.bias.TextStyle = focusedStyle
		return p.bias.Focus()
	}
	return nil
}

// UpdateInputs forwards a message to the picker's text inputs.
func (p *sourcePicker) UpdateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 2)
	p.seed, cmds[0] = p.seed.Update(msg)
	p.bias, cmds[1] = p.bias.Update(msg)
	return tea.Batch(cmds...)
}

// ViewRows renders the three picker rows; focusRow marks the currently
// focused one so the selector can show its cycle arrows.
func (p sourcePicker) ViewRows(focusRow int) []string {
	selector := "  " + p.Name()
	if focusRow == 0 {
		selector = focusedStyle.Render("◂ " + p.Name() + " ▸")
	}
	sourceRow := "Source:       " + selector

	seedRow := "Seed:         " + p.seed.View()
	if !p.UsesSeed() {
		seedRow += helpStyle.Render("  (ignored by csprng)")
	}

	biasRow := "Bias P(1):    " + p.bias.View()
	if !p.UsesBias() {
		biasRow += helpStyle.Render("  (biased source only)")
	}

	return []string{sourceRow, seedRow, biasRow}
}
