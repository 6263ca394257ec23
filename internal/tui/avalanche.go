// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/randlab/randlab/internal/avalanche"
	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
)

// avalancheDoneMsg is sent by the crypto trial command on completion.
type avalancheDoneMsg struct {
	out core.CryptoOutcome
	err error
}

type avalancheState int

const (
	avalancheStateForm avalancheState = iota
	avalancheStateRunning
	avalancheStateDone
)

type avalancheModel struct {
	state      avalancheState
	picker     sourcePicker
	inputs     []textinput.Model // 0: bit flips, 1: plaintext
	direct     bool
	focusIndex int
	out        core.CryptoOutcome
	err        error
}

// newAvalancheModel builds the avalanche analysis form.
func newAvalancheModel() *avalancheModel {
	m := &avalancheModel{
		picker: newSourcePicker(),
		inputs: make([]textinput.Model, 2),
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Prompt = ""
		t.Cursor.Style = focusedStyle

		switch i {
		case 0:
			t.Placeholder = strconv.Itoa(avalanche.DefaultTrials)
			t.CharLimit = 6
			t.Width = 6
			if n := viper.GetInt("avalanche.trials"); n > 0 {
				t.SetValue(strconv.Itoa(n))
			}
		case 1:
			t.Placeholder = core.DefaultPlaintext
			t.CharLimit = 128
			t.Width = 44
			if s := viper.GetString("avalanche.plaintext"); s != "" {
				t.SetValue(s)
			}
		}
		m.inputs[i] = t
	}

	return m
}

// Focusable rows: the three picker rows, then bit flips, plaintext, the
// direct toggle and the run button.
func (m *avalancheModel) toggleIndex() int { return pickerRows + 2 }
func (m *avalancheModel) runIndex() int    { return pickerRows + 3 }

func (m *avalancheModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *avalancheModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case avalancheDoneMsg:
		m.state = avalancheStateDone
		m.out = msg.out
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case avalancheStateRunning:
			return m, nil

		case avalancheStateDone:
			switch msg.String() {
			case "q", "esc":
				return m, func() tea.Msg { return backToMenuMsg{} }
			case "r":
				m.state = avalancheStateForm
				m.err = nil
				return m, m.setFocus(m.focusIndex)
			}
			return m, nil
		}

		// Form state.
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }

		case "tab", "shift+tab", "up", "down":
			s := msg.String()
			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex > m.runIndex() {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = m.runIndex()
			}
			return m, m.setFocus(m.focusIndex)

		case "enter":
			if m.focusIndex == m.runIndex() {
				return m.startAnalysis()
			}
			if m.focusIndex == m.toggleIndex() {
				m.direct = !m.direct
				return m, nil
			}
			m.focusIndex++
			return m, m.setFocus(m.focusIndex)

		case " ":
			if m.focusIndex == m.toggleIndex() {
				m.direct = !m.direct
				return m, nil
			}
		}

		if m.picker.HandleKey(msg, m.focusIndex) {
			return m, nil
		}
	}

	return m, m.updateInputs(msg)
}

func (m *avalancheModel) setFocus(row int) tea.Cmd {
	cmds := []tea.Cmd{m.picker.SetFocus(row)}
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].TextStyle = itemStyle
	}
	if idx := row - pickerRows; idx >= 0 && idx < len(m.inputs) {
		m.inputs[idx].TextStyle = focusedStyle
		cmds = append(cmds, m.inputs[idx].Focus())
	}
	return tea.Batch(cmds...)
}

func (m *avalancheModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.picker.UpdateInputs(msg)}
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// startAnalysis validates the form and kicks off the crypto trial command.
func (m *avalancheModel) startAnalysis() (tea.Model, tea.Cmd) {
	name, seed, bias, err := m.picker.Values()
	if err != nil {
		m.err = err
		return m, nil
	}
	trials, err := parseIntField(m.inputs[0].Value(), 0)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.state = avalancheStateRunning
	opts := core.CryptoOptions{
		Source:          name,
		Seed:            seed,
		Bias:            bias,
		Direct:          m.direct,
		AvalancheTrials: trials,
		Plaintext:       strings.TrimSpace(m.inputs[1].Value()),
	}
	return m, runCryptoTrialCmd(opts)
}

// runCryptoTrialCmd is a tea.Cmd that runs the analysis off the UI loop.
func runCryptoTrialCmd(opts core.CryptoOptions) tea.Cmd {
	return func() tea.Msg {
		out, err := core.RunCryptoTrial(context.Background(), opts, nil)
		return avalancheDoneMsg{out: out, err: err}
	}
}

func (m *avalancheModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("❄ " + i18n.T("avalanche.title")))
	b.WriteString("\n\n")

	switch m.state {
	case avalancheStateRunning:
		b.WriteString(specialStyle.Render(i18n.T("avalanche.running")))
		return b.String()

	case avalancheStateDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render(i18n.T("avalanche.error", m.err)))
			b.WriteString("\n\n" + helpStyle.Render(i18n.T("avalanche.help_done")))
			return b.String()
		}

		res := m.out.Result
		b.WriteString(successStyle.Render(i18n.T("avalanche.saved", res.ID)))
		b.WriteString("\n\n")

		var card strings.Builder
		card.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("avalanche.key_header")))
		card.WriteString("\n")
		card.WriteString(lipgloss.NewStyle().Background(lipgloss.Color("235")).Padding(0, 1).Render(m.out.Key.Hex()))
		card.WriteString("\n")
		card.WriteString(helpStyle.Render(i18n.T("avalanche.key_stats",
			res.Source, modeLabel(res.Extracted), res.KeyEntropy, res.RawBitsUsed, res.Efficiency*100)))
		card.WriteString("\n\n")

		card.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("avalanche.samples_header")))
		card.WriteString("\n")
		for _, s := range m.out.Samples {
			line := fmt.Sprintf("bit %4d  %6.2f%%", s.BitIndex, s.Percent)
			// Near 50% is the healthy zone for a block cipher.
			if s.Percent >= 40 && s.Percent <= 60 {
				card.WriteString(successStyle.Render(line))
			} else {
				card.WriteString(specialStyle.Render(line))
			}
			card.WriteString("\n")
		}
		card.WriteString("\n")
		card.WriteString(i18n.T("avalanche.summary", res.AvalancheMean, res.AvalancheStdDev, res.AvalancheTrials))

		b.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2).Render(card.String()))
		b.WriteString("\n\n" + helpStyle.Render(i18n.T("avalanche.help_done")))
		return b.String()
	}

	// Form state.
	var rows []string
	rows = append(rows, m.picker.ViewRows(m.focusIndex)...)
	rows = append(rows, "Bit flips:    "+m.inputs[0].View())
	rows = append(rows, "Plaintext:    "+m.inputs[1].View())

	toggle := "[ ] direct (skip debiasing)"
	if m.direct {
		toggle = "[x] direct (skip debiasing)"
	}
	if m.focusIndex == m.toggleIndex() {
		toggle = focusedStyle.Render(toggle)
	}
	rows = append(rows, "", toggle)

	button := buttonStyle.Render(i18n.T("avalanche.run_button"))
	if m.focusIndex == m.runIndex() {
		button = activeButtonStyle.Render(i18n.T("avalanche.run_button"))
	}
	rows = append(rows, "", button)

	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(i18n.T("avalanche.error", m.err)))
	}
	b.WriteString("\n\n" + helpStyle.Render(i18n.T("avalanche.help")))
	return b.String()
}
