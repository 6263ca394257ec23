// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
)

// analyzeDoneMsg is sent by the analysis command on completion.
type analyzeDoneMsg struct {
	res core.Analysis
	err error
}

type analyzeState int

const (
	analyzeStateForm analyzeState = iota
	analyzeStateRunning
	analyzeStateDone
)

type analyzeModel struct {
	state      analyzeState
	picker     sourcePicker
	bits       textinput.Model
	focusIndex int
	res        core.Analysis
	err        error
}

// newAnalyzeModel builds the raw-versus-extracted comparison form.
func newAnalyzeModel() *analyzeModel {
	m := &analyzeModel{picker: newSourcePicker()}

	m.bits = textinput.New()
	m.bits.Prompt = ""
	m.bits.Placeholder = "4096"
	m.bits.Cursor.Style = focusedStyle
	m.bits.CharLimit = 10
	m.bits.Width = 10

	return m
}

// Focusable rows: the three picker rows, then the sample length and the
// run button.
func (m *analyzeModel) runIndex() int { return pickerRows + 1 }

func (m *analyzeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *analyzeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzeDoneMsg:
		m.state = analyzeStateDone
		m.res = msg.res
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case analyzeStateRunning:
			return m, nil

		case analyzeStateDone:
			switch msg.String() {
			case "q", "esc":
				return m, func() tea.Msg { return backToMenuMsg{} }
			case "r":
				m.state = analyzeStateForm
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
			m.focusIndex++
			return m, m.setFocus(m.focusIndex)
		}

		if m.picker.HandleKey(msg, m.focusIndex) {
			return m, nil
		}
	}

	return m, m.updateInputs(msg)
}

func (m *analyzeModel) setFocus(row int) tea.Cmd {
	cmds := []tea.Cmd{m.picker.SetFocus(row)}
	m.bits.Blur()
	m.bits.TextStyle = itemStyle
	if row == pickerRows {
		m.bits.TextStyle = focusedStyle
		cmds = append(cmds, m.bits.Focus())
	}
	return tea.Batch(cmds...)
}

func (m *analyzeModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.picker.UpdateInputs(msg)}
	var cmd tea.Cmd
	m.bits, cmd = m.bits.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// startAnalysis validates the form and kicks off the comparison command.
func (m *analyzeModel) startAnalysis() (tea.Model, tea.Cmd) {
	name, seed, bias, err := m.picker.Values()
	if err != nil {
		m.err = err
		return m, nil
	}
	bits, err := parseIntField(m.bits.Value(), 4096)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.state = analyzeStateRunning
	opts := core.AnalyzeOptions{Source: name, Seed: seed, Bias: bias, Bits: bits}
	return m, runAnalysisCmd(opts)
}

// runAnalysisCmd is a tea.Cmd that runs the comparison off the UI loop.
func runAnalysisCmd(opts core.AnalyzeOptions) tea.Cmd {
	return func() tea.Msg {
		res, err := core.AnalyzeSource(context.Background(), opts, nil)
		return analyzeDoneMsg{res: res, err: err}
	}
}

func (m *analyzeModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🔬 " + i18n.T("analyze.title")))
	b.WriteString("\n\n")

	switch m.state {
	case analyzeStateRunning:
		b.WriteString(specialStyle.Render(i18n.T("analyze.running")))
		return b.String()

	case analyzeStateDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render(i18n.T("analyze.error", m.err)))
			b.WriteString("\n\n" + helpStyle.Render(i18n.T("analyze.help_done")))
			return b.String()
		}

		b.WriteString(successStyle.Render(i18n.T("analyze.saved", m.res.RunID)))
		b.WriteString("\n\n")

		var card strings.Builder
		card.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("analyze.card_header", m.res.Source)))
		card.WriteString("\n\n")
		card.WriteString(helpStyle.Render(fmt.Sprintf("%-14s %14s %14s", "", i18n.T("analyze.col_raw"), i18n.T("analyze.col_extracted"))))
		card.WriteString("\n")

		raw, ext := m.res.Raw, m.res.Extracted
		rows := []struct {
			name     string
			raw, ext string
		}{
			{"length", fmt.Sprintf("%d", raw.Length), fmt.Sprintf("%d", ext.Length)},
			{"ones", fmt.Sprintf("%d", raw.Ones), fmt.Sprintf("%d", ext.Ones)},
			{"zeros", fmt.Sprintf("%d", raw.Zeros), fmt.Sprintf("%d", ext.Zeros)},
			{"p(1)", fmt.Sprintf("%.4f", raw.P1), fmt.Sprintf("%.4f", ext.P1)},
			{"bias", fmt.Sprintf("%.4f", raw.Bias), fmt.Sprintf("%.4f", ext.Bias)},
			{"entropy", fmt.Sprintf("%.4f", raw.Entropy), fmt.Sprintf("%.4f", ext.Entropy)},
			{"frequency p", fmt.Sprintf("%.4f", raw.FrequencyP), fmt.Sprintf("%.4f", ext.FrequencyP)},
			{"runs p", fmt.Sprintf("%.4f", raw.RunsP), fmt.Sprintf("%.4f", ext.RunsP)},
		}
		for _, row := range rows {
			card.WriteString(fmt.Sprintf("%-14s %14s %14s", row.name, row.raw, row.ext))
			card.WriteString("\n")
		}
		card.WriteString("\n")
		card.WriteString(i18n.T("analyze.yield", m.res.RawBitsUsed, m.res.Extracted.Length, m.res.Efficiency*100))

		b.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2).Render(card.String()))
		b.WriteString("\n\n" + helpStyle.Render(i18n.T("analyze.help_done")))
		return b.String()
	}

	// Form state.
	var rows []string
	rows = append(rows, m.picker.ViewRows(m.focusIndex)...)
	rows = append(rows, "Bits:         "+m.bits.View())

	button := buttonStyle.Render(i18n.T("analyze.run_button"))
	if m.focusIndex == m.runIndex() {
		button = activeButtonStyle.Render(i18n.T("analyze.run_button"))
	}
	rows = append(rows, "", button)

	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(i18n.T("analyze.error", m.err)))
	}
	b.WriteString("\n\n" + helpStyle.Render(i18n.T("analyze.help")))
	return b.String()
}
