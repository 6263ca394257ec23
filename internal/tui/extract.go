// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
)

// extractDoneMsg is sent by the extraction command on completion.
type extractDoneMsg struct {
	out core.ExtractOutcome
	err error
}

type extractState int

const (
	extractStateForm extractState = iota
	extractStateRunning
	extractStateDone
)

type extractModel struct {
	state      extractState
	picker     sourcePicker
	bits       textinput.Model
	focusIndex int
	out        core.ExtractOutcome
	status     string
	err        error
}

// newExtractModel builds the extraction form.
func newExtractModel() *extractModel {
	m := &extractModel{picker: newSourcePicker()}

	m.bits = textinput.New()
	m.bits.Prompt = ""
	m.bits.Placeholder = "256"
	m.bits.Cursor.Style = focusedStyle
	m.bits.CharLimit = 10
	m.bits.Width = 10

	return m
}

// Focusable rows: the three picker rows, then the bit count and the run
// button.
func (m *extractModel) runIndex() int { return pickerRows + 1 }

func (m *extractModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case extractDoneMsg:
		m.state = extractStateDone
		m.out = msg.out
		m.err = msg.err
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case extractStateRunning:
			return m, nil

		case extractStateDone:
			switch msg.String() {
			case "q", "esc":
				return m, func() tea.Msg { return backToMenuMsg{} }
			case "r":
				m.state = extractStateForm
				m.err = nil
				m.status = ""
				return m, m.setFocus(m.focusIndex)
			case "c":
				// Copy the rendered bits; hex when the length packs into
				// bytes, the literal bit string otherwise.
				if m.err == nil {
					if err := clipboard.WriteAll(m.renderedBits()); err == nil {
						m.status = i18n.T("extract.copied")
					} else {
						m.status = i18n.T("extract.copy_failed", err)
					}
				}
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
				return m.startExtraction()
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

func (m *extractModel) setFocus(row int) tea.Cmd {
	cmds := []tea.Cmd{m.picker.SetFocus(row)}
	m.bits.Blur()
	m.bits.TextStyle = itemStyle
	if row == pickerRows {
		m.bits.TextStyle = focusedStyle
		cmds = append(cmds, m.bits.Focus())
	}
	return tea.Batch(cmds...)
}

func (m *extractModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.picker.UpdateInputs(msg)}
	var cmd tea.Cmd
	m.bits, cmd = m.bits.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// renderedBits returns the extraction output as hex when it packs evenly
// into bytes, falling back to the literal bit string.
func (m *extractModel) renderedBits() string {
	if packed, err := m.out.Bits.Pack(); err == nil {
		return hex.EncodeToString(packed)
	}
	return m.out.Bits.String()
}

// startExtraction validates the form and kicks off the extraction command.
func (m *extractModel) startExtraction() (tea.Model, tea.Cmd) {
	name, seed, bias, err := m.picker.Values()
	if err != nil {
		m.err = err
		return m, nil
	}
	bits, err := parseIntField(m.bits.Value(), 256)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.state = extractStateRunning
	opts := core.ExtractOptions{Source: name, Seed: seed, Bias: bias, Bits: bits}
	return m, runExtractionCmd(opts)
}

// runExtractionCmd is a tea.Cmd that runs the extraction off the UI loop.
func runExtractionCmd(opts core.ExtractOptions) tea.Cmd {
	return func() tea.Msg {
		out, err := core.RunExtraction(context.Background(), opts, nil)
		return extractDoneMsg{out: out, err: err}
	}
}

// chunkString splits s into lines of at most width characters.
func chunkString(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return append(lines, s)
}

func (m *extractModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⚗ " + i18n.T("extract.title")))
	b.WriteString("\n\n")

	switch m.state {
	case extractStateRunning:
		b.WriteString(specialStyle.Render(i18n.T("extract.running")))
		return b.String()

	case extractStateDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render(i18n.T("extract.error", m.err)))
			b.WriteString("\n\n" + helpStyle.Render(i18n.T("extract.help_done")))
			return b.String()
		}

		run := m.out.Run
		b.WriteString(successStyle.Render(i18n.T("extract.saved", run.ID)))
		b.WriteString("\n\n")

		var card strings.Builder
		card.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("extract.bits_header", len(m.out.Bits))))
		card.WriteString("\n")
		bitPane := lipgloss.NewStyle().Background(lipgloss.Color("235")).Padding(0, 1)
		card.WriteString(bitPane.Render(strings.Join(chunkString(m.out.Bits.String(), 64), "\n")))
		card.WriteString("\n\n")
		card.WriteString(helpStyle.Render(i18n.T("extract.yield",
			run.RawBitsUsed, run.Efficiency*100, run.Entropy)))

		b.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2).Render(card.String()))

		if m.status != "" {
			b.WriteString("\n" + statusMessageStyle.Render(m.status))
		}
		b.WriteString("\n\n" + helpStyle.Render(i18n.T("extract.help_done")))
		return b.String()
	}

	// Form state.
	var rows []string
	rows = append(rows, m.picker.ViewRows(m.focusIndex)...)
	rows = append(rows, "Bits:         "+m.bits.View())

	button := buttonStyle.Render(i18n.T("extract.run_button"))
	if m.focusIndex == m.runIndex() {
		button = activeButtonStyle.Render(i18n.T("extract.run_button"))
	}
	rows = append(rows, "", button)

	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(i18n.T("extract.error", m.err)))
	}
	b.WriteString("\n\n" + helpStyle.Render(i18n.T("extract.help")))
	return b.String()
}
