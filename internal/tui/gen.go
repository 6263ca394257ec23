// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
)

// genDoneMsg is sent by the generation command on completion.
type genDoneMsg struct {
	num core.Number
	err error
}

type genState int

const (
	genStateForm genState = iota
	genStateRunning
	genStateDone
)

// genKinds lists the selectable number kinds in display order.
var genKinds = []string{core.KindInt32, core.KindInt64, core.KindFloat, core.KindDouble}

type genModel struct {
	state      genState
	picker     sourcePicker
	kindCursor int
	inputs     []textinput.Model // 0: min, 1: max
	raw        bool
	focusIndex int
	num        core.Number
	status     string
	err        error
}

// newGenModel builds the number generator form.
func newGenModel() *genModel {
	m := &genModel{
		picker: newSourcePicker(),
		inputs: make([]textinput.Model, 2),
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Prompt = ""
		t.Cursor.Style = focusedStyle
		t.CharLimit = 12
		t.Width = 12
		if i == 0 {
			t.Placeholder = "0"
		} else {
			t.Placeholder = "1"
		}
		m.inputs[i] = t
	}

	return m
}

// Focusable rows: the three picker rows, then the kind selector, min, max,
// the raw toggle and the run button.
func (m *genModel) kindIndex() int   { return pickerRows }
func (m *genModel) toggleIndex() int { return pickerRows + 3 }
func (m *genModel) runIndex() int    { return pickerRows + 4 }

func (m *genModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *genModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case genDoneMsg:
		m.state = genStateDone
		m.num = msg.num
		m.err = msg.err
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case genStateRunning:
			return m, nil

		case genStateDone:
			switch msg.String() {
			case "q", "esc":
				return m, func() tea.Msg { return backToMenuMsg{} }
			case "r":
				m.state = genStateForm
				m.err = nil
				m.status = ""
				return m, m.setFocus(m.focusIndex)
			case "c":
				if m.err == nil {
					if err := clipboard.WriteAll(m.num.String()); err == nil {
						m.status = i18n.T("gen.copied")
					} else {
						m.status = i18n.T("gen.copy_failed", err)
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
				return m.startGeneration()
			}
			if m.focusIndex == m.toggleIndex() {
				m.raw = !m.raw
				return m, nil
			}
			m.focusIndex++
			return m, m.setFocus(m.focusIndex)

		case " ":
			if m.focusIndex == m.toggleIndex() {
				m.raw = !m.raw
				return m, nil
			}
		}

		if m.handleKindKey(msg) {
			return m, nil
		}
		if m.picker.HandleKey(msg, m.focusIndex) {
			return m, nil
		}
	}

	return m, m.updateInputs(msg)
}

// handleKindKey cycles the number kind while its row is focused.
func (m *genModel) handleKindKey(msg tea.KeyMsg) bool {
	if m.focusIndex != m.kindIndex() {
		return false
	}
	switch msg.String() {
	case "left":
		m.kindCursor = (m.kindCursor + len(genKinds) - 1) % len(genKinds)
		return true
	case "right", " ":
		m.kindCursor = (m.kindCursor + 1) % len(genKinds)
		return true
	}
	return false
}

func (m *genModel) setFocus(row int) tea.Cmd {
	cmds := []tea.Cmd{m.picker.SetFocus(row)}
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].TextStyle = itemStyle
	}
	if idx := row - pickerRows - 1; idx >= 0 && idx < len(m.inputs) {
		m.inputs[idx].TextStyle = focusedStyle
		cmds = append(cmds, m.inputs[idx].Focus())
	}
	return tea.Batch(cmds...)
}

func (m *genModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.picker.UpdateInputs(msg)}
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// startGeneration validates the form and kicks off the generator command.
func (m *genModel) startGeneration() (tea.Model, tea.Cmd) {
	name, seed, bias, err := m.picker.Values()
	if err != nil {
		m.err = err
		return m, nil
	}
	min, err := parseFloatField(m.inputs[0].Value(), 0)
	if err != nil {
		m.err = err
		return m, nil
	}
	max, err := parseFloatField(m.inputs[1].Value(), 0)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.state = genStateRunning
	opts := core.GenerateOptions{
		Source: name,
		Seed:   seed,
		Bias:   bias,
		Kind:   genKinds[m.kindCursor],
		Min:    min,
		Max:    max,
		Raw:    m.raw,
	}
	return m, runGenerateCmd(opts)
}

// runGenerateCmd is a tea.Cmd that draws the number off the UI loop.
func runGenerateCmd(opts core.GenerateOptions) tea.Cmd {
	return func() tea.Msg {
		num, err := core.GenerateNumber(context.Background(), opts)
		return genDoneMsg{num: num, err: err}
	}
}

func (m *genModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🔢 " + i18n.T("gen.title")))
	b.WriteString("\n\n")

	switch m.state {
	case genStateRunning:
		b.WriteString(specialStyle.Render(i18n.T("gen.running")))
		return b.String()

	case genStateDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render(i18n.T("gen.error", m.err)))
			b.WriteString("\n\n" + helpStyle.Render(i18n.T("gen.help_done")))
			return b.String()
		}

		var card strings.Builder
		card.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("gen.value_header", m.num.Kind)))
		card.WriteString("\n")
		card.WriteString(lipgloss.NewStyle().Background(lipgloss.Color("235")).Padding(0, 1).Render(m.num.String()))
		card.WriteString("\n\n")
		card.WriteString(helpStyle.Render(i18n.T("gen.bits_used", len(m.num.Bits), modeLabel(!m.raw))))
		card.WriteString("\n")
		for _, line := range chunkString(m.num.Bits.String(), 64) {
			card.WriteString(helpStyle.Render(line))
			card.WriteString("\n")
		}

		b.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2).Render(card.String()))
		if m.status != "" {
			b.WriteString("\n" + statusMessageStyle.Render(m.status))
		}
		b.WriteString("\n\n" + helpStyle.Render(i18n.T("gen.help_done")))
		return b.String()
	}

	// Form state.
	var rows []string
	rows = append(rows, m.picker.ViewRows(m.focusIndex)...)

	kind := "  " + genKinds[m.kindCursor]
	if m.focusIndex == m.kindIndex() {
		kind = focusedStyle.Render("◂ " + genKinds[m.kindCursor] + " ▸")
	}
	rows = append(rows, "Kind:         "+kind)

	minRow := "Min:          " + m.inputs[0].View()
	maxRow := "Max:          " + m.inputs[1].View()
	if !m.kindIsFloat() {
		minRow += helpStyle.Render("  (float kinds only)")
		maxRow += helpStyle.Render("  (float kinds only)")
	}
	rows = append(rows, minRow, maxRow)

	toggle := "[ ] raw (skip debiasing)"
	if m.raw {
		toggle = "[x] raw (skip debiasing)"
	}
	if m.focusIndex == m.toggleIndex() {
		toggle = focusedStyle.Render(toggle)
	}
	rows = append(rows, "", toggle)

	button := buttonStyle.Render(i18n.T("gen.run_button"))
	if m.focusIndex == m.runIndex() {
		button = activeButtonStyle.Render(i18n.T("gen.run_button"))
	}
	rows = append(rows, "", button)

	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(i18n.T("gen.error", m.err)))
	}
	b.WriteString("\n\n" + helpStyle.Render(i18n.T("gen.help")))
	return b.String()
}

// kindIsFloat reports whether the selected kind takes the min/max range.
func (m *genModel) kindIsFloat() bool {
	k := genKinds[m.kindCursor]
	return k == core.KindFloat || k == core.KindDouble
}
