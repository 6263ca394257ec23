// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/model"
)

// A message to signal that we should go back to the main menu.
type backToMenuMsg struct{}

// trialsDoneMsg is sent by the batch command on completion.
type trialsDoneMsg struct {
	res model.TrialResult
	err error
}

type trialsState int

const (
	trialsStateForm trialsState = iota
	trialsStateRunning
	trialsStateDone
)

type trialsModel struct {
	state      trialsState
	picker     sourcePicker
	inputs     []textinput.Model // 0: trials, 1: bit length
	extracted  bool
	focusIndex int
	opts       core.TrialOptions
	res        model.TrialResult
	err        error
}

// newTrialsModel builds the trial batch form, seeded from the mirrored
// configuration.
func newTrialsModel() *trialsModel {
	m := &trialsModel{
		picker: newSourcePicker(),
		inputs: make([]textinput.Model, 2),
	}

	var t textinput.Model
	for i := range m.inputs {
		t = textinput.New()
		t.Prompt = ""
		t.Cursor.Style = focusedStyle
		t.CharLimit = 10
		t.Width = 10

		switch i {
		case 0:
			t.Placeholder = "10"
			if n := viper.GetInt("trials.count"); n > 0 {
				t.SetValue(strconv.Itoa(n))
			}
		case 1:
			t.Placeholder = "10000"
			if n := viper.GetInt("trials.bitlength"); n > 0 {
				t.SetValue(strconv.Itoa(n))
			}
		}
		m.inputs[i] = t
	}

	return m
}

// Focusable rows: the three picker rows, then trials, bit length, the
// extracted toggle and the run button.
func (m *trialsModel) toggleIndex() int { return pickerRows + 2 }
func (m *trialsModel) runIndex() int    { return pickerRows + 3 }

func (m *trialsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *trialsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case trialsDoneMsg:
		m.state = trialsStateDone
		m.res = msg.res
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case trialsStateRunning:
			// The batch cannot be interrupted; swallow keys until it lands.
			return m, nil

		case trialsStateDone:
			switch msg.String() {
			case "q", "esc":
				return m, func() tea.Msg { return backToMenuMsg{} }
			case "r":
				// Back to the form for another batch.
				m.state = trialsStateForm
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
				return m.startBatch()
			}
			if m.focusIndex == m.toggleIndex() {
				m.extracted = !m.extracted
				return m, nil
			}
			m.focusIndex++
			return m, m.setFocus(m.focusIndex)

		case " ":
			if m.focusIndex == m.toggleIndex() {
				m.extracted = !m.extracted
				return m, nil
			}
		}

		if m.picker.HandleKey(msg, m.focusIndex) {
			return m, nil
		}
	}

	return m, m.updateInputs(msg)
}

// setFocus moves input focus to the given row.
func (m *trialsModel) setFocus(row int) tea.Cmd {
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

// updateInputs forwards a message to the picker and the local inputs.
func (m *trialsModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.picker.UpdateInputs(msg)}
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// startBatch validates the form and kicks off the batch command.
func (m *trialsModel) startBatch() (tea.Model, tea.Cmd) {
	name, seed, bias, err := m.picker.Values()
	if err != nil {
		m.err = err
		return m, nil
	}
	trials, err := parseIntField(m.inputs[0].Value(), 10)
	if err != nil {
		m.err = err
		return m, nil
	}
	bits, err := parseIntField(m.inputs[1].Value(), 10000)
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.state = trialsStateRunning
	m.opts = core.TrialOptions{
		Source:    name,
		Seed:      seed,
		Bias:      bias,
		Extracted: m.extracted,
		Trials:    trials,
		BitLength: bits,
	}
	return m, runTrialBatchCmd(m.opts)
}

// runTrialBatchCmd is a tea.Cmd that runs the batch off the UI loop.
func runTrialBatchCmd(opts core.TrialOptions) tea.Cmd {
	return func() tea.Msg {
		res, err := core.RunTrialBatch(context.Background(), opts, nil)
		return trialsDoneMsg{res: res, err: err}
	}
}

func (m *trialsModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🎲 " + i18n.T("trials.title")))
	b.WriteString("\n\n")

	switch m.state {
	case trialsStateRunning:
		b.WriteString(specialStyle.Render(i18n.T("trials.running", m.opts.Trials, m.opts.BitLength)))
		return b.String()

	case trialsStateDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render(i18n.T("trials.error", m.err)))
			b.WriteString("\n\n" + helpStyle.Render(i18n.T("trials.help_done")))
			return b.String()
		}
		b.WriteString(successStyle.Render(i18n.T("trials.saved", m.res.ID)))
		b.WriteString("\n\n")

		var card strings.Builder
		card.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("trials.scorecard", m.res.Label())))
		card.WriteString("\n\n")
		rows := []struct {
			name    string
			summary model.MetricSummary
		}{
			{"entropy", m.res.Entropy},
			{"chi-square", m.res.ChiSquare},
			{"frequency", m.res.Frequency},
			{"runs", m.res.Runs},
			{"block-frequency", m.res.BlockFrequency},
			{"approx-entropy", m.res.ApproxEntropy},
		}
		const labelWidth = 16
		for _, row := range rows {
			card.WriteString(scoreLine(row.name, row.summary, m.res.Trials, labelWidth))
			card.WriteString("\n")
		}
		b.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2).Render(card.String()))

		b.WriteString("\n\n" + helpStyle.Render(i18n.T("trials.help_done")))
		return b.String()
	}

	// Form state.
	var rows []string
	rows = append(rows, m.picker.ViewRows(m.focusIndex)...)
	rows = append(rows, "Trials:       "+m.inputs[0].View())
	rows = append(rows, "Bit length:   "+m.inputs[1].View())

	toggle := "[ ] extracted (Von Neumann)"
	if m.extracted {
		toggle = "[x] extracted (Von Neumann)"
	}
	if m.focusIndex == m.toggleIndex() {
		toggle = focusedStyle.Render(toggle)
	}
	rows = append(rows, "", toggle)

	button := buttonStyle.Render(i18n.T("trials.run_button"))
	if m.focusIndex == m.runIndex() {
		button = activeButtonStyle.Render(i18n.T("trials.run_button"))
	}
	rows = append(rows, "", button)

	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render(i18n.T("trials.error", m.err)))
	}
	b.WriteString("\n\n" + helpStyle.Render(i18n.T("trials.help")))
	return b.String()
}
