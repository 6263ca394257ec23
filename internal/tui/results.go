// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/randlab/randlab/internal/db"
	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/model"
)

type resultsState int

const (
	resultsBrowsing resultsState = iota
	resultsConfirmDelete
)

// resultsKind selects which stored result family the table shows.
type resultsKind int

const (
	kindTrials resultsKind = iota
	kindCrypto
	kindRuns
)

type resultsModel struct {
	state resultsState
	kind  resultsKind
	table table.Model

	trials []model.TrialResult
	crypto []model.CryptoResult
	runs   []model.ExtractionRun

	confirmCursor int
	status        string
	width         int
	height        int
	err           error
}

// newResultsModel loads the stored results and builds the browser table.
func newResultsModel() *resultsModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)

	m := &resultsModel{table: t}
	m.err = m.reload()
	m.rebuildTable()
	return m
}

// reload refreshes all three result families from the store. Lab result
// sets stay small, so fetching everything up front keeps tab switching
// off the database.
func (m *resultsModel) reload() error {
	trials, err := db.GetAllTrialResults()
	if err != nil {
		return err
	}
	crypto, err := db.GetAllCryptoResults()
	if err != nil {
		return err
	}
	runs, err := db.GetAllExtractionRuns()
	if err != nil {
		return err
	}
	m.trials = trials
	m.crypto = crypto
	m.runs = runs
	return nil
}

// rebuildTable swaps the columns and rows for the active result kind.
func (m *resultsModel) rebuildTable() {
	const timeLayout = "2006-01-02 15:04"

	var columns []table.Column
	var rows []table.Row

	switch m.kind {
	case kindTrials:
		columns = []table.Column{
			{Title: i18n.T("results.col_id"), Width: 5},
			{Title: i18n.T("results.col_created"), Width: 17},
			{Title: i18n.T("results.col_label"), Width: 26},
			{Title: i18n.T("results.col_entropy"), Width: 17},
			{Title: i18n.T("results.col_verdict"), Width: 8},
		}
		for _, r := range m.trials {
			verdict := i18n.T("results.verdict_mixed")
			if allMetricsPassed(r) {
				verdict = i18n.T("results.verdict_pass")
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.ID),
				r.CreatedAt.Format(timeLayout),
				r.Label(),
				r.Entropy.String(),
				verdict,
			})
		}

	case kindCrypto:
		columns = []table.Column{
			{Title: i18n.T("results.col_id"), Width: 5},
			{Title: i18n.T("results.col_created"), Width: 17},
			{Title: i18n.T("results.col_source"), Width: 9},
			{Title: i18n.T("results.col_mode"), Width: 10},
			{Title: i18n.T("results.col_avalanche"), Width: 16},
			{Title: i18n.T("results.col_key_entropy"), Width: 12},
		}
		for _, r := range m.crypto {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.ID),
				r.CreatedAt.Format(timeLayout),
				r.Source,
				modeLabel(r.Extracted),
				fmt.Sprintf("%.2f%% ±%.2f", r.AvalancheMean, r.AvalancheStdDev),
				fmt.Sprintf("%.4f", r.KeyEntropy),
			})
		}

	case kindRuns:
		columns = []table.Column{
			{Title: i18n.T("results.col_id"), Width: 5},
			{Title: i18n.T("results.col_created"), Width: 17},
			{Title: i18n.T("results.col_source"), Width: 9},
			{Title: i18n.T("results.col_bits"), Width: 13},
			{Title: i18n.T("results.col_efficiency"), Width: 8},
			{Title: i18n.T("results.col_entropy"), Width: 9},
		}
		for _, r := range m.runs {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", r.ID),
				r.CreatedAt.Format(timeLayout),
				r.Source,
				fmt.Sprintf("%d/%d", r.BitsRequested, r.RawBitsUsed),
				fmt.Sprintf("%.1f%%", r.Efficiency*100),
				fmt.Sprintf("%.4f", r.Entropy),
			})
		}
	}

	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// rowCount returns the number of rows for the active kind.
func (m *resultsModel) rowCount() int {
	switch m.kind {
	case kindCrypto:
		return len(m.crypto)
	case kindRuns:
		return len(m.runs)
	default:
		return len(m.trials)
	}
}

// selectedID returns the stored ID under the cursor, false when the
// table is empty.
func (m *resultsModel) selectedID() (int, bool) {
	i := m.table.Cursor()
	switch m.kind {
	case kindCrypto:
		if i >= 0 && i < len(m.crypto) {
			return m.crypto[i].ID, true
		}
	case kindRuns:
		if i >= 0 && i < len(m.runs) {
			return m.runs[i].ID, true
		}
	default:
		if i >= 0 && i < len(m.trials) {
			return m.trials[i].ID, true
		}
	}
	return 0, false
}

// itemLabel names the active kind in confirmation and status messages.
func (m *resultsModel) itemLabel() string {
	switch m.kind {
	case kindCrypto:
		return i18n.T("results.item_crypto")
	case kindRuns:
		return i18n.T("results.item_run")
	default:
		return i18n.T("results.item_trial")
	}
}

// deleteSelected removes the row under the cursor from the store and
// refreshes the table.
func (m *resultsModel) deleteSelected() {
	id, ok := m.selectedID()
	if !ok {
		return
	}

	var err error
	switch m.kind {
	case kindCrypto:
		err = db.DeleteCryptoResult(id)
	case kindRuns:
		err = db.DeleteExtractionRun(id)
	default:
		err = db.DeleteTrialResult(id)
	}
	if err != nil {
		m.err = err
		return
	}

	m.err = m.reload()
	m.rebuildTable()
	m.status = i18n.T("results.deleted", m.itemLabel(), id)
}

func (m *resultsModel) Init() tea.Cmd {
	return nil
}

func (m *resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(msg.Height - 10)
		m.table.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		if m.state == resultsConfirmDelete {
			switch msg.String() {
			case "left", "right", "h", "l", "tab":
				m.confirmCursor = 1 - m.confirmCursor
			case "enter":
				if m.confirmCursor == 1 {
					m.deleteSelected()
				}
				m.state = resultsBrowsing
			case "esc", "n", "q":
				m.state = resultsBrowsing
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }

		case "tab", "right":
			m.kind = (m.kind + 1) % 3
			m.status = ""
			m.rebuildTable()
			return m, nil

		case "shift+tab", "left":
			m.kind = (m.kind + 2) % 3
			m.status = ""
			m.rebuildTable()
			return m, nil

		case "r":
			m.err = m.reload()
			m.rebuildTable()
			m.status = ""
			return m, nil

		case "d":
			if m.rowCount() > 0 {
				m.state = resultsConfirmDelete
				// Default to No so a double-tap never deletes.
				m.confirmCursor = 0
				m.status = ""
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// tabBar renders the kind switcher with the active kind highlighted.
func (m *resultsModel) tabBar() string {
	labels := []string{
		i18n.T("results.kind_trials", len(m.trials)),
		i18n.T("results.kind_crypto", len(m.crypto)),
		i18n.T("results.kind_runs", len(m.runs)),
	}
	parts := make([]string, len(labels))
	for i, label := range labels {
		if resultsKind(i) == m.kind {
			parts[i] = statusMessageStyle.Render(label)
		} else {
			parts[i] = helpStyle.Render(" " + label + " ")
		}
	}
	return strings.Join(parts, " ")
}

func (m *resultsModel) View() string {
	if m.state == resultsConfirmDelete {
		id, _ := m.selectedID()
		question := i18n.T("results.confirm_delete", m.itemLabel(), id)

		noButton := activeButtonStyle.Render(i18n.T("results.button_no"))
		yesButton := buttonStyle.Render(i18n.T("results.button_yes"))
		if m.confirmCursor == 1 {
			noButton = buttonStyle.Render(i18n.T("results.button_no"))
			yesButton = activeButtonStyle.Render(i18n.T("results.button_yes"))
		}
		buttons := lipgloss.JoinHorizontal(lipgloss.Top, noButton, "  ", yesButton)
		dialog := dialogBoxStyle.Render(question + "\n\n" + buttons)

		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
		}
		return dialog
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("🗂 " + i18n.T("results.title")))
	b.WriteString("\n\n")
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(i18n.T("results.error", m.err)))
		b.WriteString("\n")
	}

	if m.rowCount() == 0 {
		b.WriteString(helpStyle.Render(i18n.T("results.empty")))
	} else {
		b.WriteString(m.table.View())
	}

	if m.status != "" {
		b.WriteString("\n" + statusMessageStyle.Render(m.status))
	}

	b.WriteString("\n\n" + helpStyle.Render(i18n.T("results.help")))
	return b.String()
}
