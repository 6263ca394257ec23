// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal user interface for Randlab.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that acts as a router to all other sub-views.
package tui // import "github.com/randlab/randlab/internal/tui"

import (
	"fmt"
	"os"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/randlab/randlab/buildvars"
	"github.com/randlab/randlab/internal/config"
	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/logging"
	"github.com/randlab/randlab/internal/model"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	// menuView is the main dashboard and navigation menu.
	menuView viewState = iota
	trialsView
	avalancheView
	analyzeView
	extractView
	generateView
	resultsView
	languageView
)

// dashboardDataMsg is a message containing the data for the main menu dashboard.
type dashboardDataMsg struct {
	data dashboardData
}

// languageChangedMsg is a message to signal that the language has changed and the UI should be re-initialized.
type languageChangedMsg struct{}

// dashboardData holds the summary information for the main menu view.
type dashboardData struct {
	counts       model.Counts
	latestTrial  *model.TrialResult
	latestCrypto *model.CryptoResult
	latestRun    *model.ExtractionRun
	recentTrials []model.TrialResult
	err          error
}

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the currently active sub-model.
type mainModel struct {
	state     viewState
	menu      menuModel
	trials    *trialsModel
	avalanche *avalancheModel
	analyzer  *analyzeModel
	extractor *extractModel
	generator *genModel
	results   *resultsModel
	language  languageModel
	dashboard dashboardData
	width     int
	height    int
	err       error
}

// menuModel holds the state for the main menu.
type menuModel struct {
	choices []string // The menu items to show.
	cursor  int      // Which menu item our cursor is pointing at.
}

// languageModel holds the state for the language selection menu.
type languageModel struct {
	choices     map[string]string // map of lang code to display name
	orderedKeys []string          // for stable iteration
	cursor      int
}

// configSaver persists the active configuration after in-TUI changes.
// Tests swap it for a stub so they never touch a real config file.
var configSaver interface{ Save() error } = viperConfigSaver{}

// viperConfigSaver snapshots the global viper state into the user config
// file. The CLI setup mirrors the effective configuration into the global
// viper before the TUI starts, so the snapshot is complete.
type viperConfigSaver struct{}

func (viperConfigSaver) Save() error {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return config.WriteConfigFile(&cfg, false)
}

// initialModel creates the starting state of the TUI, beginning at the main menu.
func initialModel() mainModel {
	return mainModel{
		state: menuView,
		menu: menuModel{
			choices: []string{
				i18n.T("menu.run_trials"),
				i18n.T("menu.avalanche"),
				i18n.T("menu.analyze"),
				i18n.T("menu.extract"),
				i18n.T("menu.generate"),
				i18n.T("menu.results"),
				i18n.T("menu.language"),
			},
		},
	}
}

// Init is the first function that will be called by the Bubble Tea runtime.
// It kicks off the initial command to load data for the dashboard.
func (m mainModel) Init() tea.Cmd {
	return refreshDashboardCmd()
}

// Update is the main message loop. It handles all events (like key presses and
// window size changes) and delegates them to the active sub-model.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings that work everywhere.
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case dashboardDataMsg:
		m.dashboard = msg.data
		if msg.data.err != nil {
			m.err = msg.data.err
		}
		return m, nil

	case languageChangedMsg:
		// The language has changed. Re-initialize the entire model to apply new translations everywhere.
		newModel := initialModel()
		// Preserve the current window dimensions so the layout remains correct.
		newModel.width = m.width
		newModel.height = m.height
		return newModel, newModel.Init()
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case trialsView:
		// If we received a "back" message, switch the state.
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newTrialsModel tea.Model
		newTrialsModel, cmd = m.trials.Update(msg)
		m.trials = newTrialsModel.(*trialsModel)

	case avalancheView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newAvalancheModel tea.Model
		newAvalancheModel, cmd = m.avalanche.Update(msg)
		m.avalanche = newAvalancheModel.(*avalancheModel)

	case analyzeView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newAnalyzeModel tea.Model
		newAnalyzeModel, cmd = m.analyzer.Update(msg)
		m.analyzer = newAnalyzeModel.(*analyzeModel)

	case extractView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newExtractModel tea.Model
		newExtractModel, cmd = m.extractor.Update(msg)
		m.extractor = newExtractModel.(*extractModel)

	case generateView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newGenModel tea.Model
		newGenModel, cmd = m.generator.Update(msg)
		m.generator = newGenModel.(*genModel)

	case resultsView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, refreshDashboardCmd()
		}
		var newResultsModel tea.Model
		newResultsModel, cmd = m.results.Update(msg)
		m.results = newResultsModel.(*resultsModel)

	case languageView:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q", "esc":
				m.state = menuView
				return m, refreshDashboardCmd()
			case "up", "k":
				if m.language.cursor > 0 {
					m.language.cursor--
				}
			case "down", "j":
				if m.language.cursor < len(m.language.orderedKeys)-1 {
					m.language.cursor++
				}
			case "enter":
				langCode := m.language.orderedKeys[m.language.cursor]
				i18n.SetLang(langCode)
				viper.Set("language", langCode)
				if err := configSaver.Save(); err != nil {
					m.err = fmt.Errorf("failed to save config: %w", err)
				}

				// Signal that the language has changed so the entire UI can be re-initialized.
				return m, func() tea.Msg { return languageChangedMsg{} }
			}
		}
		var newLangModel tea.Model
		newLangModel, cmd = m.language.Update(msg)
		m.language = newLangModel.(languageModel)

	default: // menuView
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.menu.cursor > 0 {
					m.menu.cursor--
				}
			case "down", "j":
				if m.menu.cursor < len(m.menu.choices)-1 {
					m.menu.cursor++
				}
			case "enter":
				switch m.menu.cursor {
				case 0: // Run trial batch
					m.state = trialsView
					m.trials = newTrialsModel()
					return m, m.trials.Init()
				case 1: // Avalanche analysis
					m.state = avalancheView
					m.avalanche = newAvalancheModel()
					return m, m.avalanche.Init()
				case 2: // Analyze source
					m.state = analyzeView
					m.analyzer = newAnalyzeModel()
					return m, m.analyzer.Init()
				case 3: // Extract bits
					m.state = extractView
					m.extractor = newExtractModel()
					return m, m.extractor.Init()
				case 4: // Generate number
					m.state = generateView
					m.generator = newGenModel()
					return m, m.generator.Init()
				case 5: // Browse results
					m.state = resultsView
					m.results = newResultsModel()
					// Manually update the new sub-model with the current window size
					// to ensure the table is initialized correctly.
					var updatedModel tea.Model
					updatedModel, cmd = m.results.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
					m.results = updatedModel.(*resultsModel)
					return m, cmd
				case 6: // Language
					m.state = languageView
					m.language = newLanguageModel()
					return m, nil
				}
			case "L":
				// "L" opens the language menu from anywhere on the dashboard.
				m.state = languageView
				m.language = newLanguageModel()
				return m, nil
			}
		}
	}

	return m, cmd
}

// View renders the TUI. It's called after every Update and delegates rendering
// to the currently active sub-model.
func (m mainModel) View() string {
	if m.err != nil {
		// A simple error view
		errorViewStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 2)
		return errorViewStyle.Render(fmt.Sprintf("An error occurred: %v", m.err))
	}

	// Delegate rendering to the currently active view.
	switch m.state {
	case trialsView:
		return m.trials.View()
	case avalancheView:
		return m.avalanche.View()
	case analyzeView:
		return m.analyzer.View()
	case extractView:
		return m.extractor.View()
	case generateView:
		return m.generator.View()
	case resultsView:
		return m.results.View()
	case languageView:
		return m.language.View()
	default: // menuView
		return m.menu.View(m.dashboard, m.width, m.height)
	}
}

// View renders the main menu and dashboard.
func (m menuModel) View(data dashboardData, width, height int) string {
	// Title (i18n)
	title := mainTitleStyle.Render("🎲 " + i18n.T("dashboard.title"))
	subTitle := helpStyle.Render(i18n.T("dashboard.subtitle"))
	header := lipgloss.JoinVertical(lipgloss.Left, title, subTitle)

	// --- Panes ---
	paneTitleStyle := lipgloss.NewStyle().Bold(true)

	// Menu List (Left Pane)
	var menuItems []string
	menuItems = append(menuItems, paneTitleStyle.Render(i18n.T("menu.navigation")), "")
	for i, choice := range m.choices {
		if m.cursor == i {
			menuItems = append(menuItems, selectedItemStyle.Render("▸ "+choice))
		} else {
			menuItems = append(menuItems, itemStyle.Render("  "+choice))
		}
	}
	menuContent := lipgloss.JoinVertical(lipgloss.Left, menuItems...)

	// Dashboard (Right Pane)
	var dashboardItems []string
	dashboardItems = append(dashboardItems, paneTitleStyle.Render(i18n.T("dashboard.stored_results")), "")

	// Row counts with dynamic label padding so values align.
	statusItems := []struct {
		label string
		value string
	}{
		{i18n.T("dashboard.trial_batches"), fmt.Sprintf("%d", data.counts.TrialResults)},
		{i18n.T("dashboard.crypto_results"), fmt.Sprintf("%d", data.counts.CryptoResults)},
		{i18n.T("dashboard.extraction_runs"), fmt.Sprintf("%d", data.counts.ExtractionRuns)},
	}
	maxLabelLen := 0
	for _, item := range statusItems {
		if len(item.label) > maxLabelLen {
			maxLabelLen = len(item.label)
		}
	}
	for _, item := range statusItems {
		dashboardItems = append(dashboardItems, formatLabelPadding(item.label, item.value, maxLabelLen))
	}

	// Latest results
	dashboardItems = append(dashboardItems, "", "", paneTitleStyle.Render(i18n.T("dashboard.latest_results")), "")
	if data.latestTrial == nil && data.latestCrypto == nil && data.latestRun == nil {
		dashboardItems = append(dashboardItems, helpStyle.Render(i18n.T("dashboard.no_results")))
	} else {
		if t := data.latestTrial; t != nil {
			verdict := successStyle.Render(i18n.T("dashboard.verdict_pass"))
			if !allMetricsPassed(*t) {
				verdict = specialStyle.Render(i18n.T("dashboard.verdict_mixed"))
			}
			line := lipgloss.JoinHorizontal(lipgloss.Left,
				i18n.T("dashboard.latest_trial", t.Label(), t.Entropy.Mean), " ", verdict)
			dashboardItems = append(dashboardItems, line)
		}
		if c := data.latestCrypto; c != nil {
			dashboardItems = append(dashboardItems,
				i18n.T("dashboard.latest_key", c.Source, modeLabel(c.Extracted), c.KeyEntropy))
		}
		if r := data.latestRun; r != nil {
			dashboardItems = append(dashboardItems,
				i18n.T("dashboard.latest_run", r.BitsRequested, r.Source, r.Efficiency*100))
		}
	}

	// Recent trial batches
	dashboardItems = append(dashboardItems, "", "", paneTitleStyle.Render(i18n.T("dashboard.recent_batches")), "")
	if len(data.recentTrials) == 0 {
		dashboardItems = append(dashboardItems, helpStyle.Render(i18n.T("dashboard.no_recent_activity")))
	} else {
		for _, t := range data.recentTrials {
			ts := t.CreatedAt.Format("01-02 15:04")
			labelStyle := successStyle
			if !allMetricsPassed(t) {
				labelStyle = specialStyle
			}
			line := lipgloss.JoinHorizontal(lipgloss.Left,
				helpStyle.Render(ts), " ", labelStyle.Render(t.Label()), " ",
				helpStyle.Render(fmt.Sprintf("H=%.4f", t.Entropy.Mean)))
			dashboardItems = append(dashboardItems, line)
		}
	}
	dashboardContent := lipgloss.JoinVertical(lipgloss.Left, dashboardItems...)

	// --- Layout ---
	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	// Calculate height for the panes to fill the screen
	headerHeight := lipgloss.Height(header)
	footerHeight := 1
	paneHeight := height - headerHeight - footerHeight - 2 // -2 for newlines around mainArea

	menuWidth := 34
	dashboardWidth := width - 4 - menuWidth - 2

	leftPane := paneStyle.Width(menuWidth).Height(paneHeight).Render(menuContent)
	rightPane := paneStyle.Width(dashboardWidth).Height(paneHeight).MarginLeft(2).Render(dashboardContent)

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	// Styled footer/help line with the build version right-aligned.
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	footer := footerStyle.Render(AlignFooter(i18n.T("dashboard.footer"), buildvars.VersionOrDefault("dev"), width))

	return lipgloss.JoinVertical(lipgloss.Top, header, mainArea, footer)
}

// newLanguageModel creates a new model for the language selection view.
func newLanguageModel() languageModel {
	// Get the dynamically discovered locales from the i18n package.
	choices := i18n.GetAvailableLocales()

	// Create a sorted list of keys for stable iteration and display order.
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return languageModel{
		choices:     choices,
		orderedKeys: keys,
		cursor:      0,
	}
}

// Init for languageModel.
func (m languageModel) Init() tea.Cmd { return nil }

// Update for languageModel.
func (m languageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

// View for languageModel.
func (m languageModel) View() string {
	title := mainTitleStyle.Render("🌐 " + i18n.T("menu.language"))

	var listItems []string
	listItems = append(listItems, titleStyle.Render(i18n.T("language.select")), "")

	for i, langCode := range m.orderedKeys {
		displayName := m.choices[langCode]
		line := "  " + displayName
		if m.cursor == i {
			line = "▸ " + displayName
			listItems = append(listItems, selectedItemStyle.Render(line))
		} else {
			listItems = append(listItems, itemStyle.Render(line))
		}
	}

	paneStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle).Padding(1, 2)
	listPane := paneStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, listItems...))

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("236")).Padding(0, 1).Italic(true)
	helpLine := footerStyle.Render(AlignFooter(i18n.T("language.help"), "", 60))

	return lipgloss.JoinVertical(lipgloss.Left, title, "", listPane, "", helpLine)
}

// Run is the main entrypoint for the TUI. It initializes and runs the Bubble Tea program.
func Run() {
	if _, err := tea.NewProgram(initialModel()).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		os.Exit(1)
	}
}

// refreshDashboardCmd is a tea.Cmd that fetches summary data for the main menu.
func refreshDashboardCmd() tea.Cmd {
	return func() tea.Msg {
		coreData, err := core.BuildDashboardData()
		if err != nil {
			return dashboardDataMsg{data: dashboardData{err: err}}
		}

		return dashboardDataMsg{data: dashboardData{
			counts:       coreData.Counts,
			latestTrial:  coreData.LatestTrial,
			latestCrypto: coreData.LatestCrypto,
			latestRun:    coreData.LatestRun,
			recentTrials: coreData.RecentTrials,
		}}
	}
}

// modeLabel names the draw mode of a stored result.
func modeLabel(extracted bool) string {
	if extracted {
		return i18n.T("mode.extracted")
	}
	return i18n.T("mode.raw")
}
