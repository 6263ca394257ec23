// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randlab/randlab/internal/core"
)

func TestAnalyze_EnterAdvancesToRun(t *testing.T) {
	resetPickerConfig(t)
	m := newAnalyzeModel()
	m.focusIndex = pickerRows // bits input

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*analyzeModel)
	if m.focusIndex != m.runIndex() {
		t.Fatalf("expected focus on run button, got %d", m.focusIndex)
	}
}

func TestAnalyze_StartUsesDefaults(t *testing.T) {
	resetPickerConfig(t)
	m := newAnalyzeModel()
	m.focusIndex = m.runIndex()

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*analyzeModel)
	if m.state != analyzeStateRunning {
		t.Fatalf("expected running state, got %v", m.state)
	}
	if cmd == nil {
		t.Fatalf("expected analysis command")
	}
}

func TestAnalyze_DoneBackToMenu(t *testing.T) {
	resetPickerConfig(t)
	m := newAnalyzeModel()

	mi, _ := m.Update(analyzeDoneMsg{res: core.Analysis{Source: "pcg", RunID: 1}})
	m = mi.(*analyzeModel)
	if m.state != analyzeStateDone {
		t.Fatalf("expected done state, got %v", m.state)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected back command")
	}
	if _, ok := cmd().(backToMenuMsg); !ok {
		t.Fatalf("expected backToMenuMsg from command")
	}
}
