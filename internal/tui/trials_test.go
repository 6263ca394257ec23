// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/randlab/randlab/internal/i18n"
	"github.com/randlab/randlab/internal/testutil"
)

func resetTrialsConfig(t *testing.T) {
	t.Helper()
	resetPickerConfig(t)
	viper.Set("trials.count", 0)
	viper.Set("trials.bitlength", 0)
}

func TestTrials_FocusCyclingWraps(t *testing.T) {
	resetTrialsConfig(t)
	m := newTrialsModel()

	// Up from the first row wraps to the run button.
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(*trialsModel)
	if m.focusIndex != m.runIndex() {
		t.Fatalf("expected wrap to run button, got %d", m.focusIndex)
	}

	// Down from the run button wraps back to the source selector.
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = mi.(*trialsModel)
	if m.focusIndex != 0 {
		t.Fatalf("expected wrap to first row, got %d", m.focusIndex)
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = mi.(*trialsModel)
	if m.focusIndex != 1 {
		t.Fatalf("expected focus 1 after tab, got %d", m.focusIndex)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = mi.(*trialsModel)
	if m.focusIndex != 0 {
		t.Fatalf("expected focus 0 after shift+tab, got %d", m.focusIndex)
	}
}

func TestTrials_ToggleExtracted(t *testing.T) {
	resetTrialsConfig(t)
	m := newTrialsModel()
	m.focusIndex = m.toggleIndex()

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = mi.(*trialsModel)
	if !m.extracted {
		t.Fatalf("expected space to enable the extractor toggle")
	}

	// Enter on the toggle row flips it back instead of advancing.
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*trialsModel)
	if m.extracted {
		t.Fatalf("expected enter to flip the toggle off")
	}
	if m.focusIndex != m.toggleIndex() {
		t.Fatalf("focus should stay on the toggle, got %d", m.focusIndex)
	}
}

func TestTrials_EnterAdvancesFocus(t *testing.T) {
	resetTrialsConfig(t)
	m := newTrialsModel()
	m.focusIndex = pickerRows // trials count input

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*trialsModel)
	if m.focusIndex != pickerRows+1 {
		t.Fatalf("expected enter to advance focus, got %d", m.focusIndex)
	}
}

func TestTrials_StartBatchRejectsBadInput(t *testing.T) {
	resetTrialsConfig(t)
	m := newTrialsModel()
	m.focusIndex = m.runIndex()
	m.inputs[0].SetValue("abc")

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*trialsModel)
	if m.state != trialsStateForm {
		t.Fatalf("expected to stay in form on bad input, got %v", m.state)
	}
	if m.err == nil {
		t.Fatalf("expected validation error")
	}
	if cmd != nil {
		t.Fatalf("expected no batch command on validation failure")
	}
}

func TestTrials_StartBatchUsesDefaults(t *testing.T) {
	resetTrialsConfig(t)
	m := newTrialsModel()
	m.focusIndex = m.runIndex()

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*trialsModel)
	if m.state != trialsStateRunning {
		t.Fatalf("expected running state, got %v", m.state)
	}
	if cmd == nil {
		t.Fatalf("expected batch command")
	}
	if m.opts.Trials != 10 || m.opts.BitLength != 10000 {
		t.Fatalf("expected default batch shape, got %+v", m.opts)
	}
	if m.opts.Source != "csprng" {
		t.Fatalf("expected configured source, got %q", m.opts.Source)
	}
}

func TestTrials_RunningSwallowsKeys(t *testing.T) {
	resetTrialsConfig(t)
	m := newTrialsModel()
	m.state = trialsStateRunning

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(*trialsModel)
	if m.state != trialsStateRunning {
		t.Fatalf("keys must not interrupt a running batch")
	}
	if cmd != nil {
		t.Fatalf("expected no command while running")
	}
}

func TestTrials_DoneTransitions(t *testing.T) {
	resetTrialsConfig(t)
	i18n.Init("en")
	m := newTrialsModel()

	res := testutil.PassingTrial("csprng", false)
	mi, _ := m.Update(trialsDoneMsg{res: res})
	m = mi.(*trialsModel)
	if m.state != trialsStateDone {
		t.Fatalf("expected done state, got %v", m.state)
	}
	if m.res.Source != "csprng" {
		t.Fatalf("expected result stored, got %+v", m.res)
	}

	// "r" returns to the form for another batch.
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(*trialsModel)
	if m.state != trialsStateForm {
		t.Fatalf("expected form state after 'r', got %v", m.state)
	}

	// "q" from the done screen goes back to the menu.
	mi, _ = m.Update(trialsDoneMsg{res: res})
	m = mi.(*trialsModel)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected back command")
	}
	if _, ok := cmd().(backToMenuMsg); !ok {
		t.Fatalf("expected backToMenuMsg from command")
	}
}

func TestTrials_ViewStates(t *testing.T) {
	resetTrialsConfig(t)
	i18n.Init("en")
	m := newTrialsModel()

	if v := m.View(); !strings.Contains(v, "Run trials") {
		t.Fatalf("expected run button in form view")
	}

	m.state = trialsStateRunning
	m.opts.Trials = 10
	m.opts.BitLength = 10000
	if v := m.View(); !strings.Contains(v, "Running 10 trials") {
		t.Fatalf("expected progress line in running view, got %q", v)
	}

	m.state = trialsStateDone
	m.res = testutil.PassingTrial("pcg", true)
	v := m.View()
	if !strings.Contains(v, m.res.Label()) {
		t.Fatalf("expected scorecard header with batch label")
	}
	for _, metric := range []string{"entropy", "chi-square", "frequency", "runs"} {
		if !strings.Contains(v, metric) {
			t.Fatalf("expected %s row in scorecard", metric)
		}
	}
}
