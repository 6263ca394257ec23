// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/randlab/randlab/internal/bitstream"
	"github.com/randlab/randlab/internal/core"
	"github.com/randlab/randlab/internal/i18n"
)

func TestGen_FocusWrap(t *testing.T) {
	resetPickerConfig(t)
	m := newGenModel()

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(*genModel)
	if m.focusIndex != m.runIndex() {
		t.Fatalf("expected wrap to run button, got %d", m.focusIndex)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = mi.(*genModel)
	if m.focusIndex != 0 {
		t.Fatalf("expected wrap to first row, got %d", m.focusIndex)
	}

	// Enter on the kind row advances into the min input.
	m.focusIndex = m.kindIndex()
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*genModel)
	if m.focusIndex != m.kindIndex()+1 {
		t.Fatalf("expected focus on min input, got %d", m.focusIndex)
	}
}

func TestGen_KindCycling(t *testing.T) {
	resetPickerConfig(t)
	m := newGenModel()
	m.focusIndex = m.kindIndex()

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = mi.(*genModel)
	if genKinds[m.kindCursor] != core.KindInt64 {
		t.Fatalf("expected int64 after right, got %s", genKinds[m.kindCursor])
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = mi.(*genModel)
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = mi.(*genModel)
	if genKinds[m.kindCursor] != core.KindDouble {
		t.Fatalf("expected wrap to double, got %s", genKinds[m.kindCursor])
	}

	// Space cycles too while the row is focused.
	m.kindCursor = 0
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = mi.(*genModel)
	if genKinds[m.kindCursor] != core.KindInt64 {
		t.Fatalf("expected space to cycle kind, got %s", genKinds[m.kindCursor])
	}

	// Off the kind row the arrows belong to the source picker.
	m.kindCursor = 0
	m.focusIndex = 0
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = mi.(*genModel)
	if m.kindCursor != 0 {
		t.Fatalf("kind must not move while the picker is focused")
	}
}

func TestGen_RawToggle(t *testing.T) {
	resetPickerConfig(t)
	m := newGenModel()
	m.focusIndex = m.toggleIndex()

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = mi.(*genModel)
	if !m.raw {
		t.Fatalf("expected raw mode on after space")
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*genModel)
	if m.raw {
		t.Fatalf("expected enter to toggle raw mode off")
	}
	if m.focusIndex != m.toggleIndex() {
		t.Fatalf("toggling must not move focus, got %d", m.focusIndex)
	}
}

func TestGen_StartRejectsBadRange(t *testing.T) {
	resetPickerConfig(t)
	m := newGenModel()
	m.focusIndex = m.runIndex()
	m.inputs[0].SetValue("low")

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*genModel)
	if m.state != genStateForm {
		t.Fatalf("expected to stay in form, got %v", m.state)
	}
	if m.err == nil {
		t.Fatalf("expected validation error")
	}
	if cmd != nil {
		t.Fatalf("expected no generation command")
	}
}

func TestGen_StartUsesDefaults(t *testing.T) {
	resetPickerConfig(t)
	m := newGenModel()
	m.focusIndex = m.runIndex()

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mi.(*genModel)
	if m.state != genStateRunning {
		t.Fatalf("expected running state, got %v", m.state)
	}
	if cmd == nil {
		t.Fatalf("expected a generation command")
	}

	msg, ok := cmd().(genDoneMsg)
	if !ok {
		t.Fatalf("expected genDoneMsg from command")
	}
	if msg.err != nil {
		t.Fatalf("default generation failed: %v", msg.err)
	}
	if msg.num.Kind != core.KindInt32 {
		t.Fatalf("expected int32 default, got %s", msg.num.Kind)
	}
	if len(msg.num.Bits) != 32 {
		t.Fatalf("expected 32 bits, got %d", len(msg.num.Bits))
	}
}

func TestGen_RunningSwallowsKeys(t *testing.T) {
	resetPickerConfig(t)
	m := newGenModel()
	m.state = genStateRunning

	mi, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(*genModel)
	if m.state != genStateRunning {
		t.Fatalf("keys must not interrupt a running generation")
	}
	if cmd != nil {
		t.Fatalf("expected no command while running")
	}
}

func TestGen_DoneTransitions(t *testing.T) {
	resetPickerConfig(t)
	i18n.Init("en")
	m := newGenModel()

	num := core.Number{
		Kind: core.KindInt32,
		Bits: bitstream.Bits{1, 0, 1, 1, 0, 1, 0, 0},
		Uint: 180,
	}
	mi, _ := m.Update(genDoneMsg{num: num})
	m = mi.(*genModel)
	if m.state != genStateDone {
		t.Fatalf("expected done state, got %v", m.state)
	}

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(*genModel)
	if m.state != genStateForm {
		t.Fatalf("expected form state after 'r', got %v", m.state)
	}

	mi, _ = m.Update(genDoneMsg{num: num})
	m = mi.(*genModel)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected back command")
	}
	if _, ok := cmd().(backToMenuMsg); !ok {
		t.Fatalf("expected backToMenuMsg from command")
	}
}

func TestGen_ViewStates(t *testing.T) {
	resetPickerConfig(t)
	i18n.Init("en")
	m := newGenModel()

	form := m.View()
	if !strings.Contains(form, "Generate") || !strings.Contains(form, "Kind:") {
		t.Fatalf("form view missing controls:\n%s", form)
	}
	if !strings.Contains(form, "raw (skip debiasing)") {
		t.Fatalf("form view missing raw toggle:\n%s", form)
	}

	m.state = genStateRunning
	if v := m.View(); !strings.Contains(v, "Generating") {
		t.Fatalf("running view missing progress text:\n%s", v)
	}

	m.state = genStateDone
	m.num = core.Number{
		Kind: core.KindInt32,
		Bits: bitstream.Bits{1, 0, 1, 1, 0, 1, 0, 0},
		Uint: 180,
	}
	done := m.View()
	if !strings.Contains(done, "int32") || !strings.Contains(done, "180") {
		t.Fatalf("done view missing value:\n%s", done)
	}
	if !strings.Contains(done, "10110100") {
		t.Fatalf("done view missing bit string:\n%s", done)
	}
}
