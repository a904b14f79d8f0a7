package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestThemeToggle(t *testing.T) {
	m, _, _ := newTestModel(t)
	// default is off
	if m.themeHighContrast {
		t.Fatalf("expected theme default off")
	}
	m1, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = m1.(*TuiModel)
	if !m.themeHighContrast {
		t.Fatalf("expected theme toggled on")
	}
}
