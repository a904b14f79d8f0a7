package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// outputInterval is how often the output pane polls the foreground session.
const outputInterval = 250 * time.Millisecond

// Messages
type listLoadedMsg struct{ err error }
type sourcesChangedMsg struct{}
type outputTickMsg time.Time

// NewModel constructs the Bubble Tea TUI model used by cmd/tui. It accepts
// any implementation of Model (usually the framework-agnostic internal
// model) so tests can provide fakes.
func NewModel(ui Model) *TuiModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "cmdpal — commands"
	l.SetShowStatusBar(false)
	// We'll implement live filtering ourselves so disable the built-in filter UI
	l.SetFilteringEnabled(false)

	vp := viewport.New(0, 0)
	ctx, cancel := context.WithCancel(context.Background())

	return &TuiModel{
		uiModel: ui,
		list:    l,
		vp:      vp,
		ctx:     ctx,
		cancel:  cancel,
		changes: make(chan struct{}, 1),
	}
}

// NewProgram constructs the tea.Program for the TUI.
func NewProgram(ui Model) *tea.Program {
	m := NewModel(ui)
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p
}

// Init loads the palette, starts watching the workspace sources and starts
// polling the output pane.
func (m *TuiModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.watchCmd(), tickOutput())
}

// loadCmd refreshes the model off the UI goroutine.
func (m *TuiModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return listLoadedMsg{err: m.uiModel.RefreshList(m.ctx)}
	}
}

// watchCmd starts the source watcher once and waits for its first change.
func (m *TuiModel) watchCmd() tea.Cmd {
	go func() {
		err := m.uiModel.Watch(m.ctx, func() {
			select {
			case m.changes <- struct{}{}:
			default:
			}
		})
		if err != nil {
			m.watchErr.Store(err.Error())
		}
	}()
	return waitForChange(m.ctx, m.changes)
}

// waitForChange returns a command that blocks until a change arrives. The
// caller should return it again from Update to keep listening.
func waitForChange(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return sourcesChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func tickOutput() tea.Cmd {
	return tea.Tick(outputInterval, func(t time.Time) tea.Msg { return outputTickMsg(t) })
}

// trimLastRune removes the last rune from a string if present
func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}
