package ui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/cmdpal/internal/commands"
	modelpkg "github.com/VoxDroid/cmdpal/internal/tui/model"
)

// TuiModel is the Bubble Tea model used by cmd/tui.
type TuiModel struct {
	uiModel Model
	list    list.Model
	vp      viewport.Model

	width  int
	height int

	ctx      context.Context
	cancel   context.CancelFunc
	changes  chan struct{}
	watchErr atomic.Value

	// filtering is done by the model; the list only shows the result
	filterMode bool
	// group awaiting a y/n answer before deletion
	confirmDelete string
	status        string

	outputName string
	output     string

	// accessibility / theme
	themeHighContrast bool
	// focus: false = left pane (list), true = right pane (viewport)
	focusRight bool
}

const helpText = "Enter run • f favorite • / filter • r refresh • x close sessions • d delete group • T theme • q quit"

func (m *TuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case listLoadedMsg:
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
		}
		m.rebuildItems()
		return m, nil

	case sourcesChangedMsg:
		return m, tea.Batch(m.loadCmd(), waitForChange(m.ctx, m.changes))

	case outputTickMsg:
		m.refreshOutput()
		if m.ctx.Err() != nil {
			return m, nil
		}
		return m, tickOutput()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headH := 1
		footerH := 1
		bodyH := m.height - headH - footerH - 2
		if bodyH < 3 {
			bodyH = 3
		}

		sideW := int(float64(m.width) * 0.4)
		if sideW > 48 {
			sideW = 48
		}
		if sideW < 20 {
			sideW = 20
		}
		innerSideW := sideW - 2
		if innerSideW < 10 {
			innerSideW = 10
		}

		rightW := m.width - sideW - 4
		if rightW < 12 {
			rightW = 12
		}
		innerRightW := rightW - 2
		if innerRightW < 10 {
			innerRightW = 10
		}

		innerBodyH := bodyH - 2
		if innerBodyH < 1 {
			innerBodyH = 1
		}

		m.list.SetSize(innerSideW, innerBodyH)
		m.ensureViewportSize(innerRightW, innerBodyH)
		m.updatePreview()
	}
	return m, nil
}

func (m *TuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	if msg.Type == tea.KeyCtrlC {
		return m, m.quit()
	}

	if m.confirmDelete != "" {
		group := m.confirmDelete
		m.confirmDelete = ""
		if s != "y" && s != "Y" {
			m.status = "delete cancelled"
			return m, nil
		}
		n, err := m.uiModel.DeleteGroup(m.ctx, group)
		if err != nil {
			m.status = "delete: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("deleted group %q (%d commands)", group, n)
		m.rebuildItems()
		return m, nil
	}

	if m.filterMode {
		switch msg.Type {
		case tea.KeyEnter:
			m.filterMode = false
		case tea.KeyEsc:
			m.filterMode = false
			m.uiModel.SetQuery("")
			m.rebuildItems()
		case tea.KeyBackspace:
			m.uiModel.SetQuery(trimLastRune(m.uiModel.Query()))
			m.rebuildItems()
		case tea.KeyRunes, tea.KeySpace:
			m.uiModel.SetQuery(m.uiModel.Query() + string(msg.Runes))
			m.rebuildItems()
		}
		return m, nil
	}

	// global keybindings handled BEFORE passing to the list
	switch s {
	case "q":
		return m, m.quit()
	case "esc":
		if m.uiModel.Query() != "" {
			m.uiModel.SetQuery("")
			m.rebuildItems()
			return m, nil
		}
		return m, m.quit()
	case "?":
		m.status = helpText
		return m, nil
	case "/":
		m.filterMode = true
		return m, nil
	case "enter":
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.uiModel.Run(m.ctx, e.Record); err != nil {
			m.status = "run: " + err.Error()
			return m, nil
		}
		m.status = "running " + e.Record.Name
		m.refreshOutput()
		return m, nil
	case "f":
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		on, err := m.uiModel.ToggleFavorite(m.ctx, e.Record)
		if err != nil {
			m.status = "favorite: " + err.Error()
			return m, nil
		}
		if on {
			m.status = "★ " + e.Record.Name
		} else {
			m.status = "unstarred " + e.Record.Name
		}
		m.rebuildItems()
		return m, nil
	case "r":
		m.status = "refreshed"
		return m, m.loadCmd()
	case "x":
		n := len(m.uiModel.Sessions())
		m.uiModel.DisposeAll(m.ctx)
		m.status = fmt.Sprintf("closed %d sessions", n)
		m.refreshOutput()
		return m, nil
	case "d":
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		if e.Source != commands.UserDefined {
			m.status = fmt.Sprintf("group %q is generated and cannot be deleted", e.Record.Group)
			return m, nil
		}
		m.confirmDelete = e.Record.Group
		m.status = fmt.Sprintf("delete group %q? (y/n)", e.Record.Group)
		return m, nil
	case "T", "ctrl+t":
		m.themeHighContrast = !m.themeHighContrast
		return m, nil
	case "left":
		m.focusRight = false
		return m, nil
	case "right":
		m.focusRight = true
		return m, nil
	case "tab":
		m.focusRight = !m.focusRight
		return m, nil
	}

	if m.focusRight && m.scrollViewport(s) {
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.updatePreview()
	return m, cmd
}

// quit stops the watcher and output polling before leaving.
func (m *TuiModel) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

// rebuildItems reloads the list from the model and keeps the selection on
// the same command when it is still listed.
func (m *TuiModel) rebuildItems() {
	prev, hadPrev := m.selected()
	entries := m.uiModel.Entries()
	items := make([]list.Item, 0, len(entries))
	sel := -1
	for i, e := range entries {
		if sel < 0 && hadPrev && e.Key() == prev.Key() {
			sel = i
		}
		items = append(items, entryItem{e: e})
	}
	if sel < 0 {
		sel = 0
	}
	if m.list.Height() == 0 {
		m.list.SetSize(30, 10)
	}
	if m.vp.Width == 0 || m.vp.Height == 0 {
		m.ensureViewportSize(40, 12)
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(sel)
	}
	m.updatePreview()
}

func (m *TuiModel) selected() (modelpkg.Entry, bool) {
	if it, ok := m.list.SelectedItem().(entryItem); ok {
		return it.e, true
	}
	return modelpkg.Entry{}, false
}

// refreshOutput pulls the foreground session output into the right pane.
func (m *TuiModel) refreshOutput() {
	name, text, ok := m.uiModel.Output()
	if !ok {
		name, text = "", ""
	}
	if name == m.outputName && text == m.output {
		return
	}
	m.outputName, m.output = name, text
	m.updatePreview()
	if !m.focusRight {
		m.vp.GotoBottom()
	}
}

func (m *TuiModel) updatePreview() {
	var b strings.Builder
	if e, ok := m.selected(); ok {
		b.WriteString(formatEntryDetails(e, m.vp.Width))
	} else {
		b.WriteString("No commands found.\n")
	}
	if ws := m.uiModel.Warnings(); len(ws) > 0 {
		b.WriteString("\n" + formatWarnings(ws, m.vp.Width))
	}
	if m.outputName != "" {
		b.WriteString("\n" + formatOutput(m.outputName, m.output, m.vp.Width))
	}
	m.vp.SetContent(b.String())
}
