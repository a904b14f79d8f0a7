package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/registry"
	"github.com/VoxDroid/cmdpal/internal/tui/adapters"
	modelpkg "github.com/VoxDroid/cmdpal/internal/tui/model"
)

func newTestModel(t *testing.T) (*TuiModel, *fakeSource, *fakeRunner) {
	t.Helper()
	src := &fakeSource{groups: []commands.Group{
		{Name: "Dev", Source: commands.UserDefined, Commands: []commands.Record{
			{Name: "alpha", Command: "echo alpha", Group: "Dev"},
			{Name: "beta", Command: "echo beta", Group: "Dev"},
			{Name: "bravo", Command: "echo bravo", Group: "Dev"},
		}},
		{Name: commands.ManifestGroup, Source: commands.ManifestScripts, Commands: []commands.Record{
			{Name: "build", Command: "npm run build", Group: commands.ManifestGroup, Detail: "tsc -p ."},
		}},
	}}
	runner := &fakeRunner{}
	ui := modelpkg.New(src, runner, &fakeFavorites{set: map[string]bool{}})
	m := NewModel(ui)
	t.Cleanup(m.cancel)
	if msg := m.loadCmd()(); msg != nil {
		m.Update(msg)
	}
	return m, src, runner
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *TuiModel, keys ...string) *TuiModel {
	for _, k := range keys {
		m1, _ := m.Update(key(k))
		m = m1.(*TuiModel)
	}
	return m
}

func TestNewModelInitializesList(t *testing.T) {
	m, _, _ := newTestModel(t)
	if len(m.list.Items()) != 4 {
		t.Fatalf("expected 4 items got %d", len(m.list.Items()))
	}
	if !strings.Contains(m.vp.View(), "echo alpha") {
		t.Fatalf("expected preview of first command, got:\n%s", m.vp.View())
	}
}

func TestFilterTypingUpdatesList(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(m, "/")
	if !m.filterMode {
		t.Fatalf("expected filter mode to be active")
	}
	m = press(m, "b", "r")
	if len(m.list.Items()) != 1 {
		t.Fatalf("expected only 'bravo' after typing 'br', got %d items", len(m.list.Items()))
	}
	if e, _ := m.selected(); e.Record.Name != "bravo" {
		t.Fatalf("expected bravo selected, got %q", e.Record.Name)
	}
	m = press(m, "backspace")
	if got := m.uiModel.Query(); got != "b" {
		t.Fatalf("expected query 'b' after backspace, got %q", got)
	}
	// Enter leaves filter mode and keeps the filter
	m = press(m, "enter")
	if m.filterMode || m.uiModel.Query() != "b" {
		t.Fatalf("expected filter kept after Enter, mode=%v query=%q", m.filterMode, m.uiModel.Query())
	}
	// Esc outside filter mode clears the filter
	m = press(m, "esc")
	if m.uiModel.Query() != "" || len(m.list.Items()) != 4 {
		t.Fatalf("expected cleared filter, got %q with %d items", m.uiModel.Query(), len(m.list.Items()))
	}
}

func TestFilterModeSwallowsShortcuts(t *testing.T) {
	m, _, runner := newTestModel(t)
	m = press(m, "/", "x", "q")
	if runner.disposed {
		t.Fatalf("x typed into the filter must not close sessions")
	}
	if m.uiModel.Query() != "xq" {
		t.Fatalf("expected query 'xq', got %q", m.uiModel.Query())
	}
}

func TestEnterRunsSelectedAndShowsOutput(t *testing.T) {
	m, _, runner := newTestModel(t)
	m = press(m, "down", "enter")
	if len(runner.ran) != 1 || runner.ran[0] != "beta" {
		t.Fatalf("expected beta to run, got %v", runner.ran)
	}
	if !strings.Contains(m.vp.View(), "output of beta") && !strings.Contains(m.output, "output of beta") {
		t.Fatalf("expected output pane to show session output")
	}
	if m.outputName != registry.SessionKey("beta") {
		t.Fatalf("unexpected output name %q", m.outputName)
	}
	if !strings.Contains(m.View(), "Sessions: 1") {
		t.Fatalf("expected session count in status bar")
	}
}

func TestFavoriteTogglePinsEntry(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(m, "down", "down", "f")
	items := m.list.Items()
	if len(items) != 5 {
		t.Fatalf("expected favorite to be pinned in addition to its group, got %d items", len(items))
	}
	first := items[0].(entryItem)
	if first.e.Record.Name != "bravo" || !strings.HasPrefix(first.Title(), "★") {
		t.Fatalf("expected starred bravo first, got %q", first.Title())
	}
	if e, _ := m.selected(); e.Record.Name != "bravo" {
		t.Fatalf("selection should follow the toggled command, got %q", e.Record.Name)
	}
	m = press(m, "f")
	if len(m.list.Items()) != 4 {
		t.Fatalf("expected unpinned list, got %d", len(m.list.Items()))
	}
}

func TestDeleteGroupNeedsConfirmation(t *testing.T) {
	m, src, _ := newTestModel(t)
	m = press(m, "d", "n")
	if len(src.removed) != 0 || m.status != "delete cancelled" {
		t.Fatalf("expected cancelled delete, removed=%v status=%q", src.removed, m.status)
	}
	m = press(m, "d", "y")
	if len(src.removed) != 1 || src.removed[0] != "Dev" {
		t.Fatalf("expected Dev removed, got %v", src.removed)
	}
	if len(m.list.Items()) != 1 {
		t.Fatalf("expected only the manifest command left, got %d", len(m.list.Items()))
	}
	// generated groups are refused without asking
	m = press(m, "d")
	if m.confirmDelete != "" || !strings.Contains(m.status, "cannot be deleted") {
		t.Fatalf("expected refusal for generated group, status=%q", m.status)
	}
}

func TestDisposeAllAndRefresh(t *testing.T) {
	m, src, runner := newTestModel(t)
	m = press(m, "enter", "x")
	if !runner.disposed || len(m.uiModel.Sessions()) != 0 {
		t.Fatalf("expected sessions disposed")
	}
	if m.outputName != "" {
		t.Fatalf("expected output pane cleared")
	}

	src.groups = src.groups[1:]
	m1, cmd := m.Update(key("r"))
	m = m1.(*TuiModel)
	m.Update(cmd())
	if len(m.list.Items()) != 1 {
		t.Fatalf("expected refresh to reload sources, got %d items", len(m.list.Items()))
	}
}

func TestSourcesChangedReloads(t *testing.T) {
	m, src, _ := newTestModel(t)
	src.groups = src.groups[:1]
	_, cmd := m.Update(sourcesChangedMsg{})
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("expected reload and re-listen, got %T", msg)
	}
	m.Update(batch[0]())
	if len(m.list.Items()) != 3 {
		t.Fatalf("expected 3 items after change, got %d", len(m.list.Items()))
	}
}

func TestWarningsAreShown(t *testing.T) {
	m, src, _ := newTestModel(t)
	src.warnings = []commands.Warning{{Path: "/ws/commands-list.json", Recovered: true}}
	m.Update(m.loadCmd()())
	if !strings.Contains(m.vp.View(), "Warnings:") {
		t.Fatalf("expected warnings in preview, got:\n%s", m.vp.View())
	}
}

func TestInitialRenderHeadless(t *testing.T) {
	m, _, _ := newTestModel(t)
	m1, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = m1.(*TuiModel)
	view := m.View()
	for _, want := range []string{"cmdpal", "alpha", "Command:", "Items: 4"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestQuitCancelsWatchers(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.ctx.Err() == nil {
		t.Fatalf("expected context cancelled on quit")
	}
}

// fakes
type fakeSource struct {
	groups   []commands.Group
	warnings []commands.Warning
	removed  []string
}

func (f *fakeSource) Load(_ context.Context) (adapters.Snapshot, error) {
	return adapters.Snapshot{Groups: f.groups, Warnings: f.warnings}, nil
}

func (f *fakeSource) RemoveGroup(_ context.Context, group string) (int, error) {
	f.removed = append(f.removed, group)
	var keep []commands.Group
	n := 0
	for _, g := range f.groups {
		if g.Name == group {
			n = len(g.Commands)
			continue
		}
		keep = append(keep, g)
	}
	f.groups = keep
	return n, nil
}

func (f *fakeSource) Watch(ctx context.Context, _ func()) error {
	<-ctx.Done()
	return nil
}

type fakeRunner struct {
	ran      []string
	disposed bool
}

func (f *fakeRunner) Run(_ context.Context, rec commands.Record) error {
	f.ran = append(f.ran, rec.Name)
	return nil
}

func (f *fakeRunner) DisposeAll(_ context.Context) {
	f.disposed = true
	f.ran = nil
}

func (f *fakeRunner) Sessions() []registry.SessionInfo {
	out := []registry.SessionInfo{}
	for _, n := range f.ran {
		out = append(out, registry.SessionInfo{Key: registry.SessionKey(n)})
	}
	return out
}

func (f *fakeRunner) Output() (string, string, bool) {
	if len(f.ran) == 0 {
		return "", "", false
	}
	last := f.ran[len(f.ran)-1]
	return registry.SessionKey(last), "output of " + last, true
}

type fakeFavorites struct{ set map[string]bool }

func (f *fakeFavorites) Set(_ context.Context) (map[string]bool, error) {
	out := map[string]bool{}
	for k := range f.set {
		out[k] = true
	}
	return out, nil
}

func (f *fakeFavorites) Toggle(_ context.Context, group, name string) (bool, error) {
	k := commands.FavoriteKey(group, name)
	if f.set[k] {
		delete(f.set, k)
		return false, nil
	}
	f.set[k] = true
	return true, nil
}
