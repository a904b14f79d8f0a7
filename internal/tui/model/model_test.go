package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/registry"
	"github.com/VoxDroid/cmdpal/internal/tui/adapters"
)

func TestRefreshListAndFind(t *testing.T) {
	src := newTestSource()
	m := New(src, &testRunner{}, newTestFavorites())
	require.NoError(t, m.RefreshList(context.Background()))

	require.Len(t, m.Groups(), 2)
	rec, err := m.FindRecord("Dev", "Up")
	require.NoError(t, err)
	assert.Equal(t, "make up", rec.Command)

	_, err = m.FindRecord("Dev", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, m.Warnings(), 1)
}

func TestEntriesPinFavorites(t *testing.T) {
	fav := newTestFavorites()
	fav.set[commands.FavoriteKey(commands.ManifestGroup, "build")] = true
	m := New(newTestSource(), &testRunner{}, fav)
	require.NoError(t, m.RefreshList(context.Background()))

	entries := m.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "build", entries[0].Record.Name)
	assert.True(t, entries[0].Favorite)
	assert.Equal(t, commands.ManifestScripts, entries[0].Source)
	assert.Equal(t, "Up", entries[1].Record.Name)
	assert.False(t, entries[1].Favorite)
}

func TestQueryFilters(t *testing.T) {
	m := New(newTestSource(), nil, nil)
	require.NoError(t, m.RefreshList(context.Background()))

	m.SetQuery("tsc")
	assert.Equal(t, "tsc", m.Query())
	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "build", entries[0].Record.Name)

	m.SetQuery("")
	assert.Len(t, m.Entries(), 3)
}

func TestToggleFavorite(t *testing.T) {
	fav := newTestFavorites()
	m := New(newTestSource(), nil, fav)
	require.NoError(t, m.RefreshList(context.Background()))
	rec, err := m.FindRecord("Dev", "Up")
	require.NoError(t, err)

	on, err := m.ToggleFavorite(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, m.Entries()[0].Favorite)

	on, err = m.ToggleFavorite(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, m.Entries()[0].Favorite)

	_, err = New(newTestSource(), nil, nil).ToggleFavorite(context.Background(), rec)
	assert.Error(t, err)
}

func TestDeleteGroup(t *testing.T) {
	src := newTestSource()
	m := New(src, nil, nil)
	require.NoError(t, m.RefreshList(context.Background()))

	_, err := m.DeleteGroup(context.Background(), commands.ManifestGroup)
	assert.ErrorIs(t, err, ErrNotEditable)

	n, err := m.DeleteGroup(context.Background(), "Dev")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"Dev"}, src.removed)
	require.Len(t, m.Groups(), 1)
}

func TestRunAndSessions(t *testing.T) {
	runner := &testRunner{}
	m := New(newTestSource(), runner, nil)
	require.NoError(t, m.RefreshList(context.Background()))
	rec, _ := m.FindRecord("Dev", "Up")

	require.NoError(t, m.Run(context.Background(), rec))
	assert.Equal(t, []string{"Up"}, runner.ran)
	assert.Len(t, m.Sessions(), 1)

	name, text, ok := m.Output()
	assert.True(t, ok)
	assert.Equal(t, "Cmd: Up", name)
	assert.Equal(t, "ran Up", text)

	m.DisposeAll(context.Background())
	assert.True(t, runner.disposed)

	runner.err = errors.New("boom")
	assert.Error(t, m.Run(context.Background(), rec))

	assert.Error(t, New(newTestSource(), nil, nil).Run(context.Background(), rec))
}

// test helpers
type testSource struct {
	groups  []commands.Group
	removed []string
}

func newTestSource() *testSource {
	return &testSource{groups: []commands.Group{
		{Name: "Dev", Source: commands.UserDefined, Commands: []commands.Record{
			{Name: "Up", Command: "make up", Group: "Dev"},
			{Name: "Down", Command: "make down", Group: "Dev"},
		}},
		{Name: commands.ManifestGroup, Source: commands.ManifestScripts, Commands: []commands.Record{
			{Name: "build", Command: "npm run build", Group: commands.ManifestGroup, Detail: "tsc"},
		}},
	}}
}

func (s *testSource) Load(_ context.Context) (adapters.Snapshot, error) {
	return adapters.Snapshot{
		Groups:   s.groups,
		Warnings: []commands.Warning{{Path: "commands-list.json", Recovered: true}},
	}, nil
}

func (s *testSource) RemoveGroup(_ context.Context, group string) (int, error) {
	s.removed = append(s.removed, group)
	var keep []commands.Group
	n := 0
	for _, g := range s.groups {
		if g.Name == group {
			n += len(g.Commands)
			continue
		}
		keep = append(keep, g)
	}
	s.groups = keep
	return n, nil
}

func (s *testSource) Watch(ctx context.Context, _ func()) error {
	<-ctx.Done()
	return nil
}

type testRunner struct {
	ran      []string
	disposed bool
	err      error
}

func (r *testRunner) Run(_ context.Context, rec commands.Record) error {
	if r.err != nil {
		return r.err
	}
	r.ran = append(r.ran, rec.Name)
	return nil
}

func (r *testRunner) DisposeAll(_ context.Context) { r.disposed = true; r.ran = nil }

func (r *testRunner) Sessions() []registry.SessionInfo {
	out := make([]registry.SessionInfo, 0, len(r.ran))
	for _, n := range r.ran {
		out = append(out, registry.SessionInfo{Key: registry.SessionKey(n)})
	}
	return out
}

func (r *testRunner) Output() (string, string, bool) {
	if len(r.ran) == 0 {
		return "", "", false
	}
	last := r.ran[len(r.ran)-1]
	return registry.SessionKey(last), "ran " + last, true
}

type testFavorites struct{ set map[string]bool }

func newTestFavorites() *testFavorites { return &testFavorites{set: map[string]bool{}} }

func (f *testFavorites) Set(_ context.Context) (map[string]bool, error) {
	out := map[string]bool{}
	for k, v := range f.set {
		out[k] = v
	}
	return out, nil
}

func (f *testFavorites) Toggle(_ context.Context, group, name string) (bool, error) {
	key := commands.FavoriteKey(group, name)
	if f.set[key] {
		delete(f.set, key)
		return false, nil
	}
	f.set[key] = true
	return true, nil
}
