// Package model provides a framework-agnostic UI model built on top of
// adapter interfaces so the TUI code can remain presentation-focused.
package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/registry"
	"github.com/VoxDroid/cmdpal/internal/tui/adapters"
)

// ErrNotFound is returned when a requested command cannot be found.
var ErrNotFound = errors.New("not found")

// ErrNotEditable is returned when deleting a generated group.
var ErrNotEditable = errors.New("group is generated and cannot be edited")

// Entry is one row of the palette.
type Entry struct {
	Record   commands.Record
	Favorite bool
	Source   commands.Source
}

// Key returns the favorite key of the entry.
func (e Entry) Key() string { return commands.FavoriteKey(e.Record.Group, e.Record.Name) }

// UIModel is a framework-agnostic model for the palette.
// It depends only on adapter interfaces.
type UIModel struct {
	source    adapters.CommandSource
	runner    adapters.SessionRunner
	favorites adapters.FavoritesAdapter

	mu       sync.Mutex
	snapshot adapters.Snapshot
	favSet   map[string]bool
	query    string
}

// New constructs a UIModel backed by the provided adapters. runner and fav
// may be nil, in which case running and favorites are unavailable.
func New(src adapters.CommandSource, runner adapters.SessionRunner, fav adapters.FavoritesAdapter) *UIModel {
	return &UIModel{source: src, runner: runner, favorites: fav, favSet: map[string]bool{}}
}

// RefreshList reloads the workspace sources and the favorite set.
func (m *UIModel) RefreshList(ctx context.Context) error {
	snap, err := m.source.Load(ctx)
	if err != nil {
		return err
	}
	favs := map[string]bool{}
	if m.favorites != nil {
		if favs, err = m.favorites.Set(ctx); err != nil {
			return fmt.Errorf("load favorites: %w", err)
		}
	}
	m.mu.Lock()
	m.snapshot = snap
	m.favSet = favs
	m.mu.Unlock()
	return nil
}

// SetQuery sets the filter applied by Entries and Groups.
func (m *UIModel) SetQuery(q string) {
	m.mu.Lock()
	m.query = q
	m.mu.Unlock()
}

// Query returns the current filter.
func (m *UIModel) Query() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query
}

// Groups returns the cached groups matching the current filter.
func (m *UIModel) Groups() []commands.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	return commands.Filter(m.snapshot.Groups, m.query)
}

// Warnings returns the warnings of the last refresh.
func (m *UIModel) Warnings() []commands.Warning {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Warnings
}

// Entries flattens the filtered groups into palette rows. Favorites come
// first, in group order, and also stay in their own group.
func (m *UIModel) Entries() []Entry {
	groups := m.Groups()
	m.mu.Lock()
	favs := m.favSet
	m.mu.Unlock()

	var pinned, rest []Entry
	for _, g := range groups {
		for _, r := range g.Commands {
			e := Entry{Record: r, Source: g.Source, Favorite: favs[commands.FavoriteKey(r.Group, r.Name)]}
			if e.Favorite {
				pinned = append(pinned, e)
			}
			rest = append(rest, e)
		}
	}
	return append(pinned, rest...)
}

// FindRecord searches the cached groups for (group, name).
func (m *UIModel) FindRecord(group, name string) (commands.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.snapshot.Groups {
		if g.Name != group {
			continue
		}
		for _, r := range g.Commands {
			if r.Name == name {
				return r, nil
			}
		}
	}
	return commands.Record{}, ErrNotFound
}

// Run launches rec in its terminal session.
func (m *UIModel) Run(ctx context.Context, rec commands.Record) error {
	if m.runner == nil {
		return fmt.Errorf("session runner not configured")
	}
	return m.runner.Run(ctx, rec)
}

// ToggleFavorite flips the favorite state of rec and returns the new state.
func (m *UIModel) ToggleFavorite(ctx context.Context, rec commands.Record) (bool, error) {
	if m.favorites == nil {
		return false, fmt.Errorf("favorites not configured")
	}
	on, err := m.favorites.Toggle(ctx, rec.Group, rec.Name)
	if err != nil {
		return false, err
	}
	key := commands.FavoriteKey(rec.Group, rec.Name)
	m.mu.Lock()
	next := make(map[string]bool, len(m.favSet)+1)
	for k, v := range m.favSet {
		next[k] = v
	}
	if on {
		next[key] = true
	} else {
		delete(next, key)
	}
	m.favSet = next
	m.mu.Unlock()
	return on, nil
}

// DeleteGroup removes a user-defined group and refreshes the cache.
func (m *UIModel) DeleteGroup(ctx context.Context, group string) (int, error) {
	if commands.IsReservedGroup(group) {
		return 0, fmt.Errorf("%q: %w", group, ErrNotEditable)
	}
	n, err := m.source.RemoveGroup(ctx, group)
	if err != nil {
		return 0, err
	}
	return n, m.RefreshList(ctx)
}

// DisposeAll closes every managed terminal session.
func (m *UIModel) DisposeAll(ctx context.Context) {
	if m.runner != nil {
		m.runner.DisposeAll(ctx)
	}
}

// Sessions returns the live sessions.
func (m *UIModel) Sessions() []registry.SessionInfo {
	if m.runner == nil {
		return nil
	}
	return m.runner.Sessions()
}

// Output returns the foreground session name and output.
func (m *UIModel) Output() (string, string, bool) {
	if m.runner == nil {
		return "", "", false
	}
	return m.runner.Output()
}

// Watch blocks until ctx is done, calling onChange when a source changes.
func (m *UIModel) Watch(ctx context.Context, onChange func()) error {
	return m.source.Watch(ctx, onChange)
}
