// Package adapters provides adapter interfaces and lightweight types used by
// the TUI to decouple it from the internal domain packages.
package adapters

import (
	"context"
	"errors"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/registry"
)

// ErrNotFound is used when a requested item cannot be found.
var ErrNotFound = errors.New("not found")

// Snapshot is one aggregation of the workspace sources.
type Snapshot struct {
	Groups   []commands.Group
	Warnings []commands.Warning
}

// CommandSource describes reading and editing the workspace command sources.
type CommandSource interface {
	Load(ctx context.Context) (Snapshot, error)
	// RemoveGroup deletes a user-defined group from the command-list file.
	RemoveGroup(ctx context.Context, group string) (int, error)
	// Watch calls onChange when any source changes until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}

// SessionRunner describes launching commands into terminal sessions.
type SessionRunner interface {
	Run(ctx context.Context, rec commands.Record) error
	DisposeAll(ctx context.Context)
	Sessions() []registry.SessionInfo
	// Output returns the name and sanitized recent output of the
	// foreground session. ok is false when no session is in front.
	Output() (name, text string, ok bool)
}

// FavoritesAdapter describes the workspace favorite set.
type FavoritesAdapter interface {
	Set(ctx context.Context) (map[string]bool, error)
	Toggle(ctx context.Context, group, name string) (bool, error)
}
