package ui

import (
	"context"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/registry"
	modelpkg "github.com/VoxDroid/cmdpal/internal/tui/model"
)

// Model defines the small subset of methods from the framework-agnostic
// internal UI model that the TUI depends on. This decouples presentation
// code from the concrete implementation and makes unit testing easier.
type Model interface {
	RefreshList(ctx context.Context) error
	SetQuery(q string)
	Query() string
	Entries() []modelpkg.Entry
	Warnings() []commands.Warning
	Run(ctx context.Context, rec commands.Record) error
	ToggleFavorite(ctx context.Context, rec commands.Record) (bool, error)
	DeleteGroup(ctx context.Context, group string) (int, error)
	DisposeAll(ctx context.Context)
	Sessions() []registry.SessionInfo
	Output() (name, text string, ok bool)
	Watch(ctx context.Context, onChange func()) error
}
