package adapters

import (
	"context"
	"fmt"

	"github.com/VoxDroid/cmdpal/internal/commands"
)

// sourceAdapter implements CommandSource over a commands.Loader.
type sourceAdapter struct {
	loader     *commands.Loader
	root       string
	configFile string
}

// NewCommandSource constructs a CommandSource for the workspace at root.
func NewCommandSource(loader *commands.Loader, root, configFile string) CommandSource {
	if loader == nil {
		loader = commands.DefaultLoader()
	}
	return &sourceAdapter{loader: loader, root: root, configFile: configFile}
}

func (s *sourceAdapter) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	groups, warnings := s.loader.Load(s.root, s.configFile)
	return Snapshot{Groups: groups, Warnings: warnings}, nil
}

func (s *sourceAdapter) RemoveGroup(_ context.Context, group string) (int, error) {
	if commands.IsReservedGroup(group) {
		return 0, fmt.Errorf("group %q is generated and cannot be deleted", group)
	}
	return commands.RemoveGroup(s.root, group, s.configFile)
}

func (s *sourceAdapter) Watch(ctx context.Context, onChange func()) error {
	return s.loader.Watch(ctx, s.root, s.configFile, onChange)
}
