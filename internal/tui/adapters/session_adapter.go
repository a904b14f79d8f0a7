package adapters

import (
	"context"
	"io"
	"log/slog"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/executor"
	"github.com/VoxDroid/cmdpal/internal/history"
	"github.com/VoxDroid/cmdpal/internal/registry"
	"github.com/VoxDroid/cmdpal/internal/tui/sanitize"
)

// outputLines bounds what the output pane receives.
const outputLines = 500

// sessionAdapter implements SessionRunner using the session registry.
type sessionAdapter struct {
	reg  *registry.Registry
	host *executor.PTYHost
	hist *history.Store
	log  *slog.Logger
}

// NewSessionRunner constructs a SessionRunner. host supplies the foreground
// output and may be nil; hist records every launch when non-nil.
func NewSessionRunner(reg *registry.Registry, host *executor.PTYHost, hist *history.Store, logger *slog.Logger) SessionRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sessionAdapter{reg: reg, host: host, hist: hist, log: logger}
}

func (s *sessionAdapter) Run(ctx context.Context, rec commands.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.reg.RunCommand(rec); err != nil {
		return err
	}
	if s.hist == nil {
		return nil
	}
	var sessionID string
	key := registry.SessionKey(rec.Name)
	for _, info := range s.reg.Sessions() {
		if info.Key == key {
			sessionID = info.ID
			break
		}
	}
	if _, err := s.hist.Record(rec, sessionID); err != nil {
		s.log.Warn("could not record run", "name", rec.Name, "err", err)
	}
	return nil
}

func (s *sessionAdapter) DisposeAll(_ context.Context) { s.reg.DisposeAll() }

func (s *sessionAdapter) Sessions() []registry.SessionInfo { return s.reg.Sessions() }

func (s *sessionAdapter) Output() (string, string, bool) {
	if s.host == nil {
		return "", "", false
	}
	t, ok := s.host.Foreground()
	if !ok {
		return "", "", false
	}
	return t.Name(), sanitize.LastLines(sanitize.RunOutput(t.Output()), outputLines), true
}
