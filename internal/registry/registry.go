package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VoxDroid/cmdpal/internal/commands"
)

// ErrNoHost is returned when a Registry was built without a terminal host.
var ErrNoHost = errors.New("no terminal host")

// Registry maps command names to live terminal sessions. Build one per
// process with New and share it.
type Registry struct {
	host Host
	root string
	log  *slog.Logger
	now  func() time.Time

	mu          sync.Mutex
	sessions    map[string]*session
	unsubscribe func()
}

// New creates a Registry over host. Relative working directories of
// commands resolve against workspaceRoot. The registry subscribes to the
// host's close notifications until Close is called.
func New(host Host, workspaceRoot string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		host:     host,
		root:     workspaceRoot,
		log:      logger,
		now:      time.Now,
		sessions: map[string]*session{},
	}
	if host != nil {
		r.unsubscribe = host.OnDidCloseTerminal(r.NotifyClosed)
	}
	return r
}

// RunCommand sends rec to the session for rec.Name, creating the session if
// it does not exist or its terminal is no longer alive. A live session that
// rejects the text keeps running and the error is returned; a name never
// gets a second live session.
func (r *Registry) RunCommand(rec commands.Record) error {
	if r.host == nil {
		return ErrNoHost
	}
	key := SessionKey(rec.Name)
	text := rec.Kind.Wrap(rec.Command)

	r.mu.Lock()
	if s, ok := r.sessions[key]; ok {
		if r.alive(s.terminal) {
			defer r.mu.Unlock()
			s.terminal.Show()
			if err := s.terminal.SendText(text); err != nil {
				return fmt.Errorf("send to %q: %w", key, err)
			}
			s.info.Runs++
			s.info.LastRun = r.now()
			r.log.Debug("reused session", "key", key, "id", s.info.ID)
			return nil
		}
		delete(r.sessions, key)
	}

	cwd := r.workingDir(rec.Cwd)
	t, err := r.host.CreateTerminal(TerminalOptions{Name: key, Cwd: cwd})
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("create terminal %q: %w", key, err)
	}
	t.Show()
	if err := t.SendText(text); err != nil {
		r.mu.Unlock()
		// Dispose reports the close back through NotifyClosed, which locks
		if derr := t.Dispose(); derr != nil {
			r.log.Warn("dispose rejected session", "key", key, "err", derr)
		}
		return fmt.Errorf("send to %q: %w", key, err)
	}
	now := r.now()
	s := &session{
		terminal: t,
		info: SessionInfo{
			ID:        uuid.NewString(),
			Key:       key,
			Cwd:       cwd,
			CreatedAt: now,
			LastRun:   now,
			Runs:      1,
		},
	}
	r.sessions[key] = s
	r.mu.Unlock()
	r.log.Info("created session", "key", key, "id", s.info.ID, "cwd", cwd)
	return nil
}

func (r *Registry) workingDir(cwd string) string {
	if cwd == "" || r.root == "" {
		return r.root
	}
	return filepath.Join(r.root, cwd)
}

// alive cross-checks t against the host's live terminals; a terminal can die
// without this registry having been told yet.
func (r *Registry) alive(t Terminal) bool {
	for _, live := range r.host.Terminals() {
		if live == t {
			return true
		}
	}
	return false
}

// NotifyClosed removes the session whose terminal is t. The host delivers
// it when a terminal closes; unknown terminals are ignored.
func (r *Registry) NotifyClosed(t Terminal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.sessions {
		if s.terminal == t {
			delete(r.sessions, key)
			r.log.Debug("session closed", "key", key, "id", s.info.ID)
			return
		}
	}
}

// DisposeAll closes every tracked session and then any other live host
// terminal named with SessionPrefix. Failures are logged and skipped.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	tracked := make([]Terminal, 0, len(r.sessions))
	for _, s := range r.sessions {
		tracked = append(tracked, s.terminal)
	}
	r.sessions = map[string]*session{}
	r.mu.Unlock()

	for _, t := range tracked {
		if err := t.Dispose(); err != nil {
			r.log.Warn("dispose session", "name", t.Name(), "err", err)
		}
	}
	if r.host == nil {
		return
	}
	for _, t := range r.host.Terminals() {
		if !strings.HasPrefix(t.Name(), SessionPrefix) {
			continue
		}
		if err := t.Dispose(); err != nil {
			r.log.Warn("dispose orphaned terminal", "name", t.Name(), "err", err)
		}
	}
}

// Close releases the host subscription. Sessions are left running.
func (r *Registry) Close() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Lookup returns the terminal tracked for a command name.
func (r *Registry) Lookup(name string) (Terminal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[SessionKey(name)]
	if !ok {
		return nil, false
	}
	return s.terminal, true
}

// Sessions returns the tracked sessions ordered by key.
func (r *Registry) Sessions() []SessionInfo {
	r.mu.Lock()
	out := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.info)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
