// Package registry tracks one live terminal session per command name so that
// repeated runs reuse the same terminal.
package registry

import "time"

// SessionPrefix starts the display name of every terminal this package creates.
const SessionPrefix = "Cmd: "

// SessionKey returns the key and terminal name used for a command.
func SessionKey(name string) string { return SessionPrefix + name }

// Terminal is a host-provided terminal instance.
type Terminal interface {
	Name() string
	// Show brings the terminal to the foreground.
	Show()
	// SendText sends one line of input to the terminal's shell.
	SendText(text string) error
	Dispose() error
}

// TerminalOptions describe a terminal to create.
type TerminalOptions struct {
	Name string
	Cwd  string
}

// Host creates terminals and reports which are still alive.
//
// Close callbacks must not be invoked synchronously from CreateTerminal,
// Terminals, Show or SendText; they may be invoked from Dispose.
type Host interface {
	CreateTerminal(opts TerminalOptions) (Terminal, error)
	// Terminals returns the terminals that are currently alive.
	Terminals() []Terminal
	// OnDidCloseTerminal registers fn for terminal-closed notifications and
	// returns a function that removes the subscription.
	OnDidCloseTerminal(fn func(Terminal)) (unsubscribe func())
}

// SessionInfo describes a tracked session.
type SessionInfo struct {
	ID        string
	Key       string
	Cwd       string
	CreatedAt time.Time
	LastRun   time.Time
	Runs      int
}

type session struct {
	info     SessionInfo
	terminal Terminal
}
