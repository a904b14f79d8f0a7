// Package commands discovers runnable shell commands from a workspace and
// manages the user command-list file.
package commands

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultConfigFile is the command-list file name used when none is configured.
	DefaultConfigFile = "commands-list.json"
	// DefaultManifest is the package manifest whose script table is read.
	DefaultManifest = "package.json"
	// DefaultScriptExt is the extension of loose scripts picked up from the workspace root.
	DefaultScriptExt = ".ps1"

	// DefaultGroup is assigned to list-file entries without a group.
	DefaultGroup = "General"
	// ManifestGroup holds the manifest scripts.
	ManifestGroup = "npm scripts"
	// ScriptsGroup holds loose script files.
	ScriptsGroup = "PowerShell scripts"
)

// ErrInvalidKind is returned when a kind string is not one of terminal, pwsh or node.
var ErrInvalidKind = errors.New("invalid command type")

// Kind determines how a command is wrapped before it is sent to a shell.
type Kind int

const (
	PlainShell Kind = iota
	PowerShell
	NodeScript
)

// ParseKind maps the list-file "type" value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.TrimSpace(s) {
	case "terminal":
		return PlainShell, nil
	case "pwsh":
		return PowerShell, nil
	case "node":
		return NodeScript, nil
	}
	return PlainShell, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// String returns the list-file spelling of k.
func (k Kind) String() string {
	switch k {
	case PowerShell:
		return "pwsh"
	case NodeScript:
		return "node"
	default:
		return "terminal"
	}
}

// Wrap returns the text sent to the shell for command.
func (k Kind) Wrap(command string) string {
	switch k {
	case PlainShell:
		return command
	case NodeScript:
		return "node " + command
	case PowerShell:
		return "pwsh -Command " + command
	}
	return command
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Record is one runnable command.
type Record struct {
	Name    string `json:"name"`
	Command string `json:"command"`
	Kind    Kind   `json:"type"`
	Group   string `json:"group"`
	Cwd     string `json:"cwd,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Source tells where a group came from.
type Source int

const (
	UserDefined Source = iota
	ManifestScripts
	LooseScripts
)

func (s Source) String() string {
	switch s {
	case ManifestScripts:
		return "manifest"
	case LooseScripts:
		return "scripts"
	default:
		return "user"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Group is an ordered set of records sharing a group name.
type Group struct {
	Name     string   `json:"name"`
	Source   Source   `json:"source"`
	Commands []Record `json:"commands"`
}

// Editable reports whether the group lives in the command-list file and may
// be renamed, deleted or receive moved commands.
func (g Group) Editable() bool { return g.Source == UserDefined }

// sourceFor returns the provenance implied by a group name.
func sourceFor(group string) Source {
	switch group {
	case ManifestGroup:
		return ManifestScripts
	case ScriptsGroup:
		return LooseScripts
	}
	return UserDefined
}

// IsReservedGroup reports whether name is one of the auto-detected group names.
func IsReservedGroup(name string) bool { return sourceFor(name) != UserDefined }

// FavoriteKey returns the composite key used to persist a favorite.
func FavoriteKey(group, name string) string { return group + ":" + name }

// ParseFavoriteKey splits a key produced by FavoriteKey at its first colon.
func ParseFavoriteKey(key string) (group, name string, ok bool) {
	return strings.Cut(key, ":")
}
