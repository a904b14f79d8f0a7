// Package nameutil validates command and group names typed by users.
package nameutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/VoxDroid/cmdpal/internal/commands"
)

// ValidateName rejects empty names, invalid UTF-8 and control characters.
// It does not change name; run SanitizeName first to strip pasted junk.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("invalid name: name cannot be empty")
	case !utf8.ValidString(name):
		return fmt.Errorf("invalid name: contains invalid encoding")
	}
	if i := strings.IndexFunc(name, unicode.IsControl); i >= 0 {
		r, _ := utf8.DecodeRuneInString(name[i:])
		return fmt.Errorf("invalid name: contains control character U+%04X", r)
	}
	return nil
}

// invisible runes that survive copy and paste from chat apps and web pages.
var invisible = map[rune]bool{'\u200B': true, '\u200C': true, '\u200D': true, '\u2060': true, '\uFEFF': true}

// SanitizeName drops control characters and zero-width runes and trims
// surrounding space. It reports whether anything changed.
func SanitizeName(name string) (string, bool) {
	clean := strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || invisible[r] {
			return -1
		}
		return r
	}, name))
	return clean, clean != name
}

// ValidateGroup checks a group name for the command-list file. Besides the
// ValidateName rules it refuses the reserved auto-group names and ':' (the
// favorite key separator).
func ValidateGroup(group string) error {
	if err := ValidateName(group); err != nil {
		return fmt.Errorf("invalid group: %w", err)
	}
	if commands.IsReservedGroup(strings.TrimSpace(group)) {
		return fmt.Errorf("invalid group: %q is reserved for discovered commands", group)
	}
	if strings.Contains(group, ":") {
		return fmt.Errorf("invalid group: %q contains ':'", group)
	}
	return nil
}
