// Package security refuses commands that look destructive before they are sent to a shell.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrBlocked is wrapped by every refusal from CheckAllowed.
var ErrBlocked = errors.New("command appears destructive or unsafe")

type rule struct {
	re     *regexp.Regexp
	reason string
}

var dangerousPatterns = []rule{
	{regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s+/(\s|$|\*)`), "removes the filesystem root"},
	{regexp.MustCompile(`(?i)\brm\s+-(rf|fr)\s+~/?(\s|$)`), "removes the home directory"},
	{regexp.MustCompile(`(?i)\bmkfs(\.\w+)?\b`), "formats a filesystem"},
	{regexp.MustCompile(`(?i)\bdd\s+if=.*\bof=/dev/`), "writes raw data to a device"},
	{regexp.MustCompile(`:\(\)\s*\{`), "fork bomb"},
	{regexp.MustCompile(`(?i)\bwipefs\b`), "wipes disk signatures"},
	{regexp.MustCompile(`(?i)>\s*/dev/(sd[a-z]|nvme\d|disk\d)`), "overwrites a disk device"},
	{regexp.MustCompile(`(?i)\bchmod\s+-R\s+0?777\s+/(\s|$)`), "opens permissions on the filesystem root"},
	// Windows
	{regexp.MustCompile(`(?i)\bformat(\.com)?\s+[a-z]:`), "formats a drive"},
	{regexp.MustCompile(`(?i)\b(del|erase)\s+(/[a-z]\s+)*[a-z]:\\\s*(\*|$)`), "deletes a drive root"},
	{regexp.MustCompile(`(?i)\bremove-item\b.*-recurse\b.*\b[a-z]:\\\s*($|['"]|\s)`), "removes a drive root"},
}

// CheckAllowed returns nil if command may run, or an error wrapping
// ErrBlocked that names the reason. The check is conservative and not
// exhaustive.
func CheckAllowed(command string) error {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return errors.New("empty command")
	}
	for _, r := range dangerousPatterns {
		if r.re.MatchString(cmd) {
			return fmt.Errorf("%w: %s", ErrBlocked, r.reason)
		}
	}
	return nil
}
