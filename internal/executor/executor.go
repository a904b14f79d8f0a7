// Package executor hosts command sessions on pseudo terminals and runs
// one-shot commands where a pty is not available.
package executor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var (
	// ErrPTYUnsupported is returned by CreateTerminal on platforms without pty support.
	ErrPTYUnsupported = errors.New("pty not supported on this platform")
	// ErrTerminalClosed is returned when sending to a terminal whose shell has exited.
	ErrTerminalClosed = errors.New("terminal closed")
)

// goos is overridden in tests.
var goos = runtime.GOOS

// sanitizeCommand normalizes common unicode characters that often get
// inserted by editors (e.g., smart quotes, NBSP, zero-width spaces) and
// converts them to their ASCII equivalents where sensible.
func sanitizeCommand(s string) string {
	r := strings.NewReplacer(
		"\u2018", "'", // left single quote
		"\u2019", "'", // right single quote
		"\u201C", "\"", // left double quote
		"\u201D", "\"", // right double quote
		"\u00A0", " ", // NO-BREAK SPACE
		"\u200B", "", // zero width space
		"\u200E", "", // left-to-right mark
		"\u200F", "", // right-to-left mark
		"\uFEFF", "", // byte order mark
	)
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, r.Replace(s))
}

// Sanitize normalizes common unicode punctuation and removes embedded NUL
// and invisible runes. Exported for the CLI and TUI, which sanitize commands
// before saving them.
func Sanitize(s string) string {
	return sanitizeCommand(s)
}

func isControl(r rune) bool {
	return r == 0 || (r < 32 && r != '\t' && r != '\n') || r == 0x7f
}

// ValidateCommand reports an error when s holds control characters other
// than tab and line breaks. Multi-line commands are allowed; CRLF and CR
// count as line breaks.
func ValidateCommand(s string) error {
	if strings.IndexFunc(normalizeNewlines(s), isControl) != -1 {
		return fmt.Errorf("invalid command: contains control characters; remove non-printable characters")
	}
	return nil
}

func normalizeNewlines(s string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)
}

func validateAndSanitize(command string) (string, error) {
	command = normalizeNewlines(sanitizeCommand(command))
	if err := ValidateCommand(command); err != nil {
		return "", err
	}
	return command, nil
}

// inputLines splits a sanitized command into the lines typed into a shell,
// dropping trailing blank lines.
func inputLines(command string) []string {
	return strings.Split(strings.TrimRight(command, "\n"), "\n")
}

// interactiveShell returns the shell to start on a pty. override may name a
// shell ("pwsh", "powershell", "zsh", a path); empty picks the platform
// default.
func interactiveShell(override string) (string, []string) {
	switch override {
	case "":
	case "pwsh":
		return "pwsh", []string{"-NoLogo"}
	case "powershell":
		if goos == "windows" {
			if p, err := exec.LookPath("powershell"); err == nil {
				return p, []string{"-NoLogo"}
			}
		}
		return "pwsh", []string{"-NoLogo"}
	default:
		return override, nil
	}
	if goos == "windows" {
		return "cmd", nil
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, nil
	}
	if _, err := exec.LookPath("bash"); err == nil {
		return "bash", nil
	}
	return "sh", nil
}

// commandInvocation returns the executable and arguments that run command
// once and exit.
func commandInvocation(command, override string) (string, []string) {
	switch override {
	case "":
	case "pwsh", "powershell":
		shell, _ := interactiveShell(override)
		return shell, []string{"-NoLogo", "-Command", command}
	case "cmd":
		return "cmd", []string{"/C", command}
	default:
		return override, []string{"-c", command}
	}
	if goos == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "bash", []string{"-c", command}
}

func validateShell(shell string) error {
	if _, err := exec.LookPath(shell); err != nil {
		return fmt.Errorf("shell not found in PATH: %s", shell)
	}
	return nil
}
