package executor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// unescapeWriter normalizes output from Windows shells that emit
// backslash-escaped quotes like \"HELLO\". Lines wrapped entirely in quotes
// lose the outer quotes.
type unescapeWriter struct {
	w io.Writer
}

func (u *unescapeWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	s := strings.ReplaceAll(string(p), "\\\"", "\"")
	trimmed := strings.TrimRight(s, "\r\n")
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, "\"") && strings.HasSuffix(trimmed, "\"") {
		s = trimmed[1:len(trimmed)-1] + s[len(trimmed):]
	}
	if _, err := io.WriteString(u.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Runner executes a command once without a session. The CLI falls back to
// it when the platform has no pty.
type Runner struct {
	Shell  string
	DryRun bool
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes command in cwd and streams its output to r's writers.
func (r *Runner) Run(ctx context.Context, command, cwd string) error {
	command, err := validateAndSanitize(command)
	if err != nil {
		return err
	}
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if r.DryRun {
		_, _ = fmt.Fprintf(stdout, "dry-run: %s\n", command)
		return nil
	}

	shell, args := commandInvocation(command, r.Shell)
	if err := validateShell(shell); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, shell, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Stdin = r.Stdin
	if goos == "windows" {
		cmd.Stdout = &unescapeWriter{w: stdout}
		cmd.Stderr = &unescapeWriter{w: stderr}
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command failed: %w (shell=%s args=%q)", err, shell, args)
	}
	return nil
}
