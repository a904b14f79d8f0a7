//go:build !windows

package executor

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// isTerminal reports whether the given file descriptor refers to a terminal.
// It is a package-level variable so unit tests can override it.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// quietEcho turns off local echo so keystrokes forwarded into a session
// (a sudo password, say) are not shown twice. Tests override it.
var quietEcho = echoOff

// startPTY starts cmd with a new pty as its controlling terminal and returns
// the pty master. Tests override it.
var startPTY = func(cmd *exec.Cmd, rows, cols uint16) (*os.File, error) {
	if rows == 0 || cols == 0 {
		return pty.Start(cmd)
	}
	return pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
}

// Resize changes the window size of the terminal's pty.
func (t *PTYTerminal) Resize(rows, cols uint16) error {
	return pty.Setsize(t.ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

// QuietInput disables local echo on f while input is forwarded into a
// session. The returned function restores the previous state; it is a no-op
// when f is not a terminal.
func QuietInput(f *os.File) func() {
	fd := f.Fd()
	if !isTerminal(fd) {
		return func() {}
	}
	restore, err := quietEcho(int(fd))
	if err != nil {
		return func() {}
	}
	return restore
}
