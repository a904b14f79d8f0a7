//go:build windows

package executor

import (
	"os"
	"os/exec"
)

// startPTY is not supported on Windows; callers fall back to Runner.
var startPTY = func(_ *exec.Cmd, _, _ uint16) (*os.File, error) {
	return nil, ErrPTYUnsupported
}

// Resize is a no-op on Windows.
func (t *PTYTerminal) Resize(_, _ uint16) error { return ErrPTYUnsupported }

// QuietInput is a no-op on Windows.
func QuietInput(_ *os.File) func() { return func() {} }
