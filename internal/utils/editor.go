package utils

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/kballard/go-shellquote"
)

// OpenEditor opens path in $VISUAL or $EDITOR, which may carry arguments
// ("code --wait"). It falls back to notepad on Windows and vi elsewhere.
func OpenEditor(path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	argv := []string{"vi"}
	if runtime.GOOS == "windows" {
		argv = []string{"notepad"}
	}
	switch {
	case editor == "":
	case fileExists(editor):
		// Windows paths are not shell words
		argv = []string{editor}
	default:
		words, err := shellquote.Split(editor)
		if err != nil || len(words) == 0 {
			words = []string{editor}
		}
		argv = words
	}
	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
