package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// fakeEditor writes a script that records its arguments in a marker file
// and exits with code. It returns the script and marker paths.
func fakeEditor(t *testing.T, code int) (script, marker string) {
	t.Helper()
	d := t.TempDir()
	marker = filepath.Join(d, "marker.txt")
	var body string
	if runtime.GOOS == "windows" {
		script = filepath.Join(d, "fake-editor.bat")
		body = "@echo off\r\necho %* > \"" + marker + "\"\r\nexit /b " + strconv.Itoa(code) + "\r\n"
	} else {
		script = filepath.Join(d, "fake-editor.sh")
		body = "#!/bin/sh\nprintf '%s' \"$*\" > \"" + marker + "\"\nexit " + strconv.Itoa(code) + "\n"
	}
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return script, marker
}

func TestOpenEditorUsesEditor(t *testing.T) {
	script, marker := fakeEditor(t, 0)
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	target := filepath.Join(t.TempDir(), "commands-list.json")
	if err := OpenEditor(target); err != nil {
		t.Fatalf("OpenEditor failed: %v", err)
	}
	b, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("editor did not run: %v", err)
	}
	if !strings.Contains(string(b), "commands-list.json") {
		t.Fatalf("editor got %q, want the target path", string(b))
	}
}

func TestOpenEditorPrefersVisual(t *testing.T) {
	visual, visualMarker := fakeEditor(t, 0)
	editor, editorMarker := fakeEditor(t, 0)
	t.Setenv("VISUAL", visual)
	t.Setenv("EDITOR", editor)

	if err := OpenEditor(filepath.Join(t.TempDir(), "x.json")); err != nil {
		t.Fatalf("OpenEditor failed: %v", err)
	}
	if _, err := os.Stat(visualMarker); err != nil {
		t.Fatalf("expected $VISUAL to run: %v", err)
	}
	if _, err := os.Stat(editorMarker); err == nil {
		t.Fatalf("$EDITOR must not run when $VISUAL is set")
	}
}

func TestOpenEditorFailure(t *testing.T) {
	script, _ := fakeEditor(t, 1)
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	if err := OpenEditor(filepath.Join(t.TempDir(), "dummy.txt")); err == nil {
		t.Fatalf("expected error from failing editor, got nil")
	}
}

func TestOpenEditorWithArguments(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	script, marker := fakeEditor(t, 0)
	t.Setenv("VISUAL", script+" --wait")

	target := filepath.Join(t.TempDir(), "commands-list.json")
	if err := OpenEditor(target); err != nil {
		t.Fatalf("OpenEditor failed: %v", err)
	}
	b, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("marker not written: %v", err)
	}
	if string(b) != "--wait "+target {
		t.Fatalf("unexpected editor args: %q", string(b))
	}
}
