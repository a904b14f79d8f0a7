// Package exporter writes workspace commands and saved state to standalone files.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/config"
)

// ExportGroup writes the list-file records of group to a new command-list
// file at dest and returns how many were written. Only user-defined
// records can be exported; a group with none is an error.
func ExportGroup(root, group, dest, configFileName string) (int, error) {
	var out []commands.Record
	for _, r := range commands.ListFileRecords(root, configFileName) {
		if r.Group == group {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("group %q has no commands in %s", group, configFileName)
	}
	if err := commands.WriteListFile(dest, out); err != nil {
		return 0, err
	}
	return len(out), nil
}

// ExportDatabase copies the cmdpal database to dstPath.
func ExportDatabase(dstPath string) error {
	src, err := config.DBPath()
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source db: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create dst db: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy db: %w", err)
	}
	return out.Close()
}
