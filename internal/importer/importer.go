// Package importer brings commands and saved state from elsewhere into a workspace.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/config"
)

// ImportFile adds every valid record of the command-list file at src to the
// workspace's list file. When group is non-empty every imported record is
// placed in it. Records already present are skipped; the number added is
// returned.
func ImportFile(root, src, group, configFileName string) (int, error) {
	if group != "" && commands.IsReservedGroup(group) {
		return 0, fmt.Errorf("cannot import into reserved group %q", group)
	}
	records, err := commands.ReadListFile(src)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", src, err)
	}
	if group != "" {
		for i := range records {
			records[i].Group = group
		}
	}
	return commands.AddCommands(root, records, configFileName)
}

// ImportDatabase copies srcPath over the cmdpal database. If overwrite is
// false and the destination exists, an error is returned.
func ImportDatabase(srcPath string, overwrite bool) error {
	dst, err := config.DBPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil && !overwrite {
		return errors.New("destination database exists; pass --overwrite to replace it")
	}
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create dst: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy db: %w", err)
	}
	return out.Close()
}
