package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export <group> <dest>",
	Short: "Export a group to a standalone command-list file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		n, err := exporter.ExportGroup(root, args[0], args[1], appConfig.ConfigFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d commands to %s\n", n, args[1])
		return nil
	},
}

var exportDbCmd = &cobra.Command{
	Use:   "db [dest]",
	Short: "Copy the cmdpal database (favorites and history) to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dst string
		if len(args) == 1 {
			dst = args[0]
		} else {
			date := time.Now().UTC().Format("2006-01-02")
			dst = uniqueDestPath(filepath.Join(".", fmt.Sprintf("cmdpal-%s.db", date)))
		}
		// ensure DB is reachable
		conn, err := openDB()
		if err != nil {
			return err
		}
		_ = conn.Close()
		if err := exporter.ExportDatabase(dst); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported database to %s\n", dst)
		return nil
	},
}

func init() {
	exportCmd.AddCommand(exportDbCmd)
	rootCmd.AddCommand(exportCmd)
}

// uniqueDestPath returns a non-existing destination path by appending
// a numeric suffix before the extension if needed (e.g., name-1.db).
func uniqueDestPath(base string) string {
	if _, err := os.Stat(base); err != nil {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		cand := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, err := os.Stat(cand); err != nil {
			return cand
		}
	}
}
