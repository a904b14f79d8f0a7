package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import commands from another command-list file into the workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		group, _ := cmd.Flags().GetString("group")
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("source file not found: %w", err)
		}
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		n, err := importer.ImportFile(root, src, group, appConfig.ConfigFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d commands from %s\n", n, src)
		return nil
	},
}

var importDbCmd = &cobra.Command{
	Use:   "db <file> [--overwrite]",
	Short: "Import an entire DB file (favorites and history) as the active database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		// validate file exists
		if _, err := os.Stat(src); err != nil {
			return fmt.Errorf("source DB not found: %w", err)
		}
		if err := importer.ImportDatabase(src, overwrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported database from %s\n", src)
		return nil
	},
}

func init() {
	importCmd.Flags().StringP("group", "g", "", "Put every imported command in this group")
	importDbCmd.Flags().Bool("overwrite", false, "Overwrite the active database file if it exists")

	importCmd.AddCommand(importDbCmd)
	rootCmd.AddCommand(importCmd)
}
