package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/utils"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the workspace command-list file in your editor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		path := commands.ListPath(root, appConfig.ConfigFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := commands.WriteListFile(path, nil); err != nil {
				return err
			}
		}
		if err := utils.OpenEditor(path); err != nil {
			return err
		}

		// Read back and report problems; the loaders tolerate them but the user should know
		recs, err := commands.ReadListFile(path)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s has %d commands\n", path, len(recs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
