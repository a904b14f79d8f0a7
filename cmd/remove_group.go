package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/utils"
)

var removeGroupCmd = &cobra.Command{
	Use:     "remove-group <group>",
	Aliases: []string{"rmg"},
	Short:   "Delete a user-defined group and its commands",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		group := args[0]
		yes, _ := cmd.Flags().GetBool("yes")
		if commands.IsReservedGroup(group) {
			return fmt.Errorf("group %q is generated from workspace files and cannot be deleted", group)
		}
		if !yes && !utils.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete group '%s' and all its commands?", group)) {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted")
			return nil
		}
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		n, err := commands.RemoveGroup(root, group, appConfig.ConfigFile)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no commands in group '%s'\n", group)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted group '%s' (%d commands)\n", group, n)
		return nil
	},
}

func init() {
	removeGroupCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(removeGroupCmd)
}
