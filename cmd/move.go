package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/nameutil"
)

var moveCmd = &cobra.Command{
	Use:   "move <name>",
	Short: "Move a command to another group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		if to == "" {
			return fmt.Errorf("a target group is required (--to)")
		}
		if err := nameutil.ValidateGroup(to); err != nil {
			return err
		}
		if from == "" {
			from = commands.DefaultGroup
		}
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		moved, err := commands.MoveCommand(root, args[0], from, to, appConfig.ConfigFile)
		if err != nil {
			return err
		}
		if !moved {
			return fmt.Errorf("no command '%s' in group %q (or %q already has one)", args[0], from, to)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "moved '%s' from %s to %s\n", args[0], from, to)
		return nil
	},
}

func init() {
	moveCmd.Flags().String("from", commands.DefaultGroup, "Current group")
	moveCmd.Flags().String("to", "", "Target group")
	rootCmd.AddCommand(moveCmd)
}
