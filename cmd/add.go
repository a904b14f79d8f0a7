package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/nameutil"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a command to the workspace command list",
	Long:  "Add a command to the workspace command list. Example:\n  cmdpal add \"Start\" -c \"npm start\" -g Dev",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command, _ := cmd.Flags().GetString("command")
		kindFlag, _ := cmd.Flags().GetString("type")
		group, _ := cmd.Flags().GetString("group")
		cwd, _ := cmd.Flags().GetString("cwd")

		name, _ := nameutil.SanitizeName(args[0])
		if err := nameutil.ValidateName(name); err != nil {
			return err
		}
		if strings.TrimSpace(command) == "" {
			return fmt.Errorf("a command is required (-c)")
		}
		group = strings.TrimSpace(group)
		if group == "" {
			group = commands.DefaultGroup
		}
		if err := nameutil.ValidateGroup(group); err != nil {
			return err
		}
		kind, err := commands.ParseKind(kindFlag)
		if err != nil {
			return err
		}

		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		rec := commands.Record{Name: name, Command: strings.TrimSpace(command), Kind: kind, Group: group, Cwd: cwd}
		n, err := commands.AddCommands(root, []commands.Record{rec}, appConfig.ConfigFile)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "'%s' already exists in %s\n", name, group)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added '%s' to %s\n", name, group)
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("command", "c", "", "Shell command to run")
	addCmd.Flags().StringP("type", "t", "terminal", "Command type: terminal, pwsh or node")
	addCmd.Flags().StringP("group", "g", commands.DefaultGroup, "Group name")
	addCmd.Flags().String("cwd", "", "Working directory, relative to the workspace")
	rootCmd.AddCommand(addCmd)
}
