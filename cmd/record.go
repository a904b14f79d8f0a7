package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/nameutil"
	"github.com/VoxDroid/cmdpal/internal/recorder"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record commands interactively into a group",
	Long: "Record commands line by line into the command-list file. A line of the form\n" +
		"\"name: command\" names the command; a bare command is named after its first words.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		group, _ := cmd.Flags().GetString("group")
		typ, _ := cmd.Flags().GetString("type")
		if err := nameutil.ValidateGroup(group); err != nil {
			return err
		}
		kind, err := commands.ParseKind(typ)
		if err != nil {
			return err
		}
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Enter commands, one per line. End with EOF (Ctrl-D on Unix, Ctrl-Z on Windows).")
		recs, err := recorder.RecordLines(bufio.NewReader(cmd.InOrStdin()), group, kind)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "no commands recorded; aborting")
			return nil
		}
		n, err := recorder.SaveRecorded(root, recs, appConfig.ConfigFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %d of %d commands to %s\n", n, len(recs), group)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringP("group", "g", commands.DefaultGroup, "Group for the recorded commands")
	recordCmd.Flags().StringP("type", "t", "terminal", "Command type: terminal, pwsh or node")
	rootCmd.AddCommand(recordCmd)
}
