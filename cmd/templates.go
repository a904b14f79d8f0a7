package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "List the built-in command templates",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		tpls := commands.Templates()
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), tpls)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range tpls {
			fmt.Fprintf(tw, "%s %s\t%s\t%d commands\n", t.Icon, t.ID, t.Description, len(t.Commands))
		}
		return tw.Flush()
	},
}

var templatesInstallCmd = &cobra.Command{
	Use:   "install <id>",
	Short: "Add a template's commands to the workspace command list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		n, err := commands.InstallTemplate(root, args[0], group, appConfig.ConfigFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "installed %d commands from template '%s'\n", n, args[0])
		return nil
	},
}

func init() {
	templatesCmd.Flags().Bool("json", false, "Print JSON")
	templatesInstallCmd.Flags().StringP("group", "g", "", "Install into this group instead of the template's own")

	templatesCmd.AddCommand(templatesInstallCmd)
	rootCmd.AddCommand(templatesCmd)
}
