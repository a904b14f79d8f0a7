package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/history"
)

var recentCmd = &cobra.Command{
	Use:     "recent",
	Aliases: []string{"history"},
	Short:   "Show recently run commands of the workspace",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		clear, _ := cmd.Flags().GetBool("clear")

		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		store := history.New(conn, root)

		if clear {
			n, err := store.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d runs\n", n)
			return nil
		}

		runs, err := store.Recent(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, r := range runs {
			status := "-"
			if r.ExitCode != nil {
				status = fmt.Sprintf("%d", *r.ExitCode)
			}
			fmt.Fprintf(tw, "%s\t%s/%s\t%s\t%s\n", r.StartedAt.Local().Format(time.DateTime), r.Group, r.Name, status, r.Command)
		}
		return tw.Flush()
	},
}

func init() {
	recentCmd.Flags().IntP("limit", "n", 20, "Number of runs to show (0 for all)")
	recentCmd.Flags().Bool("clear", false, "Delete the workspace's run history")
	rootCmd.AddCommand(recentCmd)
}
