package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/favorites"
)

var favCmd = &cobra.Command{
	Use:   "fav <group> <name>",
	Short: "Toggle a command as favorite",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, groups, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		rec, err := resolveRecord(groups, args[0]+"/"+args[1])
		if err != nil {
			return err
		}
		if rec.Group != args[0] {
			return fmt.Errorf("command not found: %s/%s", args[0], args[1])
		}
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()

		on, err := favorites.New(conn, root).Toggle(rec.Group, rec.Name)
		if err != nil {
			return err
		}
		if on {
			fmt.Fprintf(cmd.OutOrStdout(), "starred %s/%s\n", rec.Group, rec.Name)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "unstarred %s/%s\n", rec.Group, rec.Name)
		}
		return nil
	},
}

var favsCmd = &cobra.Command{
	Use:   "favs",
	Short: "List favorite commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		prune, _ := cmd.Flags().GetBool("prune")

		root, groups, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer func() { _ = conn.Close() }()
		store := favorites.New(conn, root)

		if prune {
			n, err := store.Prune(groups)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d stale favorites\n", n)
		}
		recs, err := store.Resolve(groups)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no favorites")
			return nil
		}
		for _, r := range recs {
			fmt.Fprintf(cmd.OutOrStdout(), "* %s/%s\t%s\n", r.Group, r.Name, r.Command)
		}
		return nil
	},
}

func init() {
	favsCmd.Flags().Bool("prune", false, "Forget favorites whose command no longer exists")
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(favsCmd)
}
