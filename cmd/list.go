package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/favorites"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace commands by group",
	Long:  "List workspace commands by group. Example:\n  cmdpal list --filter build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		textFilter, _ := cmd.Flags().GetString("filter")
		fuzzyFlag, _ := cmd.Flags().GetBool("fuzzy")
		asJSON, _ := cmd.Flags().GetBool("json")

		root, groups, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		favs := favoriteSet(root)
		out := cmd.OutOrStdout()

		if fuzzyFlag && textFilter != "" {
			ranked := commands.Rank(commands.Flatten(groups), textFilter)
			if asJSON {
				return writeJSON(out, ranked)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, r := range ranked {
				fmt.Fprintf(tw, "%s\t%s/%s\t%s\n", star(favs, r), r.Group, r.Name, r.Command)
			}
			return tw.Flush()
		}

		groups = commands.Filter(groups, textFilter)
		if asJSON {
			return writeJSON(out, groups)
		}
		printGroups(out, groups, favs)
		return nil
	},
}

func init() {
	listCmd.Flags().String("filter", "", "Filter by text search")
	listCmd.Flags().Bool("fuzzy", false, "Rank matches for the text filter instead of grouping them")
	listCmd.Flags().Bool("json", false, "Print JSON")
	rootCmd.AddCommand(listCmd)
}

// favoriteSet returns the favorites of root. A database that cannot be
// opened means no favorites.
func favoriteSet(root string) map[string]bool {
	conn, err := openDB()
	if err != nil {
		appLogger.Warn("favorites unavailable", "err", err)
		return map[string]bool{}
	}
	defer func() { _ = conn.Close() }()
	set, err := favorites.New(conn, root).Set()
	if err != nil {
		appLogger.Warn("favorites unavailable", "err", err)
		return map[string]bool{}
	}
	return set
}

func star(favs map[string]bool, r commands.Record) string {
	if favs[commands.FavoriteKey(r.Group, r.Name)] {
		return "*"
	}
	return " "
}

func printGroups(out io.Writer, groups []commands.Group, favs map[string]bool) {
	if len(groups) == 0 {
		fmt.Fprintln(out, "no commands found")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "%s (%s)\n", g.Name, g.Source)
		for _, r := range g.Commands {
			fmt.Fprintf(tw, "  %s %s\t%s\n", star(favs, r), r.Name, r.Command)
		}
	}
	_ = tw.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
