package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the command list and reprint it whenever a source changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		show := func() {
			_, groups, _ := loadWorkspace(cmd)
			fmt.Fprintf(out, "-- %s\n", time.Now().Format(time.TimeOnly))
			printGroups(out, groups, favoriteSet(root))
		}
		show()

		changes := make(chan struct{}, 1)
		errc := make(chan error, 1)
		go func() {
			errc <- newLoader().Watch(ctx, root, appConfig.ConfigFile, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
		}()
		for {
			select {
			case <-changes:
				show()
			case err := <-errc:
				if ctx.Err() != nil {
					return nil
				}
				return err
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
