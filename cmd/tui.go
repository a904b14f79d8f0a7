package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/cmd/tui/ui"
	"github.com/VoxDroid/cmdpal/internal/executor"
	"github.com/VoxDroid/cmdpal/internal/favorites"
	"github.com/VoxDroid/cmdpal/internal/history"
	"github.com/VoxDroid/cmdpal/internal/registry"
	"github.com/VoxDroid/cmdpal/internal/tui/adapters"
	modelpkg "github.com/VoxDroid/cmdpal/internal/tui/model"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"palette"},
	Short:   "Start the interactive command palette",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		dbConn, err := openDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		ctx := context.Background()

		// sessions render in the output pane, not on the terminal the TUI owns
		host := executor.NewPTYHost(executor.Options{Shell: appConfig.Shell, Logger: appLogger})
		reg := registry.New(host, root, appLogger)
		defer reg.Close()

		src := adapters.NewCommandSource(newLoader(), root, appConfig.ConfigFile)
		runner := adapters.NewSessionRunner(reg, host, history.New(dbConn, root), appLogger)
		favs := adapters.NewFavoritesAdapter(favorites.New(dbConn, root))

		uiModel := modelpkg.New(src, runner, favs)
		if err := uiModel.RefreshList(ctx); err != nil {
			return err
		}
		defer uiModel.DisposeAll(ctx)

		p := ui.NewProgram(uiModel)
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
