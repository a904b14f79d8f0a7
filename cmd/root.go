// Package cmd implements the cmdpal command line.
package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/cmdpal/internal/commands"
	"github.com/VoxDroid/cmdpal/internal/config"
	"github.com/VoxDroid/cmdpal/internal/db"
	"github.com/VoxDroid/cmdpal/internal/logger"
)

var (
	workspaceFlag  string
	configFileFlag string

	appConfig = config.Defaults()
	appLogger = logger.Discard()
	closeLog  = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:           "cmdpal",
	Short:         "cmdpal is a command palette for workspace shell commands",
	Long:          "cmdpal gathers commands from commands-list.json, package.json scripts and loose scripts, and runs them in reusable terminal sessions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}
		if configFileFlag != "" {
			cfg.ConfigFile = configFileFlag
		}
		l, closer, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		appConfig, appLogger, closeLog = cfg, l, closer
		appLogger.Debug("config loaded", "workspace", root, "config_file", cfg.ConfigFile, "cmd", cmd.Name())
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cmdpal:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", ".", "Workspace root directory")
	rootCmd.PersistentFlags().StringVar(&configFileFlag, "config-file", "", "Command-list file name, relative to the workspace (overrides config)")
}

// workspaceRoot returns the absolute workspace directory.
func workspaceRoot() (string, error) {
	dir := workspaceFlag
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve workspace: %w", err)
	}
	return abs, nil
}

// newLoader builds a commands.Loader from the loaded configuration.
func newLoader() *commands.Loader {
	return &commands.Loader{
		Manifest:    appConfig.Manifest,
		Runner:      appConfig.Runner,
		ScanScripts: appConfig.Scripts.Scan,
		ScriptExt:   appConfig.Scripts.Extension,
		Logger:      appLogger,
	}
}

// loadWorkspace aggregates the workspace and prints warnings to stderr.
func loadWorkspace(cmd *cobra.Command) (string, []commands.Group, error) {
	root, err := workspaceRoot()
	if err != nil {
		return "", nil, err
	}
	groups, warnings := newLoader().Load(root, appConfig.ConfigFile)
	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w.Error())
	}
	return root, groups, nil
}

// openDB opens the cmdpal database.
func openDB() (*sql.DB, error) {
	conn, err := db.InitDB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return conn, nil
}
