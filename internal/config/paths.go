package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvHome overrides the data directory.
	EnvHome = "CMDPAL_HOME"
	// EnvDB overrides the database path.
	EnvDB = "CMDPAL_DB"
	// EnvConfig overrides the global config file path.
	EnvConfig = "CMDPAL_CONFIG"

	// ProjectConfigName is the per-workspace config file, read from the workspace root.
	ProjectConfigName = ".cmdpal.yaml"
)

// DataDir returns the directory used to store cmdpal data.
func DataDir() (string, error) {
	if d := os.Getenv(EnvHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cmdpal"), nil
}

// EnsureDataDir returns DataDir after creating it.
func EnsureDataDir() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return d, nil
}

// DBPath returns the full path to the SQLite database file.
func DBPath() (string, error) {
	if p := os.Getenv(EnvDB); p != "" {
		return p, nil
	}
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "cmdpal.db"), nil
}

// GlobalConfigPath returns the user-wide config file location.
func GlobalConfigPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cmdpal", "config.yaml"), nil
}
