// Package config resolves cmdpal's data paths and settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds cmdpal settings.
type Config struct {
	ConfigFile string `mapstructure:"config_file"`
	Manifest   string `mapstructure:"manifest"`
	Runner     string `mapstructure:"runner"`
	Scripts    ScriptsConfig
	Shell      string `mapstructure:"shell"`
	Log        LogConfig
}

// ScriptsConfig controls loose-script discovery.
type ScriptsConfig struct {
	Scan      bool   `mapstructure:"scan"`
	Extension string `mapstructure:"extension"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var runners = map[string]bool{"auto": true, "npm": true, "pnpm": true, "yarn": true, "bun": true}

func setDefaults(v *viper.Viper) {
	v.SetDefault("config_file", "commands-list.json")
	v.SetDefault("manifest", "package.json")
	v.SetDefault("runner", "auto")
	v.SetDefault("scripts.scan", true)
	v.SetDefault("scripts.extension", ".ps1")
	v.SetDefault("shell", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads the global config file, merges the project file in root over
// it, then applies CMDPAL_* environment overrides. Missing files are
// skipped; unreadable ones yield a *ParseError.
func Load(root string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	global, err := GlobalConfigPath()
	if err != nil {
		return Config{}, err
	}
	if err := mergeFile(v, global); err != nil {
		return Config{}, err
	}
	if root != "" {
		if err := mergeFile(v, filepath.Join(root, ProjectConfigName)); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("CMDPAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func mergeFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &ParseError{Path: path, Err: err}
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// Validate rejects settings the loaders cannot use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ConfigFile) == "" {
		return fmt.Errorf("config_file must not be empty")
	}
	if !runners[c.Runner] {
		return fmt.Errorf("unknown runner %q (want auto, npm, pnpm, yarn or bun)", c.Runner)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
