// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// package config loads the Lockbox configuration from lockbox.yaml,
// environment variables and command-line flags, in that order of
// precedence (lowest to highest).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the resolved tool configuration.
type Config struct {
	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		DSN  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`

	// ConfirmRemove gates a batch confirmation before permanent
	// deletions requested by remote clients.
	ConfirmRemove bool `mapstructure:"confirm_remove" yaml:"confirm_remove"`

	// Reader selects the interactive line editor: auto, editline or
	// plain.
	Reader string `mapstructure:"reader" yaml:"reader"`

	HistoryFile string `mapstructure:"history_file" yaml:"history_file"`
	Language    string `mapstructure:"language" yaml:"language"`
	Debug       bool   `mapstructure:"debug" yaml:"debug"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":  "sqlite",
		"database.dsn":   "lockbox.db",
		"confirm_remove": true,
		"reader":         "auto",
		"history_file":   defaultHistoryFile(),
		"language":       "en",
		"debug":          false,
	}
}

func defaultHistoryFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lockbox", "history")
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Lockbox")
		default:
			configDir = "/etc/lockbox"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "lockbox")
	}

	return filepath.Join(configDir, "lockbox.yaml"), nil
}

// Load resolves the configuration for cmd. An explicit config file path
// takes precedence over the standard search locations; environment
// variables use the LOCKBOX_ prefix with dots replaced by underscores.
func Load(cmd *cobra.Command, configFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("lockbox")
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file falls back to defaults; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("lockbox")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// Write serializes c to the user (or system) configuration file, creating
// the directory as needed.
func Write(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
