// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli wires the Lockbox command surface: one-shot subcommands for
// scripting and the open command entering the interactive session. All
// commands resolve their configuration through internal/config and speak
// through internal/i18n.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lockboxhq/lockbox/internal/config"
	"github.com/lockboxhq/lockbox/internal/i18n"
	"github.com/lockboxhq/lockbox/internal/logging"
)

var version = "dev" // set by the linker

var (
	cfgFile string
	cfg     config.Config
)

// NewRootCmd creates and configures the root command. Fresh instances are
// used for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lockbox",
		Short: "Lockbox is an interactive secrets vault for the terminal.",
		Long: `Lockbox stores secret entries in an encrypted-at-rest database and
answers unlock and removal requests from integrated clients through an
interactive authorization workflow on the controlling terminal.

Running without a subcommand launches the interactive session.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cmd, cfgFile)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			logging.SetDebug(cfg.Debug)
			i18n.SetLang(cfg.Language)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation drops into the interactive session.
			return runOpen(cmd, args)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default lockbox.yaml in standard locations)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("database.dsn", "", "vault database DSN")
	cmd.PersistentFlags().String("database.type", "", "vault database type (sqlite, postgres, mysql)")

	cmd.AddCommand(
		newOpenCmd(),
		newLsCmd(),
		newShowCmd(),
		newRmCmd(),
		newRestoreCmd(),
		newClipCmd(),
		newBackupCmd(),
		newPassphraseCmd(),
		newConfigCmd(),
	)
	return cmd
}

// Execute runs the root command, reporting errors on stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
	}
	return err
}
