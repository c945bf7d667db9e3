// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/lockboxhq/lockbox/internal/config"
	"github.com/lockboxhq/lockbox/internal/i18n"
	"github.com/lockboxhq/lockbox/internal/vault"
)

// The action functions below hold the actual command behavior; the cobra
// commands and the interactive session commands are both thin wrappers
// around them.

func listEntries(v *vault.Vault, out io.Writer, includeRecycled bool) error {
	entries, err := v.Entries(includeRecycled)
	if err != nil {
		return err
	}
	for _, e := range entries {
		line := titleStyle.Render(e.DisplayName())
		if e.Username != "" {
			line += " " + mutedStyle.Render(e.Username)
		}
		line += " " + mutedStyle.Render(e.ID)
		if e.Recycled {
			line += " " + recycledTag
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func showEntry(v *vault.Vault, out io.Writer, arg string, withSecret bool) error {
	e, err := findEntry(v, arg)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, titleStyle.Render(e.DisplayName()))
	fmt.Fprintf(out, "  id:       %s\n", e.ID)
	if e.Username != "" {
		fmt.Fprintf(out, "  username: %s\n", e.Username)
	}
	if e.URL != "" {
		fmt.Fprintf(out, "  url:      %s\n", e.URL)
	}
	if e.Notes != "" {
		fmt.Fprintf(out, "  notes:    %s\n", e.Notes)
	}
	if withSecret {
		secret, err := v.Resolve(e.Secret)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  secret:   %s\n", secret)
	}
	return nil
}

func removeEntries(v *vault.Vault, out io.Writer, args []string, permanent bool) error {
	for _, arg := range args {
		e, err := findEntry(v, arg)
		if err != nil {
			return err
		}
		if permanent {
			if err := v.DeleteEntry(e); err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("cli.rm.deleted", e.DisplayName()))
		} else {
			if err := v.RecycleEntry(e); err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("cli.rm.recycled", e.DisplayName()))
		}
	}
	return nil
}

func restoreEntries(v *vault.Vault, out io.Writer, args []string) error {
	for _, arg := range args {
		e, err := findRecycled(v, arg)
		if err != nil {
			return err
		}
		if err := v.RestoreEntry(e); err != nil {
			return err
		}
		fmt.Fprintln(out, i18n.T("cli.restore.restored", e.DisplayName()))
	}
	return nil
}

func clipEntry(v *vault.Vault, out io.Writer, arg string) error {
	e, err := findEntry(v, arg)
	if err != nil {
		return err
	}
	secret, err := v.Resolve(e.Secret)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(secret); err != nil {
		return err
	}
	fmt.Fprintln(out, i18n.T("cli.clip.copied", e.DisplayName()))
	return nil
}

func backupWrite(v *vault.Vault, out io.Writer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := v.WriteBackup(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(out, i18n.T("cli.backup.written", path))
	return nil
}

func backupImport(v *vault.Vault, out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	added, err := v.ImportBackup(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d entries imported.\n", added)
	return nil
}

// withVault opens the configured vault around a one-shot command.
func withVault(run func(v *vault.Vault, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		defer v.Close()
		return run(v, cmd, args)
	}
}

func newLsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List vault entries",
		Args:  cobra.NoArgs,
		RunE: withVault(func(v *vault.Vault, cmd *cobra.Command, args []string) error {
			return listEntries(v, cmd.OutOrStdout(), all)
		}),
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include recycled entries")
	return cmd
}

func newShowCmd() *cobra.Command {
	var withSecret bool
	cmd := &cobra.Command{
		Use:   "show <entry>",
		Short: "Show an entry's fields",
		Args:  cobra.ExactArgs(1),
		RunE: withVault(func(v *vault.Vault, cmd *cobra.Command, args []string) error {
			return showEntry(v, cmd.OutOrStdout(), args[0], withSecret)
		}),
	}
	cmd.Flags().BoolVarP(&withSecret, "secret", "s", false, "print the resolved secret")
	return cmd
}

func newRmCmd() *cobra.Command {
	var permanent bool
	cmd := &cobra.Command{
		Use:   "rm <entry>...",
		Short: "Move entries to the recycle bin, or delete them permanently",
		Args:  cobra.MinimumNArgs(1),
		RunE: withVault(func(v *vault.Vault, cmd *cobra.Command, args []string) error {
			return removeEntries(v, cmd.OutOrStdout(), args, permanent)
		}),
	}
	cmd.Flags().BoolVarP(&permanent, "permanent", "p", false, "delete instead of recycling")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <entry>...",
		Short: "Restore entries from the recycle bin",
		Args:  cobra.MinimumNArgs(1),
		RunE: withVault(func(v *vault.Vault, cmd *cobra.Command, args []string) error {
			return restoreEntries(v, cmd.OutOrStdout(), args)
		}),
	}
}

func newClipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clip <entry>",
		Short: "Copy an entry's secret to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: withVault(func(v *vault.Vault, cmd *cobra.Command, args []string) error {
			return clipEntry(v, cmd.OutOrStdout(), args[0])
		}),
	}
}

func newBackupCmd() *cobra.Command {
	var doImport bool
	cmd := &cobra.Command{
		Use:   "backup <file>",
		Short: "Write a compressed vault backup, or import one",
		Args:  cobra.ExactArgs(1),
		RunE: withVault(func(v *vault.Vault, cmd *cobra.Command, args []string) error {
			if doImport {
				return backupImport(v, cmd.OutOrStdout(), args[0])
			}
			return backupWrite(v, cmd.OutOrStdout(), args[0])
		}),
	}
	cmd.Flags().BoolVar(&doImport, "import", false, "import entries from a backup file")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the Lockbox configuration",
	}
	var system bool
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the resolved configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(&cfg, system)
		},
	}
	save.Flags().BoolVar(&system, "system", false, "write the system-wide file")
	cmd.AddCommand(save)
	return cmd
}

func newPassphraseCmd() *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Set or clear the vault passphrase",
		Args:  cobra.NoArgs,
		RunE: withVault(func(v *vault.Vault, cmd *cobra.Command, args []string) error {
			if clear {
				return v.SetPassphrase("")
			}
			pass, err := readPassphrase(i18n.T("cli.open.passphrase", v.Name()))
			if err != nil {
				return err
			}
			return v.SetPassphrase(pass)
		}),
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "remove the passphrase")
	return cmd
}
