// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lockboxhq/lockbox/internal/agent"
	"github.com/lockboxhq/lockbox/internal/i18n"
	"github.com/lockboxhq/lockbox/internal/lineio"
	"github.com/lockboxhq/lockbox/internal/logging"
	"github.com/lockboxhq/lockbox/internal/secrets"
	"github.com/lockboxhq/lockbox/internal/session"
	"github.com/lockboxhq/lockbox/internal/vault"
)

// settingsFromConfig adapts the loaded configuration to the authorization
// workflow's settings interface.
type settingsFromConfig struct{}

func (settingsFromConfig) ConfirmRemove() bool { return cfg.ConfirmRemove }

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the vault and enter the interactive session",
		Args:  cobra.NoArgs,
		RunE:  runOpen,
	}
}

// runOpen enters the interactive session against the configured vault.
func runOpen(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	reg := session.NewRegistry()
	loop, err := session.New(newLineSource(out), out, reg)
	if err != nil {
		return err
	}
	loop.AddObserver(secrets.New(loop.Source(), out, settingsFromConfig{}))
	loop.AddObserver(agent.New())
	registerInteractive(reg)

	v, err := openVault()
	if err != nil {
		return err
	}
	loop.Context().OpenVault(v)

	return loop.Run()
}

// newLineSource selects the line editor per configuration: the editline
// backend on a terminal, a plain buffered reader otherwise. In auto mode
// an editline failure falls back to plain.
func newLineSource(out io.Writer) func(prompt func() string) (*lineio.Source, error) {
	return func(prompt func() string) (*lineio.Source, error) {
		mode := cfg.Reader
		isTTY := term.IsTerminal(int(os.Stdin.Fd()))
		if mode == "editline" || (mode == "auto" && isTTY) {
			src, err := lineio.NewEditline(prompt, cfg.HistoryFile)
			if err == nil {
				return src, nil
			}
			if mode == "editline" {
				return nil, err
			}
			logging.Debugf("editline unavailable, using plain reader: %v", err)
		}
		return lineio.NewBuffered(os.Stdin, out, prompt), nil
	}
}

// verifyPassphraseInSession checks a locked vault's passphrase with the
// terminal borrowed through the source guard. Reading stdin directly here
// would race with the session's own pending read.
func verifyPassphraseInSession(ctx *session.Context, v *vault.Vault) error {
	locked, err := v.HasPassphrase()
	if err != nil {
		return err
	}
	if !locked {
		return nil
	}
	guard := lineio.Hold(ctx.Source())
	defer guard.Release()

	fmt.Fprint(ctx.Out, i18n.T("cli.open.passphrase", v.Name()))
	pass, err := ctx.Source().ReadLine()
	if err != nil {
		return err
	}
	ok, err := v.VerifyPassphrase(pass)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(i18n.T("cli.open.wrong_passphrase", v.Name()))
	}
	return nil
}

// sessionCmd adapts an action function to the session command interface.
type sessionCmd struct {
	name string
	run  func(ctx *session.Context, args []string) error
}

func (c sessionCmd) Name() string { return c.name }

func (c sessionCmd) Run(ctx *session.Context, args []string) error {
	return c.run(ctx, args)
}

// needVault guards actions that operate on the open vault.
func needVault(run func(ctx *session.Context, args []string) error) func(ctx *session.Context, args []string) error {
	return func(ctx *session.Context, args []string) error {
		if ctx.Vault == nil {
			return errors.New(i18n.T("session.no_vault"))
		}
		return run(ctx, args)
	}
}

// hasFlag reports whether args contains flag and returns the remaining
// positional arguments.
func hasFlag(args []string, flags ...string) (bool, []string) {
	found := false
	var rest []string
	for _, a := range args {
		match := false
		for _, f := range flags {
			if a == f {
				match = true
				break
			}
		}
		if match {
			found = true
			continue
		}
		rest = append(rest, a)
	}
	return found, rest
}

func registerInteractive(reg *session.Registry) {
	reg.Register(sessionCmd{name: "ls", run: needVault(func(ctx *session.Context, args []string) error {
		all, _ := hasFlag(args, "-a", "--all")
		return listEntries(ctx.Vault, ctx.Out, all)
	})})
	reg.Register(sessionCmd{name: "show", run: needVault(func(ctx *session.Context, args []string) error {
		withSecret, rest := hasFlag(args, "-s", "--secret")
		if len(rest) != 1 {
			return errors.New("usage: show [-s] <entry>")
		}
		return showEntry(ctx.Vault, ctx.Out, rest[0], withSecret)
	})})
	reg.Register(sessionCmd{name: "rm", run: needVault(func(ctx *session.Context, args []string) error {
		permanent, rest := hasFlag(args, "-p", "--permanent")
		if len(rest) == 0 {
			return errors.New("usage: rm [-p] <entry>...")
		}
		return removeEntries(ctx.Vault, ctx.Out, rest, permanent)
	})})
	reg.Register(sessionCmd{name: "restore", run: needVault(func(ctx *session.Context, args []string) error {
		if len(args) == 0 {
			return errors.New("usage: restore <entry>...")
		}
		return restoreEntries(ctx.Vault, ctx.Out, args)
	})})
	reg.Register(sessionCmd{name: "clip", run: needVault(func(ctx *session.Context, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: clip <entry>")
		}
		return clipEntry(ctx.Vault, ctx.Out, args[0])
	})})
	reg.Register(sessionCmd{name: "backup", run: needVault(func(ctx *session.Context, args []string) error {
		doImport, rest := hasFlag(args, "--import")
		if len(rest) != 1 {
			return errors.New("usage: backup [--import] <file>")
		}
		if doImport {
			return backupImport(ctx.Vault, ctx.Out, rest[0])
		}
		return backupWrite(ctx.Vault, ctx.Out, rest[0])
	})})
	reg.Register(sessionCmd{name: "open", run: func(ctx *session.Context, args []string) error {
		if len(args) > 1 {
			return errors.New("usage: open [dsn]")
		}
		dsn := cfg.Database.DSN
		if len(args) == 1 {
			dsn = args[0]
		}
		v, err := vault.Open(cfg.Database.Type, dsn)
		if err != nil {
			return err
		}
		if err := verifyPassphraseInSession(ctx, v); err != nil {
			v.Close()
			return err
		}
		ctx.OpenVault(v)
		return nil
	}})
	reg.Register(sessionCmd{name: "close", run: func(ctx *session.Context, args []string) error {
		ctx.CloseVault()
		return nil
	}})
	reg.Register(sessionCmd{name: "quit", run: func(ctx *session.Context, args []string) error {
		ctx.Quit()
		return nil
	}})
	reg.Register(sessionCmd{name: "help", run: func(ctx *session.Context, args []string) error {
		fmt.Fprintln(ctx.Out, strings.Join(reg.Names(), " "))
		return nil
	}})
}
