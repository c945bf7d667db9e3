// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lockboxhq/lockbox/internal/i18n"
	"github.com/lockboxhq/lockbox/internal/model"
	"github.com/lockboxhq/lockbox/internal/vault"
)

// openVault opens the configured vault and, when a keycheck is stored,
// verifies the operator's passphrase before handing the vault out.
func openVault() (*vault.Vault, error) {
	v, err := vault.Open(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	locked, err := v.HasPassphrase()
	if err != nil {
		v.Close()
		return nil, err
	}
	if locked {
		pass, err := readPassphrase(i18n.T("cli.open.passphrase", v.Name()))
		if err != nil {
			v.Close()
			return nil, err
		}
		ok, err := v.VerifyPassphrase(pass)
		if err != nil {
			v.Close()
			return nil, err
		}
		if !ok {
			v.Close()
			return nil, errors.New(i18n.T("cli.open.wrong_passphrase", v.Name()))
		}
	}
	return v, nil
}

// readPassphrase reads a passphrase without echo when stdin is a
// terminal, falling back to a plain line read for piped input.
func readPassphrase(promptText string) (string, error) {
	fmt.Fprint(os.Stderr, promptText)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		defer fmt.Fprintln(os.Stderr)
		pass, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(pass), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// findEntry resolves a command argument to an entry by ID or exact title.
func findEntry(v *vault.Vault, arg string) (*model.Entry, error) {
	e, err := v.FindEntry(arg)
	if errors.Is(err, vault.ErrNotFound) {
		return nil, errors.New(i18n.T("cli.entry_not_found", arg))
	}
	return e, err
}

// findRecycled resolves an argument to a recycle-bin entry by ID or exact
// title. Title lookup has to scan the bin since FindEntry skips it.
func findRecycled(v *vault.Vault, arg string) (*model.Entry, error) {
	if e, err := v.Entry(arg); err == nil {
		if e.Recycled {
			return e, nil
		}
	} else if !errors.Is(err, vault.ErrNotFound) {
		return nil, err
	}
	all, err := v.Entries(true)
	if err != nil {
		return nil, err
	}
	for _, e := range all {
		if e.Recycled && e.Title == arg {
			return e, nil
		}
	}
	return nil, errors.New(i18n.T("cli.entry_not_found", arg))
}
