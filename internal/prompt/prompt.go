// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package prompt implements the synchronous multiple-choice question
// primitive used by interactive workflows. It reads through a paused line
// source, so callers must hold the source's guard for the duration of the
// exchange.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lockboxhq/lockbox/internal/i18n"
)

// ErrCancelled is returned when input is exhausted mid-question. It always
// terminates the surrounding workflow with a "no changes" result.
var ErrCancelled = errors.New("prompt: input cancelled")

// LineReader is the single capability a prompt needs from the session's
// line source.
type LineReader interface {
	ReadLine() (string, error)
}

// Prompter asks the operator multiple-choice questions on an explicit
// output channel.
type Prompter struct {
	in  LineReader
	out io.Writer
}

// New returns a Prompter reading from in and writing to out.
func New(in LineReader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Out exposes the prompter's output channel for surrounding listings.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Ask renders the message followed by the choice labels, then reads lines
// until one matches an alias. labels and aliases are parallel sequences of
// equal length; aliases[i] holds the accepted tokens for choice i, compared
// case- and whitespace-insensitively. The matched index is returned.
// Exhausted input returns ErrCancelled immediately.
func (p *Prompter) Ask(message string, labels []string, aliases [][]string) (int, error) {
	if len(labels) != len(aliases) {
		panic("prompt: labels and alias groups must be parallel")
	}

	choices := strings.Join(labels, " | ")
	fmt.Fprintf(p.out, "%s %s\n", message, choices)

	for {
		line, err := p.in.ReadLine()
		if err != nil {
			return -1, ErrCancelled
		}
		clean := strings.ToLower(strings.TrimSpace(line))
		for i, group := range aliases {
			for _, alias := range group {
				if clean == strings.ToLower(strings.TrimSpace(alias)) {
					return i, nil
				}
			}
		}
		fmt.Fprintln(p.out, i18n.T("prompt.unknown_response", strings.TrimSpace(line), choices))
	}
}

// AskYesNo is a binary convenience wrapper around Ask using the localized
// yes/no labels. It returns true for yes.
func (p *Prompter) AskYesNo(message string) (bool, error) {
	choice, err := p.Ask(message,
		[]string{i18n.T("authz.yes"), i18n.T("authz.no")},
		[][]string{Aliases("authz.alias.yes"), Aliases("authz.alias.no")})
	if err != nil {
		return false, err
	}
	return choice == 0, nil
}

// Aliases resolves a localized "a|b|c" alias token list into its parts.
func Aliases(messageID string) []string {
	return strings.Split(i18n.T(messageID), "|")
}
