// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package lineio

import (
	"errors"
	"os"
	"strings"
	"sync/atomic"

	"github.com/peterh/liner"
)

// The editline engine switches the terminal into raw mode and keeps
// process-global state, so only one editline source may exist at a time.
var editlineActive atomic.Bool

// editlineBackend wraps the liner engine: history, in-line editing, and
// terminal mode handling. Completed lines are appended to the history.
type editlineBackend struct {
	l           *liner.State
	historyFile string
}

// NewEditline returns a Source backed by the editline engine. It fails if
// another editline source is already active.
func NewEditline(prompt func() string, historyFile string) (*Source, error) {
	if !editlineActive.CompareAndSwap(false, true) {
		return nil, errors.New("lineio: an editline source is already active")
	}
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	b := &editlineBackend{l: l, historyFile: historyFile}
	b.loadHistory()
	return newSource(b, prompt), nil
}

func (b *editlineBackend) ReadLine(prompt string) (string, error) {
	text, err := b.l.Prompt(prompt)
	if err == liner.ErrPromptAborted {
		// Ctrl-C abandons the current line, not the session.
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		b.l.AppendHistory(text)
	}
	return text, nil
}

// Render is a no-op: the engine repaints its own prompt when the pending
// Prompt call redraws.
func (b *editlineBackend) Render(string) {}

// Suspend is a no-op: the engine restores the original terminal settings
// between prompts, and a pause discards the in-progress edit with them.
func (b *editlineBackend) Suspend() {}

func (b *editlineBackend) Close() error {
	b.saveHistory()
	err := b.l.Close()
	editlineActive.Store(false)
	return err
}

func (b *editlineBackend) loadHistory() {
	if b.historyFile == "" {
		return
	}
	if f, err := os.Open(b.historyFile); err == nil {
		b.l.ReadHistory(f)
		f.Close()
	}
}

func (b *editlineBackend) saveHistory() {
	if b.historyFile == "" {
		return
	}
	// History can contain entry titles; owner read/write only.
	f, err := os.OpenFile(b.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	b.l.WriteHistory(f)
}
