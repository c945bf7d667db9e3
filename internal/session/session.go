// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package session implements the outer interactive command loop. The loop
// owns the line source and the currently open vault; commands run one at a
// time against a context that carries the vault handle, and integration
// collaborators observe vault lifecycle changes through the Observer
// interface.
package session

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lockboxhq/lockbox/internal/i18n"
	"github.com/lockboxhq/lockbox/internal/lineio"
	"github.com/lockboxhq/lockbox/internal/logging"
	"github.com/lockboxhq/lockbox/internal/vault"
)

// Observer is notified when the session's current vault changes. Open and
// close are always paired; Quit closes the current vault first.
type Observer interface {
	VaultOpened(v *vault.Vault)
	VaultClosed(v *vault.Vault)
}

// Badger is an optional Observer extension contributing a short tag to the
// session prompt while a vault is open.
type Badger interface {
	Badge() string
}

// Context is the per-command view of the session. The vault handle is
// handed to the command for the duration of Run and read back afterwards,
// so a command may open, replace or close it.
type Context struct {
	loop *Loop

	// Vault is the currently open vault, nil when none is open. Commands
	// opening or closing a vault must go through OpenVault/CloseVault so
	// observers stay consistent.
	Vault *vault.Vault

	// Out is where command output belongs. Writing directly to the
	// terminal would race with the line source.
	Out io.Writer
}

// Source exposes the session's line source so commands can hold its guard
// around nested prompts.
func (c *Context) Source() *lineio.Source {
	return c.loop.src
}

// OpenVault installs v as the session's current vault, closing any
// previously open one, and notifies observers.
func (c *Context) OpenVault(v *vault.Vault) {
	c.CloseVault()
	c.Vault = v
	for _, o := range c.loop.observers {
		o.VaultOpened(v)
	}
}

// CloseVault closes the current vault, notifying observers first. It is a
// no-op when no vault is open.
func (c *Context) CloseVault() {
	if c.Vault == nil {
		return
	}
	v := c.Vault
	c.Vault = nil
	for _, o := range c.loop.observers {
		o.VaultClosed(v)
	}
	if err := v.Close(); err != nil {
		logging.Warnf("closing vault: %v", err)
	}
}

// Quit closes the current vault and ends the loop after the running
// command returns.
func (c *Context) Quit() {
	c.CloseVault()
	c.loop.quitting = true
}

// Command is a named interactive command.
type Command interface {
	Name() string
	Run(ctx *Context, args []string) error
}

// Registry resolves commands by name.
type Registry struct {
	cmds map[string]Command
}

func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{cmds: make(map[string]Command, len(cmds))}
	for _, c := range cmds {
		r.cmds[c.Name()] = c
	}
	return r
}

// Register adds or replaces a command.
func (r *Registry) Register(c Command) {
	r.cmds[c.Name()] = c
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Loop is the interactive session driver.
type Loop struct {
	src       *lineio.Source
	reg       *Registry
	out       io.Writer
	observers []Observer
	ctx       *Context
	quitting  bool
}

// New builds a session loop writing to out. newSource constructs the line
// source around the loop's own prompt function, so the prompt is
// recomputed from the loop's state before every render.
func New(newSource func(prompt func() string) (*lineio.Source, error), out io.Writer, reg *Registry, observers ...Observer) (*Loop, error) {
	l := &Loop{reg: reg, out: out, observers: observers}
	l.ctx = &Context{loop: l, Out: out}
	src, err := newSource(l.Prompt)
	if err != nil {
		return nil, err
	}
	l.src = src
	return l, nil
}

// Context returns the session's command context, mainly for seeding a
// vault before Run.
func (l *Loop) Context() *Context {
	return l.ctx
}

// AddObserver registers o for vault lifecycle notifications. Observers
// needing the loop's line source can be attached after construction.
func (l *Loop) AddObserver(o Observer) {
	l.observers = append(l.observers, o)
}

// Source exposes the loop's line source.
func (l *Loop) Source() *lineio.Source {
	return l.src
}

// Prompt renders the current prompt text from observer badges and the
// open vault's display name.
func (l *Loop) Prompt() string {
	var sb strings.Builder
	if l.ctx.Vault != nil {
		for _, o := range l.observers {
			if b, ok := o.(Badger); ok {
				if tag := b.Badge(); tag != "" {
					sb.WriteString("[" + tag + "] ")
				}
			}
		}
		sb.WriteString(l.ctx.Vault.Name())
	} else {
		sb.WriteString("lockbox")
	}
	sb.WriteString("> ")
	return sb.String()
}

// Run starts line delivery and dispatches commands until quit or
// end-of-input. The source is closed on return.
func (l *Loop) Run() error {
	defer l.src.Close()
	l.src.Start()
	for line := range l.src.Lines() {
		l.Dispatch(line)
		if l.quitting {
			return nil
		}
	}
	// End-of-input quits like an explicit quit command would.
	l.ctx.CloseVault()
	return nil
}

// Dispatch tokenizes one line and runs the resolved command. Unknown
// commands are reported and the loop continues.
func (l *Loop) Dispatch(line string) {
	args := Split(line)
	if len(args) == 0 {
		return
	}
	cmd, ok := l.reg.Lookup(args[0])
	if !ok {
		fmt.Fprintln(l.out, i18n.T("session.unknown_command", args[0]))
		return
	}
	// The command borrows the vault handle for the duration of Run.
	if err := cmd.Run(l.ctx, args[1:]); err != nil {
		fmt.Fprintln(l.out, err.Error())
	}
}
