// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package agent mirrors vault entries carrying OpenSSH private keys into
// the user's running SSH agent. Keys are added when a vault opens and
// removed again when it closes, so agent state follows the session.
package agent

import (
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/lockboxhq/lockbox/internal/logging"
	"github.com/lockboxhq/lockbox/internal/vault"
)

// Notifier observes the session's vault lifecycle and keeps the SSH agent
// in sync with the open vault's key-bearing entries.
type Notifier struct {
	connect func() agent.Agent

	mu     sync.Mutex
	loaded map[string]ssh.PublicKey
}

// New returns a notifier using the platform's agent discovery.
func New() *Notifier {
	return &Notifier{connect: getSSHAgent, loaded: make(map[string]ssh.PublicKey)}
}

// Badge tags the session prompt while the notifier is attached.
func (n *Notifier) Badge() string { return "SA" }

// VaultOpened loads the private keys attached to v's entries into the
// agent. A missing agent or an unparsable key skips that entry; the vault
// itself stays usable.
func (n *Notifier) VaultOpened(v *vault.Vault) {
	a := n.connect()
	if a == nil {
		logging.Debugf("no SSH agent available, skipping key load")
		return
	}
	entries, err := v.Entries(false)
	if err != nil {
		logging.Warnf("listing entries for agent load: %v", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range entries {
		if e.SSHKey == "" {
			continue
		}
		key, err := ssh.ParseRawPrivateKey([]byte(e.SSHKey))
		if err != nil {
			logging.Warnf("entry %s: unparsable SSH key: %v", e.DisplayName(), err)
			continue
		}
		signer, err := ssh.NewSignerFromKey(key)
		if err != nil {
			logging.Warnf("entry %s: %v", e.DisplayName(), err)
			continue
		}
		if err := a.Add(agent.AddedKey{PrivateKey: key, Comment: e.DisplayName()}); err != nil {
			logging.Warnf("adding key for %s to agent: %v", e.DisplayName(), err)
			continue
		}
		n.loaded[e.ID] = signer.PublicKey()
		logging.Debugf("loaded SSH key for %s into agent", e.DisplayName())
	}
}

// VaultClosed removes the keys loaded for v from the agent.
func (n *Notifier) VaultClosed(v *vault.Vault) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.loaded) == 0 {
		return
	}
	a := n.connect()
	if a == nil {
		n.loaded = make(map[string]ssh.PublicKey)
		return
	}
	for id, pub := range n.loaded {
		if err := a.Remove(pub); err != nil {
			logging.Warnf("removing key %s from agent: %v", id, err)
		}
	}
	n.loaded = make(map[string]ssh.PublicKey)
}
