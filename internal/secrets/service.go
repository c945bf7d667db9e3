// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package secrets bridges remote secret-service requests to the
// interactive authorization workflow. Durable decisions are cached per
// client and replayed without prompting; everything else borrows the
// terminal through the line source's guard.
package secrets

import (
	"errors"
	"io"
	"sync"

	"github.com/lockboxhq/lockbox/internal/authz"
	"github.com/lockboxhq/lockbox/internal/lineio"
	"github.com/lockboxhq/lockbox/internal/logging"
	"github.com/lockboxhq/lockbox/internal/model"
	"github.com/lockboxhq/lockbox/internal/prompt"
	"github.com/lockboxhq/lockbox/internal/vault"
)

// ErrNoVault is returned for requests arriving while no vault is open.
var ErrNoVault = errors.New("secrets: no vault open")

// clientPolicy holds what the operator asked to remember for one client.
type clientPolicy struct {
	entries map[string]authz.Decision
	future  authz.Decision
}

// Service answers unlock and removal requests from remote clients. It
// observes the session's vault lifecycle and serializes terminal access
// through the line source guard.
type Service struct {
	src      *lineio.Source
	workflow *authz.Workflow

	mu       sync.Mutex
	vault    *vault.Vault
	policies map[string]*clientPolicy
}

// New builds a service prompting through src. settings supplies the
// removal confirmation switch.
func New(src *lineio.Source, out io.Writer, settings authz.Settings) *Service {
	p := prompt.New(src, out)
	return &Service{
		src:      src,
		workflow: authz.New(p, p.Out(), settings),
		policies: make(map[string]*clientPolicy),
	}
}

// Badge tags the session prompt while the service is attached.
func (s *Service) Badge() string { return "SS" }

// VaultOpened attaches the service to v.
func (s *Service) VaultOpened(v *vault.Vault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vault = v
	logging.Debugf("secret service attached to vault %q", v.Name())
}

// VaultClosed detaches the service. Remembered client policies belong to
// the vault and are dropped with it.
func (s *Service) VaultClosed(v *vault.Vault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vault = nil
	s.policies = make(map[string]*clientPolicy)
	logging.Debugf("secret service detached from vault %q", v.Name())
}

func (s *Service) policyFor(client model.Client) *clientPolicy {
	p, ok := s.policies[client.String()]
	if !ok {
		p = &clientPolicy{entries: make(map[string]authz.Decision)}
		s.policies[client.String()] = p
	}
	return p
}

// OnUnlockRequested decides which of the requested entries client may
// read and returns the granted subset. Remembered durable decisions and
// the client's blanket policy are applied without prompting; only the
// remainder reaches the operator. Cancellation denies everything that was
// not already remembered.
func (s *Service) OnUnlockRequested(client model.Client, entries []*model.Entry) ([]*model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vault == nil {
		return nil, ErrNoVault
	}

	policy := s.policyFor(client)
	var granted []*model.Entry
	var pending []*model.Entry
	for _, e := range entries {
		if d, ok := policy.entries[e.ID]; ok {
			if d.Grants() {
				granted = append(granted, e)
			}
			continue
		}
		if policy.future.Decided() {
			if policy.future.Grants() {
				granted = append(granted, e)
			}
			continue
		}
		pending = append(pending, e)
	}
	if len(pending) == 0 {
		logging.Debugf("unlock request from %s answered from remembered policy", client)
		return granted, nil
	}

	guard := lineio.Hold(s.src)
	defer guard.Release()

	decisions, future, err := s.workflow.RequestUnlock(client, pending)
	if err != nil {
		logging.Infof("unlock request from %s cancelled", client)
		return granted, nil
	}
	for _, e := range pending {
		d := decisions[e.ID]
		if d.Durable() {
			policy.entries[e.ID] = d
		}
		if d.Grants() {
			granted = append(granted, e)
		}
	}
	if future.Decided() {
		policy.future = future
	}
	return granted, nil
}

// OnRemoveRequested asks the operator whether client may remove the
// entries and applies the outcome to the open vault. permanent selects
// hard deletion over the recycle bin. The removed count is returned;
// cancellation removes nothing.
func (s *Service) OnRemoveRequested(client model.Client, entries []*model.Entry, permanent bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vault == nil {
		return 0, ErrNoVault
	}

	guard := lineio.Hold(s.src)
	defer guard.Release()

	removed, err := s.workflow.RequestRemove(s.vault, client, s.vault.Name(), entries, permanent)
	if errors.Is(err, prompt.ErrCancelled) {
		logging.Infof("removal request from %s cancelled", client)
		return 0, nil
	}
	return removed, err
}
