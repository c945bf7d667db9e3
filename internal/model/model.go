// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures used throughout Lockbox,
// shared between the vault layer, the authorization workflow and the UI.
package model

import (
	"fmt"
	"time"
)

// Entry is a single secret record inside a vault.
type Entry struct {
	ID       string
	Title    string
	Username string
	Secret   string
	URL      string
	Notes    string

	// SSHKey optionally holds a PEM-encoded OpenSSH private key attached
	// to the entry, picked up by the ssh-agent integration.
	SSHKey string

	// Recycled marks an entry that sits in the vault's recycle bin.
	// Recycled entries are invisible to listings and reference lookups.
	Recycled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the entry title, falling back to the ID for
// untitled entries.
func (e *Entry) DisplayName() string {
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

// Client identifies the remote peer behind a secret-service request.
type Client struct {
	Name string
	PID  int
}

// String renders the client the way it is shown to the operator.
func (c Client) String() string {
	return fmt.Sprintf("%s (PID: %d)", c.Name, c.PID)
}
