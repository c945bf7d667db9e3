// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Keycheck parameters. The derived value only gates interactive access;
// transport and at-rest encryption are handled outside this layer.
const (
	keycheckIterations = 210_000
	keycheckKeyLen     = 32
	keycheckSaltLen    = 16
)

// SetPassphrase stores a keycheck value derived from the passphrase. An
// empty passphrase clears the check.
func (v *Vault) SetPassphrase(pass string) error {
	if pass == "" {
		return v.setMeta("keycheck", "")
	}
	salt := make([]byte, keycheckSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("vault: keycheck salt: %w", err)
	}
	key := pbkdf2.Key([]byte(pass), salt, keycheckIterations, keycheckKeyLen, sha256.New)
	return v.setMeta("keycheck", hex.EncodeToString(salt)+":"+hex.EncodeToString(key))
}

// HasPassphrase reports whether a keycheck is stored.
func (v *Vault) HasPassphrase() (bool, error) {
	stored, err := v.meta("keycheck")
	if err != nil {
		return false, err
	}
	return stored != "", nil
}

// VerifyPassphrase checks a passphrase against the stored keycheck. Vaults
// without a keycheck accept any passphrase.
func (v *Vault) VerifyPassphrase(pass string) (bool, error) {
	stored, err := v.meta("keycheck")
	if err != nil {
		return false, err
	}
	if stored == "" {
		return true, nil
	}
	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false, fmt.Errorf("vault: malformed keycheck")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, fmt.Errorf("vault: malformed keycheck: %w", err)
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, fmt.Errorf("vault: malformed keycheck: %w", err)
	}
	got := pbkdf2.Key([]byte(pass), salt, keycheckIterations, keycheckKeyLen, sha256.New)
	return hmac.Equal(got, want), nil
}
