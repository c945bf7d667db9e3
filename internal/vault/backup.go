// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"encoding/json"
	"fmt"
	"time"

	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/lockboxhq/lockbox/internal/model"
)

// backupDoc is the on-disk backup format: a zstd-compressed JSON snapshot
// of the whole vault, recycle bin included.
type backupDoc struct {
	Version   int            `json:"version"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	Entries   []*model.Entry `json:"entries"`
}

const backupVersion = 1

// WriteBackup writes a compressed snapshot of the vault to w.
func (v *Vault) WriteBackup(w io.Writer) error {
	entries, err := v.Entries(true)
	if err != nil {
		return fmt.Errorf("vault: backup: %w", err)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("vault: backup: %w", err)
	}
	doc := backupDoc{
		Version:   backupVersion,
		Name:      v.Name(),
		CreatedAt: time.Now().UTC(),
		Entries:   entries,
	}
	if err := json.NewEncoder(zw).Encode(&doc); err != nil {
		zw.Close()
		return fmt.Errorf("vault: backup: %w", err)
	}
	return zw.Close()
}

// ImportBackup restores every entry of a snapshot into the vault. Existing
// entries with the same ID are left untouched; the import reports the
// number of entries actually added.
func (v *Vault) ImportBackup(r io.Reader) (int, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("vault: import: %w", err)
	}
	defer zr.Close()

	var doc backupDoc
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return 0, fmt.Errorf("vault: import: %w", err)
	}
	if doc.Version != backupVersion {
		return 0, fmt.Errorf("vault: import: unsupported backup version %d", doc.Version)
	}

	added := 0
	for _, e := range doc.Entries {
		if _, err := v.Entry(e.ID); err == nil {
			continue
		} else if err != ErrNotFound {
			return added, err
		}
		if err := v.AddEntry(e); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
