// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lockboxhq/lockbox/internal/model"
)

func rowToEntry(r entryRow) *model.Entry {
	return &model.Entry{
		ID:        r.ID,
		Title:     r.Title,
		Username:  r.Username,
		Secret:    r.Secret,
		URL:       r.URL,
		Notes:     r.Notes,
		SSHKey:    r.SSHKey,
		Recycled:  r.Recycled,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func entryToRow(e *model.Entry) entryRow {
	return entryRow{
		ID:        e.ID,
		Title:     e.Title,
		Username:  e.Username,
		Secret:    e.Secret,
		URL:       e.URL,
		Notes:     e.Notes,
		SSHKey:    e.SSHKey,
		Recycled:  e.Recycled,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// AddEntry stores a new entry, assigning an ID and timestamps when absent.
func (v *Vault) AddEntry(e *model.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	row := entryToRow(e)
	_, err := v.db.NewInsert().Model(&row).Exec(context.Background())
	return err
}

// UpdateEntry persists changed entry fields.
func (v *Vault) UpdateEntry(e *model.Entry) error {
	e.UpdatedAt = time.Now().UTC()
	row := entryToRow(e)
	_, err := v.db.NewUpdate().Model(&row).WherePK().Exec(context.Background())
	return err
}

// Entry fetches one entry by ID.
func (v *Vault) Entry(id string) (*model.Entry, error) {
	var row entryRow
	err := v.db.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rowToEntry(row), nil
}

// FindEntry resolves an entry by ID first, then by exact title among
// entries outside the recycle bin.
func (v *Vault) FindEntry(ref string) (*model.Entry, error) {
	if e, err := v.Entry(ref); err == nil {
		return e, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	var row entryRow
	err := v.db.NewSelect().Model(&row).
		Where("title = ?", ref).
		Where("recycled = ?", false).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rowToEntry(row), nil
}

// Entries lists entries ordered by title, skipping the recycle bin unless
// includeRecycled is set.
func (v *Vault) Entries(includeRecycled bool) ([]*model.Entry, error) {
	var rows []entryRow
	q := v.db.NewSelect().Model(&rows).Order("title ASC", "id ASC")
	if !includeRecycled {
		q = q.Where("recycled = ?", false)
	}
	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	entries := make([]*model.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, rowToEntry(r))
	}
	return entries, nil
}

// CountEntries reports how many entries exist, optionally including the
// recycle bin.
func (v *Vault) CountEntries(includeRecycled bool) (int, error) {
	q := v.db.NewSelect().Model((*entryRow)(nil))
	if !includeRecycled {
		q = q.Where("recycled = ?", false)
	}
	return q.Count(context.Background())
}

// RecycleEntry moves an entry to the recycle bin.
func (v *Vault) RecycleEntry(e *model.Entry) error {
	e.Recycled = true
	return v.UpdateEntry(e)
}

// RestoreEntry brings an entry back from the recycle bin.
func (v *Vault) RestoreEntry(e *model.Entry) error {
	e.Recycled = false
	return v.UpdateEntry(e)
}

// DeleteEntry removes an entry permanently.
func (v *Vault) DeleteEntry(e *model.Entry) error {
	row := entryToRow(e)
	_, err := v.db.NewDelete().Model(&row).WherePK().Exec(context.Background())
	return err
}
