// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vault is the storage layer for Lockbox. It keeps entries and
// vault metadata behind a Bun-based store, supporting SQLite for local
// vaults and PostgreSQL/MySQL for shared ones.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	// SQL drivers selected by the database type.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an entry lookup matches nothing.
var ErrNotFound = errors.New("vault: entry not found")

// entryRow maps the `entries` table for Bun queries.
type entryRow struct {
	bun.BaseModel `bun:"table:entries,alias:e"`
	ID            string    `bun:"id,pk"`
	Title         string    `bun:"title,notnull,default:''"`
	Username      string    `bun:"username,notnull,default:''"`
	Secret        string    `bun:"secret,notnull,default:''"`
	URL           string    `bun:"url,notnull,default:''"`
	Notes         string    `bun:"notes,notnull,default:''"`
	SSHKey        string    `bun:"ssh_key,notnull,default:''"`
	Recycled      bool      `bun:"recycled,notnull,default:false"`
	CreatedAt     time.Time `bun:"created_at,nullzero"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero"`
}

// metaRow maps the `vault_meta` key/value table.
type metaRow struct {
	bun.BaseModel `bun:"table:vault_meta"`
	Key           string `bun:"key,pk"`
	Value         string `bun:"value,notnull,default:''"`
}

// Vault is an open secrets store.
type Vault struct {
	db  *bun.DB
	dsn string
}

// Open connects to a vault using the configured database type and DSN and
// creates the schema on first use. Supported types are sqlite (default),
// postgres and mysql.
func Open(dbType, dsn string) (*Vault, error) {
	var sqldb *sql.DB
	var err error
	var bdb *bun.DB

	switch dbType {
	case "", "sqlite":
		sqldb, err = sql.Open("sqlite", dsn)
		if err == nil {
			// In-memory SQLite keeps one database per connection; pin the
			// pool so every query sees the same one.
			if strings.Contains(dsn, ":memory:") {
				sqldb.SetMaxOpenConns(1)
			}
			bdb = bun.NewDB(sqldb, sqlitedialect.New())
		}
	case "postgres":
		sqldb, err = sql.Open("pgx", dsn)
		if err == nil {
			bdb = bun.NewDB(sqldb, pgdialect.New())
		}
	case "mysql":
		sqldb, err = sql.Open("mysql", dsn)
		if err == nil {
			bdb = bun.NewDB(sqldb, mysqldialect.New())
		}
	default:
		return nil, fmt.Errorf("vault: unsupported database type %q", dbType)
	}
	if err != nil {
		return nil, fmt.Errorf("vault: open %s: %w", dbType, err)
	}

	v := &Vault{db: bdb, dsn: dsn}
	if err := v.migrate(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return v, nil
}

func (v *Vault) migrate() error {
	ctx := context.Background()
	for _, m := range []any{(*entryRow)(nil), (*metaRow)(nil)} {
		if _, err := v.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("vault: create schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database handles.
func (v *Vault) Close() error {
	return v.db.Close()
}

// Name returns the vault's display name: the stored metadata name if set,
// otherwise the base of the data source path.
func (v *Vault) Name() string {
	if name, err := v.meta("name"); err == nil && name != "" {
		return name
	}
	base := filepath.Base(v.dsn)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SetName stores the vault's display name.
func (v *Vault) SetName(name string) error {
	return v.setMeta("name", name)
}

func (v *Vault) meta(key string) (string, error) {
	var row metaRow
	err := v.db.NewSelect().Model(&row).Where("key = ?", key).Limit(1).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return row.Value, nil
}

func (v *Vault) setMeta(key, value string) error {
	q := v.db.NewInsert().Model(&metaRow{Key: key, Value: value})
	if v.db.Dialect().Name() == dialect.MySQL {
		q = q.On("DUPLICATE KEY UPDATE").Set("value = VALUES(value)")
	} else {
		q = q.On("CONFLICT (key) DO UPDATE").Set("value = EXCLUDED.value")
	}
	_, err := q.Exec(context.Background())
	return err
}
