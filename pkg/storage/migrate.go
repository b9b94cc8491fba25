// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Migrate brings db up to SchemaVersion. Each pending step runs in its own
// schema transaction that also records the new version, so an interrupted
// upgrade resumes at the first unapplied step. Steps check for existing
// collections and indexes before creating them; running Migrate again on an
// up-to-date or partially upgraded store never fails or duplicates
// structure. It returns the number of steps applied.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	current, err := userVersion(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if current > SchemaVersion() {
		return 0, fmt.Errorf("schema version %d is newer than supported version %d", current, SchemaVersion())
	}

	applied := 0
	for _, m := range Migrations {
		if m.Version <= current {
			continue
		}
		logger.Info("storage.migrate.step",
			"from", current,
			"to", m.Version,
			"description", m.Description,
		)
		if err := applyMigration(ctx, db, m); err != nil {
			return applied, fmt.Errorf("migrate to version %d: %w", m.Version, err)
		}
		storeMetrics.init()
		storeMetrics.migrations.Inc()
		current = m.Version
		applied++
	}

	storeMetrics.init()
	storeMetrics.schemaVersion.Set(float64(current))
	return applied, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range m.Collections {
		exists, err := objectExists(ctx, tx, "table", c.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := tx.ExecContext(ctx, c.createTableSQL()); err != nil {
			return fmt.Errorf("create collection %s: %w", c.Name, err)
		}
	}

	for _, ix := range m.Indexes {
		exists, err := objectExists(ctx, tx, "index", ix.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := tx.ExecContext(ctx, ix.createIndexSQL()); err != nil {
			return fmt.Errorf("create index %s: %w", ix.Name, err)
		}
	}

	// PRAGMA does not take bound parameters; Version is an int from the
	// declared schema.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func objectExists(ctx context.Context, q queryer, kind, name string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = ? AND name = ?`,
		kind, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check %s %s: %w", kind, name, err)
	}
	return n > 0, nil
}

func userVersion(ctx context.Context, q queryer) (int, error) {
	var v int
	if err := q.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}
