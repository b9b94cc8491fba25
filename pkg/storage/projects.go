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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kraklabs/fontstore/internal/contract"
	"github.com/kraklabs/fontstore/pkg/font"
)

// ListProjects returns the ids of all recorded projects, sorted.
func (s *Store) ListProjects(ctx context.Context) (ids []string, err error) {
	defer observe("list_projects", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM projects ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query projects: %w", err)
		}
		defer rows.Close()

		ids = []string{}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	return ids, err
}

// GetProject returns the directory entry for id, or nil if it does not
// exist.
func (s *Store) GetProject(ctx context.Context, id string) (p *font.Project, err error) {
	defer observe("get_project", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		var created, modified int64
		err := tx.QueryRowContext(ctx,
			`SELECT created_at, modified_at FROM projects WHERE id = ?`, id,
		).Scan(&created, &modified)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("query project: %w", err)
		}
		p = &font.Project{
			ID:         id,
			CreatedAt:  time.UnixMilli(created),
			ModifiedAt: time.UnixMilli(modified),
		}
		return nil
	})
	return p, err
}

// CreateProject records a new project together with its font document in a
// single transaction. When doc is nil, font.DefaultDocument(id) is stored.
// It fails with ErrAlreadyExists if id is already recorded, in which case
// nothing is written.
func (s *Store) CreateProject(ctx context.Context, id string, doc *font.Document) (_ string, err error) {
	defer observe("create_project", time.Now(), &err)

	if err := contract.ValidateProjectID(id); err != nil {
		return "", err
	}

	d := font.DefaultDocument(id)
	if doc != nil {
		d = *doc
		d.Normalize()
	}
	enc, err := encodeDocument(d)
	if err != nil {
		return "", err
	}

	now := s.now().UnixMilli()
	err = s.Update(ctx, func(tx *sql.Tx) error {
		exists, err := projectExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: project %q", ErrAlreadyExists, id)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO projects (id, created_at, modified_at) VALUES (?, ?, ?)`,
			id, now, now,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: project %q", ErrAlreadyExists, id)
		}
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}

		return writeDocument(ctx, tx, id, enc)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("project.create", "project_id", id, "default_document", doc == nil)
	return id, nil
}

// DeleteProject removes the project and every record that references it in
// one transaction. Deleting an unknown id succeeds without effect.
func (s *Store) DeleteProject(ctx context.Context, id string) (err error) {
	defer observe("delete_project", time.Now(), &err)

	var removed int64
	err = s.Update(ctx, func(tx *sql.Tx) error {
		for _, coll := range ChildCollections() {
			res, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE project_id = ?`, quoteIdent(coll)), id,
			)
			if err != nil {
				return fmt.Errorf("delete %s: %w", coll, err)
			}
			n, _ := res.RowsAffected()
			removed += n
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	storeMetrics.init()
	storeMetrics.cascadeDeleted.Add(float64(removed))
	s.logger.Info("project.delete.cascade", "project_id", id, "children_removed", removed)
	return nil
}

func projectExists(ctx context.Context, q queryer, id string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT count(*) FROM projects WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return n > 0, nil
}

// requireProject fails with ErrNotFound unless id is a live project.
func requireProject(ctx context.Context, q queryer, id string) error {
	exists, err := projectExists(ctx, q, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: project %q", ErrNotFound, id)
	}
	return nil
}

// touchProject bumps the project's modification time.
func touchProject(ctx context.Context, tx *sql.Tx, id string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `UPDATE projects SET modified_at = ? WHERE id = ?`, now.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	return nil
}

// encodedDocument is a Document split into the payloads of its four
// collections.
type encodedDocument struct {
	core       []byte
	kerning    []byte
	features   string
	customData []byte
}

// coreDocument is the part of a Document stored in the fontData collection.
type coreDocument struct {
	Info    font.Info              `json:"info"`
	Axes    []font.Axis            `json:"axes"`
	Sources map[string]font.Source `json:"sources"`
}

func encodeDocument(d font.Document) (encodedDocument, error) {
	var enc encodedDocument
	var err error

	enc.core, err = json.Marshal(coreDocument{Info: d.Info, Axes: d.Axes, Sources: d.Sources})
	if err != nil {
		return enc, fmt.Errorf("encode font data: %w", err)
	}
	enc.kerning, err = json.Marshal(d.Kerning)
	if err != nil {
		return enc, fmt.Errorf("encode kerning: %w", err)
	}
	enc.customData, err = json.Marshal(d.CustomData)
	if err != nil {
		return enc, fmt.Errorf("encode custom data: %w", err)
	}
	enc.features = d.Features

	size := len(enc.core) + len(enc.kerning) + len(enc.customData) + len(enc.features)
	if err := contract.ValidatePayload("font document", size); err != nil {
		return enc, err
	}
	return enc, nil
}
