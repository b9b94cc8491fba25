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

	"github.com/kraklabs/fontstore/pkg/font"
)

// GetDocument assembles the font document of project id from its
// collections. A missing document yields an empty, normalized Document and
// no error.
func (s *Store) GetDocument(ctx context.Context, id string) (doc font.Document, err error) {
	defer observe("get_document", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		doc, err = readDocument(ctx, tx, id)
		return err
	})
	return doc, err
}

// UpdateDocument performs a read-modify-write of the whole font document:
// it reads the current document (or an empty one if absent), lets fn modify
// it, and writes every part back. The project must exist.
//
// Read and write happen in one transaction of the local store. The
// whole-document replace still means a caller that read the document
// earlier (for example through the remote backend) and writes it back can
// overwrite a concurrent change to another field.
func (s *Store) UpdateDocument(ctx context.Context, id string, fn func(doc *font.Document) error) (err error) {
	defer observe("update_document", time.Now(), &err)

	return s.Update(ctx, func(tx *sql.Tx) error {
		if err := requireProject(ctx, tx, id); err != nil {
			return err
		}

		doc, err := readDocument(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&doc); err != nil {
			return err
		}
		doc.Normalize()

		enc, err := encodeDocument(doc)
		if err != nil {
			return err
		}
		if err := writeDocument(ctx, tx, id, enc); err != nil {
			return err
		}
		return touchProject(ctx, tx, id, s.now())
	})
}

// writeDocument upserts all four parts of a document.
func writeDocument(ctx context.Context, tx *sql.Tx, id string, enc encodedDocument) error {
	stmts := []struct {
		coll  string
		query string
		value any
	}{
		{CollectionFontData, `INSERT INTO "fontData" (project_id, data) VALUES (?, ?)
			ON CONFLICT(project_id) DO UPDATE SET data = excluded.data`, string(enc.core)},
		{CollectionKerning, `INSERT INTO "kerning" (project_id, data) VALUES (?, ?)
			ON CONFLICT(project_id) DO UPDATE SET data = excluded.data`, string(enc.kerning)},
		{CollectionFeatures, `INSERT INTO "features" (project_id, text) VALUES (?, ?)
			ON CONFLICT(project_id) DO UPDATE SET text = excluded.text`, enc.features},
		{CollectionCustomData, `INSERT INTO "customData" (project_id, data) VALUES (?, ?)
			ON CONFLICT(project_id) DO UPDATE SET data = excluded.data`, string(enc.customData)},
	}
	for _, st := range stmts {
		if _, err := tx.ExecContext(ctx, st.query, id, st.value); err != nil {
			return fmt.Errorf("write %s: %w", st.coll, err)
		}
	}
	return nil
}

// readDocument reads the parts of a document. Missing parts are left empty.
func readDocument(ctx context.Context, tx *sql.Tx, id string) (font.Document, error) {
	var doc font.Document

	var core string
	err := tx.QueryRowContext(ctx, `SELECT data FROM "fontData" WHERE project_id = ?`, id).Scan(&core)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return doc, fmt.Errorf("read font data: %w", err)
	default:
		var cd coreDocument
		if err := json.Unmarshal([]byte(core), &cd); err != nil {
			return doc, fmt.Errorf("decode font data: %w", err)
		}
		doc.Info, doc.Axes, doc.Sources = cd.Info, cd.Axes, cd.Sources
	}

	var kerning string
	err = tx.QueryRowContext(ctx, `SELECT data FROM "kerning" WHERE project_id = ?`, id).Scan(&kerning)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return doc, fmt.Errorf("read kerning: %w", err)
	default:
		if err := json.Unmarshal([]byte(kerning), &doc.Kerning); err != nil {
			return doc, fmt.Errorf("decode kerning: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx, `SELECT text FROM "features" WHERE project_id = ?`, id).Scan(&doc.Features)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return doc, fmt.Errorf("read features: %w", err)
	}

	var custom string
	err = tx.QueryRowContext(ctx, `SELECT data FROM "customData" WHERE project_id = ?`, id).Scan(&custom)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return doc, fmt.Errorf("read custom data: %w", err)
	default:
		if err := json.Unmarshal([]byte(custom), &doc.CustomData); err != nil {
			return doc, fmt.Errorf("decode custom data: %w", err)
		}
	}

	doc.Normalize()
	return doc, nil
}
