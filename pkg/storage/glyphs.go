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

// GetGlyph returns glyph name of project id, or nil if it does not exist.
func (s *Store) GetGlyph(ctx context.Context, id, name string) (g *font.Glyph, err error) {
	defer observe("get_glyph", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		var (
			data       []byte
			codePoints sql.NullString
			modified   int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT data, code_points, modified_at FROM glyphs WHERE project_id = ? AND glyph_name = ?`,
			id, name,
		).Scan(&data, &codePoints, &modified)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read glyph: %w", err)
		}

		cps, err := decodeCodePoints(codePoints)
		if err != nil {
			return fmt.Errorf("glyph %q: %w", name, err)
		}
		g = &font.Glyph{
			Name:       name,
			Data:       json.RawMessage(data),
			CodePoints: cps,
			ModifiedAt: time.UnixMilli(modified),
		}
		return nil
	})
	return g, err
}

// PutGlyph inserts or replaces glyph name of project id. An empty
// codePoints leaves the glyph out of the project's glyph map. The project
// must exist.
func (s *Store) PutGlyph(ctx context.Context, id, name string, data json.RawMessage, codePoints []int) (err error) {
	defer observe("put_glyph", time.Now(), &err)

	if err := contract.ValidateGlyphName(name); err != nil {
		return err
	}
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: glyph %q data is not valid JSON", contract.ErrInvalidInput, name)
	}
	if err := contract.ValidatePayload("glyph data", len(data)); err != nil {
		return err
	}

	var cps sql.NullString
	if len(codePoints) > 0 {
		b, err := json.Marshal(codePoints)
		if err != nil {
			return fmt.Errorf("encode code points: %w", err)
		}
		cps = sql.NullString{String: string(b), Valid: true}
	}

	now := s.now()
	return s.Update(ctx, func(tx *sql.Tx) error {
		if err := requireProject(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO glyphs (project_id, glyph_name, data, code_points, modified_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(project_id, glyph_name) DO UPDATE SET
			   data = excluded.data, code_points = excluded.code_points, modified_at = excluded.modified_at`,
			id, name, []byte(data), cps, now.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("write glyph: %w", err)
		}
		return touchProject(ctx, tx, id, now)
	})
}

// DeleteGlyph removes glyph name of project id. It reports whether the
// glyph existed.
func (s *Store) DeleteGlyph(ctx context.Context, id, name string) (existed bool, err error) {
	defer observe("delete_glyph", time.Now(), &err)

	now := s.now()
	err = s.Update(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM glyphs WHERE project_id = ? AND glyph_name = ?`, id, name)
		if err != nil {
			return fmt.Errorf("delete glyph: %w", err)
		}
		n, _ := res.RowsAffected()
		existed = n > 0
		if !existed {
			return nil
		}
		return touchProject(ctx, tx, id, now)
	})
	return existed, err
}

// ListGlyphNames returns the names of all glyphs of project id, sorted. It
// scans the project index of the glyphs collection.
func (s *Store) ListGlyphNames(ctx context.Context, id string) (names []string, err error) {
	defer observe("list_glyphs", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT glyph_name FROM glyphs INDEXED BY glyphs_by_project WHERE project_id = ? ORDER BY glyph_name`, id)
		if err != nil {
			return fmt.Errorf("query glyphs: %w", err)
		}
		defer rows.Close()

		names = []string{}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	return names, err
}

// GlyphMap derives the name → code points map of project id from its
// glyphs. Glyphs without code points are left out. It is computed on every
// call and never stored.
func (s *Store) GlyphMap(ctx context.Context, id string) (m font.GlyphMap, err error) {
	defer observe("glyph_map", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT glyph_name, code_points FROM glyphs INDEXED BY glyphs_by_project
			 WHERE project_id = ? AND code_points IS NOT NULL`, id)
		if err != nil {
			return fmt.Errorf("query glyph map: %w", err)
		}
		defer rows.Close()

		m = font.GlyphMap{}
		for rows.Next() {
			var (
				name string
				raw  sql.NullString
			)
			if err := rows.Scan(&name, &raw); err != nil {
				return err
			}
			cps, err := decodeCodePoints(raw)
			if err != nil {
				return fmt.Errorf("glyph %q: %w", name, err)
			}
			if len(cps) > 0 {
				m[name] = cps
			}
		}
		return rows.Err()
	})
	return m, err
}

func decodeCodePoints(raw sql.NullString) ([]int, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var cps []int
	if err := json.Unmarshal([]byte(raw.String), &cps); err != nil {
		return nil, fmt.Errorf("decode code points: %w", err)
	}
	return cps, nil
}
