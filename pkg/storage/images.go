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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kraklabs/fontstore/internal/contract"
	"github.com/kraklabs/fontstore/pkg/font"
)

// PutBackgroundImage stores img under project id and returns its image id.
// An empty img.ID is replaced by a fresh UUID.
func (s *Store) PutBackgroundImage(ctx context.Context, id string, img font.BackgroundImage) (_ string, err error) {
	defer observe("put_background_image", time.Now(), &err)

	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if err := contract.ValidateGlyphName(img.ID); err != nil {
		return "", fmt.Errorf("image id: %w", err)
	}
	if err := contract.ValidatePayload("background image", len(img.Data)); err != nil {
		return "", err
	}
	if img.ContentType == "" {
		img.ContentType = "application/octet-stream"
	}

	now := s.now()
	err = s.Update(ctx, func(tx *sql.Tx) error {
		if err := requireProject(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO "backgroundImages" (project_id, image_id, content_type, data, modified_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(project_id, image_id) DO UPDATE SET
			   content_type = excluded.content_type, data = excluded.data, modified_at = excluded.modified_at`,
			id, img.ID, img.ContentType, img.Data, now.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("write background image: %w", err)
		}
		return touchProject(ctx, tx, id, now)
	})
	if err != nil {
		return "", err
	}
	return img.ID, nil
}

// GetBackgroundImage returns image imageID of project id, or nil.
func (s *Store) GetBackgroundImage(ctx context.Context, id, imageID string) (img *font.BackgroundImage, err error) {
	defer observe("get_background_image", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		var (
			contentType string
			data        []byte
			modified    int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT content_type, data, modified_at FROM "backgroundImages" WHERE project_id = ? AND image_id = ?`,
			id, imageID,
		).Scan(&contentType, &data, &modified)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read background image: %w", err)
		}
		img = &font.BackgroundImage{
			ID:          imageID,
			ContentType: contentType,
			Data:        data,
			ModifiedAt:  time.UnixMilli(modified),
		}
		return nil
	})
	return img, err
}

// DeleteBackgroundImage removes image imageID. It reports whether the image
// existed.
func (s *Store) DeleteBackgroundImage(ctx context.Context, id, imageID string) (existed bool, err error) {
	defer observe("delete_background_image", time.Now(), &err)

	now := s.now()
	err = s.Update(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM "backgroundImages" WHERE project_id = ? AND image_id = ?`, id, imageID)
		if err != nil {
			return fmt.Errorf("delete background image: %w", err)
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

// ListBackgroundImages returns the image ids of project id, sorted.
func (s *Store) ListBackgroundImages(ctx context.Context, id string) (ids []string, err error) {
	defer observe("list_background_images", time.Now(), &err)

	err = s.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT image_id FROM "backgroundImages" WHERE project_id = ? ORDER BY image_id`, id)
		if err != nil {
			return fmt.Errorf("query background images: %w", err)
		}
		defer rows.Close()

		ids = []string{}
		for rows.Next() {
			var imageID string
			if err := rows.Scan(&imageID); err != nil {
				return err
			}
			ids = append(ids, imageID)
		}
		return rows.Err()
	})
	return ids, err
}
