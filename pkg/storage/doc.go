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

// Package storage is the local embedded store for font projects.
//
// All projects share one sqlite database. Every collection except projects
// is keyed by project id and references the projects collection:
//
//	projects          id → created_at, modified_at
//	fontData          project_id → info, axes, sources (JSON)
//	glyphs            (project_id, glyph_name) → data, code_points, modified_at
//	kerning           project_id → kerning groups and values (JSON)
//	features          project_id → feature source text
//	customData        project_id → arbitrary JSON
//	backgroundImages  (project_id, image_id) → content_type, data, modified_at
//
// The fontData, kerning, features and customData rows of a project together
// form its font document. They are written in the same transaction that
// creates the project and are always read together.
//
// # Opening
//
// A process opens the store through a Supervisor, which runs the
// open+migrate sequence once and shares the result:
//
//	sup := storage.NewSupervisor(storage.Config{DataDir: dir})
//	defer sup.Close()
//
//	store, err := sup.Store(ctx)
//	if err != nil {
//	    return err
//	}
//	ids, err := store.ListProjects(ctx)
//
// # Schema
//
// Migrations lists the versioned schema steps. The version is kept in
// PRAGMA user_version; Migrate applies each missing step in its own
// transaction and never duplicates a collection or index.
//
// # Errors
//
// Writes report ErrAlreadyExists, ErrNotFound, ErrTransactionAborted or
// contract.ErrInvalidInput. Reads of missing records return nil or empty
// values. Open and Probe report ErrStorageUnavailable when the host cannot
// provide the store.
package storage
