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

package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/kraklabs/fontstore/pkg/font"
	"github.com/kraklabs/fontstore/pkg/storage"
)

// SetupTestStore creates an in-memory store for testing.
// The store is automatically closed when the test finishes.
func SetupTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.Open(context.Background(), storage.Config{
		Engine:  storage.EngineMemory,
		DataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// InsertTestProject creates project id with the default font document.
func InsertTestProject(t *testing.T, store *storage.Store, id string) {
	t.Helper()

	if _, err := store.CreateProject(context.Background(), id, nil); err != nil {
		t.Fatalf("failed to insert test project %q: %v", id, err)
	}
}

// InsertTestGlyph stores glyph name in project id with an empty static
// outline. Pass no code points for an unencoded glyph.
//
// Example:
//
//	testing.InsertTestGlyph(t, store, "demo", "A", 0x41)
//	testing.InsertTestGlyph(t, store, "demo", "A.alt")
func InsertTestGlyph(t *testing.T, store *storage.Store, id, name string, codePoints ...int) {
	t.Helper()

	data, err := json.Marshal(font.StaticGlyph{XAdvance: 500, Path: font.Path{Contours: []font.Contour{}}})
	if err != nil {
		t.Fatalf("failed to encode test glyph: %v", err)
	}
	if err := store.PutGlyph(context.Background(), id, name, data, codePoints); err != nil {
		t.Fatalf("failed to insert test glyph %q: %v", name, err)
	}
}

// InsertTestImage stores a small PNG-typed background image and returns its id.
func InsertTestImage(t *testing.T, store *storage.Store, id, imageID string) string {
	t.Helper()

	got, err := store.PutBackgroundImage(context.Background(), id, font.BackgroundImage{
		ID:          imageID,
		ContentType: "image/png",
		Data:        []byte{0x89, 'P', 'N', 'G'},
	})
	if err != nil {
		t.Fatalf("failed to insert test image: %v", err)
	}
	return got
}

// CountGlyphs returns the number of glyph records stored for project id.
func CountGlyphs(t *testing.T, store *storage.Store, id string) int {
	t.Helper()
	return CountRows(t, store, storage.CollectionGlyphs, id)
}

// CountRows returns the number of rows of collection that belong to
// project id. For the projects collection it counts the project itself.
func CountRows(t *testing.T, store *storage.Store, collection, id string) int {
	t.Helper()

	column := "project_id"
	if collection == storage.CollectionProjects {
		column = "id"
	}
	query := fmt.Sprintf(`SELECT count(*) FROM "%s" WHERE %s = ?`, collection, column)

	var n int
	if err := store.DB().QueryRowContext(context.Background(), query, id).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", collection, err)
	}
	return n
}
