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

// Package testing provides test helpers for fontstore packages.
//
// SetupTestStore opens an in-memory embedded store with the schema migrated
// and closes it when the test ends. Each call gets its own database.
//
//	func TestMyFeature(t *testing.T) {
//	    store := testing.SetupTestStore(t)
//	    testing.InsertTestProject(t, store, "demo")
//	    testing.InsertTestGlyph(t, store, "demo", "A", 0x41)
//
//	    require.Equal(t, 1, testing.CountGlyphs(t, store, "demo"))
//	}
//
// # Seeding Test Data
//
//   - InsertTestProject: create a project with the default document
//   - InsertTestGlyph: store a glyph with an empty outline
//   - InsertTestImage: store a background image
//
// # Querying Test Data
//
//   - CountGlyphs: number of glyph records of a project
//   - CountRows: number of rows of any collection for a project
package testing
