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
	"fmt"
	"strings"
)

// Collection names.
const (
	CollectionProjects         = "projects"
	CollectionFontData         = "fontData"
	CollectionGlyphs           = "glyphs"
	CollectionKerning          = "kerning"
	CollectionFeatures         = "features"
	CollectionCustomData       = "customData"
	CollectionBackgroundImages = "backgroundImages"
)

// Secondary index names.
const (
	IndexGlyphsByProject = "glyphs_by_project"
	IndexImagesByProject = "backgroundImages_by_project"
)

// Field is a non-key column of a collection.
type Field struct {
	Name    string
	Type    string // sqlite type affinity: TEXT, INTEGER, BLOB
	NotNull bool
}

// Collection declares one persisted table: its primary key (one field, or
// several for a composite key) and its remaining fields. Key fields are
// always TEXT NOT NULL.
type Collection struct {
	Name   string
	Key    []string
	Fields []Field

	// References names the collection whose "id" the first key field points
	// at. Empty for root collections.
	References string
}

// Index declares a secondary index over fields of a collection.
type Index struct {
	Name       string
	Collection string
	Fields     []string
}

// Migration is one append-only schema step. Applying it creates every
// listed collection and index that does not exist yet.
type Migration struct {
	Version     int
	Description string
	Collections []Collection
	Indexes     []Index
}

// Migrations is the declared schema history. Versions start at 1 and
// increase by one; new steps are only ever appended.
var Migrations = []Migration{
	{
		Version:     1,
		Description: "projects, font data and glyphs",
		Collections: []Collection{
			{
				Name: CollectionProjects,
				Key:  []string{"id"},
				Fields: []Field{
					{Name: "created_at", Type: "INTEGER", NotNull: true},
					{Name: "modified_at", Type: "INTEGER", NotNull: true},
				},
			},
			{
				Name:       CollectionFontData,
				Key:        []string{"project_id"},
				Fields:     []Field{{Name: "data", Type: "TEXT", NotNull: true}},
				References: CollectionProjects,
			},
			{
				Name: CollectionGlyphs,
				Key:  []string{"project_id", "glyph_name"},
				Fields: []Field{
					{Name: "data", Type: "BLOB", NotNull: true},
					{Name: "code_points", Type: "TEXT"},
					{Name: "modified_at", Type: "INTEGER", NotNull: true},
				},
				References: CollectionProjects,
			},
		},
		Indexes: []Index{
			{Name: IndexGlyphsByProject, Collection: CollectionGlyphs, Fields: []string{"project_id"}},
		},
	},
	{
		Version:     2,
		Description: "kerning, features and custom data",
		Collections: []Collection{
			{
				Name:       CollectionKerning,
				Key:        []string{"project_id"},
				Fields:     []Field{{Name: "data", Type: "TEXT", NotNull: true}},
				References: CollectionProjects,
			},
			{
				Name:       CollectionFeatures,
				Key:        []string{"project_id"},
				Fields:     []Field{{Name: "text", Type: "TEXT", NotNull: true}},
				References: CollectionProjects,
			},
			{
				Name:       CollectionCustomData,
				Key:        []string{"project_id"},
				Fields:     []Field{{Name: "data", Type: "TEXT", NotNull: true}},
				References: CollectionProjects,
			},
		},
	},
	{
		Version:     3,
		Description: "background images",
		Collections: []Collection{
			{
				Name: CollectionBackgroundImages,
				Key:  []string{"project_id", "image_id"},
				Fields: []Field{
					{Name: "content_type", Type: "TEXT", NotNull: true},
					{Name: "data", Type: "BLOB", NotNull: true},
					{Name: "modified_at", Type: "INTEGER", NotNull: true},
				},
				References: CollectionProjects,
			},
		},
		Indexes: []Index{
			{Name: IndexImagesByProject, Collection: CollectionBackgroundImages, Fields: []string{"project_id"}},
		},
	},
}

// SchemaVersion is the version a fully migrated store reports.
func SchemaVersion() int {
	return Migrations[len(Migrations)-1].Version
}

// ChildCollections lists every collection keyed by project_id, in the order
// a cascading delete removes them.
func ChildCollections() []string {
	var names []string
	for i := len(Migrations) - 1; i >= 0; i-- {
		cols := Migrations[i].Collections
		for j := len(cols) - 1; j >= 0; j-- {
			if cols[j].References == CollectionProjects {
				names = append(names, cols[j].Name)
			}
		}
	}
	return names
}

// createTableSQL renders the CREATE TABLE statement for c.
func (c Collection) createTableSQL() string {
	var cols []string
	for _, k := range c.Key {
		cols = append(cols, fmt.Sprintf("%s TEXT NOT NULL", quoteIdent(k)))
	}
	for _, f := range c.Fields {
		col := fmt.Sprintf("%s %s", quoteIdent(f.Name), f.Type)
		if f.NotNull {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}

	keys := make([]string, len(c.Key))
	for i, k := range c.Key {
		keys[i] = quoteIdent(k)
	}
	cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	if c.References != "" {
		cols = append(cols, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			quoteIdent(c.Key[0]), quoteIdent(c.References), quoteIdent("id")))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(c.Name), strings.Join(cols, ",\n\t"))
}

// createIndexSQL renders the CREATE INDEX statement for ix.
func (ix Index) createIndexSQL() string {
	fields := make([]string, len(ix.Fields))
	for i, f := range ix.Fields {
		fields[i] = quoteIdent(f)
	}
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		quoteIdent(ix.Name), quoteIdent(ix.Collection), strings.Join(fields, ", "))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
