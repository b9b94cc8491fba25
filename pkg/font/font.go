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

package font

import (
	"encoding/json"
	"time"
)

// Default metrics used when a project is created without an initial document.
const (
	DefaultUnitsPerEm = 1000
	DefaultAscender   = 800
	DefaultDescender  = -200
)

// Info holds font-level naming and vertical metrics.
type Info struct {
	FamilyName string `json:"familyName"`
	UnitsPerEm int    `json:"unitsPerEm"`
	Ascender   int    `json:"ascender"`
	Descender  int    `json:"descender"`
}

// Axis is a variation axis of the font.
type Axis struct {
	Name         string  `json:"name"`
	Tag          string  `json:"tag"`
	Label        string  `json:"label,omitempty"`
	MinValue     float64 `json:"minValue"`
	DefaultValue float64 `json:"defaultValue"`
	MaxValue     float64 `json:"maxValue"`
	Hidden       bool    `json:"hidden,omitempty"`
}

// Source is a master (design location) of the font, keyed by identifier in
// Document.Sources.
type Source struct {
	Name        string             `json:"name"`
	Location    map[string]float64 `json:"location,omitempty"`
	ItalicAngle float64            `json:"italicAngle,omitempty"`
	IsSparse    bool               `json:"isSparse,omitempty"`
}

// Kerning is one kerning table (for example "kern" or "vkrn").
//
// Values maps left name → right name → one value per source identifier. A
// nil entry means the pair is not defined at that source.
type Kerning struct {
	GroupsSide1       map[string][]string              `json:"groupsSide1,omitempty"`
	GroupsSide2       map[string][]string              `json:"groupsSide2,omitempty"`
	SourceIdentifiers []string                         `json:"sourceIdentifiers,omitempty"`
	Values            map[string]map[string][]*float64 `json:"values,omitempty"`
}

// Document is the composite per-project record.
type Document struct {
	Info       Info               `json:"info"`
	Axes       []Axis             `json:"axes"`
	Sources    map[string]Source  `json:"sources"`
	Kerning    map[string]Kerning `json:"kerning"`
	Features   string             `json:"features"`
	CustomData map[string]any     `json:"customData"`
}

// DefaultInfo returns the info block used for a project without an initial
// document: the project id becomes the family name.
func DefaultInfo(projectID string) Info {
	return Info{
		FamilyName: projectID,
		UnitsPerEm: DefaultUnitsPerEm,
		Ascender:   DefaultAscender,
		Descender:  DefaultDescender,
	}
}

// DefaultDocument returns the document stored by CreateProject when the
// caller does not supply one.
func DefaultDocument(projectID string) Document {
	return Document{
		Info:       DefaultInfo(projectID),
		Axes:       []Axis{},
		Sources:    map[string]Source{},
		Kerning:    map[string]Kerning{},
		Features:   "",
		CustomData: map[string]any{},
	}
}

// Normalize replaces nil collections with empty ones so that an encoded
// document never contains JSON nulls for its collection fields.
func (d *Document) Normalize() {
	if d.Axes == nil {
		d.Axes = []Axis{}
	}
	if d.Sources == nil {
		d.Sources = map[string]Source{}
	}
	if d.Kerning == nil {
		d.Kerning = map[string]Kerning{}
	}
	if d.CustomData == nil {
		d.CustomData = map[string]any{}
	}
}

// Glyph is one stored glyph record. Data is opaque to the store.
type Glyph struct {
	Name       string          `json:"name"`
	Data       json.RawMessage `json:"data"`
	CodePoints []int           `json:"codePoints,omitempty"`
	ModifiedAt time.Time       `json:"modifiedAt"`
}

// GlyphMap maps glyph names to their code points.
type GlyphMap map[string][]int

// BackgroundImage is an image payload attached to a project.
type BackgroundImage struct {
	ID          string    `json:"id"`
	ContentType string    `json:"contentType,omitempty"`
	Data        []byte    `json:"data"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// Project is the directory entry for a font project.
type Project struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}
