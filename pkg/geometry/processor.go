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

package geometry

import (
	"context"

	"github.com/kraklabs/fontstore/pkg/font"
)

// Capability names reported by Info.
const (
	CapUnion     = "path_union"
	CapSubtract  = "path_subtract"
	CapIntersect = "path_intersect"
	CapExclude   = "path_exclude"
	CapClipboard = "parse_clipboard"
	CapBounds    = "path_bounds"
	CapTranslate = "path_translate"
	CapScale     = "path_scale"
	CapValidate  = "path_validate"
)

// Processor combines paths and parses pasted glyph data.
type Processor interface {
	// Info describes the implementation.
	Info() Info

	// ParseClipboard interprets pasted text as glyph data. Text that is not
	// glyph data yields nil and no error.
	ParseClipboard(ctx context.Context, text string) (*font.StaticGlyph, error)

	// Union merges the overlapping contours of p.
	Union(ctx context.Context, p font.Path) (font.Path, error)

	// Subtract removes b from a.
	Subtract(ctx context.Context, a, b font.Path) (font.Path, error)

	// Intersect keeps the area covered by both a and b.
	Intersect(ctx context.Context, a, b font.Path) (font.Path, error)

	// Exclude keeps the area covered by exactly one of a and b.
	Exclude(ctx context.Context, a, b font.Path) (font.Path, error)
}

// Info describes a Processor.
type Info struct {
	Version      string   `json:"version"`
	Mode         string   `json:"mode"`
	Available    bool     `json:"available"`
	Capabilities []string `json:"capabilities"`
}

// Has reports whether the processor lists capability name.
func (i Info) Has(name string) bool {
	for _, c := range i.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}
