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
	"encoding/json"
	"strings"

	"github.com/kraklabs/fontstore/pkg/font"
)

// StubVersion is reported by Stub.Info.
const StubVersion = "1.0.0-simple"

// Stub is the placeholder Processor. Its boolean operations are not
// geometrically correct; they return inputs unchanged or concatenated.
// Results are always fresh copies, never aliases of the inputs.
type Stub struct{}

// NewStub returns the placeholder processor.
func NewStub() *Stub {
	return &Stub{}
}

var _ Processor = (*Stub)(nil)

// Info implements Processor.
func (s *Stub) Info() Info {
	return Info{
		Version:   StubVersion,
		Mode:      "simple",
		Available: true,
		Capabilities: []string{
			CapUnion, CapSubtract, CapIntersect, CapExclude, CapClipboard,
			CapBounds, CapTranslate, CapScale, CapValidate,
		},
	}
}

// ParseClipboard accepts a JSON static glyph ({"xAdvance":..,"path":..}) or
// a bare JSON path ({"contours":[..]}). Anything else yields nil.
func (s *Stub) ParseClipboard(ctx context.Context, text string) (*font.StaticGlyph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" || text[0] != '{' {
		return nil, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, nil
	}

	if _, ok := probe["path"]; ok {
		var g font.StaticGlyph
		if err := json.Unmarshal([]byte(text), &g); err != nil {
			return nil, nil
		}
		return &g, nil
	}
	if _, ok := probe["contours"]; ok {
		var p font.Path
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return nil, nil
		}
		return &font.StaticGlyph{Path: p}, nil
	}
	return nil, nil
}

// Union returns a copy of p.
func (s *Stub) Union(ctx context.Context, p font.Path) (font.Path, error) {
	if err := ctx.Err(); err != nil {
		return font.Path{}, err
	}
	return p.Clone(), nil
}

// Subtract returns a copy of a.
func (s *Stub) Subtract(ctx context.Context, a, b font.Path) (font.Path, error) {
	if err := ctx.Err(); err != nil {
		return font.Path{}, err
	}
	return a.Clone(), nil
}

// Intersect returns a copy of a.
func (s *Stub) Intersect(ctx context.Context, a, b font.Path) (font.Path, error) {
	if err := ctx.Err(); err != nil {
		return font.Path{}, err
	}
	return a.Clone(), nil
}

// Exclude returns the contours of a followed by those of b.
func (s *Stub) Exclude(ctx context.Context, a, b font.Path) (font.Path, error) {
	if err := ctx.Err(); err != nil {
		return font.Path{}, err
	}
	out := a.Clone()
	out.Contours = append(out.Contours, b.Clone().Contours...)
	return out, nil
}
