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

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/fontstore/internal/errors"
	"github.com/kraklabs/fontstore/internal/ui"
	"github.com/kraklabs/fontstore/pkg/backend"
)

// GlyphEntry is one row of the glyphs output.
type GlyphEntry struct {
	Name       string `json:"name"`
	CodePoints []int  `json:"code_points"`
}

// GlyphsResult is the --json output of glyphs.
type GlyphsResult struct {
	ProjectID string       `json:"project_id"`
	Glyphs    []GlyphEntry `json:"glyphs"`
	Count     int          `json:"count"`
}

func runGlyphs(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("glyphs", `Usage: fontstore glyphs <id> [options]

Lists the glyphs of a project with their code points.
`)
	mappedOnly := fs.Bool("mapped", false, "Only list glyphs that have code points")
	pos, err := a.parse(fs, args, "id")
	if err != nil {
		return helpOrErr(err)
	}
	id := pos[0]

	return a.withBackend(ctx, func(b backend.Backend) error {
		if err := requireProject(ctx, b, id); err != nil {
			return err
		}
		h, err := b.OpenFontHandle(ctx, id)
		if err != nil {
			return errors.FromBackend("open project", err)
		}
		names, err := h.ListGlyphNames(ctx)
		if err != nil {
			return errors.FromBackend("list glyphs", err)
		}
		gm, err := h.GetGlyphMap(ctx)
		if err != nil {
			return errors.FromBackend("read glyph map", err)
		}

		result := GlyphsResult{ProjectID: id, Glyphs: []GlyphEntry{}}
		for _, name := range names {
			cps := gm[name]
			if *mappedOnly && len(cps) == 0 {
				continue
			}
			if cps == nil {
				cps = []int{}
			}
			result.Glyphs = append(result.Glyphs, GlyphEntry{Name: name, CodePoints: cps})
		}
		result.Count = len(result.Glyphs)

		return a.emit(result, func(p *ui.Printer) {
			if result.Count == 0 {
				p.Infof("No glyphs in %s", id)
				return
			}
			rows := make([][]string, 0, result.Count)
			for _, g := range result.Glyphs {
				rows = append(rows, []string{g.Name, formatCodePoints(g.CodePoints)})
			}
			p.Table([]string{"GLYPH", "CODE POINTS"}, rows)
		})
	})
}

// formatCodePoints renders code points as "U+0041 U+0061", or "-".
func formatCodePoints(cps []int) string {
	if len(cps) == 0 {
		return "-"
	}
	parts := make([]string, len(cps))
	for i, cp := range cps {
		parts[i] = fmt.Sprintf("U+%04X", cp)
	}
	return strings.Join(parts, " ")
}
