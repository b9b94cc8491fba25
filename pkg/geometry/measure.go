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
	"fmt"
	"math"

	"github.com/kraklabs/fontstore/pkg/font"
)

// Stats summarizes the structure of a path.
type Stats struct {
	TotalContours  int  `json:"totalContours"`
	ClosedContours int  `json:"closedContours"`
	OpenContours   int  `json:"openContours"`
	TotalPoints    int  `json:"totalPoints"`
	IsEmpty        bool `json:"isEmpty"`
}

// Bounds returns the bounding box of p, or nil when p has no points.
func Bounds(p font.Path) *font.Bounds {
	return p.Bounds()
}

// Translate returns p moved by (dx, dy).
func Translate(p font.Path, dx, dy float64) font.Path {
	return p.Transform(func(pt font.Point) font.Point {
		pt.X += dx
		pt.Y += dy
		return pt
	})
}

// Scale returns p scaled by (sx, sy) around the origin.
func Scale(p font.Path, sx, sy float64) font.Path {
	return p.Transform(func(pt font.Point) font.Point {
		pt.X *= sx
		pt.Y *= sy
		return pt
	})
}

// Validation is the result of Validate.
type Validation struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
	Stats    Stats    `json:"stats"`
}

// Validate checks that every coordinate of p is finite and every point type
// is empty, "cubic" or "quad", and summarizes the structure of p.
func Validate(p font.Path) Validation {
	v := Validation{
		Stats: Stats{
			TotalContours: len(p.Contours),
			TotalPoints:   p.PointCount(),
			IsEmpty:       p.IsEmpty(),
		},
	}
	for ci, c := range p.Contours {
		if c.IsClosed {
			v.Stats.ClosedContours++
		}
		for pi, pt := range c.Points {
			if math.IsNaN(pt.X) || math.IsInf(pt.X, 0) || math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
				v.Problems = append(v.Problems, fmt.Sprintf("contour %d point %d: coordinate is not finite", ci, pi))
			}
			switch pt.Type {
			case "", "cubic", "quad":
			default:
				v.Problems = append(v.Problems, fmt.Sprintf("contour %d point %d: unknown point type %q", ci, pi, pt.Type))
			}
		}
	}
	v.Stats.OpenContours = v.Stats.TotalContours - v.Stats.ClosedContours
	v.Valid = len(v.Problems) == 0
	return v
}
