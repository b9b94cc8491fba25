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

import "math"

// Point is an on- or off-curve point of a contour.
type Point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Type   string  `json:"type,omitempty"`
	Smooth bool    `json:"smooth,omitempty"`
}

// Contour is a sequence of points, optionally closed.
type Contour struct {
	Points   []Point `json:"points"`
	IsClosed bool    `json:"isClosed"`
}

// Path is an outline made of contours.
type Path struct {
	Contours []Contour `json:"contours"`
}

// StaticGlyph is a single-location glyph outline, the unit exchanged through
// the clipboard.
type StaticGlyph struct {
	XAdvance float64 `json:"xAdvance"`
	Path     Path    `json:"path"`
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	XMin   float64 `json:"xMin"`
	YMin   float64 `json:"yMin"`
	XMax   float64 `json:"xMax"`
	YMax   float64 `json:"yMax"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsEmpty reports whether the path has no points at all.
func (p Path) IsEmpty() bool {
	for _, c := range p.Contours {
		if len(c.Points) > 0 {
			return false
		}
	}
	return true
}

// PointCount returns the total number of points over all contours.
func (p Path) PointCount() int {
	n := 0
	for _, c := range p.Contours {
		n += len(c.Points)
	}
	return n
}

// Bounds returns the bounding box of all points, or nil for an empty path.
func (p Path) Bounds() *Bounds {
	if p.IsEmpty() {
		return nil
	}
	xMin, yMin := math.Inf(1), math.Inf(1)
	xMax, yMax := math.Inf(-1), math.Inf(-1)
	for _, c := range p.Contours {
		for _, pt := range c.Points {
			xMin = math.Min(xMin, pt.X)
			yMin = math.Min(yMin, pt.Y)
			xMax = math.Max(xMax, pt.X)
			yMax = math.Max(yMax, pt.Y)
		}
	}
	return &Bounds{
		XMin:   xMin,
		YMin:   yMin,
		XMax:   xMax,
		YMax:   yMax,
		Width:  xMax - xMin,
		Height: yMax - yMin,
	}
}

// Transform returns a copy of the path with fn applied to every point.
func (p Path) Transform(fn func(Point) Point) Path {
	out := Path{Contours: make([]Contour, len(p.Contours))}
	for i, c := range p.Contours {
		pts := make([]Point, len(c.Points))
		for j, pt := range c.Points {
			pts[j] = fn(pt)
		}
		out.Contours[i] = Contour{Points: pts, IsClosed: c.IsClosed}
	}
	return out
}

// Clone returns a deep copy of the path.
func (p Path) Clone() Path {
	return p.Transform(func(pt Point) Point { return pt })
}
