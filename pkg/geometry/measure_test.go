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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/fontstore/pkg/font"
)

func TestBounds(t *testing.T) {
	assert.Nil(t, Bounds(font.Path{}))
	assert.Nil(t, Bounds(font.Path{Contours: []font.Contour{{}}}))

	b := Bounds(square(-10, 20, 50))
	require.NotNil(t, b)
	assert.Equal(t, font.Bounds{XMin: -10, YMin: 20, XMax: 40, YMax: 70, Width: 50, Height: 50}, *b)
}

func TestTranslateAndScale(t *testing.T) {
	p := square(0, 0, 10)
	p.Contours[0].Points[0].Type = "cubic"
	p.Contours[0].Points[0].Smooth = true

	moved := Translate(p, 5, -5)
	assert.Equal(t, font.Point{X: 5, Y: -5, Type: "cubic", Smooth: true}, moved.Contours[0].Points[0])
	assert.Equal(t, font.Point{X: 15, Y: 5}, moved.Contours[0].Points[2])
	assert.True(t, moved.Contours[0].IsClosed)

	scaled := Scale(p, 2, 3)
	assert.Equal(t, font.Point{X: 20, Y: 30}, scaled.Contours[0].Points[2])

	// Input untouched.
	assert.Equal(t, 10.0, p.Contours[0].Points[2].X)
}

func TestValidate(t *testing.T) {
	p := square(0, 0, 1)
	p.Contours = append(p.Contours, font.Contour{Points: []font.Point{{X: 1, Type: "quad"}, {X: 2}}})

	assert.Equal(t, Validation{
		Valid: true,
		Stats: Stats{
			TotalContours:  2,
			ClosedContours: 1,
			OpenContours:   1,
			TotalPoints:    6,
			IsEmpty:        false,
		},
	}, Validate(p))

	assert.Equal(t, Validation{Valid: true, Stats: Stats{IsEmpty: true}}, Validate(font.Path{}))
}

func TestValidate_Problems(t *testing.T) {
	p := font.Path{Contours: []font.Contour{{Points: []font.Point{
		{X: math.NaN()},
		{X: 1, Y: math.Inf(-1)},
		{X: 2, Type: "spline"},
	}}}}

	v := Validate(p)
	assert.False(t, v.Valid)
	require.Len(t, v.Problems, 3)
	assert.Contains(t, v.Problems[0], "contour 0 point 0")
	assert.Contains(t, v.Problems[2], `"spline"`)
	assert.Equal(t, 3, v.Stats.TotalPoints)
}
