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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/fontstore/pkg/font"
)

func square(x, y, size float64) font.Path {
	return font.Path{Contours: []font.Contour{{
		IsClosed: true,
		Points: []font.Point{
			{X: x, Y: y},
			{X: x + size, Y: y},
			{X: x + size, Y: y + size},
			{X: x, Y: y + size},
		},
	}}}
}

func TestStub_Info(t *testing.T) {
	info := NewStub().Info()

	assert.Equal(t, StubVersion, info.Version)
	assert.True(t, info.Available)
	assert.True(t, info.Has(CapUnion))
	assert.True(t, info.Has(CapClipboard))
	assert.False(t, info.Has("path_offset"))
}

func TestStub_BooleanOperations(t *testing.T) {
	ctx := context.Background()
	s := NewStub()
	a := square(0, 0, 100)
	b := square(50, 50, 100)

	union, err := s.Union(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a, union)

	sub, err := s.Subtract(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, a, sub)

	inter, err := s.Intersect(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, a, inter)

	excl, err := s.Exclude(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, excl.Contours, 2)
	assert.Equal(t, a.Contours[0], excl.Contours[0])
	assert.Equal(t, b.Contours[0], excl.Contours[1])
}

func TestStub_ResultsDoNotAliasInputs(t *testing.T) {
	ctx := context.Background()
	a := square(0, 0, 10)

	out, err := NewStub().Union(ctx, a)
	require.NoError(t, err)
	out.Contours[0].Points[0].X = 999

	assert.Equal(t, 0.0, a.Contours[0].Points[0].X)
}

func TestStub_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStub().Exclude(ctx, square(0, 0, 1), square(1, 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStub_ParseClipboard(t *testing.T) {
	ctx := context.Background()
	s := NewStub()

	tests := []struct {
		name     string
		text     string
		wantNil  bool
		advance  float64
		contours int
	}{
		{name: "empty", text: "", wantNil: true},
		{name: "plain text", text: "hello world", wantNil: true},
		{name: "broken json", text: "{\"path\": ", wantNil: true},
		{name: "unrelated json", text: `{"foo": 1}`, wantNil: true},
		{
			name:     "static glyph",
			text:     `{"xAdvance": 500, "path": {"contours": [{"points": [{"x": 0, "y": 0}], "isClosed": true}]}}`,
			advance:  500,
			contours: 1,
		},
		{
			name:     "bare path",
			text:     `  {"contours": [{"points": [], "isClosed": false}, {"points": [], "isClosed": true}]}`,
			contours: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := s.ParseClipboard(ctx, tt.text)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, g)
				return
			}
			require.NotNil(t, g)
			assert.Equal(t, tt.advance, g.XAdvance)
			assert.Len(t, g.Path.Contours, tt.contours)
		})
	}
}
