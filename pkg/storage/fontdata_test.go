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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/fontstore/pkg/font"
)

func TestUpdateDocument_ReadModifyWrite(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)

	v := 25.0
	err = store.UpdateDocument(ctx, "demo", func(d *font.Document) error {
		d.Axes = append(d.Axes, font.Axis{Name: "Weight", Tag: "wght", MinValue: 100, DefaultValue: 400, MaxValue: 900})
		d.Kerning["default"] = font.Kerning{
			GroupsSide1: map[string][]string{},
			GroupsSide2: map[string][]string{},
			Values:      map[string]map[string][]*float64{"A": {"V": {&v}}},
		}
		d.CustomData["com.example.note"] = "hello"
		d.Features = "feature liga { sub f i by f_i; } liga;"
		return nil
	})
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, doc.Axes, 1)
	assert.Equal(t, "wght", doc.Axes[0].Tag)
	assert.Equal(t, "hello", doc.CustomData["com.example.note"])
	assert.Contains(t, doc.Features, "liga")
	require.Contains(t, doc.Kerning, "default")
	require.NotNil(t, doc.Kerning["default"].Values["A"]["V"][0])
	assert.Equal(t, 25.0, *doc.Kerning["default"].Values["A"]["V"][0])

	// Untouched parts survive.
	assert.Equal(t, "demo", doc.Info.FamilyName)
}

func TestUpdateDocument_MissingProject(t *testing.T) {
	store := setupTestStore(t)

	called := false
	err := store.UpdateDocument(context.Background(), "ghost", func(d *font.Document) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
}

func TestUpdateDocument_CallbackErrorAborts(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.UpdateDocument(ctx, "demo", func(d *font.Document) error {
		d.Info.FamilyName = "Half written"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrTransactionAborted)

	doc, err := store.GetDocument(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.Info.FamilyName)
}

func TestGetDocument_Absent(t *testing.T) {
	store := setupTestStore(t)

	doc, err := store.GetDocument(context.Background(), "ghost")
	require.NoError(t, err)
	assert.NotNil(t, doc.Axes)
	assert.NotNil(t, doc.Sources)
	assert.NotNil(t, doc.Kerning)
	assert.NotNil(t, doc.CustomData)
	assert.Empty(t, doc.Features)
}
