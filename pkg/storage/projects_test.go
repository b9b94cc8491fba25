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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/fontstore/internal/contract"
	"github.com/kraklabs/fontstore/pkg/font"
)

func countRows(t *testing.T, s *Store, collection, id string) int {
	t.Helper()
	column := "project_id"
	if collection == CollectionProjects {
		column = "id"
	}
	var n int
	err := s.DB().QueryRow(`SELECT count(*) FROM `+quoteIdent(collection)+` WHERE `+column+` = ?`, id).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestCreateProject_DefaultDocument(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	id, err := store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)
	assert.Equal(t, "demo", id)

	doc, err := store.GetDocument(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, font.DefaultDocument("demo"), doc)
	assert.Equal(t, font.DefaultUnitsPerEm, doc.Info.UnitsPerEm)
	assert.Equal(t, "demo", doc.Info.FamilyName)
}

func TestCreateProject_ExplicitDocument(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	in := font.Document{
		Info: font.Info{FamilyName: "Serif", UnitsPerEm: 2048, Ascender: 1600, Descender: -448},
		Axes: []font.Axis{{Name: "Weight", Tag: "wght", MinValue: 100, DefaultValue: 400, MaxValue: 900}},
		Sources: map[string]font.Source{
			"regular": {Name: "Regular", Location: map[string]float64{"Weight": 400}},
		},
		Features: "languagesystem DFLT dflt;",
	}
	_, err := store.CreateProject(ctx, "serif", &in)
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, "serif")
	require.NoError(t, err)
	assert.Equal(t, in.Info, doc.Info)
	assert.Equal(t, in.Axes, doc.Axes)
	assert.Equal(t, in.Sources, doc.Sources)
	assert.Equal(t, in.Features, doc.Features)
	assert.NotNil(t, doc.Kerning)
	assert.NotNil(t, doc.CustomData)
}

func TestCreateProject_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)
	require.NoError(t, store.UpdateDocument(ctx, "demo", func(d *font.Document) error {
		d.Info.FamilyName = "Changed"
		return nil
	}))

	_, err = store.CreateProject(ctx, "demo", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// The first project's document is untouched.
	doc, err := store.GetDocument(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "Changed", doc.Info.FamilyName)

	ids, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, ids)
}

func TestCreateProject_ConcurrentSameID(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.CreateProject(ctx, "race", nil)
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyExists):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestCreateProject_InvalidID(t *testing.T) {
	store := setupTestStore(t)

	for _, id := range []string{"", "a/b", "bad\x00id"} {
		_, err := store.CreateProject(context.Background(), id, nil)
		assert.ErrorIs(t, err, contract.ErrInvalidInput, "id %q", id)
	}
}

func TestListProjects_Sorted(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	ids, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	for _, id := range []string{"zeta", "alpha", "mu"} {
		_, err := store.CreateProject(ctx, id, nil)
		require.NoError(t, err)
	}

	ids, err = store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, ids)
}

func TestGetProject(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	fixed := time.UnixMilli(1_700_000_000_000)
	store.now = func() time.Time { return fixed }

	p, err := store.GetProject(ctx, "demo")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)

	p, err = store.GetProject(ctx, "demo")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "demo", p.ID)
	assert.True(t, p.CreatedAt.Equal(fixed))
	assert.True(t, p.ModifiedAt.Equal(fixed))
}

func TestChildWriteTouchesProject(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	t0 := time.UnixMilli(1_700_000_000_000)
	store.now = func() time.Time { return t0 }
	_, err := store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)

	t1 := t0.Add(time.Minute)
	store.now = func() time.Time { return t1 }
	require.NoError(t, store.PutGlyph(ctx, "demo", "A", []byte(`{}`), []int{0x41}))

	p, err := store.GetProject(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(t0))
	assert.True(t, p.ModifiedAt.Equal(t1))
}

func TestDeleteProject_Cascade(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	for _, id := range []string{"doomed", "kept"} {
		_, err := store.CreateProject(ctx, id, nil)
		require.NoError(t, err)
		require.NoError(t, store.PutGlyph(ctx, id, "A", []byte(`{}`), []int{0x41}))
		require.NoError(t, store.PutGlyph(ctx, id, "B", []byte(`{}`), nil))
		_, err = store.PutBackgroundImage(ctx, id, font.BackgroundImage{Data: []byte{1, 2, 3}})
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteProject(ctx, "doomed"))

	for _, coll := range append([]string{CollectionProjects}, ChildCollections()...) {
		assert.Zero(t, countRows(t, store, coll, "doomed"), "collection %s still references deleted project", coll)
	}
	assert.Equal(t, 2, countRows(t, store, CollectionGlyphs, "kept"))
	assert.Equal(t, 1, countRows(t, store, CollectionBackgroundImages, "kept"))

	ids, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids)

	// Reads of the deleted project see absent records.
	g, err := store.GetGlyph(ctx, "doomed", "A")
	require.NoError(t, err)
	assert.Nil(t, g)
	doc, err := store.GetDocument(ctx, "doomed")
	require.NoError(t, err)
	assert.Empty(t, doc.Info.FamilyName)
}

func TestDeleteProject_Unknown(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.DeleteProject(context.Background(), "never-existed"))
}

func TestDeleteThenRecreate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)
	require.NoError(t, store.PutGlyph(ctx, "demo", "A", []byte(`{}`), []int{0x41}))
	require.NoError(t, store.DeleteProject(ctx, "demo"))

	_, err = store.CreateProject(ctx, "demo", nil)
	require.NoError(t, err)

	names, err := store.ListGlyphNames(ctx, "demo")
	require.NoError(t, err)
	assert.Empty(t, names, "recreated project starts empty")
}
