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

package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/fontstore/pkg/storage"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    Mode
		wantErr bool
	}{
		{name: "auto without origin", opts: Options{}, want: ModeLocal},
		{name: "auto with origin", opts: Options{RemoteURL: "http://fonts.example"}, want: ModeRemote},
		{name: "standalone wins over origin", opts: Options{Standalone: true, RemoteURL: "http://fonts.example"}, want: ModeLocal},
		{name: "explicit local", opts: Options{Mode: ModeLocal, RemoteURL: "http://fonts.example"}, want: ModeLocal},
		{name: "explicit remote", opts: Options{Mode: ModeRemote, RemoteURL: "http://fonts.example"}, want: ModeRemote},
		{name: "remote without origin", opts: Options{Mode: ModeRemote}, wantErr: true},
		{name: "unknown mode", opts: Options{Mode: "cloud"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveMode(tt.opts)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Pure: same input, same answer.
			again, err := ResolveMode(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, m)

	m, err = ParseMode("remote")
	require.NoError(t, err)
	assert.Equal(t, ModeRemote, m)

	_, err = ParseMode("sqlite")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSelect_Local(t *testing.T) {
	b, err := Select(context.Background(), Options{
		Storage: storage.Config{DataDir: t.TempDir()},
	})
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	assert.Equal(t, ModeLocal, b.Mode())
	_, ok := b.(*Local)
	assert.True(t, ok)
}

func TestSelect_Remote(t *testing.T) {
	b, err := Select(context.Background(), Options{RemoteURL: "https://fonts.example/"})
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	r, ok := b.(*Remote)
	require.True(t, ok)
	assert.Equal(t, "https://fonts.example", r.BaseURL)
	assert.Equal(t, DefaultRemoteTimeout, r.HTTPClient.Timeout)
}

func TestSelect_InvalidRemoteURL(t *testing.T) {
	_, err := Select(context.Background(), Options{Mode: ModeRemote, RemoteURL: "fonts.example"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSelect_StorageUnavailableShortCircuits(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	b, err := Select(context.Background(), Options{
		Storage: storage.Config{DataDir: filepath.Join(blocker, "data")},
	})
	assert.Nil(t, b)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
