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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"kind in body", http.StatusConflict, `{"error":"project \"x\" exists","kind":"AlreadyExists"}`, ErrAlreadyExists},
		{"status only", http.StatusNotFound, `not here`, ErrNotFound},
		{"bad request", http.StatusBadRequest, `{"error":"bad"}`, ErrInvalidInput},
		{"unavailable", http.StatusServiceUnavailable, ``, ErrStorageUnavailable},
		{"aborted", http.StatusInternalServerError, `{"error":"x","kind":"TransactionAborted"}`, ErrTransactionAborted},
		{"other", http.StatusBadGateway, `upstream`, ErrRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRemote(srv.URL, 0, nil).ListProjects(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRemote_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemote(url, 0, nil).ListProjects(context.Background())
	assert.ErrorIs(t, err, ErrRemote)
}

func TestRemote_RequestShape(t *testing.T) {
	var gotMethod, gotPath, gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotCT = r.Method, r.URL.EscapedPath(), r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h, err := NewRemote(srv.URL, 0, nil).OpenFontHandle(context.Background(), "my font")
	require.NoError(t, err)
	require.NoError(t, h.PutGlyph(context.Background(), "a.sc", []byte(`{}`), []int{97}))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v1/projects/my%20font/glyphs/a.sc", gotPath)
	assert.Equal(t, "application/json", gotCT)
}

func TestRemote_OpenFontHandleSendsNothing(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	h, err := NewRemote(srv.URL, 0, nil).OpenFontHandle(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", h.ProjectID())
	assert.Zero(t, calls)
}
