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

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listResult struct {
	Projects []string `json:"projects"`
	Count    int      `json:"count"`
}

func TestJSONTo_Indented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONTo(&buf, listResult{Projects: []string{"sans"}, Count: 1}))

	assert.Equal(t, "{\n  \"projects\": [\n    \"sans\"\n  ],\n  \"count\": 1\n}\n", buf.String())
}

func TestJSONCompactTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONCompactTo(&buf, listResult{Projects: []string{}, Count: 0}))

	assert.Equal(t, `{"projects":[],"count":0}`+"\n", buf.String())
}

func TestJSONTo_Unencodable(t *testing.T) {
	var buf bytes.Buffer
	err := JSONTo(&buf, map[string]any{"ch": make(chan int)})
	assert.ErrorContains(t, err, "JSON encoding failed")
}

func TestEmit(t *testing.T) {
	t.Run("json mode", func(t *testing.T) {
		var buf bytes.Buffer
		called := false
		require.NoError(t, Emit(&buf, true, listResult{Count: 2}, func() { called = true }))

		assert.False(t, called)
		var got listResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, 2, got.Count)
	})

	t.Run("text mode", func(t *testing.T) {
		var buf bytes.Buffer
		called := false
		require.NoError(t, Emit(&buf, false, listResult{}, func() { called = true }))

		assert.True(t, called)
		assert.Zero(t, buf.Len())
	})
}
