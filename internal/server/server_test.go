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

package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/fontstore/pkg/backend"
	"github.com/kraklabs/fontstore/pkg/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	b := backend.NewLocal(storage.NewSupervisor(storage.Config{Engine: storage.EngineMemory}), nil, nil)
	t.Cleanup(func() { _ = b.Close() })
	return New(b, opts)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{Version: "1.2.3"})

	rr := doRequest(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "local", resp.Mode)
	assert.Equal(t, "up", resp.Storage)
}

func TestAccessLogAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	s := newTestServer(t, Options{Logger: logger})

	doRequest(t, s, http.MethodGet, "/v1/projects", "")

	out := buf.String()
	assert.Contains(t, out, `"msg":"server.request"`)
	assert.Contains(t, out, `"path":"/v1/projects"`)
	assert.Contains(t, out, `"status":200`)

	buf.Reset()
	quiet := newTestServer(t, Options{Logger: slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))})
	doRequest(t, quiet, http.MethodGet, "/health", "")
	assert.Empty(t, buf.String())
}

func TestMetricsEndpoint(t *testing.T) {
	withMetrics := newTestServer(t, Options{Metrics: true})
	doRequest(t, withMetrics, http.MethodGet, "/v1/projects", "")

	rr := doRequest(t, withMetrics, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "fontstore_storage_operations_total")

	without := newTestServer(t, Options{})
	rr = doRequest(t, without, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestServer(t, Options{})

	rr := doRequest(t, s, http.MethodPost, "/v1/projects", `{"id":"demo"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":"demo"}`, rr.Body.String())

	rr = doRequest(t, s, http.MethodPost, "/v1/projects", `{"id":"demo"}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	var eb backend.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &eb))
	assert.Equal(t, "AlreadyExists", eb.Kind)

	rr = doRequest(t, s, http.MethodGet, "/v1/projects", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"projects":["demo"]}`, rr.Body.String())

	rr = doRequest(t, s, http.MethodPut, "/v1/projects/demo/glyphs/A", `{"data":{"xAdvance":500},"codePoints":[65]}`)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, s, http.MethodGet, "/v1/projects/demo/glyph-map", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"A":[65]}`, rr.Body.String())

	rr = doRequest(t, s, http.MethodDelete, "/v1/projects/demo", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, s, http.MethodGet, "/v1/projects/demo/glyphs/A", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}

func TestPutToMissingProject(t *testing.T) {
	s := newTestServer(t, Options{})

	rr := doRequest(t, s, http.MethodPut, "/v1/projects/ghost/axes", `[]`)
	require.Equal(t, http.StatusNotFound, rr.Code)

	var eb backend.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &eb))
	assert.Equal(t, "NotFound", eb.Kind)
	assert.Contains(t, eb.Error, "ghost")
}

func TestInvalidBody(t *testing.T) {
	s := newTestServer(t, Options{})

	rr := doRequest(t, s, http.MethodPost, "/v1/projects", `{"id":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var eb backend.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &eb))
	assert.Equal(t, "InvalidInput", eb.Kind)
}

func TestGeometryRequiresSecondOperand(t *testing.T) {
	s := newTestServer(t, Options{})

	rr := doRequest(t, s, http.MethodPost, "/v1/geometry/subtract", `{"a":{"contours":[]}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, s, http.MethodPost, "/v1/geometry/union", `{"a":{"contours":[]}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"contours":[]}`, rr.Body.String())
}

func TestGeometryMeasurements(t *testing.T) {
	s := newTestServer(t, Options{})
	square := `{"contours":[{"isClosed":true,"points":[{"x":0,"y":0},{"x":4,"y":0},{"x":4,"y":4},{"x":0,"y":4}]}]}`

	rr := doRequest(t, s, http.MethodPost, "/v1/geometry/bounds", `{"a":`+square+`}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"xMin":0,"yMin":0,"xMax":4,"yMax":4,"width":4,"height":4}`, rr.Body.String())

	rr = doRequest(t, s, http.MethodPost, "/v1/geometry/bounds", `{"a":{"contours":[]}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", rr.Body.String())

	rr = doRequest(t, s, http.MethodPost, "/v1/geometry/scale", `{"a":`+square+`,"x":2,"y":3}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `{"x":8,"y":12}`)

	rr = doRequest(t, s, http.MethodPost, "/v1/geometry/validate", `{"a":{"contours":[{"isClosed":false,"points":[{"x":0,"y":0,"type":"spline"}]}]}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var v struct {
		Valid    bool     `json:"valid"`
		Problems []string `json:"problems"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	assert.False(t, v.Valid)
	assert.Len(t, v.Problems, 1)

	rr = doRequest(t, s, http.MethodPost, "/v1/geometry/translate", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, Options{})

	rr := doRequest(t, s, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Options{CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
