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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kraklabs/fontstore/pkg/font"
	"github.com/kraklabs/fontstore/pkg/geometry"
)

// DefaultRemoteTimeout bounds a single request to the remote service.
const DefaultRemoteTimeout = 30 * time.Second

// Remote is the Backend that forwards every call to a fontstore server as
// one JSON request/response exchange.
type Remote struct {
	BaseURL    string
	HTTPClient *http.Client

	logger *slog.Logger
}

// NewRemote creates a remote backend for the server at baseURL.
func NewRemote(baseURL string, timeout time.Duration, logger *slog.Logger) *Remote {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

var _ Backend = (*Remote)(nil)

// Mode implements Backend.
func (r *Remote) Mode() Mode { return ModeRemote }

// do sends one request. in, if non-nil, is sent as the JSON body; out, if
// non-nil, receives the decoded response body.
func (r *Remote) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		remoteMetrics.observe(method, 0, start)
		r.logger.Debug("backend.remote.request.failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %s %s: %w", ErrRemote, method, path, err)
	}
	defer resp.Body.Close()
	remoteMetrics.observe(method, resp.StatusCode, start)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrRemote, err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: parse response: %w", ErrRemote, err)
	}
	return nil
}

func decodeError(code int, data []byte) error {
	var eb ErrorBody
	if err := json.Unmarshal(data, &eb); err != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(string(data))
		if eb.Error == "" {
			eb.Error = http.StatusText(code)
		}
	}
	sentinel := kindError(eb.Kind)
	if sentinel == nil {
		sentinel = statusError(code)
	}
	return fmt.Errorf("%w: %s (status %d)", sentinel, eb.Error, code)
}

func projectPath(id string, parts ...string) string {
	p := "/v1/projects/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (r *Remote) ListProjects(ctx context.Context) ([]string, error) {
	var resp ProjectsResponse
	if err := r.do(ctx, http.MethodGet, "/v1/projects", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Projects == nil {
		resp.Projects = []string{}
	}
	return resp.Projects, nil
}

func (r *Remote) GetProject(ctx context.Context, id string) (*font.Project, error) {
	var p *font.Project
	if err := r.do(ctx, http.MethodGet, projectPath(id), nil, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Remote) CreateProject(ctx context.Context, id string, doc *font.Document) (string, error) {
	var resp IDResponse
	if err := r.do(ctx, http.MethodPost, "/v1/projects", CreateProjectRequest{ID: id, Document: doc}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (r *Remote) DeleteProject(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, projectPath(id), nil, nil)
}

// OpenFontHandle implements Backend. No request is sent.
func (r *Remote) OpenFontHandle(ctx context.Context, id string) (FontHandle, error) {
	return &remoteHandle{r: r, id: id}, nil
}

func (r *Remote) ParseClipboard(ctx context.Context, text string) (*font.StaticGlyph, error) {
	var g *font.StaticGlyph
	if err := r.do(ctx, http.MethodPost, "/v1/geometry/clipboard", ClipboardRequest{Text: text}, &g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *Remote) geometry(ctx context.Context, op string, a font.Path, b *font.Path) (font.Path, error) {
	var out font.Path
	if err := r.do(ctx, http.MethodPost, "/v1/geometry/"+op, GeometryRequest{A: a, B: b}, &out); err != nil {
		return font.Path{}, err
	}
	return out, nil
}

func (r *Remote) UnionPath(ctx context.Context, p font.Path) (font.Path, error) {
	return r.geometry(ctx, "union", p, nil)
}

func (r *Remote) SubtractPath(ctx context.Context, a, b font.Path) (font.Path, error) {
	return r.geometry(ctx, "subtract", a, &b)
}

func (r *Remote) IntersectPath(ctx context.Context, a, b font.Path) (font.Path, error) {
	return r.geometry(ctx, "intersect", a, &b)
}

func (r *Remote) ExcludePath(ctx context.Context, a, b font.Path) (font.Path, error) {
	return r.geometry(ctx, "exclude", a, &b)
}

func (r *Remote) PathBounds(ctx context.Context, p font.Path) (*font.Bounds, error) {
	var b *font.Bounds
	if err := r.do(ctx, http.MethodPost, "/v1/geometry/bounds", GeometryRequest{A: p}, &b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Remote) TranslatePath(ctx context.Context, p font.Path, dx, dy float64) (font.Path, error) {
	return r.transform(ctx, "translate", p, dx, dy)
}

func (r *Remote) ScalePath(ctx context.Context, p font.Path, sx, sy float64) (font.Path, error) {
	return r.transform(ctx, "scale", p, sx, sy)
}

func (r *Remote) transform(ctx context.Context, op string, p font.Path, x, y float64) (font.Path, error) {
	var out font.Path
	if err := r.do(ctx, http.MethodPost, "/v1/geometry/"+op, TransformRequest{A: p, X: x, Y: y}, &out); err != nil {
		return font.Path{}, err
	}
	return out, nil
}

func (r *Remote) ValidatePath(ctx context.Context, p font.Path) (geometry.Validation, error) {
	var v geometry.Validation
	if err := r.do(ctx, http.MethodPost, "/v1/geometry/validate", GeometryRequest{A: p}, &v); err != nil {
		return geometry.Validation{}, err
	}
	return v, nil
}

// Close releases idle connections.
func (r *Remote) Close() error {
	r.HTTPClient.CloseIdleConnections()
	return nil
}

// remoteHandle is a FontHandle whose calls are forwarded to the server.
// Read-modify-write of the document happens on the server.
type remoteHandle struct {
	r  *Remote
	id string
}

func (h *remoteHandle) ProjectID() string { return h.id }

func (h *remoteHandle) get(ctx context.Context, field string, out any) error {
	return h.r.do(ctx, http.MethodGet, projectPath(h.id, field), nil, out)
}

func (h *remoteHandle) put(ctx context.Context, field string, in any) error {
	return h.r.do(ctx, http.MethodPut, projectPath(h.id, field), in, nil)
}

func (h *remoteHandle) GetDocument(ctx context.Context) (font.Document, error) {
	var doc font.Document
	err := h.get(ctx, "document", &doc)
	doc.Normalize()
	return doc, err
}

func (h *remoteHandle) GetInfo(ctx context.Context) (font.Info, error) {
	var info font.Info
	err := h.get(ctx, "info", &info)
	return info, err
}

func (h *remoteHandle) PutInfo(ctx context.Context, info font.Info) error {
	return h.put(ctx, "info", info)
}

func (h *remoteHandle) GetAxes(ctx context.Context) ([]font.Axis, error) {
	axes := []font.Axis{}
	err := h.get(ctx, "axes", &axes)
	return axes, err
}

func (h *remoteHandle) PutAxes(ctx context.Context, axes []font.Axis) error {
	return h.put(ctx, "axes", axes)
}

func (h *remoteHandle) GetSources(ctx context.Context) (map[string]font.Source, error) {
	sources := map[string]font.Source{}
	err := h.get(ctx, "sources", &sources)
	return sources, err
}

func (h *remoteHandle) PutSources(ctx context.Context, sources map[string]font.Source) error {
	return h.put(ctx, "sources", sources)
}

func (h *remoteHandle) GetKerning(ctx context.Context) (map[string]font.Kerning, error) {
	kerning := map[string]font.Kerning{}
	err := h.get(ctx, "kerning", &kerning)
	return kerning, err
}

func (h *remoteHandle) PutKerning(ctx context.Context, kerning map[string]font.Kerning) error {
	return h.put(ctx, "kerning", kerning)
}

func (h *remoteHandle) GetFeatures(ctx context.Context) (string, error) {
	var body FeaturesBody
	err := h.get(ctx, "features", &body)
	return body.Text, err
}

func (h *remoteHandle) PutFeatures(ctx context.Context, text string) error {
	return h.put(ctx, "features", FeaturesBody{Text: text})
}

func (h *remoteHandle) GetCustomData(ctx context.Context) (map[string]any, error) {
	data := map[string]any{}
	err := h.get(ctx, "custom-data", &data)
	return data, err
}

func (h *remoteHandle) PutCustomData(ctx context.Context, data map[string]any) error {
	return h.put(ctx, "custom-data", data)
}

func (h *remoteHandle) GetGlyph(ctx context.Context, name string) (*font.Glyph, error) {
	var g *font.Glyph
	if err := h.r.do(ctx, http.MethodGet, projectPath(h.id, "glyphs", name), nil, &g); err != nil {
		return nil, err
	}
	return g, nil
}

func (h *remoteHandle) PutGlyph(ctx context.Context, name string, data json.RawMessage, codePoints []int) error {
	return h.r.do(ctx, http.MethodPut, projectPath(h.id, "glyphs", name),
		GlyphPutRequest{Data: data, CodePoints: codePoints}, nil)
}

func (h *remoteHandle) DeleteGlyph(ctx context.Context, name string) error {
	return h.r.do(ctx, http.MethodDelete, projectPath(h.id, "glyphs", name), nil, nil)
}

func (h *remoteHandle) ListGlyphNames(ctx context.Context) ([]string, error) {
	var resp NamesResponse
	if err := h.get(ctx, "glyphs", &resp); err != nil {
		return nil, err
	}
	if resp.Names == nil {
		resp.Names = []string{}
	}
	return resp.Names, nil
}

func (h *remoteHandle) GetGlyphMap(ctx context.Context) (font.GlyphMap, error) {
	m := font.GlyphMap{}
	if err := h.get(ctx, "glyph-map", &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (h *remoteHandle) GetBackgroundImage(ctx context.Context, imageID string) (*font.BackgroundImage, error) {
	var img *font.BackgroundImage
	if err := h.r.do(ctx, http.MethodGet, projectPath(h.id, "background-images", imageID), nil, &img); err != nil {
		return nil, err
	}
	return img, nil
}

// PutBackgroundImage implements FontHandle. An empty img.ID lets the server
// assign one.
func (h *remoteHandle) PutBackgroundImage(ctx context.Context, img font.BackgroundImage) (string, error) {
	var resp IDResponse
	var err error
	if img.ID == "" {
		err = h.r.do(ctx, http.MethodPost, projectPath(h.id, "background-images"), img, &resp)
	} else {
		err = h.r.do(ctx, http.MethodPut, projectPath(h.id, "background-images", img.ID), img, &resp)
	}
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (h *remoteHandle) DeleteBackgroundImage(ctx context.Context, imageID string) error {
	return h.r.do(ctx, http.MethodDelete, projectPath(h.id, "background-images", imageID), nil, nil)
}

func (h *remoteHandle) ListBackgroundImages(ctx context.Context) ([]string, error) {
	var resp NamesResponse
	if err := h.get(ctx, "background-images", &resp); err != nil {
		return nil, err
	}
	if resp.Names == nil {
		resp.Names = []string{}
	}
	return resp.Names, nil
}
