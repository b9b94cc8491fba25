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
	"encoding/json"
	"log/slog"

	"github.com/kraklabs/fontstore/pkg/font"
	"github.com/kraklabs/fontstore/pkg/geometry"
	"github.com/kraklabs/fontstore/pkg/storage"
)

// Local is the Backend over the embedded store. The store is opened on
// first use through the Supervisor and shared by every handle.
type Local struct {
	sup    *storage.Supervisor
	geo    geometry.Processor
	logger *slog.Logger
}

// NewLocal returns a Local backend. A nil geo uses geometry.NewStub(); a
// nil logger uses slog.Default().
func NewLocal(sup *storage.Supervisor, geo geometry.Processor, logger *slog.Logger) *Local {
	if geo == nil {
		geo = geometry.NewStub()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{sup: sup, geo: geo, logger: logger}
}

var _ Backend = (*Local)(nil)

// Mode implements Backend.
func (l *Local) Mode() Mode { return ModeLocal }

// Store returns the shared embedded store, opening it if needed.
func (l *Local) Store(ctx context.Context) (*storage.Store, error) {
	return l.sup.Store(ctx)
}

func (l *Local) ListProjects(ctx context.Context) ([]string, error) {
	st, err := l.sup.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.ListProjects(ctx)
}

func (l *Local) GetProject(ctx context.Context, id string) (*font.Project, error) {
	st, err := l.sup.Store(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetProject(ctx, id)
}

func (l *Local) CreateProject(ctx context.Context, id string, doc *font.Document) (string, error) {
	st, err := l.sup.Store(ctx)
	if err != nil {
		return "", err
	}
	return st.CreateProject(ctx, id, doc)
}

func (l *Local) DeleteProject(ctx context.Context, id string) error {
	st, err := l.sup.Store(ctx)
	if err != nil {
		return err
	}
	return st.DeleteProject(ctx, id)
}

func (l *Local) OpenFontHandle(ctx context.Context, id string) (FontHandle, error) {
	if _, err := l.sup.Store(ctx); err != nil {
		return nil, err
	}
	return &localHandle{b: l, id: id}, nil
}

func (l *Local) ParseClipboard(ctx context.Context, text string) (*font.StaticGlyph, error) {
	return l.geo.ParseClipboard(ctx, text)
}

func (l *Local) UnionPath(ctx context.Context, p font.Path) (font.Path, error) {
	return l.geo.Union(ctx, p)
}

func (l *Local) SubtractPath(ctx context.Context, a, b font.Path) (font.Path, error) {
	return l.geo.Subtract(ctx, a, b)
}

func (l *Local) IntersectPath(ctx context.Context, a, b font.Path) (font.Path, error) {
	return l.geo.Intersect(ctx, a, b)
}

func (l *Local) ExcludePath(ctx context.Context, a, b font.Path) (font.Path, error) {
	return l.geo.Exclude(ctx, a, b)
}

func (l *Local) PathBounds(ctx context.Context, p font.Path) (*font.Bounds, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return geometry.Bounds(p), nil
}

func (l *Local) TranslatePath(ctx context.Context, p font.Path, dx, dy float64) (font.Path, error) {
	if err := ctx.Err(); err != nil {
		return font.Path{}, err
	}
	return geometry.Translate(p, dx, dy), nil
}

func (l *Local) ScalePath(ctx context.Context, p font.Path, sx, sy float64) (font.Path, error) {
	if err := ctx.Err(); err != nil {
		return font.Path{}, err
	}
	return geometry.Scale(p, sx, sy), nil
}

func (l *Local) ValidatePath(ctx context.Context, p font.Path) (geometry.Validation, error) {
	if err := ctx.Err(); err != nil {
		return geometry.Validation{}, err
	}
	return geometry.Validate(p), nil
}

// Close closes the embedded store if it was opened.
func (l *Local) Close() error {
	return l.sup.Close()
}

// localHandle is a FontHandle over the embedded store.
type localHandle struct {
	b  *Local
	id string
}

func (h *localHandle) ProjectID() string { return h.id }

func (h *localHandle) store(ctx context.Context) (*storage.Store, error) {
	return h.b.sup.Store(ctx)
}

func (h *localHandle) GetDocument(ctx context.Context) (font.Document, error) {
	st, err := h.store(ctx)
	if err != nil {
		return font.Document{}, err
	}
	return st.GetDocument(ctx, h.id)
}

func (h *localHandle) update(ctx context.Context, fn func(d *font.Document)) error {
	st, err := h.store(ctx)
	if err != nil {
		return err
	}
	return st.UpdateDocument(ctx, h.id, func(d *font.Document) error {
		fn(d)
		return nil
	})
}

func (h *localHandle) GetInfo(ctx context.Context) (font.Info, error) {
	doc, err := h.GetDocument(ctx)
	return doc.Info, err
}

func (h *localHandle) PutInfo(ctx context.Context, info font.Info) error {
	return h.update(ctx, func(d *font.Document) { d.Info = info })
}

func (h *localHandle) GetAxes(ctx context.Context) ([]font.Axis, error) {
	doc, err := h.GetDocument(ctx)
	return doc.Axes, err
}

func (h *localHandle) PutAxes(ctx context.Context, axes []font.Axis) error {
	return h.update(ctx, func(d *font.Document) { d.Axes = axes })
}

func (h *localHandle) GetSources(ctx context.Context) (map[string]font.Source, error) {
	doc, err := h.GetDocument(ctx)
	return doc.Sources, err
}

func (h *localHandle) PutSources(ctx context.Context, sources map[string]font.Source) error {
	return h.update(ctx, func(d *font.Document) { d.Sources = sources })
}

func (h *localHandle) GetKerning(ctx context.Context) (map[string]font.Kerning, error) {
	doc, err := h.GetDocument(ctx)
	return doc.Kerning, err
}

func (h *localHandle) PutKerning(ctx context.Context, kerning map[string]font.Kerning) error {
	return h.update(ctx, func(d *font.Document) { d.Kerning = kerning })
}

func (h *localHandle) GetFeatures(ctx context.Context) (string, error) {
	doc, err := h.GetDocument(ctx)
	return doc.Features, err
}

func (h *localHandle) PutFeatures(ctx context.Context, text string) error {
	return h.update(ctx, func(d *font.Document) { d.Features = text })
}

func (h *localHandle) GetCustomData(ctx context.Context) (map[string]any, error) {
	doc, err := h.GetDocument(ctx)
	return doc.CustomData, err
}

func (h *localHandle) PutCustomData(ctx context.Context, data map[string]any) error {
	return h.update(ctx, func(d *font.Document) { d.CustomData = data })
}

func (h *localHandle) GetGlyph(ctx context.Context, name string) (*font.Glyph, error) {
	st, err := h.store(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetGlyph(ctx, h.id, name)
}

func (h *localHandle) PutGlyph(ctx context.Context, name string, data json.RawMessage, codePoints []int) error {
	st, err := h.store(ctx)
	if err != nil {
		return err
	}
	return st.PutGlyph(ctx, h.id, name, data, codePoints)
}

func (h *localHandle) DeleteGlyph(ctx context.Context, name string) error {
	st, err := h.store(ctx)
	if err != nil {
		return err
	}
	_, err = st.DeleteGlyph(ctx, h.id, name)
	return err
}

func (h *localHandle) ListGlyphNames(ctx context.Context) ([]string, error) {
	st, err := h.store(ctx)
	if err != nil {
		return nil, err
	}
	return st.ListGlyphNames(ctx, h.id)
}

func (h *localHandle) GetGlyphMap(ctx context.Context) (font.GlyphMap, error) {
	st, err := h.store(ctx)
	if err != nil {
		return nil, err
	}
	return st.GlyphMap(ctx, h.id)
}

func (h *localHandle) GetBackgroundImage(ctx context.Context, imageID string) (*font.BackgroundImage, error) {
	st, err := h.store(ctx)
	if err != nil {
		return nil, err
	}
	return st.GetBackgroundImage(ctx, h.id, imageID)
}

func (h *localHandle) PutBackgroundImage(ctx context.Context, img font.BackgroundImage) (string, error) {
	st, err := h.store(ctx)
	if err != nil {
		return "", err
	}
	return st.PutBackgroundImage(ctx, h.id, img)
}

func (h *localHandle) DeleteBackgroundImage(ctx context.Context, imageID string) error {
	st, err := h.store(ctx)
	if err != nil {
		return err
	}
	_, err = st.DeleteBackgroundImage(ctx, h.id, imageID)
	return err
}

func (h *localHandle) ListBackgroundImages(ctx context.Context) ([]string, error) {
	st, err := h.store(ctx)
	if err != nil {
		return nil, err
	}
	return st.ListBackgroundImages(ctx, h.id)
}
