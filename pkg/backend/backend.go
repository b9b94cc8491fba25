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
	"errors"

	"github.com/kraklabs/fontstore/internal/contract"
	"github.com/kraklabs/fontstore/pkg/font"
	"github.com/kraklabs/fontstore/pkg/geometry"
	"github.com/kraklabs/fontstore/pkg/storage"
)

// Backend is the capability set the application uses to manage font
// projects. Local and Remote implement it; Select picks one from
// configuration.
type Backend interface {
	// ListProjects returns the ids of all projects.
	ListProjects(ctx context.Context) ([]string, error)

	// GetProject returns a project's timestamps, or nil if it does not exist.
	GetProject(ctx context.Context, id string) (*font.Project, error)

	// CreateProject creates project id with doc, or with
	// font.DefaultDocument(id) when doc is nil. It fails with
	// ErrAlreadyExists if the id is taken.
	CreateProject(ctx context.Context, id string, doc *font.Document) (string, error)

	// DeleteProject removes a project and everything stored under it.
	// Deleting an unknown id succeeds.
	DeleteProject(ctx context.Context, id string) error

	// OpenFontHandle returns a handle bound to project id. It does not
	// check that the project exists: reads of a missing project return
	// empty values and writes fail with ErrNotFound.
	OpenFontHandle(ctx context.Context, id string) (FontHandle, error)

	// ParseClipboard interprets pasted text as glyph data, or returns nil.
	ParseClipboard(ctx context.Context, text string) (*font.StaticGlyph, error)

	UnionPath(ctx context.Context, p font.Path) (font.Path, error)
	SubtractPath(ctx context.Context, a, b font.Path) (font.Path, error)
	IntersectPath(ctx context.Context, a, b font.Path) (font.Path, error)
	ExcludePath(ctx context.Context, a, b font.Path) (font.Path, error)

	// PathBounds returns the bounding box of p, or nil when p has no points.
	PathBounds(ctx context.Context, p font.Path) (*font.Bounds, error)
	TranslatePath(ctx context.Context, p font.Path, dx, dy float64) (font.Path, error)
	ScalePath(ctx context.Context, p font.Path, sx, sy float64) (font.Path, error)

	// ValidatePath reports problems with p along with its structure.
	ValidatePath(ctx context.Context, p font.Path) (geometry.Validation, error)

	// Mode reports which variant this is.
	Mode() Mode

	// Close releases the backend's resources.
	Close() error
}

// FontHandle reads and writes the records of one project.
//
// The Put methods for document fields replace the whole font document:
// they read it, change one field and write it back. Two of them running
// concurrently against the same project may lose one of the updates.
type FontHandle interface {
	ProjectID() string

	GetInfo(ctx context.Context) (font.Info, error)
	PutInfo(ctx context.Context, info font.Info) error
	GetAxes(ctx context.Context) ([]font.Axis, error)
	PutAxes(ctx context.Context, axes []font.Axis) error
	GetSources(ctx context.Context) (map[string]font.Source, error)
	PutSources(ctx context.Context, sources map[string]font.Source) error
	GetKerning(ctx context.Context) (map[string]font.Kerning, error)
	PutKerning(ctx context.Context, kerning map[string]font.Kerning) error
	GetFeatures(ctx context.Context) (string, error)
	PutFeatures(ctx context.Context, text string) error
	GetCustomData(ctx context.Context) (map[string]any, error)
	PutCustomData(ctx context.Context, data map[string]any) error

	// GetDocument returns all document fields at once.
	GetDocument(ctx context.Context) (font.Document, error)

	// GetGlyph returns the glyph, or nil if it does not exist.
	GetGlyph(ctx context.Context, name string) (*font.Glyph, error)
	PutGlyph(ctx context.Context, name string, data json.RawMessage, codePoints []int) error
	DeleteGlyph(ctx context.Context, name string) error
	ListGlyphNames(ctx context.Context) ([]string, error)

	// GetGlyphMap maps each glyph with code points to those code points.
	GetGlyphMap(ctx context.Context) (font.GlyphMap, error)

	GetBackgroundImage(ctx context.Context, imageID string) (*font.BackgroundImage, error)
	PutBackgroundImage(ctx context.Context, img font.BackgroundImage) (string, error)
	DeleteBackgroundImage(ctx context.Context, imageID string) error
	ListBackgroundImages(ctx context.Context) ([]string, error)
}

// Error kinds shared by every Backend. Test with errors.Is.
var (
	ErrAlreadyExists      = storage.ErrAlreadyExists
	ErrNotFound           = storage.ErrNotFound
	ErrStorageUnavailable = storage.ErrStorageUnavailable
	ErrTransactionAborted = storage.ErrTransactionAborted
	ErrInvalidInput       = contract.ErrInvalidInput

	// ErrRemote is wrapped by failures talking to a remote service that
	// carry no more specific kind.
	ErrRemote = errors.New("remote backend error")
)

// Error kind names used on the wire and in logs.
const (
	KindAlreadyExists      = "AlreadyExists"
	KindNotFound           = "NotFound"
	KindInvalidInput       = "InvalidInput"
	KindStorageUnavailable = "StorageUnavailable"
	KindTransactionAborted = "TransactionAborted"
	KindInternal           = "Internal"
)

// Kind names the error kind of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorageUnavailable
	case errors.Is(err, ErrTransactionAborted):
		return KindTransactionAborted
	default:
		return KindInternal
	}
}

// kindError returns the sentinel for a wire kind, or nil if unknown.
func kindError(kind string) error {
	switch kind {
	case KindAlreadyExists:
		return ErrAlreadyExists
	case KindNotFound:
		return ErrNotFound
	case KindInvalidInput:
		return ErrInvalidInput
	case KindStorageUnavailable:
		return ErrStorageUnavailable
	case KindTransactionAborted:
		return ErrTransactionAborted
	default:
		return nil
	}
}
