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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kraklabs/fontstore/pkg/font"
)

// JSON bodies exchanged between Remote and a server exposing a Backend.

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ProjectsResponse lists project ids.
type ProjectsResponse struct {
	Projects []string `json:"projects"`
}

// CreateProjectRequest creates a project. A nil Document selects the
// default document.
type CreateProjectRequest struct {
	ID       string         `json:"id"`
	Document *font.Document `json:"document,omitempty"`
}

// IDResponse carries the id of a created record.
type IDResponse struct {
	ID string `json:"id"`
}

// FeaturesBody wraps the feature source text.
type FeaturesBody struct {
	Text string `json:"text"`
}

// GlyphPutRequest stores a glyph.
type GlyphPutRequest struct {
	Data       json.RawMessage `json:"data"`
	CodePoints []int           `json:"codePoints,omitempty"`
}

// NamesResponse lists glyph names or image ids.
type NamesResponse struct {
	Names []string `json:"names"`
}

// GeometryRequest carries the operands of a path operation. B is unused
// by union.
type GeometryRequest struct {
	A font.Path  `json:"a"`
	B *font.Path `json:"b,omitempty"`
}

// TransformRequest carries a path and the x and y amounts of a translate
// or scale.
type TransformRequest struct {
	A font.Path `json:"a"`
	X float64   `json:"x"`
	Y float64   `json:"y"`
}

// ClipboardRequest carries pasted text.
type ClipboardRequest struct {
	Text string `json:"text"`
}

// StatusFor maps an error kind to the HTTP status a server responds with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// statusError is the sentinel implied by a status code when the body
// carries no kind.
func statusError(code int) error {
	switch code {
	case http.StatusConflict:
		return ErrAlreadyExists
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusServiceUnavailable:
		return ErrStorageUnavailable
	default:
		return ErrRemote
	}
}
