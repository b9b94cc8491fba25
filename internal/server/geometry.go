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
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kraklabs/fontstore/pkg/backend"
	"github.com/kraklabs/fontstore/pkg/font"
)

func (s *Server) registerGeometry(rg *gin.RouterGroup) {
	rg.POST("/union", s.pathOp(func(ctx context.Context, a font.Path, _ *font.Path) (font.Path, error) {
		return s.backend.UnionPath(ctx, a)
	}, false))
	rg.POST("/subtract", s.pathOp(func(ctx context.Context, a font.Path, b *font.Path) (font.Path, error) {
		return s.backend.SubtractPath(ctx, a, *b)
	}, true))
	rg.POST("/intersect", s.pathOp(func(ctx context.Context, a font.Path, b *font.Path) (font.Path, error) {
		return s.backend.IntersectPath(ctx, a, *b)
	}, true))
	rg.POST("/exclude", s.pathOp(func(ctx context.Context, a font.Path, b *font.Path) (font.Path, error) {
		return s.backend.ExcludePath(ctx, a, *b)
	}, true))
	rg.POST("/bounds", s.pathBounds)
	rg.POST("/translate", s.transformOp(s.backend.TranslatePath))
	rg.POST("/scale", s.transformOp(s.backend.ScalePath))
	rg.POST("/validate", s.validatePath)
	rg.POST("/clipboard", s.parseClipboard)
}

type pathFunc func(ctx context.Context, a font.Path, b *font.Path) (font.Path, error)

func (s *Server) pathOp(fn pathFunc, needB bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req backend.GeometryRequest
		if !s.bind(c, &req) {
			return
		}
		if needB && req.B == nil {
			s.fail(c, fmt.Errorf("%w: operand b is required", backend.ErrInvalidInput))
			return
		}
		out, err := fn(c.Request.Context(), req.A, req.B)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// pathBounds answers 200 with null when the path has no points.
func (s *Server) pathBounds(c *gin.Context) {
	var req backend.GeometryRequest
	if !s.bind(c, &req) {
		return
	}
	b, err := s.backend.PathBounds(c.Request.Context(), req.A)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type transformFunc func(ctx context.Context, p font.Path, x, y float64) (font.Path, error)

func (s *Server) transformOp(fn transformFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req backend.TransformRequest
		if !s.bind(c, &req) {
			return
		}
		out, err := fn(c.Request.Context(), req.A, req.X, req.Y)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// validatePath answers 200 for an invalid path too; the body says so.
func (s *Server) validatePath(c *gin.Context) {
	var req backend.GeometryRequest
	if !s.bind(c, &req) {
		return
	}
	v, err := s.backend.ValidatePath(c.Request.Context(), req.A)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// parseClipboard answers 200 with null when the text is not glyph data.
func (s *Server) parseClipboard(c *gin.Context) {
	var req backend.ClipboardRequest
	if !s.bind(c, &req) {
		return
	}
	g, err := s.backend.ParseClipboard(c.Request.Context(), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}
