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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kraklabs/fontstore/pkg/backend"
	"github.com/kraklabs/fontstore/pkg/font"
)

func (s *Server) registerProjects(rg *gin.RouterGroup) {
	rg.GET("", s.listProjects)
	rg.POST("", s.createProject)
	rg.GET("/:id", s.getProject)
	rg.DELETE("/:id", s.deleteProject)

	rg.GET("/:id/document", s.getDocument)
	rg.GET("/:id/info", s.getInfo)
	rg.PUT("/:id/info", s.putInfo)
	rg.GET("/:id/axes", s.getAxes)
	rg.PUT("/:id/axes", s.putAxes)
	rg.GET("/:id/sources", s.getSources)
	rg.PUT("/:id/sources", s.putSources)
	rg.GET("/:id/kerning", s.getKerning)
	rg.PUT("/:id/kerning", s.putKerning)
	rg.GET("/:id/features", s.getFeatures)
	rg.PUT("/:id/features", s.putFeatures)
	rg.GET("/:id/custom-data", s.getCustomData)
	rg.PUT("/:id/custom-data", s.putCustomData)

	rg.GET("/:id/glyphs", s.listGlyphs)
	rg.GET("/:id/glyphs/:name", s.getGlyph)
	rg.PUT("/:id/glyphs/:name", s.putGlyph)
	rg.DELETE("/:id/glyphs/:name", s.deleteGlyph)
	rg.GET("/:id/glyph-map", s.glyphMap)

	rg.GET("/:id/background-images", s.listImages)
	rg.POST("/:id/background-images", s.putImage)
	rg.GET("/:id/background-images/:imageId", s.getImage)
	rg.PUT("/:id/background-images/:imageId", s.putImage)
	rg.DELETE("/:id/background-images/:imageId", s.deleteImage)
}

func (s *Server) listProjects(c *gin.Context) {
	ids, err := s.backend.ListProjects(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, backend.ProjectsResponse{Projects: ids})
}

func (s *Server) getProject(c *gin.Context) {
	p, err := s.backend.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) createProject(c *gin.Context) {
	var req backend.CreateProjectRequest
	if !s.bind(c, &req) {
		return
	}
	id, err := s.backend.CreateProject(c.Request.Context(), req.ID, req.Document)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, backend.IDResponse{ID: id})
}

func (s *Server) deleteProject(c *gin.Context) {
	if err := s.backend.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handle opens the font handle named by the :id parameter.
func (s *Server) handle(c *gin.Context) (backend.FontHandle, bool) {
	h, err := s.backend.OpenFontHandle(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return h, true
}

// getField answers a GET of one document field.
func getField[T any](s *Server, c *gin.Context, get func(h backend.FontHandle) (T, error)) {
	h, ok := s.handle(c)
	if !ok {
		return
	}
	v, err := get(h)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// putField answers a PUT of one document field.
func putField[T any](s *Server, c *gin.Context, put func(h backend.FontHandle, v T) error) {
	var v T
	if !s.bind(c, &v) {
		return
	}
	h, ok := s.handle(c)
	if !ok {
		return
	}
	if err := put(h, v); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getDocument(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (font.Document, error) {
		return h.GetDocument(c.Request.Context())
	})
}

func (s *Server) getInfo(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (font.Info, error) {
		return h.GetInfo(c.Request.Context())
	})
}

func (s *Server) putInfo(c *gin.Context) {
	putField(s, c, func(h backend.FontHandle, v font.Info) error {
		return h.PutInfo(c.Request.Context(), v)
	})
}

func (s *Server) getAxes(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) ([]font.Axis, error) {
		return h.GetAxes(c.Request.Context())
	})
}

func (s *Server) putAxes(c *gin.Context) {
	putField(s, c, func(h backend.FontHandle, v []font.Axis) error {
		return h.PutAxes(c.Request.Context(), v)
	})
}

func (s *Server) getSources(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (map[string]font.Source, error) {
		return h.GetSources(c.Request.Context())
	})
}

func (s *Server) putSources(c *gin.Context) {
	putField(s, c, func(h backend.FontHandle, v map[string]font.Source) error {
		return h.PutSources(c.Request.Context(), v)
	})
}

func (s *Server) getKerning(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (map[string]font.Kerning, error) {
		return h.GetKerning(c.Request.Context())
	})
}

func (s *Server) putKerning(c *gin.Context) {
	putField(s, c, func(h backend.FontHandle, v map[string]font.Kerning) error {
		return h.PutKerning(c.Request.Context(), v)
	})
}

func (s *Server) getFeatures(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (backend.FeaturesBody, error) {
		text, err := h.GetFeatures(c.Request.Context())
		return backend.FeaturesBody{Text: text}, err
	})
}

func (s *Server) putFeatures(c *gin.Context) {
	putField(s, c, func(h backend.FontHandle, v backend.FeaturesBody) error {
		return h.PutFeatures(c.Request.Context(), v.Text)
	})
}

func (s *Server) getCustomData(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (map[string]any, error) {
		return h.GetCustomData(c.Request.Context())
	})
}

func (s *Server) putCustomData(c *gin.Context) {
	putField(s, c, func(h backend.FontHandle, v map[string]any) error {
		return h.PutCustomData(c.Request.Context(), v)
	})
}

func (s *Server) listGlyphs(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (backend.NamesResponse, error) {
		names, err := h.ListGlyphNames(c.Request.Context())
		return backend.NamesResponse{Names: names}, err
	})
}

// getGlyph answers 200 with null for a missing glyph.
func (s *Server) getGlyph(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (*font.Glyph, error) {
		return h.GetGlyph(c.Request.Context(), c.Param("name"))
	})
}

func (s *Server) putGlyph(c *gin.Context) {
	putField(s, c, func(h backend.FontHandle, v backend.GlyphPutRequest) error {
		return h.PutGlyph(c.Request.Context(), c.Param("name"), v.Data, v.CodePoints)
	})
}

func (s *Server) deleteGlyph(c *gin.Context) {
	h, ok := s.handle(c)
	if !ok {
		return
	}
	if err := h.DeleteGlyph(c.Request.Context(), c.Param("name")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) glyphMap(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (font.GlyphMap, error) {
		return h.GetGlyphMap(c.Request.Context())
	})
}

func (s *Server) listImages(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (backend.NamesResponse, error) {
		ids, err := h.ListBackgroundImages(c.Request.Context())
		return backend.NamesResponse{Names: ids}, err
	})
}

func (s *Server) getImage(c *gin.Context) {
	getField(s, c, func(h backend.FontHandle) (*font.BackgroundImage, error) {
		return h.GetBackgroundImage(c.Request.Context(), c.Param("imageId"))
	})
}

// putImage stores an image. The :imageId parameter, when present,
// overrides the id in the body; POST without it lets the store assign one.
func (s *Server) putImage(c *gin.Context) {
	var img font.BackgroundImage
	if !s.bind(c, &img) {
		return
	}
	if id := c.Param("imageId"); id != "" {
		img.ID = id
	}
	h, ok := s.handle(c)
	if !ok {
		return
	}
	id, err := h.PutBackgroundImage(c.Request.Context(), img)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, backend.IDResponse{ID: id})
}

func (s *Server) deleteImage(c *gin.Context) {
	h, ok := s.handle(c)
	if !ok {
		return
	}
	if err := h.DeleteBackgroundImage(c.Request.Context(), c.Param("imageId")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
