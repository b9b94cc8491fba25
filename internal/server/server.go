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

// Package server exposes a backend.Backend over HTTP using the JSON
// protocol that backend.Remote speaks.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kraklabs/fontstore/pkg/backend"
)

// Options configures a Server.
type Options struct {
	// Version is reported by /health.
	Version string

	// Metrics mounts the Prometheus handler at /metrics.
	Metrics bool

	// CORSOrigins lists the browser origins allowed to call the API. Empty
	// disables CORS handling.
	CORSOrigins []string

	Logger *slog.Logger
}

// Server serves one Backend.
type Server struct {
	backend backend.Backend
	opts    Options
	logger  *slog.Logger
	router  *gin.Engine
}

// New builds the router for b.
func New(b backend.Backend, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{backend: b, opts: opts, logger: logger}
	s.router = s.buildRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(s.logger))
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  s.opts.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:  []string{"Content-Type", "Accept", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/health", s.health)
	if s.opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/v1")
	s.registerProjects(v1.Group("/projects"))
	s.registerGeometry(v1.Group("/geometry"))
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listen", "addr", addr, "mode", s.backend.Mode())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server.shutdown", "addr", addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Mode      string    `json:"mode"`
	Storage   string    `json:"storage"`
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	status, storage, code := "healthy", "up", http.StatusOK
	if _, err := s.backend.ListProjects(ctx); err != nil {
		status, storage, code = "degraded", "down", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   s.opts.Version,
		Mode:      string(s.backend.Mode()),
		Storage:   storage,
	})
}

// fail writes err as an ErrorBody with the status of its kind.
func (s *Server) fail(c *gin.Context, err error) {
	code := backend.StatusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("server.request.failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"err", err,
		)
	}
	c.AbortWithStatusJSON(code, backend.ErrorBody{Error: err.Error(), Kind: backend.Kind(err)})
}

// bind decodes the JSON body into v, answering 400 on failure.
func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, backend.ErrorBody{
			Error: "invalid body: " + err.Error(),
			Kind:  backend.Kind(backend.ErrInvalidInput),
		})
		return false
	}
	return true
}
