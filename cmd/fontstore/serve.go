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

package main

import (
	"context"

	"github.com/kraklabs/fontstore/internal/errors"
	"github.com/kraklabs/fontstore/internal/server"
	"github.com/kraklabs/fontstore/pkg/backend"
)

// runServe exposes the configured backend over HTTP until interrupted.
//
// Flags:
//   - --addr: listen address (default from config, 127.0.0.1:8780)
//   - --no-metrics: do not mount /metrics
//   - --cors-origin: allowed browser origin, repeatable
func runServe(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("serve", `Usage: fontstore serve [options]

Serves the fontstore HTTP API backed by the configured backend. Clients
reach it with --remote-url http://<addr>.
`)
	addr := fs.String("addr", a.cfg.Server.Addr, "Listen address")
	noMetrics := fs.Bool("no-metrics", !a.cfg.Server.Metrics, "Do not expose /metrics")
	origins := fs.StringSlice("cors-origin", a.cfg.Server.CORSOrigins, "Allowed CORS origin (repeatable)")
	if _, err := a.parse(fs, args); err != nil {
		return helpOrErr(err)
	}

	return a.withBackend(ctx, func(b backend.Backend) error {
		srv := server.New(b, server.Options{
			Version:     version,
			Metrics:     !*noMetrics,
			CORSOrigins: *origins,
			Logger:      a.logger,
		})

		if !a.json {
			a.printer().Infof("Serving %s backend on http://%s", b.Mode(), *addr)
		}
		if err := srv.Run(ctx, *addr); err != nil {
			return errors.NewNetworkError("Server stopped", err.Error(),
				"Check that the address is free or pass another --addr", err)
		}
		return nil
	})
}
