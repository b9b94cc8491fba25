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
	"runtime"

	"github.com/kraklabs/fontstore/internal/ui"
	"github.com/kraklabs/fontstore/pkg/geometry"
	"github.com/kraklabs/fontstore/pkg/storage"
)

// VersionResult is the --json output of version.
type VersionResult struct {
	Version         string `json:"version"`
	Commit          string `json:"commit"`
	Date            string `json:"date"`
	GoVersion       string `json:"go_version"`
	SchemaVersion   int    `json:"schema_version"`
	GeometryVersion string `json:"geometry_version"`
}

func runVersion(_ context.Context, a *app, _ []string) error {
	result := VersionResult{
		Version:         version,
		Commit:          commit,
		Date:            date,
		GoVersion:       runtime.Version(),
		SchemaVersion:   storage.SchemaVersion(),
		GeometryVersion: geometry.NewStub().Info().Version,
	}
	return a.emit(result, func(p *ui.Printer) {
		p.Field("fontstore", result.Version)
		p.Field("commit", result.Commit)
		p.Field("built", result.Date)
		p.Field("go", result.GoVersion)
		p.Field("schema", result.SchemaVersion)
		p.Field("geometry", result.GeometryVersion)
	})
}
