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

// Package backend defines the capability contract the application uses to
// manage font projects and its two implementations.
//
// Local serves every call from the embedded store in package storage.
// Remote forwards every call to a fontstore server (see internal/server)
// as a JSON request over HTTP. Both report the same error kinds
// (ErrAlreadyExists, ErrNotFound, ...), so callers handle them alike.
//
// Select picks the variant once from Options:
//
//	b, err := backend.Select(ctx, backend.Options{
//	    RemoteURL: os.Getenv("FONTSTORE_REMOTE_URL"),
//	    Storage:   storage.Config{DataDir: dir},
//	})
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	h, _ := b.OpenFontHandle(ctx, "demo")
//	axes, err := h.GetAxes(ctx)
package backend
