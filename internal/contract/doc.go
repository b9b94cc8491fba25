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


// Package contract provides input limits and validation shared by the
// storage engine, the backend variants and the HTTP server.
//
// # Names
//
// Project ids and glyph names are user-chosen. They must be non-empty,
// valid UTF-8, at most NameMaxBytes long, and free of '/' and control
// characters so that they can be used verbatim as URL path segments by the
// remote backend:
//
//	if err := contract.ValidateProjectID(id); err != nil {
//	    return err // wraps contract.ErrInvalidInput
//	}
//
// # Payload Size Limits
//
// Stored payloads (glyph data, background images, documents) are capped by
// a soft limit to keep a single runaway write from bloating the store:
//
//	// Default limit is 16 MiB
//	limit := contract.SoftLimitBytes()
//
// The limit can be adjusted via the FONTSTORE_SOFT_LIMIT_BYTES environment
// variable. If it is not set or invalid, DefaultSoftLimitBytes is used.
package contract
