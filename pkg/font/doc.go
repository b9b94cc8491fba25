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

// Package font defines the font project data model shared by the storage
// engine, the backend variants and the geometry processor.
//
// A project is identified by a user-chosen ProjectId and consists of one
// Document (info, axes, sources, kerning, features, custom data), any number
// of Glyph records keyed by glyph name, and background images.
//
// All types encode to JSON with the field names used on the wire and in the
// embedded store, so a value read back from either backend variant is
// deep-equal to the value written.
package font
