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

// Package geometry holds the path operations used by the editor: boolean
// combination of outlines, clipboard parsing, and a few cheap measurements.
//
// Boolean operations sit behind Processor so an engine that computes real
// results can replace Stub without touching storage or backend code. Stub
// does not compute geometrically correct booleans; see its method docs for
// what each one returns.
//
// Bounds, Translate, Scale and Validate are exact and do not depend on the
// processor.
package geometry
