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

// Package bootstrap wires configuration into a running fontstore: the
// process logger, the embedded store and the selected backend.
//
// # Initialization
//
// InitStore creates the database file and brings its schema to the
// current version:
//
//	info, err := bootstrap.InitStore(ctx, cfg.StorageOptions(logger), logger)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Store ready at %s (schema v%d)\n", info.DataDir, info.SchemaVersion)
//
// It is idempotent and safe to run from scripts.
//
// # Opening a backend
//
// OpenBackend applies the selection rules of the backend package to a
// loaded configuration:
//
//	b, err := bootstrap.OpenBackend(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
package bootstrap
