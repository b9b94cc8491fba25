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

package storage

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/kraklabs/fontstore/internal/contract"
)

// Error kinds surfaced by the storage layer. Callers test them with
// errors.Is; the concrete error carries the project or glyph involved.
var (
	// ErrAlreadyExists is returned when creating a project whose id is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned when a write targets a project that does not
	// exist. Reads of missing records return empty values instead.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable means the host cannot provide the embedded store
	// at all (no sqlite support, unwritable data directory).
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrTransactionAborted means a multi-collection write failed and was
	// rolled back. No partial state is left behind.
	ErrTransactionAborted = errors.New("transaction aborted")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store is closed")
)

// isDomainError reports whether err already carries one of the kinds above
// and must reach the caller without being re-wrapped as an aborted
// transaction.
func isDomainError(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrClosed) ||
		errors.Is(err, contract.ErrInvalidInput)
}

// isUniqueViolation reports whether err is a sqlite primary-key or unique
// constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		se.ExtendedCode == sqlite3.ErrConstraintUnique
}
