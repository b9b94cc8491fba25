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
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
)

// Storage engines.
const (
	EngineFile   = "file"
	EngineMemory = "memory"
)

// DefaultFileName is the database file created inside DataDir.
const DefaultFileName = "fontstore.db"

// Config configures the embedded store.
type Config struct {
	// DataDir is the directory holding the database file.
	// Defaults to ~/.fontstore/data
	DataDir string

	// Engine is "file" (persistent, default) or "memory" (process-local,
	// for tests and throwaway sessions).
	Engine string

	// FileName overrides DefaultFileName.
	FileName string

	// BusyTimeout bounds how long sqlite waits on a locked database file.
	// Defaults to 5s.
	BusyTimeout time.Duration

	// Logger receives lifecycle events. Nil uses slog.Default().
	Logger *slog.Logger
}

// withDefaults fills unset fields. It returns an error only when the home
// directory is needed and cannot be determined.
func (c Config) withDefaults() (Config, error) {
	if c.Engine == "" {
		c.Engine = EngineFile
	}
	if c.FileName == "" {
		c.FileName = DefaultFileName
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.DataDir == "" && c.Engine == EngineFile {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return c, fmt.Errorf("get home dir: %w", err)
		}
		c.DataDir = filepath.Join(homeDir, ".fontstore", "data")
	}
	return c, nil
}

// dsn builds the go-sqlite3 connection string. Foreign keys are enforced so
// a child row can never reference a missing project.
func (c Config) dsn() string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", fmt.Sprintf("%d", c.BusyTimeout.Milliseconds()))
	params.Set("_txlock", "immediate")

	if c.Engine == EngineMemory {
		params.Set("mode", "memory")
		params.Set("cache", "shared")
		return "file:fontstore-" + uuid.NewString() + "?" + params.Encode()
	}
	params.Set("_journal_mode", "WAL")
	return "file:" + filepath.Join(c.DataDir, c.FileName) + "?" + params.Encode()
}

// Store is the local embedded store: one sqlite connection holding every
// collection of every project.
//
// All methods are safe for concurrent use. The pool is capped at a single
// connection, so transactions are serialised; a callback passed to View or
// Update must not call back into the Store.
type Store struct {
	db     *sql.DB
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if needed) the embedded store described by cfg and
// migrates it to SchemaVersion. Prefer Supervisor.Store, which guarantees a
// single open per process.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if cfg.Engine != EngineFile && cfg.Engine != EngineMemory {
		return nil, fmt.Errorf("unknown storage engine %q (supported: file, memory)", cfg.Engine)
	}

	storeMetrics.init()
	storeMetrics.opens.Inc()

	cfg.Logger.Info("storage.open.start",
		"engine", cfg.Engine,
		"data_dir", cfg.DataDir,
	)

	if cfg.Engine == EngineFile {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			storeMetrics.openFailures.Inc()
			return nil, fmt.Errorf("%w: create data dir: %w", ErrStorageUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		storeMetrics.openFailures.Inc()
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		storeMetrics.openFailures.Inc()
		return nil, fmt.Errorf("%w: ping sqlite: %w", ErrStorageUnavailable, err)
	}

	applied, err := Migrate(ctx, db, cfg.Logger)
	if err != nil {
		_ = db.Close()
		storeMetrics.openFailures.Inc()
		return nil, err
	}

	cfg.Logger.Info("storage.open.success",
		"engine", cfg.Engine,
		"schema_version", SchemaVersion(),
		"migrations_applied", applied,
	)

	return &Store{
		db:     db,
		cfg:    cfg,
		logger: cfg.Logger,
		now:    time.Now,
	}, nil
}

// View runs fn inside a transaction that is always rolled back. Use it for
// reads that must see a consistent snapshot across collections.
func (s *Store) View(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}

// Update runs fn inside a read-write transaction and commits it if fn
// returns nil. Any failure rolls back every write made by fn. Errors of the
// documented kinds (ErrAlreadyExists, ErrNotFound, ...) are returned as is;
// anything else is reported as ErrTransactionAborted.
func (s *Store) Update(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransactionAborted, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrTransactionAborted, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransactionAborted, err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.logger.Info("storage.close", "engine", s.cfg.Engine)
	return s.db.Close()
}

// DB returns the underlying connection pool for diagnostics.
// Use with caution - prefer the Store methods.
func (s *Store) DB() *sql.DB {
	return s.db
}

// DataDir reports the resolved data directory. It is empty for the memory
// engine.
func (s *Store) DataDir() string {
	if s.cfg.Engine == EngineMemory {
		return ""
	}
	return s.cfg.DataDir
}

// Engine reports the engine the store was opened with.
func (s *Store) Engine() string {
	return s.cfg.Engine
}

// Version reads the persisted schema version.
func (s *Store) Version(ctx context.Context) (int, error) {
	var v int
	err := s.View(ctx, func(tx *sql.Tx) error {
		var err error
		v, err = userVersion(ctx, tx)
		return err
	})
	return v, err
}

// Probe checks that the host can provide the embedded store described by
// cfg without opening it: the sqlite driver must be functional and, for the
// file engine, the data directory must be writable. Failures wrap
// ErrStorageUnavailable.
func Probe(ctx context.Context, cfg Config) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("%w: sqlite driver: %w", ErrStorageUnavailable, err)
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: sqlite driver: %w", ErrStorageUnavailable, err)
	}

	if cfg.Engine != EngineFile {
		return nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %w", ErrStorageUnavailable, err)
	}
	f, err := os.CreateTemp(cfg.DataDir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: data dir not writable: %w", ErrStorageUnavailable, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
