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

package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kraklabs/fontstore/internal/config"
	"github.com/kraklabs/fontstore/pkg/backend"
	"github.com/kraklabs/fontstore/pkg/storage"
)

// StoreInfo describes an initialized embedded store.
type StoreInfo struct {
	DataDir       string
	Engine        string
	SchemaVersion int
	Projects      int
}

// NewLogger builds the process logger. level is parsed with
// config.ParseLevel; format is "text" (default) or "json". A nil w writes
// to stderr.
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (supported: text, json)", format)
	}
}

// InitStore creates the embedded store described by cfg and migrates it to
// the current schema version. It is idempotent: running it on an
// initialized store leaves the data untouched and only reports its state.
func InitStore(ctx context.Context, cfg storage.Config, logger *slog.Logger) (*StoreInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Logger = logger

	logger.Info("bootstrap.store.init.start",
		"data_dir", cfg.DataDir,
		"engine", cfg.Engine,
	)

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	version, err := store.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	ids, err := store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	info := &StoreInfo{
		DataDir:       store.DataDir(),
		Engine:        store.Engine(),
		SchemaVersion: version,
		Projects:      len(ids),
	}

	logger.Info("bootstrap.store.init.success",
		"data_dir", info.DataDir,
		"schema_version", info.SchemaVersion,
		"projects", info.Projects,
	)
	return info, nil
}

// OpenBackend selects and builds the backend described by cfg.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (backend.Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := cfg.BackendOptions(logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("bootstrap.backend.open",
		"mode", opts.Mode,
		"standalone", opts.Standalone,
		"remote_url", opts.RemoteURL,
	)

	b, err := backend.Select(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("select backend: %w", err)
	}
	return b, nil
}
