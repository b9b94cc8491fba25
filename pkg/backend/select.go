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

package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/kraklabs/fontstore/pkg/geometry"
	"github.com/kraklabs/fontstore/pkg/storage"
)

// Mode names a Backend variant.
type Mode string

const (
	// ModeAuto picks local or remote from the other options.
	ModeAuto   Mode = "auto"
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// ParseMode converts a configuration string to a Mode. The empty string is
// ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeLocal, ModeRemote:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown backend mode %q (supported: auto, local, remote)", ErrInvalidInput, s)
	}
}

// Options are the inputs to backend selection.
type Options struct {
	// Mode forces a variant. ModeAuto (or "") decides from Standalone and
	// RemoteURL.
	Mode Mode

	// Standalone forces the local variant under ModeAuto.
	Standalone bool

	// RemoteURL is the origin of a fontstore server. Under ModeAuto an
	// empty RemoteURL selects the local variant.
	RemoteURL string

	// Timeout bounds each remote request.
	Timeout time.Duration

	// Storage configures the local embedded store.
	Storage storage.Config

	// Geometry replaces the stub geometry processor of the local variant.
	Geometry geometry.Processor

	Logger *slog.Logger
}

// ResolveMode decides which variant opts select. It depends only on opts.
func ResolveMode(opts Options) (Mode, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}
	switch mode {
	case ModeLocal:
		return ModeLocal, nil
	case ModeRemote:
		if opts.RemoteURL == "" {
			return "", fmt.Errorf("%w: remote backend requires a remote URL", ErrInvalidInput)
		}
		return ModeRemote, nil
	case ModeAuto:
		if opts.Standalone || opts.RemoteURL == "" {
			return ModeLocal, nil
		}
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("%w: unknown backend mode %q", ErrInvalidInput, mode)
	}
}

// Select resolves the mode once and builds the chosen Backend. For the
// local variant it first probes the host for the embedded store and fails
// with ErrStorageUnavailable instead of returning a backend that would fail
// on first use. The store itself is opened lazily.
func Select(ctx context.Context, opts Options) (Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := ResolveMode(opts)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeRemote:
		u, err := url.Parse(opts.RemoteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: invalid remote URL %q", ErrInvalidInput, opts.RemoteURL)
		}
		logger.Info("backend.select", "mode", mode, "remote_url", opts.RemoteURL)
		return NewRemote(opts.RemoteURL, opts.Timeout, logger), nil

	default:
		cfg := opts.Storage
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		if err := storage.Probe(ctx, cfg); err != nil {
			logger.Error("backend.select.storage_unavailable", "err", err)
			return nil, err
		}
		logger.Info("backend.select", "mode", mode, "engine", cfg.Engine, "data_dir", cfg.DataDir)
		return NewLocal(storage.NewSupervisor(cfg), opts.Geometry, logger), nil
	}
}
