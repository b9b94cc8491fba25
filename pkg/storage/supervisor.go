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
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Supervisor owns the process-wide connection to the embedded store.
//
// The first call to Store runs the open+migrate sequence; calls arriving
// while it is in flight wait for and share its result. A successful result
// is cached until Close. An open that Close overtakes is closed and
// reported as ErrClosed instead of being cached. A failed open is returned
// to every caller of that attempt and is not cached, so a later call
// retries.
type Supervisor struct {
	cfg    Config
	open   func(ctx context.Context, cfg Config) (*Store, error)
	logger *slog.Logger

	group singleflight.Group

	mu    sync.Mutex
	store *Store
	gen   uint64 // bumped by Close
}

// NewSupervisor returns a Supervisor that opens the store described by cfg
// on first use.
func NewSupervisor(cfg Config) *Supervisor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		cfg:    cfg,
		open:   Open,
		logger: logger,
	}
}

// Store returns the live store, opening it if necessary. Cancelling ctx
// abandons the wait but not the open itself, which other callers may be
// sharing.
func (s *Supervisor) Store(ctx context.Context) (*Store, error) {
	if st := s.cached(); st != nil {
		return st, nil
	}

	ch := s.group.DoChan("open", func() (any, error) {
		s.mu.Lock()
		if s.store != nil {
			st := s.store
			s.mu.Unlock()
			return st, nil
		}
		gen := s.gen
		s.mu.Unlock()

		st, err := s.open(context.WithoutCancel(ctx), s.cfg)
		if err != nil {
			s.logger.Warn("storage.supervisor.open.failed", "err", err)
			return nil, err
		}

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			s.logger.Debug("storage.supervisor.open.discarded")
			if err := st.Close(); err != nil {
				s.logger.Warn("storage.supervisor.close.failed", "err", err)
			}
			return nil, ErrClosed
		}
		s.store = st
		s.mu.Unlock()
		return st, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Store), nil
	}
}

// Close closes the live store, if any. An open still in flight fails with
// ErrClosed. A later Store call opens a new one.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	st := s.store
	s.store = nil
	s.gen++
	s.mu.Unlock()
	s.group.Forget("open")

	if st == nil {
		return nil
	}
	return st.Close()
}

func (s *Supervisor) cached() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}
