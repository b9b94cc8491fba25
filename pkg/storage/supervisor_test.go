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
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupervisor_SingleOpenUnderConcurrency(t *testing.T) {
	sup := NewSupervisor(Config{Engine: EngineMemory})
	t.Cleanup(func() { _ = sup.Close() })

	var opens atomic.Int32
	release := make(chan struct{})
	sup.open = func(ctx context.Context, cfg Config) (*Store, error) {
		opens.Add(1)
		<-release
		return Open(ctx, cfg)
	}

	const callers = 16
	var wg sync.WaitGroup
	stores := make([]*Store, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i], errs[i] = sup.Store(context.Background())
		}(i)
	}

	// Let the callers pile up on the in-flight open.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), opens.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, stores[0], stores[i])
	}

	// Cached afterwards.
	st, err := sup.Store(context.Background())
	require.NoError(t, err)
	assert.Same(t, stores[0], st)
	assert.Equal(t, int32(1), opens.Load())
}

func TestSupervisor_FailureIsNotCached(t *testing.T) {
	sup := NewSupervisor(Config{Engine: EngineMemory})
	t.Cleanup(func() { _ = sup.Close() })

	var opens atomic.Int32
	sup.open = func(ctx context.Context, cfg Config) (*Store, error) {
		if opens.Add(1) == 1 {
			return nil, ErrStorageUnavailable
		}
		return Open(ctx, cfg)
	}

	_, err := sup.Store(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	st, err := sup.Store(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, st)
	assert.Equal(t, int32(2), opens.Load())
}

func TestSupervisor_ContextCancelledWhileWaiting(t *testing.T) {
	sup := NewSupervisor(Config{Engine: EngineMemory})
	t.Cleanup(func() { _ = sup.Close() })

	release := make(chan struct{})
	sup.open = func(ctx context.Context, cfg Config) (*Store, error) {
		<-release
		return Open(ctx, cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sup.Store(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	// The abandoned open still completes and is cached for later callers.
	close(release)
	st, err := sup.Store(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, st)
}

func TestSupervisor_CloseReopens(t *testing.T) {
	sup := NewSupervisor(Config{Engine: EngineMemory})

	first, err := sup.Store(context.Background())
	require.NoError(t, err)
	require.NoError(t, sup.Close())

	second, err := sup.Store(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	require.NoError(t, sup.Close())

	// Closing with nothing open is a no-op.
	assert.NoError(t, sup.Close())
}

func TestSupervisor_CloseDuringOpen(t *testing.T) {
	sup := NewSupervisor(Config{Engine: EngineMemory})
	t.Cleanup(func() { _ = sup.Close() })

	entered := make(chan struct{})
	release := make(chan struct{})
	var opened *Store
	sup.open = func(ctx context.Context, cfg Config) (*Store, error) {
		close(entered)
		<-release
		st, err := Open(ctx, cfg)
		opened = st
		return st, err
	}

	done := make(chan error, 1)
	go func() {
		_, err := sup.Store(context.Background())
		done <- err
	}()

	<-entered
	require.NoError(t, sup.Close())
	close(release)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Nil(t, sup.cached())

	// The store opened behind Close's back was closed, not leaked.
	require.NotNil(t, opened)
	_, err := opened.ListProjects(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	// The next caller gets a fresh store.
	sup.open = Open
	st, err := sup.Store(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, opened, st)
}
