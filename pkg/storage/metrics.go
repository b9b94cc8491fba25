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
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kraklabs/fontstore/internal/contract"
)

// metricsStorage holds Prometheus metrics for the embedded store.
type metricsStorage struct {
	once sync.Once

	opens         prometheus.Counter
	openFailures  prometheus.Counter
	migrations    prometheus.Counter
	schemaVersion prometheus.Gauge

	ops        *prometheus.CounterVec
	opDuration *prometheus.HistogramVec

	cascadeDeleted prometheus.Counter
}

var storeMetrics metricsStorage

func (m *metricsStorage) init() {
	m.once.Do(func() {
		m.opens = prometheus.NewCounter(prometheus.CounterOpts{Name: "fontstore_storage_opens_total", Help: "Embedded store open sequences started"})
		m.openFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "fontstore_storage_open_failures_total", Help: "Embedded store open sequences that failed"})
		m.migrations = prometheus.NewCounter(prometheus.CounterOpts{Name: "fontstore_storage_migrations_total", Help: "Schema migration steps applied"})
		m.schemaVersion = prometheus.NewGauge(prometheus.GaugeOpts{Name: "fontstore_storage_schema_version", Help: "Schema version of the open store"})

		m.ops = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "fontstore_storage_operations_total", Help: "Storage operations by name and result"}, []string{"op", "result"})

		buckets := []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
		m.opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "fontstore_storage_operation_seconds", Help: "Storage operation latency", Buckets: buckets}, []string{"op"})

		m.cascadeDeleted = prometheus.NewCounter(prometheus.CounterOpts{Name: "fontstore_storage_cascade_deleted_total", Help: "Child records removed by project deletes"})

		prometheus.MustRegister(
			m.opens, m.openFailures, m.migrations, m.schemaVersion,
			m.ops, m.opDuration,
			m.cascadeDeleted,
		)
	})
}

// observe records the outcome and latency of one storage operation. It is
// deferred with a pointer to the operation's named error result.
func observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	storeMetrics.init()
	storeMetrics.opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	storeMetrics.ops.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, contract.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrTransactionAborted):
		return "aborted"
	default:
		return "error"
	}
}
