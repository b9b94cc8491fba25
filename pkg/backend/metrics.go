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
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsRemote holds Prometheus metrics for the remote backend client.
type metricsRemote struct {
	once sync.Once

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var remoteMetrics metricsRemote

func (m *metricsRemote) init() {
	m.once.Do(func() {
		m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "fontstore_remote_requests_total", Help: "Requests sent to the remote backend by method and status code"}, []string{"method", "code"})
		m.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "fontstore_remote_request_seconds", Help: "Remote backend request latency", Buckets: prometheus.DefBuckets}, []string{"method"})
		prometheus.MustRegister(m.requests, m.duration)
	})
}

// observe records one request. code is 0 when no response was received.
func (m *metricsRemote) observe(method string, code int, start time.Time) {
	m.init()
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(method, label).Inc()
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
