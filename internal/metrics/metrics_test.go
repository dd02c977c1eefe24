// go-sensorlink
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-sensorlink.
//
// go-sensorlink is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-sensorlink is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-sensorlink; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())
	m.Sent("ap")
	m.Sent("ap")
	m.Received("ed")
	m.Dropped("length")
	m.CCAFailed("ed")
	m.Transition("ap", "ScanWait")
	m.Command("sensor-write")
	m.Report(3)
	m.SetRegistered(7)

	assert.InDelta(t, 2, testutil.ToFloat64(m.FramesSent.WithLabelValues("ap")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FramesReceived.WithLabelValues("ed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FramesDropped.WithLabelValues("length")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CCAFailures.WithLabelValues("ed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Transitions.WithLabelValues("ap", "ScanWait")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HostCommands.WithLabelValues("sensor-write")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.StatusReports), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.SensorsOK), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.Registered), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.Sent("ap")
		m.Received("ap")
		m.Dropped("x")
		m.CCAFailed("ap")
		m.Transition("ap", "Idle")
		m.Command("ack")
		m.Report(0)
		m.SetRegistered(0)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	m := New(reg)
	m.SetRegistered(2)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "sensorlink_registered_sensors 2")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
