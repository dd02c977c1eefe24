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

// Package metrics defines the Prometheus collectors of the link. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics holds the link collectors.
type Metrics struct {
	FramesSent     *prometheus.CounterVec // labels: role
	FramesReceived *prometheus.CounterVec // labels: role
	FramesDropped  *prometheus.CounterVec // labels: reason
	CCAFailures    *prometheus.CounterVec // labels: role
	Transitions    *prometheus.CounterVec // labels: role, state
	HostCommands   *prometheus.CounterVec // labels: command
	StatusReports  prometheus.Counter
	Registered     prometheus.Gauge
	SensorsOK      prometheus.Gauge
}

// New registers and returns the link collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorlink_frames_sent_total",
			Help: "Frames transmitted after clear-channel assessment.",
		}, []string{"role"}),
		FramesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorlink_frames_received_total",
			Help: "Frames taken from the receive buffer.",
		}, []string{"role"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorlink_frames_dropped_total",
			Help: "Frames lost before reaching a state machine.",
		}, []string{"reason"}),
		CCAFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorlink_cca_failures_total",
			Help: "Transmissions abandoned after clear-channel retries.",
		}, []string{"role"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorlink_state_transitions_total",
			Help: "State machine transitions by target state.",
		}, []string{"role", "state"}),
		HostCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorlink_host_commands_total",
			Help: "Host commands handled by the access point.",
		}, []string{"command"}),
		StatusReports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensorlink_status_reports_total",
			Help: "Status lines emitted at the end of a receive window.",
		}),
		Registered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensorlink_registered_sensors",
			Help: "Sensors in the registry.",
		}),
		SensorsOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensorlink_sensors_ok",
			Help: "Registered sensors heard in the last completed window.",
		}),
	}
	reg.MustRegister(
		m.FramesSent, m.FramesReceived, m.FramesDropped, m.CCAFailures,
		m.Transitions, m.HostCommands, m.StatusReports, m.Registered, m.SensorsOK,
	)
	return m
}

// Sent counts a transmitted frame.
func (m *Metrics) Sent(role string) {
	if m != nil {
		m.FramesSent.WithLabelValues(role).Inc()
	}
}

// Received counts a received frame.
func (m *Metrics) Received(role string) {
	if m != nil {
		m.FramesReceived.WithLabelValues(role).Inc()
	}
}

// Dropped counts a lost frame.
func (m *Metrics) Dropped(reason string) {
	if m != nil {
		m.FramesDropped.WithLabelValues(reason).Inc()
	}
}

// CCAFailed counts an abandoned transmission.
func (m *Metrics) CCAFailed(role string) {
	if m != nil {
		m.CCAFailures.WithLabelValues(role).Inc()
	}
}

// Transition counts a state change.
func (m *Metrics) Transition(role, state string) {
	if m != nil {
		m.Transitions.WithLabelValues(role, state).Inc()
	}
}

// Command counts a handled host command.
func (m *Metrics) Command(name string) {
	if m != nil {
		m.HostCommands.WithLabelValues(name).Inc()
	}
}

// Report records a status line and the sensors it marked OK.
func (m *Metrics) Report(ok int) {
	if m != nil {
		m.StatusReports.Inc()
		m.SensorsOK.Set(float64(ok))
	}
}

// SetRegistered records the registry size.
func (m *Metrics) SetRegistered(n int) {
	if m != nil {
		m.Registered.Set(float64(n))
	}
}
