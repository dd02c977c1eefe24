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

package sim

import (
	"bytes"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ZaparooProject/go-sensorlink/internal/logging"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Medium is the air shared by a set of radios.
type Medium struct {
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	busy    func() bool
	radios  map[*Radio]struct{}
	sent    []Transmission
	record  bool
	warn    time.Duration
	mu      sync.Mutex
}

// Transmission is one frame put on the air.
type Transmission struct {
	From    string
	Frame   []byte
	Channel uint8
}

// MediumOption configures a Medium.
type MediumOption func(*Medium)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) MediumOption {
	return func(m *Medium) {
		m.log = log
	}
}

// WithMetrics records frame counters.
func WithMetrics(mt *metrics.Metrics) MediumOption {
	return func(m *Medium) {
		m.metrics = mt
	}
}

// WithBusyRatio makes clear-channel assessment fail for the given share of
// attempts.
func WithBusyRatio(ratio float64) MediumOption {
	return func(m *Medium) {
		if ratio <= 0 {
			m.busy = nil
			return
		}
		m.busy = func() bool { return rand.Float64() < ratio } //nolint:gosec // simulation noise
	}
}

// WithBusyFunc replaces the clear-channel assessment outcome.
func WithBusyFunc(fn func() bool) MediumOption {
	return func(m *Medium) {
		m.busy = fn
	}
}

// WithWarnInterval throttles repeated warnings from each radio.
func WithWarnInterval(d time.Duration) MediumOption {
	return func(m *Medium) {
		m.warn = d
	}
}

// WithRecording keeps every transmission for inspection.
func WithRecording() MediumOption {
	return func(m *Medium) {
		m.record = true
	}
}

// NewMedium creates an empty medium.
func NewMedium(opts ...MediumOption) *Medium {
	m := &Medium{
		log:    logging.Discard(),
		radios: make(map[*Radio]struct{}),
		warn:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewRadio attaches a powered-off radio. role labels its metrics and logs.
func (m *Medium) NewRadio(role string, opts ...RadioOption) *Radio {
	r := newRadio(m, role, opts...)
	m.mu.Lock()
	m.radios[r] = struct{}{}
	m.mu.Unlock()
	return r
}

// Detach removes r from the medium. It no longer hears or sends frames.
func (m *Medium) Detach(r *Radio) {
	m.mu.Lock()
	delete(m.radios, r)
	m.mu.Unlock()
}

// Transmissions returns the recorded traffic.
func (m *Medium) Transmissions() []Transmission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transmission, len(m.sent))
	copy(out, m.sent)
	return out
}

func (m *Medium) clear() bool {
	if m.busy == nil {
		return true
	}
	return !m.busy()
}

// broadcast hands frame to every other radio listening on ch.
func (m *Medium) broadcast(from *Radio, ch uint8, frame []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.radios[from]; !ok {
		return
	}
	if m.record {
		m.sent = append(m.sent, Transmission{From: from.role, Channel: ch, Frame: bytes.Clone(frame)})
	}
	for r := range m.radios {
		if r == from {
			continue
		}
		r.deliver(ch, frame)
	}
}
