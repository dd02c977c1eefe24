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

package ed

import (
	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/ZaparooProject/go-sensorlink/watchdog"
	"github.com/sirupsen/logrus"
)

// Option configures a Machine.
type Option func(*Machine) error

// WithType sets the sensor type sent in discovery and status messages.
func WithType(t byte) Option {
	return func(m *Machine) error {
		m.sensorType = t
		return nil
	}
}

// WithSeed sets the scrambler seed of outgoing frames.
func WithSeed(seed sensorlink.Seed) Option {
	return func(m *Machine) error {
		m.seed = seed
		return nil
	}
}

// WithLED sets the status indicator.
func WithLED(led LED) Option {
	return func(m *Machine) error {
		m.led = led
		return nil
	}
}

// WithSense sets the monitored input.
func WithSense(s Sense) Option {
	return func(m *Machine) error {
		m.sense = s
		return nil
	}
}

// WithButton sets the configuration button.
func WithButton(b Button) Option {
	return func(m *Machine) error {
		m.button = b
		return nil
	}
}

// WithPower sets the sleep provider.
func WithPower(p Power) Option {
	return func(m *Machine) error {
		m.power = p
		return nil
	}
}

// WithWatchdog sets the watchdog stopped around sleeps.
func WithWatchdog(wd watchdog.Watchdog) Option {
	return func(m *Machine) error {
		m.wd = wd
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Machine) error {
		m.log = log
		return nil
	}
}

// WithMetrics records state transitions.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Machine) error {
		m.metrics = mt
		return nil
	}
}
