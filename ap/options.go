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

package ap

import (
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Option configures a Machine.
type Option func(*Machine) error

// WithChannel sets the radio channel.
func WithChannel(ch uint8) Option {
	return func(m *Machine) error {
		if !sensorlink.ValidChannel(ch) {
			return fmt.Errorf("channel %d: %w", ch, sensorlink.ErrChannelRange)
		}
		m.channel = ch
		return nil
	}
}

// WithTimeoutLevel selects the receive window from TimeoutLevels.
func WithTimeoutLevel(level uint8) Option {
	return func(m *Machine) error {
		if int(level) >= len(TimeoutLevels) {
			return fmt.Errorf("timeout level %d: %w", level, ErrTimeoutLevel)
		}
		m.commTimeout = level
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

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Machine) error {
		m.log = log
		return nil
	}
}

// WithMetrics records transitions, host commands and reports.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Machine) error {
		m.metrics = mt
		return nil
	}
}

// WithClock replaces the wall clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) error {
		m.now = now
		return nil
	}
}
