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
	"context"
	"time"

	"github.com/ZaparooProject/go-sensorlink/watchdog"
)

// StepsPerTick is how many times Run steps the machine between ticks.
const StepsPerTick = 8

// RunConfig configures Run.
type RunConfig struct {
	// Watchdog is kicked while the loop is healthy. Nil disables it.
	Watchdog watchdog.Watchdog
	// TickPeriod is the period of the machine clock.
	TickPeriod time.Duration
	// HostSilence is the number of ticks without host input after which the
	// watchdog is no longer kicked. Zero never stops kicking.
	HostSilence uint32
}

// Run starts m and drives it until ctx is done.
func Run(ctx context.Context, m *Machine, cfg RunConfig) error {
	if err := m.Start(); err != nil {
		return err
	}
	ticker := time.NewTicker(cfg.TickPeriod)
	defer ticker.Stop()

	silence := cfg.HostSilence
	if silence == 0 {
		silence = ^uint32(0)
	}

	for {
		select {
		case <-ctx.Done():
			if cfg.Watchdog != nil {
				if err := cfg.Watchdog.Stop(); err != nil {
					m.log.WithError(err).Warn("stop watchdog")
				}
			}
			return nil
		case <-ticker.C:
			m.Tick()
			for range StepsPerTick {
				m.Step()
			}
			if cfg.Watchdog != nil && m.WatchdogDue(silence) {
				if err := cfg.Watchdog.Kick(); err != nil {
					m.log.WithError(err).Warn("kick watchdog")
				}
			}
		}
	}
}
