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
	"context"
	"time"
)

// Run starts m and drives it every tickPeriod until ctx is done. The
// watchdog is kicked after every healthy step; sleeps stop it.
func Run(ctx context.Context, m *Machine, tickPeriod time.Duration) error {
	if err := m.Start(); err != nil {
		return err
	}
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.stopWatchdog()
			return nil
		case <-ticker.C:
			m.Tick()
			if err := m.Step(ctx); err != nil {
				if ctx.Err() != nil {
					m.stopWatchdog()
					return nil
				}
				return err
			}
			m.KickWatchdog()
		}
	}
}
