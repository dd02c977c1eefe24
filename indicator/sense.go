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

package indicator

import (
	"context"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// NewSense configures pin as a pulled-up fault contact with edge detection
// on both transitions, so WatchEdges can report changes.
func NewSense(pin gpio.PinIn) (*Button, error) {
	return newButton(pin, gpio.BothEdges)
}

// WatchEdges reports every edge on pin until ctx ends. Edges arriving while
// a previous one is unread are merged. The pin must have been configured
// with edge detection. poll bounds how long a cancelled watch lingers.
func WatchEdges(ctx context.Context, pin gpio.PinIn, poll time.Duration) <-chan struct{} {
	edges := make(chan struct{}, 1)
	go func() {
		for ctx.Err() == nil {
			if !pin.WaitForEdge(poll) {
				continue
			}
			select {
			case edges <- struct{}{}:
			default:
			}
		}
	}()
	return edges
}
