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

package sensorlink

// NumChannels is the number of pre-agreed radio channels.
const NumChannels = 8

// Radio is the link capability both state machines consume. Implementations
// own the transceiver and its single-frame receive buffer.
type Radio interface {
	// Init (re)starts the transceiver on channel and leaves it idle.
	Init(channel uint8) error

	// ReceiveOn arms the receiver.
	ReceiveOn()

	// ReceiveOff disarms the receiver and discards any partial frame.
	ReceiveOff()

	// PowerOff puts the transceiver in its lowest power state. Init must be
	// called before the radio is used again.
	PowerOff()

	// Transmit sends frame after clear-channel assessment. It returns false
	// once the bounded CCA retries are exhausted.
	Transmit(frame []byte) bool

	// PollFrame returns the buffered frame, if any, and empties the buffer.
	// It never blocks. Frames failing length validation are dropped.
	PollFrame() ([]byte, bool)

	// Tick advances the radio's internal timer. It is driven by the same
	// periodic tick as the state machines.
	Tick()
}

// RadioType names a Radio implementation.
type RadioType string

const (
	// RadioSim is the simulated shared medium.
	RadioSim RadioType = "sim"
	// RadioMock is the scripted radio used in tests.
	RadioMock RadioType = "mock"
)

// Typed is implemented by radios that report their type.
type Typed interface {
	Type() RadioType
}

// ValidChannel reports whether ch addresses one of the pre-agreed channels.
func ValidChannel(ch uint8) bool {
	return ch < NumChannels
}
