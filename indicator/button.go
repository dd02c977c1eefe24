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
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Button timing, in ticks.
const (
	DebounceTicks   = 10
	ShortPressTicks = 100
	LongPressTicks  = 300
)

// ErrNoPin is returned when a GPIO name is not registered.
var ErrNoPin = errors.New("no such gpio")

// Press is a completed button press.
type Press int

const (
	PressNone Press = iota
	PressShort
	PressLong
)

func (p Press) String() string {
	switch p {
	case PressShort:
		return "short"
	case PressLong:
		return "long"
	default:
		return "none"
	}
}

type buttonState int

const (
	buttonIdle buttonState = iota
	buttonDebounce
	buttonPressShort
	buttonPressLong
	buttonWaitRelease
)

// Button is an active-low push button with a pull-up. Presses held for
// ShortPressTicks+LongPressTicks report PressLong; shorter ones PressShort.
type Button struct {
	pin     gpio.PinIn
	state   buttonState
	press   Press
	timer   uint16
	timeout uint16
}

// NewButton configures pin as a pulled-up input. The button ignores a press
// already in progress until it is released.
func NewButton(pin gpio.PinIn) (*Button, error) {
	return newButton(pin, gpio.NoEdge)
}

func newButton(pin gpio.PinIn, edge gpio.Edge) (*Button, error) {
	if err := pin.In(gpio.PullUp, edge); err != nil {
		return nil, fmt.Errorf("configure %s: %w", pin, err)
	}
	b := &Button{pin: pin}
	b.Clear()
	return b, nil
}

// Clear drops any pending press and waits for a release.
func (b *Button) Clear() {
	b.state = buttonWaitRelease
	b.press = PressNone
	b.timer = 0
}

// Get returns and consumes the last completed press.
func (b *Button) Get() (Press, bool) {
	if b.press == PressNone {
		return PressNone, false
	}
	p := b.press
	b.press = PressNone
	return p, true
}

// Active reports whether the button is held right now.
func (b *Button) Active() bool {
	return b.pin.Read() == gpio.Low
}

// Fault reports a held sense input, for buttons wired as fault contacts.
func (b *Button) Fault() bool {
	return b.Active()
}

// Tick samples the pin.
func (b *Button) Tick() {
	b.timer++
	held := b.Active()

	switch b.state {
	case buttonIdle:
		if held {
			b.arm(buttonDebounce, DebounceTicks)
		}
	case buttonDebounce:
		if b.timer < b.timeout {
			return
		}
		if held {
			b.arm(buttonPressShort, ShortPressTicks)
		} else {
			b.state = buttonIdle
		}
	case buttonPressShort:
		if !held {
			b.state = buttonIdle
			b.press = PressShort
		} else if b.timer >= b.timeout {
			b.arm(buttonPressLong, LongPressTicks)
		}
	case buttonPressLong:
		if !held {
			b.state = buttonIdle
			b.press = PressShort
		} else if b.timer >= b.timeout {
			b.state = buttonWaitRelease
			b.press = PressLong
		}
	case buttonWaitRelease:
		if !held {
			b.state = buttonIdle
		}
	}
}

func (b *Button) arm(state buttonState, timeout uint16) {
	b.state = state
	b.timer = 0
	b.timeout = timeout
}

// OpenPin initializes the periph host drivers and looks up a GPIO by name,
// e.g. "GPIO17".
func OpenPin(name string) (gpio.PinIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio %s: %w", name, ErrNoPin)
	}
	return pin, nil
}
