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

// Package indicator drives the end device status LED and reads its buttons
// over periph.io GPIO pins. Both are advanced by the machine tick.
package indicator

import (
	"periph.io/x/conn/v3/gpio"
)

// LEDState is the blink engine state.
type LEDState int

const (
	LEDOff LEDState = iota
	LEDOn
	LEDBlinkOff
	LEDBlinkOn
	LEDBlinkPause
)

func (s LEDState) String() string {
	switch s {
	case LEDOff:
		return "off"
	case LEDOn:
		return "on"
	case LEDBlinkOff:
		return "blink-off"
	case LEDBlinkOn:
		return "blink-on"
	case LEDBlinkPause:
		return "blink-pause"
	default:
		return "unknown"
	}
}

// LED is a single status LED with a tick-driven blink pattern.
type LED struct {
	pin         gpio.PinOut
	err         error
	state       LEDState
	timer       uint16
	tOn         uint16
	tOff        uint16
	tPause      uint16
	blinks      uint8
	blinksLeft  uint8
	repetitions uint8
}

// NewLED drives pin low and returns an LED in LEDOff.
func NewLED(pin gpio.PinOut) *LED {
	l := &LED{pin: pin}
	l.drive(gpio.Low)
	return l
}

// On lights the LED and cancels any pattern.
func (l *LED) On() {
	l.state = LEDOn
	l.drive(gpio.High)
}

// Off darkens the LED and cancels any pattern.
func (l *LED) Off() {
	l.state = LEDOff
	l.drive(gpio.Low)
}

// Blink starts a pattern: a pause of pause ticks, then repetitions groups of
// blinks flashes, each flash off for off ticks and on for on ticks, each
// group followed by another pause. The LED is Off when the pattern ends.
func (l *LED) Blink(blinks uint8, on, off, pause uint16, repetitions uint8) {
	l.tOn = on
	l.tOff = off
	l.tPause = pause
	l.blinks = blinks
	l.blinksLeft = blinks
	l.repetitions = repetitions
	l.timer = 0
	l.Off()
	l.state = LEDBlinkPause
}

// State returns the blink engine state.
func (l *LED) State() LEDState {
	return l.state
}

// Err returns the first pin error seen, if any.
func (l *LED) Err() error {
	return l.err
}

// Tick advances the pattern by one tick.
func (l *LED) Tick() {
	l.timer++

	switch l.state {
	case LEDOff, LEDOn:
	case LEDBlinkOff:
		if l.timer < l.tOff {
			return
		}
		l.timer = 0
		if l.blinksLeft > 0 {
			l.blinksLeft--
			l.state = LEDBlinkOn
			l.drive(gpio.High)
			return
		}
		l.state = LEDBlinkPause
	case LEDBlinkOn:
		if l.timer < l.tOn {
			return
		}
		l.timer = 0
		l.state = LEDBlinkOff
		l.drive(gpio.Low)
	case LEDBlinkPause:
		if l.timer < l.tPause {
			return
		}
		l.timer = 0
		if l.repetitions > 0 {
			l.repetitions--
			l.blinksLeft = l.blinks
			l.state = LEDBlinkOff
		} else {
			l.state = LEDOff
		}
		l.drive(gpio.Low)
	}
}

func (l *LED) drive(level gpio.Level) {
	if err := l.pin.Out(level); err != nil && l.err == nil {
		l.err = err
	}
}
