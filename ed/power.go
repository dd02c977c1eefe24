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

	"github.com/ZaparooProject/go-sensorlink/indicator"
)

// SleepDurations are the timed sleeps between reports, indexed by sleep
// level.
var SleepDurations = [...]time.Duration{
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
	8 * time.Second,
	16 * time.Second,
}

// Power suspends the device. Both calls block; they return ctx.Err() when
// ctx ends first.
type Power interface {
	// DeepSleep suspends until the wake button is pressed.
	DeepSleep(ctx context.Context) error
	// Sleep suspends for d or until the sense input changes.
	Sleep(ctx context.Context, d time.Duration) error
}

// LED is the status indicator.
type LED interface {
	On()
	Off()
	Blink(blinks uint8, on, off, pause uint16, repetitions uint8)
	State() indicator.LEDState
	Tick()
}

// Sense is the monitored input.
type Sense interface {
	Fault() bool
}

// Button is the configuration button.
type Button interface {
	Clear()
	Tick()
}

// SimPower is a Power for simulation. Sleeps last d scaled by Scale, or end
// early on SenseEdge. A deep sleep ends on Wake or after DeepSleepFor,
// whichever comes first. A zero DeepSleepFor waits for Wake only.
type SimPower struct {
	Wake         <-chan struct{}
	SenseEdge    <-chan struct{}
	Scale        float64
	DeepSleepFor time.Duration
}

// DeepSleep waits for a wake event.
func (p *SimPower) DeepSleep(ctx context.Context) error {
	var timeout <-chan time.Time
	if p.DeepSleepFor > 0 {
		t := time.NewTimer(p.scaled(p.DeepSleepFor))
		defer t.Stop()
		timeout = t.C
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.Wake:
	case <-timeout:
	}
	return nil
}

// Sleep waits for the scaled duration or a sense edge. Edges seen before
// the sleep starts are discarded.
func (p *SimPower) Sleep(ctx context.Context, d time.Duration) error {
	for drained := false; !drained; {
		select {
		case _, ok := <-p.SenseEdge:
			drained = !ok
		default:
			drained = true
		}
	}

	t := time.NewTimer(p.scaled(d))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.SenseEdge:
		return nil
	case <-t.C:
		return nil
	}
}

func (p *SimPower) scaled(d time.Duration) time.Duration {
	if p.Scale <= 0 {
		return d
	}
	return time.Duration(float64(d) * p.Scale)
}

type nopLED struct{}

func (nopLED) On() {}
func (nopLED) Off() {}
func (nopLED) Blink(uint8, uint16, uint16, uint16, uint8) {}
func (nopLED) State() indicator.LEDState { return indicator.LEDOff }
func (nopLED) Tick() {}

type noFault struct{}

func (noFault) Fault() bool { return false }
