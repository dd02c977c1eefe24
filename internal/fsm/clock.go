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

// Package fsm holds the tick-driven timer shared by the operation machines.
package fsm

// Clock pairs a state with the timer/timeout counters every operation
// machine owns. Timer and timeout are measured in ticks.
type Clock[S comparable] struct {
	state   S
	timer   uint32
	timeout uint32
}

// New returns a clock in state with both counters at zero.
func New[S comparable](state S) *Clock[S] {
	return &Clock[S]{state: state}
}

// State returns the current state.
func (c *Clock[S]) State() S {
	return c.state
}

// Set enters state and resets timer and timeout.
func (c *Clock[S]) Set(state S) {
	c.state = state
	c.SetTimeout(0)
}

// SetWithTimeout enters state and arms timeout.
func (c *Clock[S]) SetWithTimeout(state S, timeout uint32) {
	c.state = state
	c.SetTimeout(timeout)
}

// Soft changes state without touching the counters, so a window that spans
// several states keeps counting.
func (c *Clock[S]) Soft(state S) {
	c.state = state
}

// SetTimeout arms timeout and restarts the timer.
func (c *Clock[S]) SetTimeout(timeout uint32) {
	c.timeout = timeout
	c.timer = 0
}

// ResetTimer restarts the timer and keeps the timeout.
func (c *Clock[S]) ResetTimer() {
	c.timer = 0
}

// Tick advances the timer by one.
func (c *Clock[S]) Tick() {
	c.timer++
}

// Expired reports whether the timer reached the timeout.
func (c *Clock[S]) Expired() bool {
	return c.timer >= c.timeout
}

// Timer returns the elapsed ticks since the last reset.
func (c *Clock[S]) Timer() uint32 {
	return c.timer
}

// Timeout returns the armed timeout.
func (c *Clock[S]) Timeout() uint32 {
	return c.timeout
}
