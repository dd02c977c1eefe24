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

// Package watchdog supervises the main loops. A loop that stops kicking its
// watchdog is reset: the software watchdog calls a handler, the device
// watchdog reboots the host.
package watchdog

import (
	"errors"
	"sync"
	"time"
)

// ErrUnsupported is returned by OpenDevice on platforms without a watchdog
// driver.
var ErrUnsupported = errors.New("watchdog device not supported on this platform")

// Watchdog is kicked by a healthy loop and stopped around intentional
// sleeps.
type Watchdog interface {
	// Kick restarts the countdown, arming the watchdog if stopped.
	Kick() error
	// Stop halts the countdown until the next Kick.
	Stop() error
}

// Soft is an in-process watchdog. When the countdown expires the handler
// runs on its own goroutine and the watchdog stays stopped until kicked.
type Soft struct {
	timer    *time.Timer
	onExpire func()
	timeout  time.Duration
	expired  int
	mu       sync.Mutex
}

// NewSoft returns a stopped watchdog that calls onExpire after timeout
// without a kick.
func NewSoft(timeout time.Duration, onExpire func()) *Soft {
	return &Soft{timeout: timeout, onExpire: onExpire}
}

// Kick implements Watchdog.
func (s *Soft) Kick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		s.timer = time.AfterFunc(s.timeout, s.fire)
		return nil
	}
	s.timer.Reset(s.timeout)
	return nil
}

// Stop implements Watchdog.
func (s *Soft) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	return nil
}

// Expirations returns how many times the countdown ran out.
func (s *Soft) Expirations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

func (s *Soft) fire() {
	s.mu.Lock()
	s.expired++
	fn := s.onExpire
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Nop never expires.
type Nop struct{}

// Kick implements Watchdog.
func (Nop) Kick() error { return nil }

// Stop implements Watchdog.
func (Nop) Stop() error { return nil }
