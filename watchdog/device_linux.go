//go:build linux

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

package watchdog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultDevice is the kernel watchdog node.
const DefaultDevice = "/dev/watchdog"

// magicClose disarms the watchdog when written just before close.
const magicClose = "V"

// Device drives a kernel watchdog. Opening the node arms it; Stop disarms it
// with the magic close and Kick reopens it.
type Device struct {
	f       *os.File
	path    string
	timeout time.Duration
	mu      sync.Mutex
}

// OpenDevice arms the watchdog at path with timeout rounded to seconds. A
// zero timeout keeps the driver default.
func OpenDevice(path string, timeout time.Duration) (*Device, error) {
	if path == "" {
		path = DefaultDevice
	}
	d := &Device{path: path, timeout: timeout}
	if err := d.open(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) open() error {
	f, err := os.OpenFile(d.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open watchdog %s: %w", d.path, err)
	}
	if secs := int(d.timeout / time.Second); secs > 0 {
		if err := unix.IoctlSetPointerInt(int(f.Fd()), unix.WDIOC_SETTIMEOUT, secs); err != nil {
			_ = f.Close()
			return fmt.Errorf("set watchdog timeout: %w", err)
		}
	}
	d.f = f
	return nil
}

// Kick implements Watchdog.
func (d *Device) Kick() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return d.open()
	}
	if err := unix.IoctlWatchdogKeepalive(int(d.f.Fd())); err != nil {
		return fmt.Errorf("watchdog keepalive: %w", err)
	}
	return nil
}

// Stop implements Watchdog.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	f := d.f
	d.f = nil
	if _, err := f.WriteString(magicClose); err != nil {
		_ = f.Close()
		return fmt.Errorf("disarm watchdog: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close watchdog: %w", err)
	}
	return nil
}

// Close disarms the watchdog.
func (d *Device) Close() error {
	return d.Stop()
}
