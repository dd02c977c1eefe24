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

package hostlink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sensorlink/internal/retry"
	"go.bug.st/serial"
)

// DefaultBaudRate is the host link speed.
const DefaultBaudRate = 115200

// ErrNoPorts is returned when no serial port is present.
var ErrNoPorts = errors.New("no serial ports found")

// PortConfig describes the host serial port.
type PortConfig struct {
	Name     string        `mapstructure:"name"`
	BaudRate int           `mapstructure:"baud"`
	Wait     time.Duration `mapstructure:"wait"`
}

// OpenPort opens name as an 8N1 serial port.
func OpenPort(name string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return port, nil
}

// OpenPortWait retries OpenPort until the port appears or cfg.Wait elapses.
// USB serial adapters often enumerate after the process starts.
func OpenPortWait(ctx context.Context, cfg PortConfig) (serial.Port, error) {
	if cfg.Wait <= 0 {
		return OpenPort(cfg.Name, cfg.BaudRate)
	}
	var lastErr error
	port, err := retry.Until(ctx, cfg.Wait, 250*time.Millisecond, func() (serial.Port, bool, error) {
		p, err := OpenPort(cfg.Name, cfg.BaudRate)
		if err != nil {
			lastErr = err
			return nil, true, nil
		}
		return p, false, nil
	})
	if err != nil && lastErr != nil {
		return nil, lastErr
	}
	return port, err
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	if len(ports) == 0 {
		return nil, ErrNoPorts
	}
	return ports, nil
}
