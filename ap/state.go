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

// Package ap is the access point: it pairs end devices, collects their
// status reports and serves the host terminal.
package ap

// State is the access point operation state.
type State int

const (
	StateIdle State = iota
	StateScanWait
	StateScanAck
	StateReceiveWait
	StateReceiveAck
	StateInventoryWait
	StateDebug
)

var stateNames = [...]string{
	StateIdle:          "Idle",
	StateScanWait:      "ScanWait",
	StateScanAck:       "ScanAck",
	StateReceiveWait:   "ReceiveWait",
	StateReceiveAck:    "ReceiveAck",
	StateInventoryWait: "InventoryWait",
	StateDebug:         "Debug",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// CommStatus is what the access point knows about one registered sensor in
// the current receive window.
type CommStatus int

const (
	// StatusNotPresent marks a slot with no registered sensor, or one not yet
	// polled since receive mode started.
	StatusNotPresent CommStatus = iota
	// StatusNotAcknowledged marks a registered sensor not heard this window.
	StatusNotAcknowledged
	// StatusOK marks a registered sensor heard this window.
	StatusOK
)

func (s CommStatus) String() string {
	switch s {
	case StatusNotAcknowledged:
		return "nak"
	case StatusOK:
		return "ok"
	default:
		return "not-present"
	}
}
