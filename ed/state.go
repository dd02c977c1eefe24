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

// Package ed is the end device: it searches the access point across the
// channels, pairs, and then reports its sense input between timed sleeps.
package ed

// State is the end device operation state.
type State int

const (
	StateDeepSleep State = iota
	StateConfig
	StateTurnOnRadio
	StateTurnOffRadio
	StateSearchApQuery
	StateSearchApWait
	StateChangeChannel
	StateSendStatus
	StateMeasureBattery
	StateWaitAck
	StateSleep
	StateInformStatus
)

var stateNames = [...]string{
	StateDeepSleep:      "DeepSleep",
	StateConfig:         "Config",
	StateTurnOnRadio:    "TurnOnRadio",
	StateTurnOffRadio:   "TurnOffRadio",
	StateSearchApQuery:  "SearchApQuery",
	StateSearchApWait:   "SearchApWait",
	StateChangeChannel:  "ChangeChannel",
	StateSendStatus:     "SendStatus",
	StateMeasureBattery: "MeasureBattery",
	StateWaitAck:        "WaitAck",
	StateSleep:          "Sleep",
	StateInformStatus:   "InformStatus",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}
