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

// Package hostlink implements the access point's serial command channel: a
// byte-oriented decoder for the host's single-letter protocol, the queue of
// decoded commands and the formatter for host-visible status lines.
package hostlink

import "bytes"

// Command is a decoded host request.
type Command int

const (
	CommandNone Command = iota
	CommandSensorWrite
	CommandSensorErase
	CommandSensorList
	CommandChannelSet
	CommandChannelRead
	CommandModeSearch
	CommandModeReceive
	CommandModeReceiveInit
	CommandModeInventory
	CommandModeDebug
	CommandTimeoutRead
	CommandTimeoutSet
	CommandAck
)

var commandNames = map[Command]string{
	CommandNone:            "none",
	CommandSensorWrite:     "sensor-write",
	CommandSensorErase:     "sensor-erase",
	CommandSensorList:      "sensor-list",
	CommandChannelSet:      "channel-set",
	CommandChannelRead:     "channel-read",
	CommandModeSearch:      "mode-search",
	CommandModeReceive:     "mode-receive",
	CommandModeReceiveInit: "mode-receive-init",
	CommandModeInventory:   "mode-inventory",
	CommandModeDebug:       "mode-debug",
	CommandTimeoutRead:     "timeout-read",
	CommandTimeoutSet:      "timeout-set",
	CommandAck:             "ack",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Message is a command together with the bytes collected for it.
type Message struct {
	Payload []byte
	Command Command
}

// Arg returns the first payload byte, or 0 when there is none.
func (m Message) Arg() byte {
	if len(m.Payload) == 0 {
		return 0
	}
	return m.Payload[0]
}

func newMessage(cmd Command, payload []byte) Message {
	if len(payload) == 0 {
		return Message{Command: cmd}
	}
	return Message{Command: cmd, Payload: bytes.Clone(payload)}
}

// NewMessage builds a message for commands raised outside the decoder.
func NewMessage(cmd Command, payload ...byte) Message {
	return newMessage(cmd, payload)
}
