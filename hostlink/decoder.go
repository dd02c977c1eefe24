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

// Bytes with a meaning outside the command grammar.
const (
	// AckByte is the host keepalive.
	AckByte = '!'
	// LinkResetByte asks the access point to restart its receiver.
	LinkResetByte = '@'
)

const (
	sensorIDLen = 4
	argLen      = 1
)

type decoderState int

const (
	stateIdle decoderState = iota
	stateSensor
	stateSensorWrite
	stateSensorErase
	stateChannel
	stateChannelSet
	stateMode
	stateTimeout
	stateTimeoutSet
)

// Decoder turns host bytes into queued messages. The grammar is
//
//	S W <4 bytes>   sensor write      S E <4 bytes>   sensor erase
//	S L             sensor list
//	C S <1 byte>    channel set       C R             channel read
//	M S|R|I|D       mode search, receive, inventory, debug
//	T S <1 byte>    timeout set       T R             timeout read
//
// Any byte that does not fit the grammar returns the decoder to idle. The
// keepalive and link-reset bytes act immediately and are then fed through the
// grammar like any other byte.
type Decoder struct {
	queue       *Queue
	onLinkReset func()
	onDrop      func(Message)
	payload     []byte
	state       decoderState
}

// NewDecoder creates a decoder that appends to queue.
func NewDecoder(queue *Queue) *Decoder {
	return &Decoder{queue: queue, payload: make([]byte, 0, sensorIDLen)}
}

// OnLinkReset registers the action for the link-reset byte.
func (d *Decoder) OnLinkReset(fn func()) {
	d.onLinkReset = fn
}

// OnDrop registers a callback for messages lost to a full queue.
func (d *Decoder) OnDrop(fn func(Message)) {
	d.onDrop = fn
}

// Feed consumes one byte.
func (d *Decoder) Feed(b byte) {
	switch b {
	case LinkResetByte:
		if d.onLinkReset != nil {
			d.onLinkReset()
		}
	case AckByte:
		d.emit(CommandAck)
	}

	switch d.state {
	case stateIdle:
		d.idle(b)
	case stateSensor:
		d.sensor(b)
	case stateSensorWrite:
		d.collect(b, sensorIDLen, CommandSensorWrite)
	case stateSensorErase:
		d.collect(b, sensorIDLen, CommandSensorErase)
	case stateChannel:
		d.readOrSet(b, stateChannelSet, CommandChannelRead)
	case stateChannelSet:
		d.collect(b, argLen, CommandChannelSet)
	case stateMode:
		d.mode(b)
	case stateTimeout:
		d.readOrSet(b, stateTimeoutSet, CommandTimeoutRead)
	case stateTimeoutSet:
		d.collect(b, argLen, CommandTimeoutSet)
	}
}

// Reset returns the decoder to idle and discards partial payloads.
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.payload = d.payload[:0]
}

func (d *Decoder) idle(b byte) {
	switch b {
	case 'S':
		d.state = stateSensor
	case 'C':
		d.state = stateChannel
	case 'M':
		d.state = stateMode
	case 'T':
		d.state = stateTimeout
	}
}

func (d *Decoder) sensor(b byte) {
	switch b {
	case 'W':
		d.startPayload(stateSensorWrite)
	case 'E':
		d.startPayload(stateSensorErase)
	case 'L':
		d.finish(CommandSensorList)
	default:
		d.Reset()
	}
}

func (d *Decoder) readOrSet(b byte, setState decoderState, read Command) {
	switch b {
	case 'S':
		d.startPayload(setState)
	case 'R':
		d.finish(read)
	default:
		d.Reset()
	}
}

func (d *Decoder) mode(b byte) {
	switch b {
	case 'S':
		d.finish(CommandModeSearch)
	case 'R':
		d.finish(CommandModeReceive)
	case 'I':
		d.finish(CommandModeInventory)
	case 'D':
		d.finish(CommandModeDebug)
	default:
		d.Reset()
	}
}

func (d *Decoder) startPayload(next decoderState) {
	d.payload = d.payload[:0]
	d.state = next
}

func (d *Decoder) collect(b byte, want int, cmd Command) {
	d.payload = append(d.payload, b)
	if len(d.payload) >= want {
		d.finish(cmd)
	}
}

func (d *Decoder) finish(cmd Command) {
	d.emit(cmd)
	d.Reset()
}

func (d *Decoder) emit(cmd Command) {
	var payload []byte
	if cmd != CommandAck {
		payload = d.payload
	}
	m := newMessage(cmd, payload)
	if !d.queue.Put(m) && d.onDrop != nil {
		d.onDrop(m)
	}
}
