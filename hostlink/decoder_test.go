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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(d *Decoder, s string) {
	for i := 0; i < len(s); i++ {
		d.Feed(s[i])
	}
}

func drain(q *Queue) []Message {
	var out []Message
	for {
		m, ok := q.Get()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestDecoder_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		payload []byte
		want    Command
	}{
		{name: "sensor write", input: "SW1234", want: CommandSensorWrite, payload: []byte("1234")},
		{name: "sensor erase", input: "SE\x01\x02\x03\x04", want: CommandSensorErase, payload: []byte{1, 2, 3, 4}},
		{name: "sensor list", input: "SL", want: CommandSensorList},
		{name: "channel set", input: "CS3", want: CommandChannelSet, payload: []byte("3")},
		{name: "channel read", input: "CR", want: CommandChannelRead},
		{name: "mode search", input: "MS", want: CommandModeSearch},
		{name: "mode receive", input: "MR", want: CommandModeReceive},
		{name: "mode inventory", input: "MI", want: CommandModeInventory},
		{name: "mode debug", input: "MD", want: CommandModeDebug},
		{name: "timeout set", input: "TS2", want: CommandTimeoutSet, payload: []byte("2")},
		{name: "timeout read", input: "TR", want: CommandTimeoutRead},
		{name: "keepalive", input: "!", want: CommandAck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := &Queue{}
			d := NewDecoder(q)
			feed(d, tt.input)

			got := drain(q)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Command)
			assert.Equal(t, tt.payload, got[0].Payload)
		})
	}
}

func TestDecoder_UnknownByteReturnsToIdle(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	d := NewDecoder(q)
	feed(d, "SXLMZCR")

	got := drain(q)
	require.Len(t, got, 1)
	assert.Equal(t, CommandChannelRead, got[0].Command)
}

func TestDecoder_PartialPayloadDoesNotEmit(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	d := NewDecoder(q)
	feed(d, "SW12")
	assert.Equal(t, 0, q.Len())

	d.Reset()
	feed(d, "SL")
	got := drain(q)
	require.Len(t, got, 1)
	assert.Equal(t, CommandSensorList, got[0].Command)
}

func TestDecoder_PayloadsAreIndependent(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	d := NewDecoder(q)
	feed(d, "SWAAAASEBBBB")

	got := drain(q)
	require.Len(t, got, 2)
	assert.Equal(t, []byte("AAAA"), got[0].Payload)
	assert.Equal(t, []byte("BBBB"), got[1].Payload)
}

func TestDecoder_KeepaliveInsideCommand(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	d := NewDecoder(q)
	feed(d, "S!")

	got := drain(q)
	require.Len(t, got, 1)
	assert.Equal(t, CommandAck, got[0].Command)
	assert.Nil(t, got[0].Payload)

	// the '!' also broke the S prefix
	feed(d, "L")
	assert.Equal(t, 0, q.Len())
}

func TestDecoder_LinkReset(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	d := NewDecoder(q)
	resets := 0
	d.OnLinkReset(func() { resets++ })

	feed(d, "@@M@")
	assert.Equal(t, 3, resets)
	assert.Equal(t, 0, q.Len())
}

func TestDecoder_DropWhenQueueFull(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	d := NewDecoder(q)
	var dropped []Command
	d.OnDrop(func(m Message) { dropped = append(dropped, m.Command) })

	feed(d, "SLCRTRMSMR")

	assert.Equal(t, QueueSize, q.Len())
	assert.Equal(t, []Command{CommandModeReceive}, dropped)
}

func TestQueue_FIFO(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	_, ok := q.Get()
	assert.False(t, ok)

	for round := 0; round < 3; round++ {
		require.True(t, q.Put(NewMessage(CommandChannelRead)))
		require.True(t, q.Put(NewMessage(CommandChannelSet, '5')))
		require.Equal(t, 2, q.Len())

		m, ok := q.Get()
		require.True(t, ok)
		assert.Equal(t, CommandChannelRead, m.Command)
		m, ok = q.Get()
		require.True(t, ok)
		assert.Equal(t, byte('5'), m.Arg())
		assert.Equal(t, 0, q.Len())
	}
}

func TestQueue_FullAndClear(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	for i := 0; i < QueueSize; i++ {
		require.True(t, q.Put(NewMessage(CommandAck)))
	}
	assert.Equal(t, QueueSize, q.Len())
	assert.False(t, q.Put(NewMessage(CommandAck)))

	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.True(t, q.Put(NewMessage(CommandAck)))
}

func TestQueue_WrapsWithFullRing(t *testing.T) {
	t.Parallel()

	q := &Queue{}
	require.True(t, q.Put(NewMessage(CommandChannelSet, '1')))
	_, ok := q.Get()
	require.True(t, ok)

	for i := byte(0); i < QueueSize; i++ {
		require.True(t, q.Put(NewMessage(CommandChannelSet, '2'+i)))
	}
	assert.False(t, q.Put(NewMessage(CommandAck)))

	for i := byte(0); i < QueueSize; i++ {
		m, ok := q.Get()
		require.True(t, ok)
		assert.Equal(t, '2'+i, m.Arg())
	}
	_, ok = q.Get()
	assert.False(t, ok)
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sensor-write", CommandSensorWrite.String())
	assert.Equal(t, "unknown", Command(99).String())
	assert.Equal(t, byte(0), NewMessage(CommandSensorList).Arg())
}
