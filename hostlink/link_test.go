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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Compose(t *testing.T) {
	t.Parallel()

	f := Format().
		Literal("\r").
		HexID(sensorlink.SensorID{0x0A, 0xBC, 0x01, 0xFF}).
		Byte(':').
		Digit(7).
		Percent().
		Raw([]byte{0x00}).
		Text("x")

	assert.Equal(t, "\r0ABC01FF:7%\x00x", f.String())

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(f.Bytes())), n)
	assert.Equal(t, f.Bytes(), buf.Bytes())
}

func TestLink_InjectPollNext(t *testing.T) {
	t.Parallel()

	link := NewLink(io.Discard)
	link.Inject([]byte("CS4MR"))

	_, ok := link.Next()
	assert.False(t, ok, "nothing decoded before Poll")

	link.Poll()
	m, ok := link.Next()
	require.True(t, ok)
	assert.Equal(t, CommandChannelSet, m.Command)
	assert.Equal(t, byte('4'), m.Arg())

	m, ok = link.Next()
	require.True(t, ok)
	assert.Equal(t, CommandModeReceive, m.Command)
}

func TestLink_LinkReset(t *testing.T) {
	t.Parallel()

	link := NewLink(io.Discard)
	resets := 0
	link.OnLinkReset(func() { resets++ })
	link.Inject([]byte("@"))
	link.Poll()
	assert.Equal(t, 1, resets)
}

func TestLink_Put(t *testing.T) {
	t.Parallel()

	link := NewLink(io.Discard)
	require.True(t, link.Put(NewMessage(CommandModeReceiveInit)))
	m, ok := link.Next()
	require.True(t, ok)
	assert.Equal(t, CommandModeReceiveInit, m.Command)
}

func TestLink_Silence(t *testing.T) {
	t.Parallel()

	link := NewLink(io.Discard)
	for i := 0; i < 5; i++ {
		link.Tick()
	}
	assert.Equal(t, uint32(5), link.Silence())
	assert.True(t, link.TimedOut(5))
	assert.False(t, link.TimedOut(6))
	link.ClearTimeout()
	assert.Equal(t, uint32(0), link.Silence())
	assert.False(t, link.TimedOut(1))
}

func TestLink_InjectOverflowCountsDrops(t *testing.T) {
	t.Parallel()

	link := NewLink(io.Discard)
	link.Inject(make([]byte, RxBufferSize+3))
	assert.Equal(t, uint64(3), link.Dropped())
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write([]byte) (int, error) {
	w.calls++
	return 0, errors.New("unplugged")
}

func TestLink_WriteFailureLoggedOnce(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	w := &failingWriter{}
	link := NewLink(w, WithLogger(logger))

	link.Emit(Format().Literal("\rOK\r"))
	link.Emit(Format().Literal("\rOK\r"))
	link.Send(nil)

	assert.Equal(t, 2, w.calls)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestLink_QueueFullLogged(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	link := NewLink(io.Discard, WithLogger(logger))
	link.Inject([]byte("SLSLSLSLSL"))
	link.Poll()

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "sensor-list", hook.LastEntry().Data["command"].(Command).String())
}

func TestLink_PumpReadsUntilEOF(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	link := NewLink(&out)
	err := link.Pump(context.Background(), strings.NewReader("SL!"))
	require.NoError(t, err)

	link.Poll()
	m, ok := link.Next()
	require.True(t, ok)
	assert.Equal(t, CommandSensorList, m.Command)
	m, ok = link.Next()
	require.True(t, ok)
	assert.Equal(t, CommandAck, m.Command)
}

func TestLink_PumpStopsOnCancel(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	defer func() { _ = w.Close() }()

	link := NewLink(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- link.Pump(ctx, r) }()

	_, err := w.Write([]byte("C"))
	require.NoError(t, err)
	cancel()
	_ = r.CloseWithError(context.Canceled)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not stop")
	}
}

func TestLink_PumpReturnsReadError(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	boom := errors.New("boom")
	_ = w.CloseWithError(boom)

	link := NewLink(io.Discard)
	err := link.Pump(context.Background(), r)
	require.ErrorIs(t, err, boom)
}
