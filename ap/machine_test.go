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

package ap

import (
	"bytes"
	"testing"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/hostlink"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/ZaparooProject/go-sensorlink/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sensorA = sensorlink.SensorID{'A', 'B', 'C', 'D'}
	sensorB = sensorlink.SensorID{'W', 'X', 'Y', 'Z'}
)

type harness struct {
	m        *Machine
	radio    *sensorlink.MockRadio
	out      *bytes.Buffer
	link     *hostlink.Link
	registry *sensorlink.Registry
}

// newHarness starts an access point and consumes the boot greeting and the
// queued receive-init command.
func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	registry, err := sensorlink.NewRegistry(storage.NewMemory())
	require.NoError(t, err)

	h := &harness{
		radio:    sensorlink.NewMockRadio(),
		out:      &bytes.Buffer{},
		registry: registry,
	}
	h.link = hostlink.NewLink(h.out)
	h.m, err = New(h.radio, h.link, registry, opts...)
	require.NoError(t, err)
	require.NoError(t, h.m.Start())
	require.Equal(t, "#", h.out.String())

	h.m.Step()
	require.Equal(t, StateReceiveWait, h.m.State())
	h.out.Reset()
	return h
}

// host feeds input and steps once per command.
func (h *harness) host(input string) string {
	h.out.Reset()
	h.link.Inject([]byte(input))
	h.m.Step()
	return h.out.String()
}

func (h *harness) step() string {
	h.out.Reset()
	h.m.Step()
	return h.out.String()
}

func (h *harness) ticks(n int) {
	for range n {
		h.m.Tick()
	}
}

func (h *harness) inject(t *testing.T, msg sensorlink.Message) {
	t.Helper()
	require.NoError(t, h.radio.InjectMessage(msg))
}

func (h *harness) register(t *testing.T, ids ...sensorlink.SensorID) {
	t.Helper()
	for _, id := range ids {
		assert.Equal(t, replyOK, h.host("SW"+string(id[:])))
	}
}

func TestMachine_StartRadioUp(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithChannel(2))
	assert.Equal(t, 1, h.radio.Inits())
	assert.Equal(t, uint8(2), h.radio.Channel())
	assert.True(t, h.radio.Receiving())
	assert.Equal(t, uint8(DefaultTimeoutLevel), h.m.TimeoutLevel())
}

func TestNew_InvalidOptions(t *testing.T) {
	t.Parallel()

	registry, err := sensorlink.NewRegistry(storage.NewMemory())
	require.NoError(t, err)
	link := hostlink.NewLink(&bytes.Buffer{})

	_, err = New(sensorlink.NewMockRadio(), link, registry, WithChannel(8))
	require.ErrorIs(t, err, sensorlink.ErrChannelRange)

	_, err = New(sensorlink.NewMockRadio(), link, registry, WithTimeoutLevel(6))
	require.ErrorIs(t, err, ErrTimeoutLevel)
}

func TestMachine_SensorWriteErase(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Equal(t, "\rOK\r", h.host("SW1234"))
	assert.Equal(t, "\rALREADY ON LIST\r", h.host("SW1234"))
	assert.Equal(t, 1, h.m.Found())
	assert.Equal(t, "\rOK\r", h.host("SE1234"))
	assert.Equal(t, "\rSENSOR NOT ON LIST\r", h.host("SE1234"))
	assert.Equal(t, 0, h.m.Found())
	assert.Equal(t, 0, h.registry.Count())
}

func TestMachine_SensorWriteFull(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for i := range sensorlink.RegistryCapacity {
		id := []byte{'S', 'N', byte('A' + i/10), byte('0' + i%10)}
		require.Equal(t, replyOK, h.host("SW"+string(id)))
	}
	assert.Equal(t, "\rERROR\r", h.host("SWFULL"))
	assert.Equal(t, sensorlink.RegistryCapacity, h.registry.Count())
}

func TestMachine_SensorWritePersistFailure(t *testing.T) {
	t.Parallel()

	store := storage.NewMemory()
	registry, err := sensorlink.NewRegistry(store)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	link := hostlink.NewLink(out)
	m, err := New(sensorlink.NewMockRadio(), link, registry)
	require.NoError(t, err)
	require.NoError(t, m.Start())
	m.Step()

	store.FailSaves(assert.AnError)
	out.Reset()
	link.Inject([]byte("SW1234"))
	m.Step()
	assert.Equal(t, "\rERROR\r", out.String())
	assert.Equal(t, 0, registry.Count())
}

func TestMachine_SensorList(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Equal(t, "{\n}", h.host("SL"))

	h.register(t, sensorA, sensorB)
	assert.Equal(t, "{ABCD\rWXYZ\r\n}", h.host("SL"))
}

func TestMachine_ChannelCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Equal(t, "\rCHANNEL: 0\r", h.host("CR"))

	tests := []struct {
		input string
		want  string
	}{
		{"CS3", "\rOK\r"},
		{"CS7", "\rOK\r"},
		{"CS0", "\rERRO\r"},
		{"CS8", "\rERRO\r"},
		{"CSx", "\rERRO\r"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.host(tt.input), tt.input)
	}
	assert.Equal(t, "\rCHANNEL: 7\r", h.host("CR"))

	// The radio follows on the next mode change.
	assert.Equal(t, uint8(0), h.radio.Channel())
	h.host("MR")
	assert.Equal(t, uint8(7), h.radio.Channel())
	assert.Equal(t, 2, h.radio.Inits())
}

func TestMachine_TimeoutCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Equal(t, "\rTIMEOUT ATUAL : 5\r", h.host("TR"))
	assert.Equal(t, "\rOK\r", h.host("TS2"))
	assert.Equal(t, "\rTIMEOUT ATUAL : 2\r", h.host("TR"))
	assert.Equal(t, "\rERRO\r", h.host("TS6"))
	assert.Equal(t, "\rERRO\r", h.host("TS0"))
	assert.Equal(t, uint8(2), h.m.TimeoutLevel())
}

func TestMachine_SearchPairsNewSensor(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Equal(t, "\rMODE: SEARCH\r[Modo Busca      \r 00 encontrados ]", h.host("MS"))
	assert.Equal(t, StateScanWait, h.m.State())

	h.inject(t, sensorlink.DiscoveryMessage(sensorA, 0x31))
	assert.Equal(t, "[Modo Busca      \r 01 encontrados ]\r", h.step())
	assert.Equal(t, StateScanAck, h.m.State())
	assert.Equal(t, 1, h.registry.Count())

	h.radio.ClearTransmitted()
	h.step()
	assert.Equal(t, StateScanWait, h.m.State())
	assert.True(t, h.radio.Receiving())

	sent := h.radio.TransmittedMessages()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].Is(sensorlink.TagDiscoveryAck))
	id, sensorType, ok := sent[0].TaggedSensor()
	require.True(t, ok)
	assert.Equal(t, sensorA, id)
	assert.Equal(t, byte(0x31), sensorType)
}

func TestMachine_SearchAcksKnownSensorQuietly(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.register(t, sensorA)
	h.host("MS")

	h.inject(t, sensorlink.DiscoveryMessage(sensorA, sensorlink.DefaultSensorType))
	assert.Empty(t, h.step())
	assert.Equal(t, StateScanAck, h.m.State())
	assert.Equal(t, 1, h.m.Found())

	h.step()
	require.Len(t, h.radio.TransmittedMessages(), 1)
}

func TestMachine_SearchIgnoresOtherTraffic(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.host("MS")

	h.inject(t, sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	assert.Empty(t, h.step())
	assert.Equal(t, StateScanWait, h.m.State())

	// Expiry restarts the timer and stays in search.
	h.ticks(SearchTimeout)
	h.step()
	assert.Equal(t, StateScanWait, h.m.State())
	assert.Equal(t, 0, h.registry.Count())
}

func TestMachine_ScanAckRearmsShortTimeout(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.host("MS")
	h.inject(t, sensorlink.DiscoveryMessage(sensorA, sensorlink.DefaultSensorType))
	h.step()
	h.step()

	assert.Equal(t, uint32(ScanAckTimeout), h.m.clock.Timeout())
	assert.Zero(t, h.m.clock.Timer())
}

func TestMachine_ReceiveWindowReport(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithTimeoutLevel(0))
	h.register(t, sensorA, sensorB)
	h.host("MR")
	h.out.Reset()

	status, _ := h.m.Status(0)
	assert.Equal(t, StatusNotAcknowledged, status)

	// A first reading always differs from the stored one, so the window
	// closes on the next tick.
	h.inject(t, sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	h.step()
	assert.Equal(t, StateReceiveAck, h.m.State())
	h.step()
	assert.Equal(t, StateReceiveWait, h.m.State())

	sent := h.radio.TransmittedMessages()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].Is(sensorlink.TagStatusAck))
	id, _, _ := sent[0].TaggedSensor()
	assert.Equal(t, sensorA, id)

	h.ticks(1)
	assert.Equal(t, "<414243440FFFF,5758595A0????>\r", h.step())

	// An early report keeps the statuses for one more window.
	h.ticks(int(TimeoutLevels[0]))
	assert.Equal(t, "<414243440FFFF,5758595A0????>\r", h.step())

	h.ticks(int(TimeoutLevels[0]))
	assert.Equal(t, "<414243440????,5758595A0????>\r", h.step())
}

func TestMachine_ReceiveFaultValue(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithTimeoutLevel(0))
	h.register(t, sensorA)
	h.host("MR")

	h.inject(t, sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueFault))
	h.step()
	h.step()
	h.ticks(1)
	assert.Equal(t, "<4142434400000>\r", h.step())

	_, value := h.m.Status(0)
	assert.Equal(t, [4]byte{'3', '0', '3', '0'}, value)
}

func TestMachine_ReceiveSameValueWaitsForWindow(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithTimeoutLevel(0))
	h.register(t, sensorA)
	h.host("MR")

	h.inject(t, sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	h.step()
	h.step()
	h.ticks(1)
	h.step()

	h.inject(t, sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	h.step()
	h.step()
	h.ticks(1)
	assert.Empty(t, h.step(), "unchanged reading does not close the window")

	h.ticks(int(TimeoutLevels[0]))
	assert.Equal(t, "<414243440FFFF>\r", h.step())
}

func TestMachine_ReceiveUnregisteredSensorStillAcked(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.inject(t, sensorlink.StatusMessage(sensorB, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	h.step()
	h.step()

	sent := h.radio.TransmittedMessages()
	require.Len(t, sent, 1)
	id, _, _ := sent[0].TaggedSensor()
	assert.Equal(t, sensorB, id)
	assert.Equal(t, 0, h.registry.Count())
}

func TestMachine_ReceiveInitStartsNotPresent(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.register(t, sensorA)
	h.host("MR")
	status, _ := h.m.Status(0)
	assert.Equal(t, StatusNotAcknowledged, status)

	h.link.Put(hostlink.NewMessage(hostlink.CommandModeReceiveInit))
	assert.Empty(t, h.step())
	status, _ = h.m.Status(0)
	assert.Equal(t, StatusNotPresent, status)
}

func TestMachine_EraseKeepsStatusesAligned(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.register(t, sensorA, sensorB)
	h.host("MR")
	h.inject(t, sensorlink.StatusMessage(sensorB, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	h.step()
	h.step()

	status, _ := h.m.Status(1)
	require.Equal(t, StatusOK, status)

	assert.Equal(t, replyOK, h.host("SEABCD"))
	status, value := h.m.Status(0)
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, [4]byte{'4', '6', '4', '6'}, value)
	status, _ = h.m.Status(1)
	assert.Equal(t, StatusNotPresent, status)
}

func TestMachine_Inventory(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithTimeoutLevel(0))
	assert.Equal(t, "\rMODE: INVENTORY\r", h.host("MI"))
	assert.Equal(t, StateInventoryWait, h.m.State())

	h.inject(t, sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	assert.Equal(t, "(41424344)\r", h.step())

	h.ticks(int(TimeoutLevels[0]))
	h.step()
	assert.Equal(t, StateIdle, h.m.State())
	assert.Empty(t, h.radio.TransmittedMessages())
}

func TestMachine_Debug(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.Equal(t, "\rMODE: DEBUG\r", h.host("MD"))

	msg := sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueOK)
	h.inject(t, msg)
	frame, err := sensorlink.EncodeFrame(sensorlink.BroadcastAddr, sensorlink.DefaultSeed, msg)
	require.NoError(t, err)

	want := "\r DEBUG DATA: " + string(msg) + "\r" + string(frame[1:])
	assert.Equal(t, want, h.step())

	h.ticks(10 * SearchTimeout)
	h.step()
	assert.Equal(t, StateDebug, h.m.State(), "debug has no timeout")
}

func TestMachine_DropsUndecodableFrames(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	mt := metrics.New(reg)
	h := newHarness(t, WithMetrics(mt))
	h.radio.Inject([]byte{0x02, 0x00})
	h.step()

	assert.Equal(t, StateReceiveWait, h.m.State())
	assert.InDelta(t, 1, testutil.ToFloat64(mt.FramesDropped.WithLabelValues("decode")), 0)
}

func TestMachine_MetricsTransitionsAndCommands(t *testing.T) {
	t.Parallel()

	mt := metrics.New(prometheus.NewRegistry())
	h := newHarness(t, WithMetrics(mt))
	h.host("MS")
	h.host("SL")

	assert.InDelta(t, 1, testutil.ToFloat64(mt.Transitions.WithLabelValues(Role, "ScanWait")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.HostCommands.WithLabelValues("mode-search")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.HostCommands.WithLabelValues("sensor-list")), 0)
}

func TestMachine_AckClearsHostSilence(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.ticks(5)
	assert.Equal(t, uint32(5), h.link.Silence())
	h.host("!")
	assert.Zero(t, h.link.Silence())
}

func TestMachine_WatchdogDue(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	assert.False(t, h.m.WatchdogDue(100), "no tick yet")

	h.ticks(1)
	assert.True(t, h.m.WatchdogDue(100))
	assert.False(t, h.m.WatchdogDue(100), "once per tick")

	h.ticks(100)
	assert.False(t, h.m.WatchdogDue(100), "host silent")

	h.host("!")
	h.ticks(1)
	assert.True(t, h.m.WatchdogDue(100))
}

func TestMachine_LinkResetRearmsReceiver(t *testing.T) {
	t.Parallel()

	h := newHarness(t, WithTimeoutLevel(0))
	h.host("@")
	assert.True(t, h.radio.Receiving())

	h.host("MI")
	h.ticks(int(TimeoutLevels[0]))
	h.step()
	require.Equal(t, StateIdle, h.m.State())

	h.host("@")
	assert.False(t, h.radio.Receiving())
}

func TestMachine_Snapshot(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := newHarness(t, WithClock(func() time.Time { return at }), WithChannel(4))
	h.register(t, sensorA)
	h.host("MR")
	h.inject(t, sensorlink.StatusMessage(sensorA, sensorlink.DefaultSensorType, sensorlink.ValueOK))
	h.step()

	s := h.m.Snapshot()
	assert.Equal(t, at, s.Updated)
	assert.Equal(t, "ReceiveAck", s.State)
	assert.Equal(t, uint8(4), s.Channel)
	assert.Equal(t, 1, s.Found)
	require.Len(t, s.Sensors, 1)
	assert.Equal(t, SensorStatus{
		ID:     "41424344",
		Type:   sensorlink.DefaultSensorType,
		Status: "ok",
		Value:  "4646",
	}, s.Sensors[0])
}

func TestSnapshot_BeforeStart(t *testing.T) {
	t.Parallel()

	registry, err := sensorlink.NewRegistry(storage.NewMemory())
	require.NoError(t, err)
	m, err := New(sensorlink.NewMockRadio(), hostlink.NewLink(&bytes.Buffer{}), registry)
	require.NoError(t, err)

	s := m.Snapshot()
	require.NotNil(t, s)
	assert.Equal(t, "Idle", s.State)
	assert.Empty(t, s.Sensors)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "InventoryWait", StateInventoryWait.String())
	assert.Equal(t, "Unknown", State(42).String())
	assert.Equal(t, "nak", StatusNotAcknowledged.String())
	assert.Equal(t, "not-present", StatusNotPresent.String())
}
