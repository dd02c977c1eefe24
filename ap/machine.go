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
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/hostlink"
	"github.com/ZaparooProject/go-sensorlink/internal/fsm"
	"github.com/ZaparooProject/go-sensorlink/internal/logging"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Role labels access point metrics and logs.
const Role = "ap"

// Timing, in ticks of the 100 Hz machine clock.
const (
	SearchTimeout  = 10 * 100
	ScanAckTimeout = 500
	// DefaultTimeoutLevel indexes TimeoutLevels.
	DefaultTimeoutLevel = 5
)

// TimeoutLevels are the selectable receive windows.
var TimeoutLevels = [...]uint32{1 * 100, 2 * 100, 4 * 100, 8 * 100, 16 * 100, 32 * 100}

// ErrTimeoutLevel is returned for a timeout level outside TimeoutLevels.
var ErrTimeoutLevel = errors.New("timeout level out of range")

// Machine is the access point operation state machine. Tick and Step must be
// called from one goroutine; Snapshot may be called from any.
type Machine struct {
	radio     sensorlink.Radio
	link      *hostlink.Link
	registry  *sensorlink.Registry
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
	clock     *fsm.Clock[State]
	now       func() time.Time
	snap      snapshotCell
	statuses  [sensorlink.RegistryCapacity]CommStatus
	values    [sensorlink.RegistryCapacity][4]byte
	found     int
	lastHeard sensorlink.SensorID
	lastType  byte
	seed      sensorlink.Seed
	channel   uint8
	tuned     uint8
	radioUp   bool
	// commTimeout indexes TimeoutLevels.
	commTimeout uint8
	early       bool
	tickSeen    bool
	dirty       bool
}

// New creates an access point over radio, the host link and the sensor
// registry. Call Start before the first Tick.
func New(radio sensorlink.Radio, link *hostlink.Link, registry *sensorlink.Registry, opts ...Option) (*Machine, error) {
	m := &Machine{
		radio:       radio,
		link:        link,
		registry:    registry,
		log:         logging.Discard(),
		clock:       fsm.New(StateIdle),
		now:         time.Now,
		seed:        sensorlink.DefaultSeed,
		commTimeout: DefaultTimeoutLevel,
		lastType:    sensorlink.DefaultSensorType,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.log = m.log.WithField("role", Role)
	link.OnLinkReset(m.resetReceiver)
	return m, nil
}

// Start brings the radio up, queues the receive-init mode so the access
// point starts collecting status without host input, and greets the host.
func (m *Machine) Start() error {
	if err := m.tune(); err != nil {
		return err
	}
	m.found = m.registry.Count()
	m.metrics.SetRegistered(m.found)
	for i := range m.statuses {
		m.statuses[i] = StatusNotPresent
	}
	m.link.Put(hostlink.NewMessage(hostlink.CommandModeReceiveInit))
	m.enter(StateIdle, 0)
	m.link.ClearTimeout()
	m.link.Emit(hostlink.Format().Literal("#"))
	m.publish()
	return nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.clock.State()
}

// Found returns the found-count shown in the search banner.
func (m *Machine) Found() int {
	return m.found
}

// Channel returns the configured channel.
func (m *Machine) Channel() uint8 {
	return m.channel
}

// TimeoutLevel returns the selected receive window index.
func (m *Machine) TimeoutLevel() uint8 {
	return m.commTimeout
}

// Status returns the comm status and last hex value of registry slot i.
func (m *Machine) Status(i int) (CommStatus, [4]byte) {
	if i < 0 || i >= len(m.statuses) {
		return StatusNotPresent, [4]byte{}
	}
	return m.statuses[i], m.values[i]
}

// Tick advances every timer by one period.
func (m *Machine) Tick() {
	m.clock.Tick()
	m.link.Tick()
	m.radio.Tick()
	m.tickSeen = true
}

// WatchdogDue reports whether the loop may kick the watchdog: a tick was
// seen since the last kick and the host has been heard within hostSilence
// ticks. A host that stops sending keepalives lets the watchdog reset the
// access point.
func (m *Machine) WatchdogDue(hostSilence uint32) bool {
	if !m.tickSeen || m.link.TimedOut(hostSilence) {
		return false
	}
	m.tickSeen = false
	return true
}

// Step handles at most one host command and runs the current state once.
func (m *Machine) Step() {
	m.link.Poll()
	if msg, ok := m.link.Next(); ok {
		m.handleCommand(msg)
	}

	switch m.clock.State() {
	case StateIdle:
	case StateScanWait:
		m.scanWait()
	case StateScanAck:
		m.scanAck()
	case StateReceiveWait:
		m.receiveWait()
	case StateReceiveAck:
		m.receiveAck()
	case StateInventoryWait:
		m.inventoryWait()
	case StateDebug:
		m.debug()
	}

	if m.dirty {
		m.publish()
	}
}

// enter switches state and arms timeout, restarting the timer.
func (m *Machine) enter(state State, timeout uint32) {
	m.clock.SetWithTimeout(state, timeout)
	m.transitioned(state)
}

// soft switches state keeping the running timer and timeout.
func (m *Machine) soft(state State) {
	m.clock.Soft(state)
	m.transitioned(state)
}

func (m *Machine) transitioned(state State) {
	m.dirty = true
	m.metrics.Transition(Role, state.String())
	m.log.WithField("state", state).Trace("transition")
}

func (m *Machine) windowTicks() uint32 {
	return TimeoutLevels[m.commTimeout]
}

// tune re-initializes the radio when the configured channel changed.
func (m *Machine) tune() error {
	if m.radioUp && m.tuned == m.channel {
		return nil
	}
	if err := m.radio.Init(m.channel); err != nil {
		return fmt.Errorf("radio init on channel %d: %w", m.channel, err)
	}
	m.tuned = m.channel
	m.radioUp = true
	m.log.WithField("channel", m.channel).Info("radio tuned")
	return nil
}

func (m *Machine) resetReceiver() {
	m.radio.ReceiveOff()
	if m.clock.State() != StateIdle {
		m.radio.ReceiveOn()
	}
	m.log.Debug("host requested receiver reset")
}

func (m *Machine) transmit(msg sensorlink.Message) {
	frame, err := sensorlink.EncodeFrame(sensorlink.BroadcastAddr, m.seed, msg)
	if err != nil {
		m.log.WithError(err).Error("encode frame")
		return
	}
	if !m.radio.Transmit(frame) {
		m.log.WithField("tag", msg.Tag()).Debug("transmit abandoned")
	}
}

// poll returns the next received frame and its descrambled message.
func (m *Machine) poll() (sensorlink.Frame, sensorlink.Message, bool) {
	raw, ok := m.radio.PollFrame()
	if !ok {
		return sensorlink.Frame{}, nil, false
	}
	f, err := sensorlink.DecodeFrame(raw)
	if err != nil {
		m.metrics.Dropped("decode")
		m.log.WithError(err).Debug("frame ignored")
		return sensorlink.Frame{}, nil, false
	}
	return f, f.Message(), true
}
