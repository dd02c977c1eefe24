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

package ed

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/indicator"
	"github.com/ZaparooProject/go-sensorlink/internal/fsm"
	"github.com/ZaparooProject/go-sensorlink/internal/logging"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/ZaparooProject/go-sensorlink/watchdog"
	"github.com/sirupsen/logrus"
)

// Role labels end device metrics and logs.
const Role = "ed"

// Timing, in ticks.
const (
	ConfigTimeout        = 1000
	SearchAckTimeout     = 50
	ChangeChannelTimeout = 10
	AckTimeout           = 10
)

// Sleep levels index SleepDurations.
const (
	SleepLevelFault = 2
	SleepLevelOK    = 4
)

// Exhaustion blink: five short flashes, once.
const (
	exhaustedBlinks      = 5
	exhaustedOn          = 10
	exhaustedOff         = 20
	exhaustedPause       = 100
	exhaustedRepetitions = 1
)

// Machine is the end device operation state machine. Tick and Step must be
// called from one goroutine.
type Machine struct {
	radio      sensorlink.Radio
	store      sensorlink.Store
	led        LED
	sense      Sense
	button     Button
	power      Power
	wd         watchdog.Watchdog
	log        logrus.FieldLogger
	metrics    *metrics.Metrics
	clock      *fsm.Clock[State]
	params     Params
	id         sensorlink.SensorID
	seed       sensorlink.Seed
	sensorType byte
	channel    uint8
	sleepLevel uint8
	fault      bool
}

// New creates an end device with identifier id. Pairing parameters are kept
// in store. Call Start before the first Tick.
func New(radio sensorlink.Radio, store sensorlink.Store, id sensorlink.SensorID, opts ...Option) (*Machine, error) {
	m := &Machine{
		radio:      radio,
		store:      store,
		id:         id,
		led:        nopLED{},
		sense:      noFault{},
		power:      &SimPower{},
		wd:         watchdog.Nop{},
		log:        logging.Discard(),
		clock:      fsm.New(StateDeepSleep),
		seed:       sensorlink.DefaultSeed,
		sensorType: sensorlink.DefaultSensorType,
		sleepLevel: SleepLevelOK,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.log = m.log.WithFields(logrus.Fields{"role": Role, "sensor": id})
	return m, nil
}

// Start loads the pairing. A paired device goes straight to the radio on
// its stored channel, otherwise it waits in deep sleep for the button.
func (m *Machine) Start() error {
	p, err := LoadParams(m.store)
	if err != nil {
		m.log.WithError(err).Warn("pairing unreadable, starting unpaired")
	}
	m.params = p
	if p.Paired() {
		m.channel = p.Channel
		m.enter(StateTurnOnRadio, ConfigTimeout)
		m.clearButton()
		return nil
	}
	m.enter(StateDeepSleep, 0)
	return nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.clock.State()
}

// Channel returns the channel being searched or used.
func (m *Machine) Channel() uint8 {
	return m.channel
}

// Params returns the last loaded or persisted pairing.
func (m *Machine) Params() Params {
	return m.params
}

// SleepLevel returns the index into SleepDurations used by the next sleep.
func (m *Machine) SleepLevel() uint8 {
	return m.sleepLevel
}

// ID returns the device identifier.
func (m *Machine) ID() sensorlink.SensorID {
	return m.id
}

// Tick advances the timers.
func (m *Machine) Tick() {
	m.clock.Tick()
	m.radio.Tick()
	m.led.Tick()
	if m.button != nil {
		m.button.Tick()
	}
}

// KickWatchdog restarts the watchdog countdown.
func (m *Machine) KickWatchdog() {
	if err := m.wd.Kick(); err != nil {
		m.log.WithError(err).Warn("kick watchdog")
	}
}

// Step runs the current state once. It blocks while the device sleeps and
// returns an error only when ctx ends during a sleep.
func (m *Machine) Step(ctx context.Context) error {
	switch m.clock.State() {
	case StateDeepSleep:
		return m.deepSleep(ctx)
	case StateConfig:
		m.channel = 0
		m.enter(StateTurnOnRadio, 0)
	case StateTurnOnRadio:
		m.turnOnRadio()
	case StateTurnOffRadio:
		m.radio.ReceiveOff()
		m.enter(StateDeepSleep, 0)
	case StateSearchApQuery:
		m.searchApQuery()
	case StateSearchApWait:
		m.searchApWait()
	case StateChangeChannel:
		if m.clock.Expired() {
			m.enter(StateTurnOnRadio, 0)
		}
	case StateSendStatus:
		m.sendStatus()
	case StateMeasureBattery:
		m.radio.ReceiveOn()
		m.enter(StateWaitAck, AckTimeout)
	case StateWaitAck:
		m.waitAck()
	case StateSleep:
		return m.sleep(ctx)
	case StateInformStatus:
		if m.led.State() == indicator.LEDOff {
			m.enter(StateDeepSleep, 0)
		}
	}
	return nil
}

func (m *Machine) deepSleep(ctx context.Context) error {
	m.radio.ReceiveOff()
	m.led.Off()
	m.radio.PowerOff()
	m.stopWatchdog()
	m.log.Debug("deep sleep")

	if err := m.power.DeepSleep(ctx); err != nil {
		return fmt.Errorf("deep sleep: %w", err)
	}
	m.KickWatchdog()

	if m.params.Paired() {
		m.channel = m.params.Channel
		m.enter(StateTurnOnRadio, 0)
		return nil
	}
	m.enter(StateConfig, ConfigTimeout)
	m.led.On()
	m.clearButton()
	return nil
}

func (m *Machine) turnOnRadio() {
	if err := m.radio.Init(m.channel); err != nil {
		m.log.WithError(err).Error("radio init")
	}
	m.enter(StateSearchApQuery, 0)
}

func (m *Machine) searchApQuery() {
	m.led.On()
	m.transmit(sensorlink.DiscoveryMessage(m.id, m.sensorType))
	m.radio.ReceiveOn()
	m.enter(StateSearchApWait, SearchAckTimeout)
}

func (m *Machine) searchApWait() {
	if msg, ok := m.poll(); ok {
		switch {
		case m.ackFor(msg, sensorlink.TagDiscoveryAck):
			m.led.Off()
			m.paired()
			m.enter(StateSendStatus, 0)
			return
		case m.ackFor(msg, sensorlink.TagStatusAck):
			m.led.Off()
			m.enter(StateSendStatus, 0)
			return
		}
	}
	if !m.clock.Expired() {
		return
	}

	m.led.Off()
	m.channel++
	if !sensorlink.ValidChannel(m.channel) {
		m.log.Info("no access point on any channel")
		m.led.Blink(exhaustedBlinks, exhaustedOn, exhaustedOff, exhaustedPause, exhaustedRepetitions)
		m.enter(StateInformStatus, 0)
		return
	}
	m.enter(StateChangeChannel, ChangeChannelTimeout)
}

func (m *Machine) paired() {
	p := Params{Check: ParamsValid, Channel: m.channel}
	if err := SaveParams(m.store, p); err != nil {
		m.log.WithError(err).Error("pairing not saved")
		return
	}
	m.params = p
	m.log.WithField("channel", m.channel).Info("paired")
}

func (m *Machine) sendStatus() {
	// A fault keeps being reported until an ack clears it.
	value := sensorlink.ValueOK
	if m.sense.Fault() || m.fault {
		value = sensorlink.ValueFault
		m.fault = true
	}
	m.transmit(sensorlink.StatusMessage(m.id, m.sensorType, value))
	m.led.On()
	m.enter(StateMeasureBattery, 0)
}

func (m *Machine) waitAck() {
	if msg, ok := m.poll(); ok && m.ackFor(msg, sensorlink.TagStatusAck) {
		m.fault = false
		m.sleepLevel = SleepLevelOK
		m.enter(StateSleep, 0)
		return
	}
	if !m.clock.Expired() {
		return
	}
	if m.fault {
		m.sleepLevel = SleepLevelFault
	} else {
		m.sleepLevel = SleepLevelOK
	}
	m.enter(StateSleep, 0)
}

func (m *Machine) sleep(ctx context.Context) error {
	m.radio.ReceiveOff()
	m.radio.PowerOff()
	m.led.Off()
	m.stopWatchdog()

	if err := m.power.Sleep(ctx, SleepDurations[m.sleepLevel]); err != nil {
		return fmt.Errorf("sleep: %w", err)
	}
	m.KickWatchdog()

	m.enter(StateSendStatus, 0)
	if err := m.radio.Init(m.channel); err != nil {
		m.log.WithError(err).Error("radio init")
	}
	m.led.On()
	return nil
}

// ackFor reports whether msg is a tag acknowledgement addressed to this
// device.
func (m *Machine) ackFor(msg sensorlink.Message, tag string) bool {
	if !msg.Is(tag) {
		return false
	}
	id, _, ok := msg.TaggedSensor()
	return ok && id == m.id
}

func (m *Machine) enter(state State, timeout uint32) {
	m.clock.SetWithTimeout(state, timeout)
	m.metrics.Transition(Role, state.String())
	m.log.WithField("state", state).Trace("transition")
}

func (m *Machine) stopWatchdog() {
	if err := m.wd.Stop(); err != nil {
		m.log.WithError(err).Warn("stop watchdog")
	}
}

func (m *Machine) clearButton() {
	if m.button != nil {
		m.button.Clear()
	}
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

func (m *Machine) poll() (sensorlink.Message, bool) {
	raw, ok := m.radio.PollFrame()
	if !ok {
		return nil, false
	}
	f, err := sensorlink.DecodeFrame(raw)
	if err != nil {
		m.metrics.Dropped("decode")
		return nil, false
	}
	return f.Message(), true
}
