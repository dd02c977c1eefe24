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
	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/hostlink"
)

func (m *Machine) scanWait() {
	_, msg, ok := m.poll()
	if !ok {
		if m.clock.Expired() {
			m.clock.ResetTimer()
		}
		return
	}
	if !msg.Is(sensorlink.TagDiscovery) {
		return
	}
	id, sensorType, ok := msg.TaggedSensor()
	if !ok {
		return
	}

	res, err := m.registry.Write(id[:])
	if err != nil {
		m.log.WithError(err).Error("register discovered sensor")
	}
	log := m.log.WithField("sensor", id)
	switch res {
	case sensorlink.WriteOK:
		m.found++
		m.registryChanged()
		log.Info("sensor paired")
		m.link.Emit(m.searchBanner().Literal("\r"))
	case sensorlink.WriteAlreadyPresent:
		log.Debug("sensor discovered again")
	default:
		log.Warn("discovered sensor not registered")
		return
	}
	m.lastHeard = id
	m.lastType = sensorType
	m.enter(StateScanAck, 0)
}

func (m *Machine) scanAck() {
	m.transmit(sensorlink.AckMessage(sensorlink.TagDiscoveryAck, m.lastHeard, m.lastType))
	m.radio.ReceiveOn()
	m.enter(StateScanWait, ScanAckTimeout)
}

func (m *Machine) receiveWait() {
	_, msg, ok := m.poll()
	if !ok {
		if m.clock.Expired() {
			m.closeWindow()
		}
		return
	}

	if msg.Is(sensorlink.TagDiscovery) {
		if id, sensorType, ok := msg.TaggedSensor(); ok {
			m.lastHeard, m.lastType = id, sensorType
		}
	} else if report, ok := msg.Status(); ok {
		m.lastHeard, m.lastType = report.ID, report.Type
		m.recordStatus(report)
	}
	m.soft(StateReceiveAck)
}

func (m *Machine) recordStatus(report sensorlink.StatusReport) {
	pos, found := m.registry.PositionOf(report.ID[:])
	if !found {
		m.log.WithField("sensor", report.ID).Debug("status from unregistered sensor")
		return
	}
	value := sensorlink.HexValue(report.Value)
	m.statuses[pos] = StatusOK
	if value[0] != m.values[pos][0] {
		// A changed reading is reported at once.
		m.clock.SetTimeout(1)
		m.early = true
	}
	m.values[pos] = value
	m.dirty = true
}

// closeWindow reports every registered sensor and opens the next window.
func (m *Machine) closeWindow() {
	entries := m.registry.Entries()
	f := hostlink.Format().Literal("<")
	ok := 0
	for i, e := range entries {
		f.HexID(e.ID).Byte(e.Type)
		switch {
		case m.statuses[i] != StatusOK:
			f.Literal("????")
		case m.values[i][1] == '0':
			f.Literal("0000")
		default:
			f.Literal("FFFF")
		}
		if m.statuses[i] == StatusOK {
			ok++
		}
		if i < len(entries)-1 {
			f.Literal(",")
		}
	}
	m.link.Emit(f.Literal(">\r"))
	m.metrics.Report(ok)

	m.clock.SetTimeout(m.windowTicks())
	if m.early {
		m.early = false
	} else {
		for i := range entries {
			m.statuses[i] = StatusNotAcknowledged
		}
	}
	for i := len(entries); i < len(m.statuses); i++ {
		m.statuses[i] = StatusNotPresent
	}
	m.dirty = true
}

func (m *Machine) receiveAck() {
	m.transmit(sensorlink.AckMessage(sensorlink.TagStatusAck, m.lastHeard, m.lastType))
	m.radio.ReceiveOn()
	m.soft(StateReceiveWait)
}

func (m *Machine) inventoryWait() {
	_, msg, ok := m.poll()
	if !ok {
		if m.clock.Expired() {
			m.enter(StateIdle, 0)
		}
		return
	}
	var id sensorlink.SensorID
	copy(id[:], msg)
	m.link.Emit(hostlink.Format().Literal("(").HexID(id).Literal(")\r"))
}

func (m *Machine) debug() {
	f, msg, ok := m.poll()
	if !ok {
		return
	}
	m.link.Emit(hostlink.Format().
		Literal("\r DEBUG DATA: ").
		Raw(msg).
		Literal("\r").
		Raw(f.Raw()))
}
