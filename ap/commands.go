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

// Host replies.
const (
	replyOK            = "\rOK\r"
	replyError         = "\rERROR\r"
	replyErro          = "\rERRO\r"
	replyAlreadyListed = "\rALREADY ON LIST\r"
	replyNotListed     = "\rSENSOR NOT ON LIST\r"
)

func (m *Machine) handleCommand(msg hostlink.Message) {
	m.metrics.Command(msg.Command.String())

	switch msg.Command {
	case hostlink.CommandSensorWrite:
		m.sensorWrite(msg.Payload)
	case hostlink.CommandSensorErase:
		m.sensorErase(msg.Payload)
	case hostlink.CommandSensorList:
		m.sensorList()
	case hostlink.CommandChannelSet:
		arg := msg.Arg()
		if arg > '0' && arg < '0'+sensorlink.NumChannels {
			m.channel = arg - '0'
			m.reply(replyOK)
		} else {
			m.reply(replyErro)
		}
	case hostlink.CommandChannelRead:
		m.link.Emit(hostlink.Format().Literal("\rCHANNEL: ").Digit(int(m.channel)).Literal("\r"))
	case hostlink.CommandTimeoutSet:
		arg := msg.Arg()
		if arg > '0' && arg < '0'+byte(len(TimeoutLevels)) {
			m.commTimeout = arg - '0'
			m.reply(replyOK)
		} else {
			m.reply(replyErro)
		}
	case hostlink.CommandTimeoutRead:
		m.link.Emit(hostlink.Format().Literal("\rTIMEOUT ATUAL : ").Digit(int(m.commTimeout)).Literal("\r"))
	case hostlink.CommandModeSearch:
		m.link.Emit(hostlink.Format().Literal("\rMODE: SEARCH\r"))
		if m.listen() {
			m.enter(StateScanWait, SearchTimeout)
			m.link.Emit(m.searchBanner())
		}
	case hostlink.CommandModeReceive:
		m.link.Emit(hostlink.Format().Literal("\rMODE: RECEIVE\r"))
		if m.listen() {
			m.startReceive(StatusNotAcknowledged)
		}
	case hostlink.CommandModeReceiveInit:
		if m.listen() {
			m.startReceive(StatusNotPresent)
		}
	case hostlink.CommandModeInventory:
		m.link.Emit(hostlink.Format().Literal("\rMODE: INVENTORY\r"))
		if m.listen() {
			m.enter(StateInventoryWait, m.windowTicks())
		}
	case hostlink.CommandModeDebug:
		m.link.Emit(hostlink.Format().Literal("\rMODE: DEBUG\r"))
		if m.listen() {
			m.enter(StateDebug, 0)
		}
	case hostlink.CommandAck:
		m.link.ClearTimeout()
	case hostlink.CommandNone:
	}
}

func (m *Machine) reply(s string) {
	m.link.Emit(hostlink.Format().Literal(s))
}

// listen tunes the radio and arms the receiver for a mode change.
func (m *Machine) listen() bool {
	if err := m.tune(); err != nil {
		m.log.WithError(err).Error("mode change failed")
		return false
	}
	m.radio.ReceiveOn()
	return true
}

// startReceive opens a receive window. Registered slots start at registered,
// the rest are NotPresent.
func (m *Machine) startReceive(registered CommStatus) {
	m.enter(StateReceiveWait, m.windowTicks())
	m.found = m.registry.Count()
	for i := range m.statuses {
		if i < m.found {
			m.statuses[i] = registered
		} else {
			m.statuses[i] = StatusNotPresent
		}
	}
}

func (m *Machine) searchBanner() *hostlink.Formatter {
	return hostlink.Format().
		Literal("[Modo Busca      \r ").
		Digit(m.found / 10).
		Digit(m.found % 10).
		Literal(" encontrados ]")
}

func (m *Machine) sensorWrite(id []byte) {
	res, err := m.registry.Write(id)
	if err != nil {
		m.log.WithError(err).Error("sensor write")
	}
	switch res {
	case sensorlink.WriteOK:
		m.found++
		m.registryChanged()
		m.reply(replyOK)
	case sensorlink.WriteAlreadyPresent:
		m.reply(replyAlreadyListed)
	default:
		m.reply(replyError)
	}
}

func (m *Machine) sensorErase(id []byte) {
	pos, _ := m.registry.PositionOf(id)
	res, err := m.registry.Erase(id)
	if err != nil {
		m.log.WithError(err).Error("sensor erase")
	}
	switch res {
	case sensorlink.EraseOK:
		if m.found > 0 {
			m.found--
		}
		m.compactStatuses(pos)
		m.registryChanged()
		m.reply(replyOK)
	case sensorlink.EraseNotFound:
		m.reply(replyNotListed)
	default:
		m.reply(replyErro)
	}
}

func (m *Machine) sensorList() {
	f := hostlink.Format().Literal("{")
	for _, e := range m.registry.Entries() {
		f.Raw(e.ID[:]).Byte('\r')
	}
	m.link.Emit(f.Literal("\n}"))
}

// compactStatuses keeps per-slot state aligned with the registry after the
// entry at pos was removed.
func (m *Machine) compactStatuses(pos int) {
	last := len(m.statuses) - 1
	copy(m.statuses[pos:], m.statuses[pos+1:])
	copy(m.values[pos:], m.values[pos+1:])
	m.statuses[last] = StatusNotPresent
	m.values[last] = [4]byte{}
}

func (m *Machine) registryChanged() {
	m.dirty = true
	m.metrics.SetRegistered(m.registry.Count())
}
