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

package sensorlink

import (
	"bytes"
	"sync"
)

// MockRadio is a scripted Radio for tests. Frames queued with Inject are
// returned by PollFrame one at a time regardless of the receiver state, and
// every transmitted frame is recorded.
type MockRadio struct {
	rx         [][]byte
	tx         [][]byte
	channel    uint8
	inits      int
	ticks      int
	mu         sync.Mutex
	receiving  bool
	poweredOff bool
	failTx     bool
}

// NewMockRadio creates a mock radio whose transmissions succeed.
func NewMockRadio() *MockRadio {
	return &MockRadio{}
}

// Init records the channel and counts the call.
func (m *MockRadio) Init(channel uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !ValidChannel(channel) {
		return ErrChannelRange
	}
	m.channel = channel
	m.inits++
	m.poweredOff = false
	m.receiving = false
	return nil
}

// ReceiveOn marks the receiver armed.
func (m *MockRadio) ReceiveOn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receiving = true
}

// ReceiveOff marks the receiver disarmed.
func (m *MockRadio) ReceiveOff() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receiving = false
}

// PowerOff marks the radio powered down.
func (m *MockRadio) PowerOff() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poweredOff = true
	m.receiving = false
}

// Transmit records frame and returns false when SetTransmitFailure is active.
func (m *MockRadio) Transmit(frame []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receiving = false
	if m.failTx {
		return false
	}
	m.tx = append(m.tx, bytes.Clone(frame))
	return true
}

// PollFrame pops the oldest injected frame.
func (m *MockRadio) PollFrame() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rx) == 0 {
		return nil, false
	}
	frame := m.rx[0]
	m.rx = m.rx[1:]
	return frame, true
}

// Tick counts the call.
func (m *MockRadio) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks++
}

// Type returns RadioMock.
func (*MockRadio) Type() RadioType {
	return RadioMock
}

// Inject queues a raw frame for PollFrame.
func (m *MockRadio) Inject(frame []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx = append(m.rx, bytes.Clone(frame))
}

// InjectMessage encodes msg with DefaultSeed and queues it.
func (m *MockRadio) InjectMessage(msg Message) error {
	frame, err := EncodeFrame(BroadcastAddr, DefaultSeed, msg)
	if err != nil {
		return err
	}
	m.Inject(frame)
	return nil
}

// SetTransmitFailure makes every Transmit report CCA exhaustion.
func (m *MockRadio) SetTransmitFailure(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failTx = fail
}

// Transmitted returns copies of every frame sent so far.
func (m *MockRadio) Transmitted() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.tx))
	for i, f := range m.tx {
		out[i] = bytes.Clone(f)
	}
	return out
}

// TransmittedMessages decodes and descrambles every frame sent so far.
func (m *MockRadio) TransmittedMessages() []Message {
	frames := m.Transmitted()
	out := make([]Message, 0, len(frames))
	for _, f := range frames {
		decoded, err := DecodeFrame(f)
		if err != nil {
			continue
		}
		out = append(out, decoded.Message())
	}
	return out
}

// ClearTransmitted forgets recorded frames.
func (m *MockRadio) ClearTransmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tx = nil
}

// Receiving reports whether the receiver is armed.
func (m *MockRadio) Receiving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receiving
}

// PoweredOff reports whether PowerOff was the last power transition.
func (m *MockRadio) PoweredOff() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.poweredOff
}

// Channel returns the channel passed to the last Init.
func (m *MockRadio) Channel() uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channel
}

// Inits returns the number of Init calls.
func (m *MockRadio) Inits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inits
}

// Ticks returns the number of Tick calls.
func (m *MockRadio) Ticks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}
