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

package sim

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/internal/retry"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Clear-channel assessment limits.
const (
	CCARetries = 4
	CCABackoff = 15 * time.Microsecond
)

// Drop reasons reported to metrics.
const (
	DropLength  = "length"
	DropOverrun = "overrun"
)

// Radio is one simulated transceiver. It implements sensorlink.Radio.
type Radio struct {
	medium    *Medium
	log       logrus.FieldLogger
	warn      *rate.Sometimes
	role      string
	rx        []byte
	timer     uint32
	mu        sync.Mutex
	channel   uint8
	addr      byte
	powered   bool
	receiving bool
}

// RadioOption configures a Radio.
type RadioOption func(*Radio)

// WithAddress sets the device address matched against the frame destination.
// Broadcast frames are always accepted.
func WithAddress(addr byte) RadioOption {
	return func(r *Radio) {
		r.addr = addr
	}
}

var _ sensorlink.Radio = (*Radio)(nil)

func newRadio(m *Medium, role string, opts ...RadioOption) *Radio {
	r := &Radio{
		medium: m,
		role:   role,
		log:    m.log.WithField("radio", role),
		warn:   &rate.Sometimes{First: 1, Interval: m.warn},
		addr:   sensorlink.BroadcastAddr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Type implements sensorlink.Typed.
func (*Radio) Type() sensorlink.RadioType {
	return sensorlink.RadioSim
}

// Role returns the label given at attach time.
func (r *Radio) Role() string {
	return r.role
}

// Init powers the radio on channel with the receiver off and an empty
// buffer.
func (r *Radio) Init(channel uint8) error {
	if _, err := ChannelFor(channel); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channel = channel
	r.powered = true
	r.receiving = false
	r.rx = nil
	r.timer = 0
	r.log.WithField("channel", channel).Debug("radio init")
	return nil
}

// ReceiveOn arms the receiver. It has no effect while powered off.
func (r *Radio) ReceiveOn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.powered {
		r.receiving = true
	}
}

// ReceiveOff disarms the receiver. A frame already buffered is kept.
func (r *Radio) ReceiveOff() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receiving = false
}

// PowerOff shuts the radio down and discards the buffer.
func (r *Radio) PowerOff() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.powered = false
	r.receiving = false
	r.rx = nil
}

// Transmit sends frame on the current channel. The receiver is left off.
func (r *Radio) Transmit(frame []byte) bool {
	r.mu.Lock()
	powered := r.powered
	ch := r.channel
	r.receiving = false
	r.mu.Unlock()

	if !powered {
		r.warnf(sensorlink.ErrRadioOff, "transmit dropped")
		return false
	}
	if len(frame) > sensorlink.MaxFrameLen {
		r.warnf(sensorlink.ErrFrameTooLong, "transmit dropped")
		return false
	}

	_, err := retry.Do(retry.Config{
		Description: "clear channel assessment",
		MaxRetries:  CCARetries,
		RetryDelay:  CCABackoff,
	}, func() (struct{}, bool, error) {
		return struct{}{}, !r.medium.clear(), nil
	})
	if err != nil {
		r.medium.metrics.CCAFailed(r.role)
		r.warnf(err, "channel busy, transmit abandoned")
		return false
	}

	r.medium.broadcast(r, ch, bytes.Clone(frame))
	r.medium.metrics.Sent(r.role)
	return true
}

// PollFrame takes the buffered frame. Frames outside the link length limits
// are dropped.
func (r *Radio) PollFrame() ([]byte, bool) {
	r.mu.Lock()
	frame := r.rx
	r.rx = nil
	r.mu.Unlock()

	if frame == nil {
		return nil, false
	}
	if len(frame) < sensorlink.HeaderLen || len(frame) > sensorlink.MaxFrameLen {
		r.medium.metrics.Dropped(DropLength)
		r.warnf(sensorlink.ErrFrameLength, "received frame dropped")
		return nil, false
	}
	r.medium.metrics.Received(r.role)
	return frame, true
}

// Tick advances the radio timer.
func (r *Radio) Tick() {
	r.mu.Lock()
	r.timer++
	r.mu.Unlock()
}

// Timer returns the ticks since the last Init.
func (r *Radio) Timer() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer
}

// Channel returns the channel given to the last Init.
func (r *Radio) Channel() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel
}

// Receiving reports whether the receiver is armed.
func (r *Radio) Receiving() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.receiving
}

// deliver is called by the medium with its lock held.
func (r *Radio) deliver(ch uint8, frame []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.powered || !r.receiving || r.channel != ch {
		return
	}
	if len(frame) > 1 && frame[1] != sensorlink.BroadcastAddr && frame[1] != r.addr {
		return
	}
	// A newer frame overwrites an unread one.
	if r.rx != nil {
		r.medium.metrics.Dropped(DropOverrun)
	}
	r.rx = bytes.Clone(frame)
}

func (r *Radio) warnf(err error, msg string) {
	if errors.Is(err, sensorlink.ErrRadioOff) {
		r.log.WithError(err).Debug(msg)
		return
	}
	r.warn.Do(func() {
		r.log.WithError(err).Warn(msg)
	})
}
