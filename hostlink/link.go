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
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/ZaparooProject/go-sensorlink/internal/logging"
	"github.com/sirupsen/logrus"
)

// RxBufferSize bounds the bytes read from the host but not yet decoded.
const RxBufferSize = 256

// Link is the host side of the access point. A pump goroutine copies bytes
// from the host into a bounded buffer; the owning loop drains that buffer
// through the decoder with Poll and reads commands with Next.
//
// Only Pump and Inject may be called from other goroutines.
type Link struct {
	w       io.Writer
	log     logrus.FieldLogger
	rx      chan byte
	queue   *Queue
	decoder *Decoder
	silence uint32
	dropped atomic.Uint64
	failed  bool
}

// LinkOption configures a Link.
type LinkOption func(*Link)

// WithLogger sets the logger used for dropped input and write failures.
func WithLogger(log logrus.FieldLogger) LinkOption {
	return func(l *Link) {
		l.log = log
	}
}

// NewLink creates a link that writes host output to w.
func NewLink(w io.Writer, opts ...LinkOption) *Link {
	q := &Queue{}
	l := &Link{
		w:       w,
		log:     logging.Discard(),
		rx:      make(chan byte, RxBufferSize),
		queue:   q,
		decoder: NewDecoder(q),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.decoder.OnDrop(func(m Message) {
		l.log.WithField("command", m.Command).Warn("host command queue full, command dropped")
	})
	return l
}

// OnLinkReset registers the action for the link-reset byte.
func (l *Link) OnLinkReset(fn func()) {
	l.decoder.OnLinkReset(fn)
}

// Pump copies bytes from r until r fails or ctx is done. It returns nil on
// EOF and on cancellation.
func (l *Link) Pump(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case l.rx <- b:
			case <-ctx.Done():
				return nil
			default:
				l.dropped.Add(1)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Inject queues bytes as if the host had sent them. Bytes that do not fit are
// dropped.
func (l *Link) Inject(p []byte) {
	for _, b := range p {
		select {
		case l.rx <- b:
		default:
			l.dropped.Add(1)
		}
	}
}

// Poll feeds every buffered byte to the decoder without blocking.
func (l *Link) Poll() {
	for {
		select {
		case b := <-l.rx:
			l.decoder.Feed(b)
		default:
			return
		}
	}
}

// Next returns the oldest decoded command.
func (l *Link) Next() (Message, bool) {
	return l.queue.Get()
}

// Put queues a command raised by the owner itself.
func (l *Link) Put(m Message) bool {
	return l.queue.Put(m)
}

// Emit writes a composed line to the host. Write failures are logged once
// per failure streak; the protocol has no way to report them.
func (l *Link) Emit(f *Formatter) {
	l.Send(f.Bytes())
}

// Send writes raw output to the host.
func (l *Link) Send(p []byte) {
	if len(p) == 0 {
		return
	}
	if _, err := l.w.Write(p); err != nil {
		if !l.failed {
			l.log.WithError(err).Warn("host write failed")
		}
		l.failed = true
		return
	}
	l.failed = false
}

// Tick advances the host silence counter.
func (l *Link) Tick() {
	l.silence++
}

// ClearTimeout records a host keepalive.
func (l *Link) ClearTimeout() {
	l.silence = 0
}

// Silence returns the ticks since the last keepalive.
func (l *Link) Silence() uint32 {
	return l.silence
}

// TimedOut reports whether the host has been silent for at least limit ticks.
func (l *Link) TimedOut(limit uint32) bool {
	return l.silence >= limit
}

// Dropped returns the number of host bytes lost to a full buffer.
func (l *Link) Dropped() uint64 {
	return l.dropped.Load()
}
