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

// QueueSize is the capacity of the command ring. It must be a power of two.
const QueueSize = 4

const queueMask = QueueSize - 1

// Queue is a fixed ring of decoded messages, consumed in arrival order. All
// QueueSize slots hold messages.
type Queue struct {
	slots [QueueSize]Message
	in    uint8
	out   uint8
	n     uint8
}

// Put appends m. It returns false and drops m when the ring is full.
func (q *Queue) Put(m Message) bool {
	if q.n == QueueSize {
		return false
	}
	q.slots[q.in] = m
	q.in = (q.in + 1) & queueMask
	q.n++
	return true
}

// Get removes the oldest message.
func (q *Queue) Get() (Message, bool) {
	if q.n == 0 {
		return Message{}, false
	}
	m := q.slots[q.out]
	q.slots[q.out] = Message{}
	q.out = (q.out + 1) & queueMask
	q.n--
	return m, true
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return int(q.n)
}

// Clear drops every queued message.
func (q *Queue) Clear() {
	*q = Queue{}
}
