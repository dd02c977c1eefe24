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
	"sync/atomic"
	"time"
)

// SensorStatus is one registry slot as seen by the access point.
type SensorStatus struct {
	ID     string `json:"id"`
	Type   byte   `json:"type"`
	Status string `json:"status"`
	Value  string `json:"value,omitempty"`
}

// Snapshot is a consistent copy of the access point state for readers on
// other goroutines.
type Snapshot struct {
	Updated      time.Time      `json:"updated"`
	State        string         `json:"state"`
	Sensors      []SensorStatus `json:"sensors"`
	Found        int            `json:"found"`
	Channel      uint8          `json:"channel"`
	TimeoutLevel uint8          `json:"timeoutLevel"`
}

type snapshotCell struct {
	p atomic.Pointer[Snapshot]
}

// Snapshot returns the state published after the last Step. It never returns
// nil.
func (m *Machine) Snapshot() *Snapshot {
	if s := m.snap.p.Load(); s != nil {
		return s
	}
	return &Snapshot{State: StateIdle.String(), Sensors: []SensorStatus{}}
}

func (m *Machine) publish() {
	entries := m.registry.Entries()
	s := &Snapshot{
		Updated:      m.now(),
		State:        m.clock.State().String(),
		Found:        m.found,
		Channel:      m.channel,
		TimeoutLevel: m.commTimeout,
		Sensors:      make([]SensorStatus, len(entries)),
	}
	for i, e := range entries {
		st := SensorStatus{
			ID:     e.ID.String(),
			Type:   e.Type,
			Status: m.statuses[i].String(),
		}
		if m.values[i] != [4]byte{} {
			st.Value = string(m.values[i][:])
		}
		s.Sensors[i] = st
	}
	m.snap.p.Store(s)
	m.dirty = false
}
