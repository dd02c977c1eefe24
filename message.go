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
	"encoding/hex"
	"fmt"
	"strings"
)

// Message tags
const (
	TagDiscovery    = "DISC"
	TagDiscoveryAck = "DACK"
	TagStatusAck    = "SACK"
)

const (
	// TagLen is the size of a message tag.
	TagLen = 4
	// SensorIDLen is the size of a sensor identifier.
	SensorIDLen = 4

	// DefaultSensorType is stamped on new registry entries and outgoing
	// discovery messages.
	DefaultSensorType byte = 0x30

	// Trailer closes every message.
	Trailer byte = 0x46
)

// Sensor readings carried in status messages.
var (
	ValueOK    = [2]byte{'F', 'F'}
	ValueFault = [2]byte{'0', '0'}
)

// SensorID is the 4-byte opaque identifier of an end device.
type SensorID [SensorIDLen]byte

// ParseSensorID copies a 4-byte identifier.
func ParseSensorID(b []byte) (SensorID, error) {
	var id SensorID
	if len(b) != SensorIDLen {
		return id, ErrInvalidSensorID
	}
	copy(id[:], b)
	return id, nil
}

// ParseHexSensorID parses the 8-character hex form produced by String.
func ParseHexSensorID(s string) (SensorID, error) {
	var id SensorID
	if len(s) != 2*SensorIDLen {
		return id, ErrInvalidHexSensor
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidHexSensor, err)
	}
	return id, nil
}

// String renders the id as 8 upper-case hex characters, the form the host
// terminal expects.
func (id SensorID) String() string {
	return strings.ToUpper(hex.EncodeToString(id[:]))
}

// HexValue renders two raw value bytes as 4 upper-case hex characters.
func HexValue(v [2]byte) [4]byte {
	var out [4]byte
	hex.Encode(out[:], v[:])
	copy(out[:], bytes.ToUpper(out[:]))
	return out
}

// Message is a descrambled payload.
type Message []byte

// Tag returns the 4-byte tag, or "" for a message too short to carry one.
func (m Message) Tag() string {
	if len(m) < TagLen {
		return ""
	}
	return string(m[:TagLen])
}

// Is reports whether m carries tag.
func (m Message) Is(tag string) bool {
	return m.Tag() == tag
}

// TaggedSensor extracts the id and type following the tag of a discovery or
// acknowledgement message.
func (m Message) TaggedSensor() (id SensorID, sensorType byte, ok bool) {
	if len(m) < TagLen+SensorIDLen {
		return id, 0, false
	}
	copy(id[:], m[TagLen:TagLen+SensorIDLen])
	sensorType = DefaultSensorType
	if len(m) > TagLen+SensorIDLen {
		sensorType = m[TagLen+SensorIDLen]
	}
	return id, sensorType, true
}

// StatusReport is the content of an untagged status message.
type StatusReport struct {
	ID    SensorID
	Value [2]byte
	Type  byte
}

// Status decodes an untagged status message.
func (m Message) Status() (StatusReport, bool) {
	var r StatusReport
	if len(m) < SensorIDLen+3 {
		return r, false
	}
	copy(r.ID[:], m[:SensorIDLen])
	r.Type = m[SensorIDLen]
	r.Value = [2]byte{m[SensorIDLen+1], m[SensorIDLen+2]}
	return r, true
}

// DiscoveryMessage builds the query an end device sends while searching for
// an access point.
func DiscoveryMessage(id SensorID, sensorType byte) Message {
	return taggedMessage(TagDiscovery, id, sensorType)
}

// AckMessage builds a DACK or SACK addressed to id.
func AckMessage(tag string, id SensorID, sensorType byte) Message {
	return taggedMessage(tag, id, sensorType)
}

// StatusMessage builds a telemetry report.
func StatusMessage(id SensorID, sensorType byte, value [2]byte) Message {
	m := make(Message, 0, SensorIDLen+4)
	m = append(m, id[:]...)
	m = append(m, sensorType, value[0], value[1], Trailer)
	return m
}

func taggedMessage(tag string, id SensorID, sensorType byte) Message {
	m := make(Message, 0, TagLen+SensorIDLen+2)
	m = append(m, tag[:TagLen]...)
	m = append(m, id[:]...)
	m = append(m, sensorType, Trailer)
	return m
}
