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
	"fmt"
)

// Frame layout on the air, after the link strips its own preamble:
//
//	+-----+------+-------+-------+-------+---------------------+
//	| len | dest | seed0 | seed1 | seed2 | scrambled payload   |
//	+-----+------+-------+-------+-------+---------------------+
//	  1     1      1       1       1       len-4 bytes
//
// len counts every byte after itself. The five header bytes travel in clear
// so the receiver can rebuild the scrambler seed.
const (
	// HeaderLen is the number of clear bytes at the start of a frame.
	HeaderLen = 5
	// MaxFrameLen is the largest frame the link accepts, length byte included.
	MaxFrameLen = 16
	// MaxPayloadLen is the largest scrambled payload that fits in a frame.
	MaxPayloadLen = MaxFrameLen - HeaderLen

	// BroadcastAddr is the destination stamped on every frame; neither role
	// filters on it.
	BroadcastAddr byte = 0x00
)

// Frame is a decoded radio frame. Payload is still scrambled.
type Frame struct {
	Payload []byte
	Seed    Seed
	Dest    byte
}

// EncodeFrame scrambles msg with seed and prepends the clear header.
func EncodeFrame(dest byte, seed Seed, msg Message) ([]byte, error) {
	if len(msg) > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLong, len(msg))
	}
	out := make([]byte, 0, HeaderLen+len(msg))
	out = append(out, byte(HeaderLen-1+len(msg)), dest, seed[0], seed[1], seed[2])
	out = append(out, Scramble(msg, seed)...)
	return out, nil
}

// DecodeFrame parses the clear header of raw. A length field that claims more
// bytes than were received, or more than the link maximum, is clamped rather
// than rejected so a damaged frame can never be read past its end.
func DecodeFrame(raw []byte) (Frame, error) {
	if len(raw) < HeaderLen {
		return Frame{}, ErrFrameTooShort
	}
	declared := int(raw[0])
	if declared < HeaderLen-1 {
		return Frame{}, fmt.Errorf("%w: declared %d", ErrFrameLength, declared)
	}

	end := min(declared+1, len(raw), MaxFrameLen)
	payload := make([]byte, end-HeaderLen)
	copy(payload, raw[HeaderLen:end])

	return Frame{
		Dest:    raw[1],
		Seed:    Seed{raw[2], raw[3], raw[4]},
		Payload: payload,
	}, nil
}

// Message descrambles the payload.
func (f Frame) Message() Message {
	return Message(Descramble(f.Payload, f.Seed))
}

// Raw returns the frame bytes after the length field, payload still
// scrambled.
func (f Frame) Raw() []byte {
	out := make([]byte, 0, HeaderLen-1+len(f.Payload))
	out = append(out, f.Dest, f.Seed[0], f.Seed[1], f.Seed[2])
	return append(out, f.Payload...)
}
