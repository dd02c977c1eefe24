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

import "errors"

// Frame and message errors
var (
	ErrFrameTooShort    = errors.New("frame shorter than header")
	ErrFrameLength      = errors.New("frame length field does not match frame size")
	ErrFrameTooLong     = errors.New("frame exceeds link maximum")
	ErrMessageTooLong   = errors.New("message exceeds maximum payload")
	ErrInvalidSensorID  = errors.New("sensor id must be 4 bytes")
	ErrInvalidHexSensor = errors.New("sensor id must be 8 hex characters")
)

// Persistence errors
var (
	// ErrNoData is returned by a Store that has never been written.
	ErrNoData = errors.New("store holds no data")
	// ErrRegistryImage reports a stored registry image that failed validation.
	ErrRegistryImage = errors.New("invalid registry image")
)

// Link errors
var (
	ErrChannelRange     = errors.New("channel out of range")
	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrRadioOff         = errors.New("radio powered off")
)
