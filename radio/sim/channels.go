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

// Package sim is a simulated shared radio medium. Radios attached to one
// Medium hear every frame sent on their channel while their receiver is on.
package sim

import (
	"fmt"

	"github.com/ZaparooProject/go-sensorlink"
)

// ChannelConfig is the transceiver setting behind a logical channel.
type ChannelConfig struct {
	FreqKHz uint32
	// ChanNr is the synthesizer channel register value.
	ChanNr uint8
	Number uint8
}

// Channels maps every logical channel to its transceiver setting, in channel
// order. Channels are 200 kHz apart from a 915 MHz base.
var Channels = [sensorlink.NumChannels]ChannelConfig{
	{Number: 0, ChanNr: 0x00, FreqKHz: 915000},
	{Number: 1, ChanNr: 0x01, FreqKHz: 915200},
	{Number: 2, ChanNr: 0x02, FreqKHz: 915400},
	{Number: 3, ChanNr: 0x03, FreqKHz: 915600},
	{Number: 4, ChanNr: 0x04, FreqKHz: 915800},
	{Number: 5, ChanNr: 0x05, FreqKHz: 916000},
	{Number: 6, ChanNr: 0x06, FreqKHz: 916200},
	{Number: 7, ChanNr: 0x07, FreqKHz: 916400},
}

// ChannelFor returns the setting for logical channel n.
func ChannelFor(n uint8) (ChannelConfig, error) {
	if !sensorlink.ValidChannel(n) {
		return ChannelConfig{}, fmt.Errorf("channel %d: %w", n, sensorlink.ErrChannelRange)
	}
	return Channels[n], nil
}
