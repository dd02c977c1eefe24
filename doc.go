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

/*
Package sensorlink implements the link layer shared by the access point (AP)
and end device (ED) roles of a small wireless sensor network.

An AP keeps a persistent registry of paired sensors, discovers new end devices
and collects their periodic status reports. An ED sweeps the radio channels
until an AP acknowledges it, remembers the winning channel and then reports
its sense input on a low-power schedule.

This package holds the pieces both roles share:
  - the self-synchronizing 24-bit LFSR scrambler applied to every payload
  - the frame codec (clear 5-byte header, scrambled payload)
  - logical messages: DISC, DACK, SACK and untagged status reports
  - the compacting sensor registry and the Store it persists to
  - the Radio capability consumed by the state machines

The state machines live in the ap and ed packages. Concrete collaborators live
in hostlink (serial command channel), radio/sim (simulated medium), indicator
(LED and buttons on GPIO), storage (durable stores) and watchdog.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-sensorlink"
	    "github.com/ZaparooProject/go-sensorlink/storage"
	)

	reg, err := sensorlink.NewRegistry(storage.NewFile("/var/lib/sensorlink/registry.yaml"))
	if err != nil {
	    log.Fatal(err)
	}

	id, _ := sensorlink.ParseHexSensorID("31323334")
	if res, err := reg.Write(id[:]); err == nil {
	    fmt.Println(res)
	}

	frame, _ := sensorlink.EncodeFrame(sensorlink.BroadcastAddr, sensorlink.DefaultSeed,
	    sensorlink.DiscoveryMessage(id, sensorlink.DefaultSensorType))

Error Handling:

Frame and registry errors are sentinels that can be inspected:

	if errors.Is(err, sensorlink.ErrNoData) {
	    // cold store
	}

Thread Safety:

Registry is not thread-safe. Each role runs a single cooperative loop that owns
its registry, radio and host link.
*/
package sensorlink
