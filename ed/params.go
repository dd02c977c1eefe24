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

package ed

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-sensorlink"
)

// ParamsValid marks a stored pairing.
const ParamsValid byte = 0x55

// ParamsSize is the size of the persisted region.
const ParamsSize = 2

// ErrParamsImage reports a stored region of the wrong size.
var ErrParamsImage = errors.New("invalid pairing parameters")

// Params is the pairing the end device keeps across deep sleeps and resets.
type Params struct {
	Check   byte
	Channel uint8
}

// Paired reports whether p holds a usable channel.
func (p Params) Paired() bool {
	return p.Check == ParamsValid && sensorlink.ValidChannel(p.Channel)
}

// LoadParams reads the pairing from store. A cold store yields unpaired
// parameters and no error.
func LoadParams(store sensorlink.Store) (Params, error) {
	data, err := store.Load()
	if errors.Is(err, sensorlink.ErrNoData) {
		return Params{}, nil
	}
	if err != nil {
		return Params{}, fmt.Errorf("failed to load pairing: %w", err)
	}
	if len(data) != ParamsSize {
		return Params{}, fmt.Errorf("%w: size %d", ErrParamsImage, len(data))
	}
	return Params{Check: data[0], Channel: data[1]}, nil
}

// SaveParams replaces the stored pairing.
func SaveParams(store sensorlink.Store, p Params) error {
	if err := store.Save([]byte{p.Check, p.Channel}); err != nil {
		return fmt.Errorf("failed to persist pairing: %w", err)
	}
	return nil
}
