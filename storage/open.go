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

package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/ZaparooProject/go-sensorlink"
)

// Backends accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// ErrBackend reports an unknown backend name.
var ErrBackend = errors.New("unknown storage backend")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the store named by backend. The returned closer releases any
// connection the store holds.
func Open(backend, path string, rc RedisConfig) (sensorlink.Store, io.Closer, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nopCloser{}, nil
	case BackendFile:
		return NewFile(path), nopCloser{}, nil
	case BackendRedis:
		store, client := DialRedis(rc)
		return store, client, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrBackend, backend)
	}
}
