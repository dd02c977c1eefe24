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

// Package storage provides durable blob stores for registry and pairing
// parameters. Every Save replaces the whole region.
package storage

import (
	"bytes"
	"sync"

	"github.com/ZaparooProject/go-sensorlink"
)

// Memory is a volatile Store. It behaves like a cold flash region until the
// first Save.
type Memory struct {
	saveErr error
	data    []byte
	saves   int
	mu      sync.Mutex
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith creates a store that already holds data.
func NewMemoryWith(data []byte) *Memory {
	return &Memory{data: bytes.Clone(data)}
}

// Load returns a copy of the stored region.
func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, sensorlink.ErrNoData
	}
	return bytes.Clone(m.data), nil
}

// Save replaces the stored region.
func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = bytes.Clone(data)
	m.saves++
	return nil
}

// FailSaves makes every following Save return err. A nil err restores normal
// operation.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns the number of successful Save calls.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
