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
	"errors"
	"fmt"
)

const (
	// RegistryCapacity is the number of sensors an access point can pair with.
	RegistryCapacity = 20
	// EntrySize is the stored size of one registry slot: id followed by type.
	EntrySize = SensorIDLen + 1
	// RegistryImageSize is the size of the persisted registry region.
	RegistryImageSize = RegistryCapacity * EntrySize

	// EmptySlot in the type byte marks a free slot.
	EmptySlot byte = 0xFF
)

// Store is a durable blob region with erase-then-rewrite semantics.
type Store interface {
	// Load returns the stored region, or ErrNoData when nothing was ever
	// written.
	Load() ([]byte, error)
	// Save replaces the whole region.
	Save(data []byte) error
}

// WriteResult is the outcome of Registry.Write.
type WriteResult int

const (
	WriteError WriteResult = iota
	WriteOK
	WriteAlreadyPresent
)

func (r WriteResult) String() string {
	switch r {
	case WriteOK:
		return "ok"
	case WriteAlreadyPresent:
		return "already present"
	default:
		return "error"
	}
}

// EraseResult is the outcome of Registry.Erase.
type EraseResult int

const (
	EraseError EraseResult = iota
	EraseOK
	EraseNotFound
)

func (r EraseResult) String() string {
	switch r {
	case EraseOK:
		return "ok"
	case EraseNotFound:
		return "not found"
	default:
		return "error"
	}
}

// Entry is one paired sensor.
type Entry struct {
	ID   SensorID
	Type byte
}

// Registry is the ordered list of paired sensors. Valid entries always form a
// prefix of the image, followed by empty slots. Every mutation is written back
// to the store before it returns.
//
// Registry is not safe for concurrent use; the owning state machine is its
// only writer.
type Registry struct {
	store Store
	image [RegistryImageSize]byte
}

// NewRegistry loads the registry from store. A store that is empty or holds
// an image that fails validation is reset to an empty registry and written
// back; the returned error is non-nil only when that write-back fails.
func NewRegistry(store Store) (*Registry, error) {
	r := &Registry{store: store}
	r.reset()

	data, err := store.Load()
	if err == nil {
		err = validateImage(data)
	}
	if err == nil {
		copy(r.image[:], data)
		return r, nil
	}
	if !errors.Is(err, ErrNoData) && !errors.Is(err, ErrRegistryImage) {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}

	if saveErr := r.persist(); saveErr != nil {
		return nil, saveErr
	}
	return r, nil
}

func validateImage(data []byte) error {
	if len(data) != RegistryImageSize {
		return fmt.Errorf("%w: size %d", ErrRegistryImage, len(data))
	}
	seenEmpty := false
	for i := range RegistryCapacity {
		empty := data[i*EntrySize+SensorIDLen] == EmptySlot
		if seenEmpty && !empty {
			return fmt.Errorf("%w: hole before slot %d", ErrRegistryImage, i)
		}
		seenEmpty = seenEmpty || empty
	}
	return nil
}

func (r *Registry) reset() {
	for i := range r.image {
		r.image[i] = EmptySlot
	}
}

func (r *Registry) slot(i int) []byte {
	return r.image[i*EntrySize : (i+1)*EntrySize]
}

func (r *Registry) persist() error {
	if err := r.store.Save(bytes.Clone(r.image[:])); err != nil {
		return fmt.Errorf("failed to persist registry: %w", err)
	}
	return nil
}

// commit persists the image and restores prev when that fails.
func (r *Registry) commit(prev [RegistryImageSize]byte) error {
	if err := r.persist(); err != nil {
		r.image = prev
		return err
	}
	return nil
}

// Count returns the number of valid entries.
func (r *Registry) Count() int {
	n := 0
	for n < RegistryCapacity && r.slot(n)[SensorIDLen] != EmptySlot {
		n++
	}
	return n
}

// PositionOf returns the slot index of id.
func (r *Registry) PositionOf(id []byte) (int, bool) {
	if len(id) < SensorIDLen {
		return -1, false
	}
	n := r.Count()
	for i := range n {
		if bytes.Equal(r.slot(i)[:SensorIDLen], id[:SensorIDLen]) {
			return i, true
		}
	}
	return -1, false
}

// Write appends id with the default type. The error is non-nil only when the
// store rejected the write-back, in which case the registry is unchanged.
func (r *Registry) Write(id []byte) (WriteResult, error) {
	if _, found := r.PositionOf(id); found {
		return WriteAlreadyPresent, nil
	}
	n := r.Count()
	if n >= RegistryCapacity || len(id) != SensorIDLen {
		return WriteError, nil
	}

	prev := r.image
	s := r.slot(n)
	copy(s, id)
	s[SensorIDLen] = DefaultSensorType
	if err := r.commit(prev); err != nil {
		return WriteError, err
	}
	return WriteOK, nil
}

// Erase removes id and shifts every later entry one slot earlier. The error
// is non-nil only when the store rejected the write-back, in which case the
// registry is unchanged.
func (r *Registry) Erase(id []byte) (EraseResult, error) {
	if len(id) != SensorIDLen {
		return EraseError, nil
	}
	pos, found := r.PositionOf(id)
	if !found {
		return EraseNotFound, nil
	}

	prev := r.image
	copy(r.image[pos*EntrySize:], r.image[(pos+1)*EntrySize:])
	for i := RegistryImageSize - EntrySize; i < RegistryImageSize; i++ {
		r.image[i] = EmptySlot
	}
	if err := r.commit(prev); err != nil {
		return EraseError, err
	}
	return EraseOK, nil
}

// Entry returns the entry at slot i.
func (r *Registry) Entry(i int) (Entry, bool) {
	if i < 0 || i >= r.Count() {
		return Entry{}, false
	}
	var e Entry
	s := r.slot(i)
	copy(e.ID[:], s[:SensorIDLen])
	e.Type = s[SensorIDLen]
	return e, true
}

// Entries returns the valid entries in slot order.
func (r *Registry) Entries() []Entry {
	n := r.Count()
	out := make([]Entry, 0, n)
	for i := range n {
		e, _ := r.Entry(i)
		out = append(out, e)
	}
	return out
}

// Image returns a copy of the persisted region.
func (r *Registry) Image() []byte {
	return bytes.Clone(r.image[:])
}
