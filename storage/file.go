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
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"gopkg.in/yaml.v3"
)

const fileFormatVersion = 1

// ErrFileFormat reports a store file that is not a region document.
var ErrFileFormat = errors.New("unsupported store file format")

// document is the on-disk form of a region.
type document struct {
	Updated time.Time `yaml:"updated"`
	Region  string    `yaml:"region"`
	Version int       `yaml:"version"`
	Size    int       `yaml:"size"`
}

// File keeps the region in a small YAML document so it can be inspected by
// hand. Writes go to a temporary file that is renamed over the old one.
type File struct {
	now  func() time.Time
	path string
}

// NewFile creates a store backed by path. The file is created on first Save.
func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load reads and decodes the region.
func (f *File) Load() ([]byte, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, sensorlink.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", f.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileFormat, err)
	}
	if doc.Version != fileFormatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrFileFormat, doc.Version)
	}
	data, err := hex.DecodeString(doc.Region)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileFormat, err)
	}
	if len(data) != doc.Size {
		return nil, fmt.Errorf("%w: size %d, declared %d", ErrFileFormat, len(data), doc.Size)
	}
	return data, nil
}

// Save replaces the region on disk.
func (f *File) Save(data []byte) error {
	doc := document{
		Version: fileFormatVersion,
		Updated: f.now().UTC(),
		Size:    len(data),
		Region:  hex.EncodeToString(data),
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary store: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
