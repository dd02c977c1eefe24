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

package hostlink

import (
	"io"

	"github.com/ZaparooProject/go-sensorlink"
)

// Formatter composes one host-visible line from typed pieces. The zero value
// is ready to use.
type Formatter struct {
	buf []byte
}

// Format starts a new formatter.
func Format() *Formatter {
	return &Formatter{}
}

// Literal appends fixed protocol text.
func (f *Formatter) Literal(s string) *Formatter {
	f.buf = append(f.buf, s...)
	return f
}

// Text appends a variable string.
func (f *Formatter) Text(s string) *Formatter {
	f.buf = append(f.buf, s...)
	return f
}

// Byte appends a single raw byte.
func (f *Formatter) Byte(b byte) *Formatter {
	f.buf = append(f.buf, b)
	return f
}

// Raw appends bytes unchanged.
func (f *Formatter) Raw(b []byte) *Formatter {
	f.buf = append(f.buf, b...)
	return f
}

// Digit appends the ASCII digit for n, which must be below 10.
func (f *Formatter) Digit(n int) *Formatter {
	return f.Byte(byte('0' + n%10))
}

// HexID appends id as 8 upper-case hex characters.
func (f *Formatter) HexID(id sensorlink.SensorID) *Formatter {
	f.buf = append(f.buf, id.String()...)
	return f
}

// Percent appends a literal '%'.
func (f *Formatter) Percent() *Formatter {
	return f.Byte('%')
}

// Bytes returns the composed output.
func (f *Formatter) Bytes() []byte {
	return f.buf
}

// String returns the composed output as text.
func (f *Formatter) String() string {
	return string(f.buf)
}

// WriteTo writes the composed output to w.
func (f *Formatter) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.buf)
	return int64(n), err
}
