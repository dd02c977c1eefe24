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

package main

import (
	"bytes"
	"testing"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_AddListRemove(t *testing.T) {
	t.Parallel()

	store := storage.NewMemory()
	var out bytes.Buffer

	require.NoError(t, execute(&out, store, []string{"add", "ABCD"}))
	require.NoError(t, execute(&out, store, []string{"add", "31323334"}))
	assert.Equal(t, "added 41424344\nadded 31323334\n", out.String())

	out.Reset()
	require.NoError(t, execute(&out, store, []string{"list"}))
	assert.Equal(t,
		" 0  41424344  \"ABCD\"  type=0x30\n"+
			" 1  31323334  \"1234\"  type=0x30\n"+
			"2 of 20 slots used\n",
		out.String())

	out.Reset()
	require.NoError(t, execute(&out, store, []string{"remove", "ABCD"}))
	assert.Equal(t, "removed 41424344\n", out.String())

	registry, err := sensorlink.NewRegistry(store)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Count())
}

func TestExecute_Errors(t *testing.T) {
	t.Parallel()

	store := storage.NewMemory()
	var out bytes.Buffer
	require.NoError(t, execute(&out, store, []string{"add", "ABCD"}))

	tests := []struct {
		want error
		name string
		args []string
	}{
		{name: "no command", args: nil, want: errUsage},
		{name: "unknown", args: []string{"flash"}, want: errUsage},
		{name: "missing id", args: []string{"add"}, want: errUsage},
		{name: "duplicate", args: []string{"add", "ABCD"}, want: errDuplicate},
		{name: "absent", args: []string{"remove", "WXYZ"}, want: errNotFound},
		{name: "bad id", args: []string{"add", "XYZ"}, want: sensorlink.ErrInvalidHexSensor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, execute(&bytes.Buffer{}, store, tt.args), tt.want)
		})
	}
}

func TestExecute_Full(t *testing.T) {
	t.Parallel()

	store := storage.NewMemory()
	for i := range sensorlink.RegistryCapacity {
		id := []byte{'S', 'N', byte('A' + i/10), byte('0' + i%10)}
		require.NoError(t, execute(&bytes.Buffer{}, store, []string{"add", string(id)}))
	}
	require.ErrorIs(t, execute(&bytes.Buffer{}, store, []string{"add", "LAST"}), errFull)
}
