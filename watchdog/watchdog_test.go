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

package watchdog

import (
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoft_ExpiresWithoutKick(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	wd := NewSoft(10*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, wd.Kick())

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, wd.Expirations())
}

func TestSoft_KickHoldsOff(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	wd := NewSoft(50*time.Millisecond, func() { fired.Add(1) })
	for i := 0; i < 10; i++ {
		require.NoError(t, wd.Kick())
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, wd.Stop())
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, wd.Expirations())
}

func TestSoft_StoppedUntilKicked(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	wd := NewSoft(5*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, wd.Stop())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load(), "never armed")

	require.NoError(t, wd.Kick())
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var wd Watchdog = Nop{}
	require.NoError(t, wd.Kick())
	require.NoError(t, wd.Stop())
}

func TestOpenDevice_Missing(t *testing.T) {
	t.Parallel()

	_, err := OpenDevice(filepath.Join(t.TempDir(), "watchdog"), time.Second)
	require.Error(t, err)
	if runtime.GOOS != "linux" {
		require.ErrorIs(t, err, ErrUnsupported)
	}
}
