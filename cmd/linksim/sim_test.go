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
	"testing"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/ed"
	"github.com/ZaparooProject/go-sensorlink/indicator"
	"github.com/ZaparooProject/go-sensorlink/internal/config"
	"github.com/ZaparooProject/go-sensorlink/internal/logging"
	"github.com/ZaparooProject/go-sensorlink/radio/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := parseID("ED01")
	require.NoError(t, err)
	assert.Equal(t, sensorlink.SensorID{'E', 'D', '0', '1'}, id)

	id, err = parseID("0a0b0c0d")
	require.NoError(t, err)
	assert.Equal(t, sensorlink.SensorID{0x0A, 0x0B, 0x0C, 0x0D}, id)

	_, err = parseID("ED0")
	require.ErrorIs(t, err, sensorlink.ErrInvalidHexSensor)
}

func TestBuildDevices(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.EndDevices.SleepScale = 0.01
	medium := sim.NewMedium()

	devices, err := buildDevices(t.Context(), cfg, medium, logging.Discard(), nil)
	require.NoError(t, err)
	require.Len(t, devices, len(defaultDevices))
	assert.Equal(t, "ED01", devices[0].name)
	assert.Equal(t, ed.StateDeepSleep, devices[0].machine.State())

	cfg.EndDevices.Devices = []config.EndDeviceConfig{{ID: "bad"}}
	_, err = buildDevices(t.Context(), cfg, medium, logging.Discard(), nil)
	require.Error(t, err)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(options{port: "/dev/ttyUSB0", httpAddr: ":9999"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Host.Port)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.Enable)
}

func TestBuildDevices_UnknownPin(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.EndDevices.Devices = []config.EndDeviceConfig{{ID: "ED01", LEDPin: "NO_SUCH_GPIO_99"}}

	_, err := buildDevices(t.Context(), cfg, sim.NewMedium(), logging.Discard(), nil)
	require.ErrorIs(t, err, indicator.ErrNoPin)
}

func TestRaiseFault(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "SENSE", EdgesChan: make(chan gpio.Level, 1)}
	go raiseFault(t.Context(), pin, time.Millisecond)

	select {
	case l := <-pin.EdgesChan:
		assert.Equal(t, gpio.Low, l)
	case <-time.After(time.Second):
		t.Fatal("fault edge not raised")
	}
}
