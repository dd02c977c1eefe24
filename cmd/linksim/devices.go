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
	"context"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/ed"
	"github.com/ZaparooProject/go-sensorlink/indicator"
	"github.com/ZaparooProject/go-sensorlink/internal/config"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/ZaparooProject/go-sensorlink/radio/sim"
	"github.com/ZaparooProject/go-sensorlink/storage"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// wakeAfter is how long a simulated user takes to press the wake button of
// a device in deep sleep, before sleep scaling.
const wakeAfter = 2 * time.Second

// edgePoll bounds how long a sense watcher outlives the simulation.
const edgePoll = 100 * time.Millisecond

// raiseFault drives a simulated sense contact low after d, waking the device
// from its timed sleep.
func raiseFault(ctx context.Context, pin *gpiotest.Pin, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
		select {
		case pin.EdgesChan <- gpio.Low:
		case <-ctx.Done():
		}
	}
}

var defaultDevices = []config.EndDeviceConfig{
	{ID: "ED01"},
	{ID: "ED02"},
}

type device struct {
	machine *ed.Machine
	name    string
}

func (d *device) run(ctx context.Context, tick time.Duration) error {
	return ed.Run(ctx, d.machine, tick)
}

// parseID accepts four raw characters or eight hex digits.
func parseID(s string) (sensorlink.SensorID, error) {
	if len(s) == sensorlink.SensorIDLen {
		return sensorlink.ParseSensorID([]byte(s))
	}
	return sensorlink.ParseHexSensorID(s)
}

// openPin returns the named host GPIO, or an in-memory pin called fallback
// when no name is configured.
func openPin(name, fallback string) (gpio.PinIO, error) {
	if name == "" {
		return &gpiotest.Pin{N: fallback}, nil
	}
	return indicator.OpenPin(name)
}

func buildDevices(ctx context.Context, cfg *config.Config, medium *sim.Medium, log logrus.FieldLogger, mt *metrics.Metrics) ([]*device, error) {
	specs := cfg.EndDevices.Devices
	if len(specs) == 0 {
		specs = defaultDevices
	}

	devices := make([]*device, 0, len(specs))
	for _, spec := range specs {
		d, err := buildDevice(ctx, spec, cfg.EndDevices.SleepScale, medium, log, mt)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func buildDevice(
	ctx context.Context,
	spec config.EndDeviceConfig,
	scale float64,
	medium *sim.Medium,
	log logrus.FieldLogger,
	mt *metrics.Metrics,
) (*device, error) {
	id, err := parseID(spec.ID)
	if err != nil {
		return nil, fmt.Errorf("end device %q: %w", spec.ID, err)
	}

	sensePin, err := openPin(spec.SensePin, spec.ID+"_SENSE")
	if err != nil {
		return nil, err
	}
	fake, simulated := sensePin.(*gpiotest.Pin)
	if simulated {
		fake.EdgesChan = make(chan gpio.Level, 1)
	}
	sense, err := indicator.NewSense(sensePin)
	if err != nil {
		return nil, err
	}
	if simulated && spec.Fault {
		// A fault contact holds the pulled-up input low.
		fake.Lock()
		fake.L = gpio.Low
		fake.Unlock()
	}
	if simulated && spec.FaultAfter > 0 {
		go raiseFault(ctx, fake, spec.FaultAfter)
	}
	buttonPin, err := openPin(spec.ButtonPin, spec.ID+"_CFG")
	if err != nil {
		return nil, err
	}
	button, err := indicator.NewButton(buttonPin)
	if err != nil {
		return nil, err
	}
	ledPin, err := openPin(spec.LEDPin, spec.ID+"_LED")
	if err != nil {
		return nil, err
	}
	led := indicator.NewLED(ledPin)

	sensorType := spec.Type
	if sensorType == 0 {
		sensorType = sensorlink.DefaultSensorType
	}

	m, err := ed.New(medium.NewRadio(ed.Role), storage.NewMemory(), id,
		ed.WithType(sensorType),
		ed.WithLED(led),
		ed.WithSense(sense),
		ed.WithButton(button),
		ed.WithPower(&ed.SimPower{
			SenseEdge:    indicator.WatchEdges(ctx, sensePin, edgePoll),
			Scale:        scale,
			DeepSleepFor: wakeAfter,
		}),
		ed.WithLogger(log),
		ed.WithMetrics(mt),
	)
	if err != nil {
		return nil, err
	}
	return &device{machine: m, name: spec.ID}, nil
}
