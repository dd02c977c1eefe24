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
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/ap"
	"github.com/ZaparooProject/go-sensorlink/hostlink"
	"github.com/ZaparooProject/go-sensorlink/httpapi"
	"github.com/ZaparooProject/go-sensorlink/internal/config"
	"github.com/ZaparooProject/go-sensorlink/internal/logging"
	"github.com/ZaparooProject/go-sensorlink/internal/metrics"
	"github.com/ZaparooProject/go-sensorlink/radio/sim"
	"github.com/ZaparooProject/go-sensorlink/storage"
	"github.com/ZaparooProject/go-sensorlink/watchdog"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type options struct {
	configPath string
	port       string
	httpAddr   string
}

func printPorts() int {
	ports, err := hostlink.ListPorts()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "linksim: %v\n", err)
		return 1
	}
	for _, p := range ports {
		_, _ = fmt.Println(p)
	}
	return 0
}

func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.port != "" {
		cfg.Host.Port = opts.port
	}
	if opts.httpAddr != "" {
		cfg.HTTP.Addr = opts.httpAddr
		cfg.HTTP.Enable = true
	}
	return cfg, nil
}

func simulate(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stderr)
	log := logger.WithField("run", uuid.NewString())

	reg := metrics.NewRegistry()
	mt := metrics.New(reg)

	store, closer, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, cfg.Storage.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()
	registry, err := sensorlink.NewRegistry(store)
	if err != nil {
		return err
	}
	mt.SetRegistered(registry.Count())

	host, err := openHost(ctx, cfg.Host)
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	medium := sim.NewMedium(
		sim.WithLogger(log),
		sim.WithMetrics(mt),
		sim.WithBusyRatio(cfg.Radio.BusyRatio),
		sim.WithWarnInterval(cfg.Radio.WarnEvery),
	)

	link := hostlink.NewLink(host, hostlink.WithLogger(log))
	machine, err := ap.New(medium.NewRadio(ap.Role), link, registry,
		ap.WithChannel(cfg.AP.Channel),
		ap.WithTimeoutLevel(cfg.AP.TimeoutLevel),
		ap.WithLogger(log),
		ap.WithMetrics(mt),
	)
	if err != nil {
		return err
	}

	wd, err := openWatchdog(cfg.Watchdog, log)
	if err != nil {
		return err
	}

	devices, err := buildDevices(ctx, cfg, medium, log, mt)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(devices)+2)
	spawn := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errs <- fmt.Errorf("%s: %w", name, err)
				cancel()
			}
		}()
	}

	// The pump is not waited for: a Read on stdin cannot be interrupted.
	go func() {
		if err := link.Pump(ctx, host); err != nil {
			log.WithError(err).Error("host link closed")
		}
	}()
	spawn("ap", func() error {
		return ap.Run(ctx, machine, ap.RunConfig{
			Watchdog:    wd,
			TickPeriod:  cfg.AP.TickPeriod,
			HostSilence: cfg.Watchdog.HostSilence,
		})
	})
	for _, d := range devices {
		spawn("ed "+d.name, func() error { return d.run(ctx, cfg.AP.TickPeriod) })
	}
	if cfg.HTTP.Enable {
		srv := httpapi.New(cfg.HTTP.Addr, machine, metrics.Handler(reg))
		spawn("http", srv.Start)
		go func() {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("http shutdown")
			}
		}()
		log.WithField("addr", cfg.HTTP.Addr).Info("status api listening")
	}

	log.WithFields(logrus.Fields{
		"channel": cfg.AP.Channel,
		"devices": len(devices),
		"sensors": registry.Count(),
	}).Info("simulation started")

	<-ctx.Done()
	wg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}

type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }

// openHost returns the host terminal: a serial port or the process stdio.
func openHost(ctx context.Context, cfg config.HostConfig) (io.ReadWriteCloser, error) {
	if cfg.Port == "" {
		return stdio{Reader: os.Stdin, Writer: os.Stdout}, nil
	}
	port, err := hostlink.OpenPortWait(ctx, hostlink.PortConfig{
		Name:     cfg.Port,
		BaudRate: cfg.Baud,
		Wait:     cfg.Wait,
	})
	if err != nil {
		return nil, err
	}
	return port, nil
}

func openWatchdog(cfg config.WatchdogConfig, log logrus.FieldLogger) (watchdog.Watchdog, error) {
	if cfg.Device != "" {
		d, err := watchdog.OpenDevice(cfg.Device, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("open watchdog: %w", err)
		}
		return d, nil
	}
	return watchdog.NewSoft(cfg.Timeout, func() {
		log.Error("access point loop stalled, watchdog expired")
	}), nil
}
