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

// Command regtool inspects and edits a persisted sensor registry while the
// access point is stopped.
//
//	regtool [flags] list
//	regtool [flags] add <id>
//	regtool [flags] remove <id>
//
// An id is four raw characters or eight hex digits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/internal/config"
	"github.com/ZaparooProject/go-sensorlink/storage"
)

var (
	errUsage     = errors.New("usage: regtool [flags] list | add <id> | remove <id>")
	errDuplicate = errors.New("sensor already registered")
	errFull      = errors.New("registry full")
	errNotFound  = errors.New("sensor not registered")
)

type flags struct {
	configPath *string
	backend    *string
	path       *string
}

func parseFlags() *flags {
	f := &flags{
		configPath: flag.String("config", "", "Path to a YAML configuration file"),
		backend:    flag.String("backend", "", "Store backend: file, redis (overrides storage.backend)"),
		path:       flag.String("path", "", "Registry file (overrides storage.path)"),
	}
	flag.Parse()
	return f
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "regtool: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags()
	cfg, err := config.Load(*f.configPath)
	if err != nil {
		return err
	}
	if *f.backend != "" {
		cfg.Storage.Backend = *f.backend
	}
	if *f.path != "" {
		cfg.Storage.Path = *f.path
	}

	store, closer, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path, cfg.Storage.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	return execute(os.Stdout, store, flag.Args())
}

func execute(out io.Writer, store sensorlink.Store, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	registry, err := sensorlink.NewRegistry(store)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return list(out, registry)
	case "add", "remove":
		if len(args) != 2 {
			return errUsage
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if args[0] == "add" {
			return add(out, registry, id)
		}
		return remove(out, registry, id)
	default:
		return errUsage
	}
}

func parseID(s string) (sensorlink.SensorID, error) {
	if len(s) == sensorlink.SensorIDLen {
		return sensorlink.ParseSensorID([]byte(s))
	}
	return sensorlink.ParseHexSensorID(s)
}

func list(out io.Writer, r *sensorlink.Registry) error {
	entries := r.Entries()
	for i, e := range entries {
		if _, err := fmt.Fprintf(out, "%2d  %s  %q  type=0x%02X\n", i, e.ID, e.ID[:], e.Type); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%d of %d slots used\n", len(entries), sensorlink.RegistryCapacity)
	return err
}

func add(out io.Writer, r *sensorlink.Registry, id sensorlink.SensorID) error {
	res, err := r.Write(id[:])
	if err != nil {
		return err
	}
	switch res {
	case sensorlink.WriteOK:
		_, err = fmt.Fprintf(out, "added %s\n", id)
		return err
	case sensorlink.WriteAlreadyPresent:
		return fmt.Errorf("%s: %w", id, errDuplicate)
	default:
		return errFull
	}
}

func remove(out io.Writer, r *sensorlink.Registry, id sensorlink.SensorID) error {
	res, err := r.Erase(id[:])
	if err != nil {
		return err
	}
	if res == sensorlink.EraseNotFound {
		return fmt.Errorf("%s: %w", id, errNotFound)
	}
	_, err = fmt.Fprintf(out, "removed %s\n", id)
	return err
}
