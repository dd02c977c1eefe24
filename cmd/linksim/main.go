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

// Command linksim runs one access point and a set of simulated end devices
// on a shared simulated radio medium. The host terminal is stdio or a
// serial port.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if run() != 0 {
		os.Exit(1)
	}
}

func run() int {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	port := flag.String("port", "", "Serial port for the host terminal (overrides host.port)")
	listPorts := flag.Bool("list-ports", false, "List serial ports and exit")
	httpAddr := flag.String("http", "", "Serve the status API on this address (overrides http.addr)")
	flag.Parse()

	if *listPorts {
		return printPorts()
	}

	opts := options{
		configPath: *configPath,
		port:       *port,
		httpAddr:   *httpAddr,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := simulate(ctx, opts); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "linksim: %v\n", err)
		return 1
	}
	return 0
}
