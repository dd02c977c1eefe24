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

// Package httpapi serves a read-only view of the access point over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/ZaparooProject/go-sensorlink/ap"
	"github.com/gin-gonic/gin"
)

// StatusSource publishes access point snapshots.
type StatusSource interface {
	Snapshot() *ap.Snapshot
}

// Server wraps the gin router in an http.Server.
type Server struct {
	srv *http.Server
}

// NewRouter registers the status routes. A nil metrics handler leaves
// /metrics unrouted.
func NewRouter(source StatusSource, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, source.Snapshot())
	})
	r.GET("/sensors", func(c *gin.Context) {
		c.JSON(http.StatusOK, source.Snapshot().Sensors)
	})
	r.GET("/sensors/:id", func(c *gin.Context) {
		id, err := sensorlink.ParseHexSensorID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for _, s := range source.Snapshot().Sensors {
			if s.ID == id.String() {
				c.JSON(http.StatusOK, s)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "sensor not registered"})
	})
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}
	return r
}

// New creates a server listening on addr.
func New(addr string, source StatusSource, metricsHandler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           NewRouter(source, metricsHandler),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Start serves until Shutdown. It blocks.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
