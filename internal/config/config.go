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

// Package config loads the simulator and access point settings from an
// optional YAML file, defaults and SENSORLINK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZaparooProject/go-sensorlink/storage"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SENSORLINK_AP_CHANNEL.
const EnvPrefix = "SENSORLINK"

// APConfig holds the access point settings.
type APConfig struct {
	Channel      uint8         `mapstructure:"channel"`
	TimeoutLevel uint8         `mapstructure:"timeoutLevel"`
	TickPeriod   time.Duration `mapstructure:"tickPeriod"`
}

// HostConfig selects the host terminal. An empty Port uses stdio.
type HostConfig struct {
	Port string        `mapstructure:"port"`
	Baud int           `mapstructure:"baud"`
	Wait time.Duration `mapstructure:"wait"`
}

// StorageConfig selects the registry store.
type StorageConfig struct {
	Backend string              `mapstructure:"backend"`
	Path    string              `mapstructure:"path"`
	Redis   storage.RedisConfig `mapstructure:"redis"`
}

// RadioConfig tunes the simulated medium.
type RadioConfig struct {
	BusyRatio float64       `mapstructure:"busyRatio"`
	WarnEvery time.Duration `mapstructure:"warnEvery"`
}

// EndDeviceConfig describes one simulated end device.
// Pin names are optional; an empty name uses an in-memory pin. FaultAfter
// opens a simulated sense contact once the device has run that long.
type EndDeviceConfig struct {
	ID         string        `mapstructure:"id"`
	LEDPin     string        `mapstructure:"ledPin"`
	SensePin   string        `mapstructure:"sensePin"`
	ButtonPin  string        `mapstructure:"buttonPin"`
	FaultAfter time.Duration `mapstructure:"faultAfter"`
	Type       uint8         `mapstructure:"type"`
	Fault      bool          `mapstructure:"fault"`
}

// EndDevicesConfig lists the simulated end devices.
type EndDevicesConfig struct {
	Devices    []EndDeviceConfig `mapstructure:"devices"`
	SleepScale float64           `mapstructure:"sleepScale"`
}

// HTTPConfig configures the status API.
type HTTPConfig struct {
	Addr   string `mapstructure:"addr"`
	Enable bool   `mapstructure:"enable"`
}

// LumberjackConfig configures log file rotation.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// WatchdogConfig selects the watchdog. An empty Device uses the software
// watchdog with Timeout.
type WatchdogConfig struct {
	Device      string        `mapstructure:"device"`
	Timeout     time.Duration `mapstructure:"timeout"`
	HostSilence uint32        `mapstructure:"hostSilence"`
}

// Config is the top-level configuration.
type Config struct {
	Host       HostConfig       `mapstructure:"host"`
	Storage    StorageConfig    `mapstructure:"storage"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`
	Watchdog   WatchdogConfig   `mapstructure:"watchdog"`
	EndDevices EndDevicesConfig `mapstructure:"endDevices"`
	Radio      RadioConfig      `mapstructure:"radio"`
	AP         APConfig         `mapstructure:"ap"`
}

// Load reads path, if set, over the defaults and applies environment
// overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges viper cannot express.
func (c *Config) Validate() error {
	if c.AP.Channel >= 8 {
		return fmt.Errorf("ap.channel %d: must be below 8", c.AP.Channel)
	}
	if c.AP.TimeoutLevel > 5 {
		return fmt.Errorf("ap.timeoutLevel %d: must be at most 5", c.AP.TimeoutLevel)
	}
	if c.AP.TickPeriod <= 0 {
		return fmt.Errorf("ap.tickPeriod %v: must be positive", c.AP.TickPeriod)
	}
	switch c.Storage.Backend {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("storage.backend %q: want memory, file or redis", c.Storage.Backend)
	}
	if c.Radio.BusyRatio < 0 || c.Radio.BusyRatio >= 1 {
		return fmt.Errorf("radio.busyRatio %v: must be in [0,1)", c.Radio.BusyRatio)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ap.channel", 0)
	v.SetDefault("ap.timeoutLevel", 5)
	v.SetDefault("ap.tickPeriod", "10ms")

	v.SetDefault("host.port", "")
	v.SetDefault("host.baud", 115200)
	v.SetDefault("host.wait", "0s")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "data/registry.yaml")
	v.SetDefault("storage.redis.addr", "127.0.0.1:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key", "sensorlink:registry")

	v.SetDefault("radio.busyRatio", 0.0)
	v.SetDefault("radio.warnEvery", "5s")

	v.SetDefault("endDevices.sleepScale", 1.0)

	v.SetDefault("http.enable", false)
	v.SetDefault("http.addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file.filename", "")
	v.SetDefault("log.file.maxSize", 10)
	v.SetDefault("log.file.maxBackups", 3)
	v.SetDefault("log.file.maxAge", 28)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("watchdog.device", "")
	v.SetDefault("watchdog.timeout", "2s")
	v.SetDefault("watchdog.hostSilence", 4000)
}
