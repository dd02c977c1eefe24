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

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sensorlink"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisTimeout bounds every Redis round trip.
const DefaultRedisTimeout = 2 * time.Second

// RedisClient is the subset of redis.Cmdable the store uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisConfig selects the server and key holding the region.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	Key      string `mapstructure:"key"`
	DB       int    `mapstructure:"db"`
}

// Redis keeps the region under a single key. It lets several simulator runs
// share one registry.
type Redis struct {
	client  RedisClient
	key     string
	timeout time.Duration
}

// NewRedis wraps an existing client.
func NewRedis(client RedisClient, key string) *Redis {
	return &Redis{client: client, key: key, timeout: DefaultRedisTimeout}
}

// DialRedis creates a client from cfg and wraps it.
func DialRedis(cfg RedisConfig) (*Redis, *redis.Client) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedis(client, cfg.Key), client
}

// Load fetches the region.
func (r *Redis) Load() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sensorlink.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s from redis: %w", r.key, err)
	}
	return data, nil
}

// Save replaces the region.
func (r *Redis) Save(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s to redis: %w", r.key, err)
	}
	return nil
}
