// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis-backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "chatdeck:"
	Prefix string
	// Timeout bounds each call; 0 means 5 seconds
	Timeout time.Duration
}

// Redis stores keys as plain Redis strings.
type Redis struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r := &Redis{client: client, prefix: opts.Prefix, timeout: timeout}

	ctx, cancel := r.ctx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis storage: ping %s: %w", opts.Addr, err)
	}
	return r, nil
}

func (r *Redis) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Get returns the value stored under key.
func (r *Redis) Get(key string) (string, bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key without expiry.
func (r *Redis) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Remove deletes key. Removing an absent key is not an error.
func (r *Redis) Remove(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Close closes the client connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
