// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the key-value medium conversations are persisted to.
package kv

import (
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/chatdeck/internal/config"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownBackend is returned by Open for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("storage closed")

	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("empty key")
)

// =============================================================================
// STORAGE INTERFACE
// =============================================================================

// Storage is a string-to-string key-value medium.
//
// Get reports ok == false with a nil error when the key is absent; a
// non-nil error means the medium itself could not be read.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Open creates the backend selected by cfg.Backend.
func Open(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile, "":
		return NewFile(cfg.DataDir)
	case config.BackendSQLite:
		return NewSQLite(cfg.SQLitePath)
	case config.BackendRedis:
		return NewRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			Timeout:  time.Duration(cfg.TimeoutMs) * time.Millisecond,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
