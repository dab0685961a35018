// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the key-value medium conversations are persisted to.
//
// The conversation store keeps its whole collection under one reserved key,
// so any medium with get/set semantics will do. Backends:
//
//   - Memory: process-local map, used in tests
//   - File: one file per key, written atomically (default)
//   - SQLite: a single kv table via modernc.org/sqlite
//   - Redis: plain string keys via go-redis
//
// Backends do not coordinate across processes; the last writer wins.
package kv
