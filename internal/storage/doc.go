// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for chatdeck.
//
// The whole collection lives as one JSON array under a single reserved key
// of a kv.Storage. Every mutation reads the array, changes it and writes it
// back; there is no per-conversation record.
//
// # Key Types
//
//   - ConversationStore: load, save, delete, create and rename conversations
//   - Status: which path the last operation took (ok, seeded, fallback...)
//   - PreferenceStore: the persisted theme preference
//
// # Failure Policy
//
// Storage problems never reach the caller. A missing key is seeded with the
// sample conversations; unreadable or corrupt data is logged and the samples
// are returned in its place; failed writes are logged and dropped. Callers
// that need to know check LastStatus.
//
// # Usage
//
//	store := storage.NewConversationStore(medium, storage.WithLogger(logger))
//	conv := store.CreateNew("")
//	store.Save(conv)
//	all := store.LoadAll()
package storage
