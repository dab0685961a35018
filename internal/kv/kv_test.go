// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/config"
)

// =============================================================================
// SHARED CONTRACT
// =============================================================================

// exerciseStorage runs the behaviour every backend must share.
func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok, "absent key reports ok=false")

	require.NoError(t, s.Set("k", `[{"id":"1"}]`))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Set("k", "[]"))
	v, _, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "[]", v, "set overwrites")

	require.NoError(t, s.Set("empty", ""))
	v, ok, err = s.Get("empty")
	require.NoError(t, err)
	assert.True(t, ok, "empty value is still present")
	assert.Equal(t, "", v)

	require.NoError(t, s.Remove("k"))
	_, ok, err = s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Remove("never-set"), "removing absent key is fine")
	assert.ErrorIs(t, s.Set("", "x"), ErrEmptyKey)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStorage(t, m)

	require.NoError(t, m.Close())
	_, _, err := m.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set("k", "v"), ErrClosed)
}

func TestFile(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	defer f.Close()

	exerciseStorage(t, f)
}

func TestFile_LayoutOnDisk(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set("ai-chat-conversations", "[]"))

	data, err := os.ReadFile(filepath.Join(dir, "ai-chat-conversations.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Equal(t, filepath.Join(dir, "ai-chat-conversations.json"), f.Path("ai-chat-conversations"))
}

func TestFile_UnreadableValueIsAnError(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	// A directory where the value file should be cannot be read as a file.
	require.NoError(t, os.Mkdir(f.Path("k"), 0755))
	_, ok, err := f.Get("k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "ai-interface-theme.json", FileName("ai-interface-theme"))
	assert.Equal(t, "a_b_c.json", FileName("a/b\\c"))
	assert.Equal(t, "chatdeck_x.json", FileName("chatdeck:x"))
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close(), "double close is harmless")

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("CHATDECK_TEST_REDIS")
	if addr == "" {
		t.Skip("set CHATDECK_TEST_REDIS=host:port to run Redis tests")
	}

	r, err := NewRedis(RedisOptions{Addr: addr, Prefix: "chatdeck-test:"})
	require.NoError(t, err)
	defer r.Close()

	exerciseStorage(t, r)
}

// =============================================================================
// OPEN
// =============================================================================

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(config.StorageConfig{Backend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(config.StorageConfig{Backend: config.BackendFile, DataDir: filepath.Join(dir, "files")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(dir, "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.StorageConfig{Backend: "tape"})
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}
