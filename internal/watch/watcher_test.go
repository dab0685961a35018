// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/kv"
)

func fastOptions() Options {
	return Options{Debounce: 20 * time.Millisecond, Interval: 20 * time.Millisecond}
}

func waitEvent(t *testing.T, w *Watcher, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		return ev, ok
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestNew_RequiresKeys(t *testing.T) {
	_, err := New(t.TempDir(), nil, Options{})
	assert.ErrorIs(t, err, ErrNoKeys)
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), []string{"k"}, Options{})
	assert.Error(t, err)
}

func TestWatcher_ReportsWatchedKey(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"ai-chat-conversations"}, fastOptions())
	require.NoError(t, err)
	defer w.Close()

	store, err := kv.NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("ai-chat-conversations", "[]"))

	ev, ok := waitEvent(t, w, 3*time.Second)
	require.True(t, ok, "expected a change event")
	assert.Equal(t, "ai-chat-conversations", ev.Key)
	assert.Equal(t, store.Path("ai-chat-conversations"), ev.Path)
	assert.False(t, ev.At.IsZero())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"ai-chat-conversations"}, fastOptions())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.json"), []byte("{}"), 0644))

	_, ok := waitEvent(t, w, 300*time.Millisecond)
	assert.False(t, ok, "unrelated file must not produce an event")
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, []string{"k"}, Options{Debounce: 100 * time.Millisecond, Interval: 10 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	store, err := kv.NewFile(dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Set("k", "v"))
	}

	_, ok := waitEvent(t, w, 3*time.Second)
	require.True(t, ok)

	_, ok = waitEvent(t, w, 300*time.Millisecond)
	assert.False(t, ok, "a quick burst should collapse into one event")
}

func TestWatcher_CloseClosesEvents(t *testing.T) {
	w, err := New(t.TempDir(), []string{"k"}, Options{})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "second close is a no-op")

	_, open := <-w.Events()
	assert.False(t, open)
}
