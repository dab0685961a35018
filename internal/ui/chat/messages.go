// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/ui/styles"
	"github.com/jeranaias/chatdeck/internal/watch"
)

// =============================================================================
// MESSAGES
// =============================================================================

// StorageChangedMsg is sent when another process rewrote the storage.
type StorageChangedMsg struct {
	Event watch.Event
}

// revealTickMsg advances the typing reveal of a reply.
type revealTickMsg struct {
	conversationID string
}

// clipboardMsg reports the result of a copy.
type clipboardMsg struct {
	err error
}

// clearStatusMsg expires a status line set at the given time.
type clearStatusMsg struct {
	set time.Time
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// waitForChange blocks on the watcher and reports the next change.
// It returns nil when there is no watcher or it has been closed.
func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return nil
		}
		return StorageChangedMsg{Event: ev}
	}
}

func revealTick(conversationID string) tea.Cmd {
	return tea.Tick(styles.RevealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{conversationID: conversationID}
	})
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: write(text)}
	}
}

const statusTTL = 4 * time.Second

func clearStatusAfter(set time.Time) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{set: set}
	})
}
