// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/ui/chat"
	"github.com/jeranaias/chatdeck/internal/watch"
)

// runTUI opens the full-screen chat interface.
func runTUI(flags *globalFlags) error {
	if !IsStdoutTTY() || !IsTTY() {
		return fmt.Errorf("%w: use a subcommand such as list or repl (see --help)", ErrNotTerminal)
	}

	a, err := openApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()

	var watcher *watch.Watcher
	if a.cfg.Storage.Backend == config.BackendFile && a.cfg.UI.Watch {
		watcher, err = watch.New(a.cfg.Storage.DataDir,
			[]string{a.cfg.Storage.Key, storage.ThemeKey},
			watch.Options{Logger: a.logger})
		if err != nil {
			// Run without live reload.
			a.logger.Warn().Err(err).Msg("Failed to watch storage directory")
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	m := chat.New(chat.Deps{
		Session:     a.session(a.responder()),
		Preferences: a.prefs,
		Watcher:     watcher,
		Logger:      a.logger,
		Subtitle:    a.cfg.Storage.Backend + " storage",
		RevealStep:  a.cfg.UI.RevealStep,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
