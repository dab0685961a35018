// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatdeck/internal/kv"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

// ThemeKey holds the theme preference as a bare string.
const ThemeKey = "ai-interface-theme"

// PreferenceStore persists user preferences next to the conversations.
// It follows the same policy as ConversationStore: failures are logged
// and the default is used.
type PreferenceStore struct {
	kv       kv.Storage
	logger   zerolog.Logger
	fallback styles.Mode
}

// NewPreferenceStore creates a preference store over the given medium.
func NewPreferenceStore(storage kv.Storage, logger zerolog.Logger) *PreferenceStore {
	return &PreferenceStore{
		kv:       storage,
		logger:   logger.With().Str("component", "preferences").Logger(),
		fallback: styles.DefaultMode,
	}
}

// SetFallback sets the mode Theme returns when nothing valid is stored.
// Invalid modes are ignored.
func (p *PreferenceStore) SetFallback(mode styles.Mode) {
	if mode.Valid() {
		p.fallback = mode
	}
}

// Theme returns the stored theme mode, or the fallback (styles.DefaultMode
// unless SetFallback changed it) when nothing valid is stored.
func (p *PreferenceStore) Theme() styles.Mode {
	if p.kv == nil {
		return p.fallback
	}

	raw, ok, err := p.kv.Get(ThemeKey)
	if err != nil {
		p.logger.Error().Err(err).Msg("Error loading theme preference")
		return p.fallback
	}
	if !ok {
		return p.fallback
	}

	mode, err := styles.ParseMode(raw)
	if err != nil {
		p.logger.Warn().Str("value", raw).Msg("Ignoring unknown theme preference")
		return p.fallback
	}
	return mode
}

// SetTheme stores mode. Invalid modes are ignored.
func (p *PreferenceStore) SetTheme(mode styles.Mode) {
	if !mode.Valid() {
		p.logger.Warn().Str("value", mode.String()).Msg("Refusing to store unknown theme")
		return
	}
	if p.kv == nil {
		return
	}
	if err := p.kv.Set(ThemeKey, mode.String()); err != nil {
		p.logger.Error().Err(err).Msg("Error saving theme preference")
	}
}
