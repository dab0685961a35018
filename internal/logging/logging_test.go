// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chatdeck.log")

	logger, closer, err := New(config.LogConfig{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	logger.Debug().Str("op", "load").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op":"load"`)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatdeck.log")

	logger, closer, err := New(config.LogConfig{Level: "error", Format: "json", File: path})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
	logger.Info().Msg("dropped")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	logger, closer, err := New(config.LogConfig{Level: "chatty", Format: "console"})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
