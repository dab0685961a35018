// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/kv"
	"github.com/jeranaias/chatdeck/internal/logging"
	"github.com/jeranaias/chatdeck/internal/responder"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

// app bundles what a command needs: config, logger, the open medium and
// the stores on top of it.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	kv     kv.Storage
	store  *storage.ConversationStore
	prefs  *storage.PreferenceStore

	logCloser io.Closer
}

// openApp loads configuration and opens the configured storage backend.
// The caller must Close the result.
func openApp(flags *globalFlags) (*app, error) {
	cfg, err := flags.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	medium, err := kv.Open(cfg.Storage)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	logger.Debug().
		Str("backend", cfg.Storage.Backend).
		Str("key", cfg.Storage.Key).
		Msg("Storage opened")

	prefs := storage.NewPreferenceStore(medium, logger)
	if mode, err := styles.ParseMode(cfg.UI.Theme); err == nil {
		prefs.SetFallback(mode)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		kv:     medium,
		store: storage.NewConversationStore(medium,
			storage.WithLogger(logger),
			storage.WithKey(cfg.Storage.Key),
		),
		prefs:     prefs,
		logCloser: logCloser,
	}, nil
}

// responder returns the canned responder with the configured delay.
func (a *app) responder() *responder.Canned {
	return responder.NewCanned(
		responder.WithDelay(time.Duration(a.cfg.UI.ResponseDelayMs) * time.Millisecond),
	)
}

// session returns a session manager over the app's store.
func (a *app) session(resp responder.Responder) *session.Manager {
	return session.NewManager(a.store, resp, session.Config{Logger: a.logger})
}

// Close releases the storage medium and the log file.
func (a *app) Close() error {
	return errors.Join(a.kv.Close(), a.logCloser.Close())
}
