// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatdeck.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - StorageConfig: which key-value backend holds the conversations
//   - UIConfig: theme and simulated-response pacing
//   - LogConfig: zerolog level, format and destination
//
// # Configuration Precedence
//
//   - Environment variables (CHATDECK_*)
//   - ~/.chatdeck/config.toml (or $CHATDECK_HOME/config.toml)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Storage.Backend)
package config
