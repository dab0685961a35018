// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatdeck command line.
//
// Running chatdeck without a subcommand opens the terminal UI. The
// subcommands work on the same store without it:
//
//	chatdeck list --sort recent
//	chatdeck new "How do I learn Go?"
//	chatdeck send <id> "Where should I start?"
//	chatdeck export <id> --format json --out chat.json
//	chatdeck repl
//	chatdeck config set storage.backend sqlite
//
// Persistent flags (--config, --backend, --data-dir, --log-level) override
// the config file and CHATDECK_* environment variables. A .env file in the
// working directory is loaded before anything else.
//
// Output is styled only when stdout is a terminal and NO_COLOR is unset.
package cli
