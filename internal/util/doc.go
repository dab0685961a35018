// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for chatdeck.
//
// # Key Functions
//
// String Utilities:
//   - TruncateAppend: keep N characters, then append "..."
//   - TruncateRunes: UTF-8 safe truncation with the ellipsis inside the limit
//   - TruncateWidth, PadRight: display-width aware helpers (go-runewidth)
//
// Time:
//   - FormatRelativeTime: "Just now", "5m ago", "3h ago", "2d ago", date
//   - Pluralize: "1 message", "3 messages"
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
