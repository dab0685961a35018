// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders conversations for use outside chatdeck.
//
// # Key Types
//
//   - Exporter: the interface every format implements
//   - Options: metadata, timestamps and HTML theme selection
//
// # Supported Formats
//
//   - Markdown: human-readable transcript with YAML frontmatter
//   - JSON: the stored conversation layout, indented
//   - HTML: standalone page styled with the TUI palette
//
// # Usage
//
//	exporter, err := export.ForFormat("html", export.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(conv, exporter, ".")
package export
