// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
	"github.com/jeranaias/chatdeck/internal/util"
)

// ErrUnknownFormat is returned by ForFormat for unsupported format names.
var ErrUnknownFormat = errors.New("unknown export format")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export converts a conversation to the target format and returns the content.
	Export(conv model.Conversation) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// IncludeMetadata adds a header block (dates, message count) and a footer.
	IncludeMetadata bool

	// IncludeTimestamps adds per-message timestamps.
	IncludeTimestamps bool

	// Theme selects the HTML palette. ModeSystem follows the browser.
	Theme styles.Mode

	// Now stamps the footer. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             styles.ModeSystem,
		Now:               time.Now,
	}
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Format names accepted by ForFormat.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatHTML     = "html"
)

// Formats lists the canonical format names.
var Formats = []string{FormatMarkdown, FormatJSON, FormatHTML}

// ForFormat returns the exporter for a format name (case-insensitive).
func ForFormat(name string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatMarkdown, "markdown":
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	case FormatHTML, "htm":
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("%w %q, must be one of: %s", ErrUnknownFormat, name, strings.Join(Formats, ", "))
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a conversation into dir and returns the written path.
// The file name is derived from the title and the conversation ID, so
// repeated exports of the same conversation overwrite each other.
func ExportToFile(conv model.Conversation, exporter Exporter, dir string) (string, error) {
	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	outputPath := filepath.Join(dir, FileName(conv, exporter))
	if err := util.AtomicWriteFileWithDir(outputPath, content, 0644, 0755); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// FileName returns the default export file name for conv.
func FileName(conv model.Conversation, exporter Exporter) string {
	id := conv.ID
	if r := []rune(id); len(r) > 8 {
		id = string(r[:8])
	}
	return fmt.Sprintf("conversation_%s_%s%s",
		sanitizeFilename(conv.Title),
		sanitizeFilename(id),
		exporter.FileExtension(),
	)
}

// Open opens a file in the default application for the OS.
func Open(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// validate rejects conversations that cannot be rendered meaningfully.
func validate(conv model.Conversation) error {
	if conv.ID == "" {
		return errors.New("conversation has no ID")
	}
	if conv.CreatedAt.IsZero() {
		return errors.New("conversation has invalid creation timestamp")
	}
	return nil
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(s)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
