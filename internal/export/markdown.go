// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Markdown renders conv as a transcript without frontmatter or footer.
// The CLI and REPL use it for on-screen display.
func Markdown(conv model.Conversation) string {
	e := NewMarkdownExporter(&Options{IncludeTimestamps: true})
	var sb strings.Builder
	e.writeBody(&sb, conv)
	return sb.String()
}

// Export converts a conversation to Markdown format.
func (e *MarkdownExporter) Export(conv model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "id: %s\n", escapeYAML(conv.ID))
		fmt.Fprintf(&sb, "title: %s\n", escapeYAML(conv.Title))
		fmt.Fprintf(&sb, "created: %s\n", conv.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "updated: %s\n", conv.UpdatedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "messages: %d\n", len(conv.Messages))
		fmt.Fprintf(&sb, "exported: %s\n", e.options.now().Format(time.RFC3339))
		sb.WriteString("generator: chatdeck\n")
		sb.WriteString("---\n\n")
	}

	e.writeBody(&sb, conv)

	if e.options.IncludeMetadata {
		fmt.Fprintf(&sb, "*Exported from chatdeck on %s*\n",
			e.options.now().Format("January 2, 2006 at 3:04 PM"))
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// writeBody writes the title, dates and messages.
func (e *MarkdownExporter) writeBody(sb *strings.Builder, conv model.Conversation) {
	fmt.Fprintf(sb, "# %s\n\n", escapeMarkdown(util.SingleLine(conv.Title)))

	fmt.Fprintf(sb, "- **Created**: %s\n", formatTimestamp(conv.CreatedAt))
	fmt.Fprintf(sb, "- **Last Updated**: %s\n", formatTimestamp(conv.UpdatedAt))
	fmt.Fprintf(sb, "- **Messages**: %d\n", len(conv.Messages))
	sb.WriteString("\n---\n\n")

	if len(conv.Messages) == 0 {
		sb.WriteString("_No messages yet._\n\n")
		return
	}

	for _, msg := range conv.Messages {
		if e.options.IncludeTimestamps {
			fmt.Fprintf(sb, "### %s (%s)\n\n",
				roleLabel(msg.Role), formatShortTimestamp(msg.Timestamp))
		} else {
			fmt.Fprintf(sb, "### %s\n\n", roleLabel(msg.Role))
		}
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n---\n\n")
	}
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// roleLabel returns a display label for the message role.
func roleLabel(role model.Role) string {
	if role == "" {
		return "Unknown"
	}
	if role.Valid() {
		return role.DisplayName()
	}
	runes := []rune(string(role))
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		"#", "\\#",
		"*", "\\*",
		"_", "\\_",
		"[", "\\[",
		"]", "\\]",
	)
	return r.Replace(s)
}

// escapeYAML quotes a scalar when it contains YAML-significant characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return "\"" + s + "\""
	}
	return s
}
