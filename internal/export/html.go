// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

var (
	codeBlockRegex  = regexp.MustCompile("```([a-zA-Z0-9_+-]*)\n([\\s\\S]*?)```")
	inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page with
// embedded CSS in the TUI palette.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a conversation to HTML format.
func (e *HTMLExporter) Export(conv model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(conv.Title))
	sb.WriteString("    <meta name=\"generator\" content=\"chatdeck\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", conv.CreatedAt.Format(time.RFC3339))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s\">\n", e.bodyClass())

	sb.WriteString("    <div class=\"container\">\n")
	sb.WriteString(e.renderHeader(conv))

	sb.WriteString("        <main class=\"conversation\">\n")
	if len(conv.Messages) == 0 {
		sb.WriteString("            <p class=\"empty\">No messages yet.</p>\n")
	}
	for _, msg := range conv.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <footer class=\"footer\">\n")
		fmt.Fprintf(&sb, "            <p>Exported from <strong>chatdeck</strong> on %s</p>\n",
			e.options.now().Format("January 2, 2006 at 3:04 PM"))
		sb.WriteString("        </footer>\n")
	}

	sb.WriteString("    </div>\n")
	sb.WriteString(e.getScript())
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// bodyClass maps the theme mode to a CSS class. The system mode leaves
// the choice to prefers-color-scheme.
func (e *HTMLExporter) bodyClass() string {
	switch e.options.Theme {
	case styles.ModeDark:
		return "dark-theme"
	case styles.ModeLight:
		return "light-theme"
	default:
		return "system-theme"
	}
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(conv model.Conversation) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(&sb, "            <h1>%s</h1>\n", html.EscapeString(conv.Title))
	if e.options.IncludeMetadata {
		sb.WriteString("            <div class=\"metadata\">\n")
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(conv.CreatedAt))
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Updated:</strong> %s</span>\n", formatTimestamp(conv.UpdatedAt))
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(conv.Messages))
		sb.WriteString("            </div>\n")
	}
	sb.WriteString("            <button class=\"theme-toggle\" onclick=\"toggleTheme()\">Toggle theme</button>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg model.Message) string {
	var sb strings.Builder

	roleClass := "other"
	if msg.Role.Valid() {
		roleClass = msg.Role.String()
	}
	fmt.Fprintf(&sb, "            <div class=\"message %s-message\">\n", roleClass)

	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(&sb, "                    <span class=\"role-label\">%s</span>\n", html.EscapeString(roleLabel(msg.Role)))
	if e.options.IncludeTimestamps {
		fmt.Fprintf(&sb, "                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp))
	}
	sb.WriteString("                </div>\n")

	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(formatContent(msg.Content))
	sb.WriteString("\n                </div>\n")
	sb.WriteString("            </div>\n")

	return sb.String()
}

// =============================================================================
// CONTENT FORMATTING
// =============================================================================

// formatContent escapes message text and turns fenced code, inline code
// and blank-line separated paragraphs into HTML.
func formatContent(content string) string {
	content = html.EscapeString(strings.TrimSpace(content))

	// Code blocks are swapped for placeholders so paragraph splitting
	// leaves their line breaks alone.
	var blocks []string
	content = codeBlockRegex.ReplaceAllStringFunc(content, func(match string) string {
		parts := codeBlockRegex.FindStringSubmatch(match)
		lang, code := parts[1], strings.TrimRight(parts[2], "\n")

		langLabel := ""
		if lang != "" {
			langLabel = fmt.Sprintf("<div class=\"code-lang\">%s</div>", lang)
		}
		blocks = append(blocks, fmt.Sprintf("<div class=\"code-block\">%s<pre><code class=\"language-%s\">%s</code></pre></div>",
			langLabel, lang, code))
		return fmt.Sprintf("\n\n\x00%d\x00\n\n", len(blocks)-1)
	})

	var out []string
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if idx, ok := blockIndex(para, len(blocks)); ok {
			out = append(out, blocks[idx])
			continue
		}
		para = inlineCodeRegex.ReplaceAllString(para, "<code class=\"inline-code\">$1</code>")
		out = append(out, "<p>"+strings.ReplaceAll(para, "\n", "<br>\n")+"</p>")
	}

	return strings.Join(out, "\n")
}

// blockIndex parses a code block placeholder.
func blockIndex(para string, n int) (int, bool) {
	if len(para) < 3 || para[0] != 0 || para[len(para)-1] != 0 {
		return 0, false
	}
	idx, err := strconv.Atoi(para[1 : len(para)-1])
	if err != nil || idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

// palette returns the CSS custom properties for one side of the
// adaptive colors.
func palette(dark bool) string {
	pick := func(c lipgloss.AdaptiveColor) string {
		if dark {
			return c.Dark
		}
		return c.Light
	}
	bg, surface := "#FFFFFF", pick(styles.SurfaceDim)
	if dark {
		bg = "#11111B"
	}

	vars := []struct{ name, value string }{
		{"--bg-primary", bg},
		{"--bg-secondary", surface},
		{"--border-color", pick(styles.Overlay)},
		{"--text-primary", pick(styles.TextPrimary)},
		{"--text-secondary", pick(styles.TextSecondary)},
		{"--text-muted", pick(styles.TextMuted)},
		{"--user-fg", pick(styles.UserBubbleFg)},
		{"--user-border", pick(styles.UserBubbleBorder)},
		{"--assistant-fg", pick(styles.AssistantBubbleFg)},
		{"--assistant-border", pick(styles.AssistantBubbleBorder)},
		{"--accent", pick(styles.Purple)},
		{"--accent-brand", pick(styles.Cyan)},
	}

	var sb strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&sb, "            %s: %s;\n", v.name, v.value)
	}
	return sb.String()
}

func (e *HTMLExporter) getCSS() string {
	var sb strings.Builder
	sb.WriteString("    <style>\n")
	sb.WriteString("        .dark-theme {\n" + palette(true) + "        }\n")
	sb.WriteString("        .light-theme, .system-theme {\n" + palette(false) + "        }\n")
	sb.WriteString("        @media (prefers-color-scheme: dark) {\n")
	sb.WriteString("            .system-theme {\n" + palette(true) + "            }\n")
	sb.WriteString("        }\n")
	sb.WriteString(baseCSS)
	sb.WriteString("    </style>\n")
	return sb.String()
}

const baseCSS = `        * { margin: 0; padding: 0; box-sizing: border-box; }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 12px;
            overflow: hidden;
        }

        .header {
            padding: 24px 32px;
            border-bottom: 1px solid var(--border-color);
        }

        .header h1 { font-size: 26px; color: var(--accent-brand); margin-bottom: 8px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 14px; color: var(--text-secondary); }

        .theme-toggle {
            margin-top: 12px;
            padding: 4px 12px;
            border: 1px solid var(--border-color);
            border-radius: 6px;
            background: transparent;
            color: var(--text-secondary);
            cursor: pointer;
        }

        .conversation { padding: 24px 32px; }
        .empty { color: var(--text-muted); font-style: italic; }

        .message {
            margin-bottom: 20px;
            padding: 12px 16px;
            border-left: 3px solid var(--border-color);
        }

        .user-message { border-left-color: var(--user-border); color: var(--user-fg); }
        .assistant-message { border-left-color: var(--assistant-border); color: var(--assistant-fg); }

        .message-header { display: flex; justify-content: space-between; margin-bottom: 8px; }
        .role-label { font-weight: 600; color: var(--accent); }
        .timestamp { font-size: 12px; color: var(--text-muted); }
        .message-content p { margin-bottom: 10px; }

        .code-block {
            margin: 10px 0;
            border: 1px solid var(--border-color);
            border-radius: 6px;
            overflow: hidden;
        }

        .code-lang { padding: 2px 10px; font-size: 12px; color: var(--text-muted); border-bottom: 1px solid var(--border-color); }
        .code-block pre { padding: 10px; overflow-x: auto; }
        code { font-family: "SF Mono", Monaco, Consolas, monospace; font-size: 14px; }
        .inline-code { padding: 1px 4px; border: 1px solid var(--border-color); border-radius: 4px; }

        .footer {
            padding: 16px 32px;
            font-size: 13px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
        }

        @media (max-width: 600px) {
            body { padding: 0; }
            .container { border-radius: 0; }
            .header, .conversation, .footer { padding: 16px; }
        }
`

// =============================================================================
// EMBEDDED JAVASCRIPT
// =============================================================================

func (e *HTMLExporter) getScript() string {
	return `    <script>
        function toggleTheme() {
            const body = document.body;
            const next = body.classList.contains('dark-theme') ? 'light' : 'dark';
            body.classList.remove('dark-theme', 'light-theme', 'system-theme');
            body.classList.add(next + '-theme');
            localStorage.setItem('chatdeck-export-theme', next);
        }

        document.addEventListener('DOMContentLoaded', function() {
            const saved = localStorage.getItem('chatdeck-export-theme');
            if (saved) {
                document.body.classList.remove('dark-theme', 'light-theme', 'system-theme');
                document.body.classList.add(saved + '-theme');
            }
        });
    </script>
`
}
