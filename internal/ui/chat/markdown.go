// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders assistant replies with glamour. The underlying
// renderer is rebuilt only when the style or width changes.
type markdownRenderer struct {
	style string
	width int
	r     *glamour.TermRenderer
}

// render returns content as styled terminal text. On any renderer error the
// raw content is returned.
func (m *markdownRenderer) render(content, style string, width int) string {
	if width < 20 {
		width = 20
	}
	if m.r == nil || m.style != style || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.r, m.style, m.width = r, style, width
	}

	out, err := m.r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
