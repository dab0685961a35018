// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
	"github.com/jeranaias/chatdeck/internal/util"
)

const appTitle = "AI Chat"

// =============================================================================
// LAYOUT
// =============================================================================

// render assembles the full screen.
func (m Model) render() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderMain())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
	)
}

func (m Model) bodyHeight() int {
	h := m.height - headerHeight - statusBarHeight
	if h < editorHeight+3 {
		h = editorHeight + 3
	}
	return h
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(appTitle)
	parts := []string{title}
	if m.subtitle != "" {
		parts = append(parts, m.theme.HeaderSubtitle.Render(m.subtitle))
	}
	parts = append(parts, m.theme.Muted.Render("theme: "+m.theme.Mode.String()))
	return m.theme.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// HISTORY SIDEBAR
// =============================================================================

func (m Model) renderSidebar() string {
	style := m.theme.Sidebar
	if m.focus == FocusSidebar {
		style = m.theme.SidebarFocused
	}

	// border and padding take four columns and two rows
	inner := m.sidebarWidth() - 4
	height := m.bodyHeight() - 2

	convs := m.session.Conversations()
	currentID := m.session.Current().ID
	now := m.now()

	lines := []string{m.theme.SidebarHeading.Render(util.Pluralize(len(convs), "conversation"))}
	for _, c := range convs {
		lines = append(lines, m.renderSidebarItem(c, c.ID == currentID, inner, now))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	content = clipLines(content, height)
	return style.Width(inner + 2).Height(height).Render(content)
}

func (m Model) renderSidebarItem(c model.Conversation, selected bool, width int, now time.Time) string {
	style := m.theme.SidebarItem
	if selected {
		style = m.theme.SidebarItemSelected
	}
	// left border plus padding
	text := width - 2

	title := m.theme.SidebarItemTitle.Render(util.TruncateWidth(util.SingleLine(c.Title), text))
	meta := m.theme.SidebarItemMeta.Render(util.TruncateWidth(
		util.FormatRelativeTime(c.UpdatedAt, now)+" · "+util.Pluralize(c.MessageCount(), "message"), text))
	preview := m.theme.SidebarItemPreview.Render(util.TruncateWidth(util.SingleLine(c.Preview()), text))

	return style.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, meta, preview))
}

// =============================================================================
// CONVERSATION PANE
// =============================================================================

func (m Model) renderMain() string {
	var bottom string
	switch m.dialog {
	case DialogRename:
		bottom = m.renderRenameDialog()
	case DialogDelete:
		bottom = m.renderDeleteDialog()
	default:
		style := m.theme.InputContainer
		if m.focus == FocusEditor {
			style = m.theme.InputFocused
		}
		bottom = style.Width(m.viewport.Width - 2).Render(m.editor.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), bottom)
}

// refreshViewport rebuilds the transcript shown in the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	m.viewport.SetContent(m.renderTranscript())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderTranscript() string {
	current := m.session.Current()
	width := m.viewport.Width

	if current.IsEmpty() && !m.session.Busy() {
		return m.theme.EmptyState.Render("Start a conversation. Press enter to send, alt+enter for a new line.")
	}

	blocks := make([]string, 0, len(current.Messages)+1)
	for _, msg := range current.Messages {
		blocks = append(blocks, m.renderMessage(msg, width))
	}

	if m.session.Busy() && m.session.PendingID() == current.ID {
		blocks = append(blocks, m.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName())+"\n"+
			m.spinner.View()+" "+m.theme.ThinkingText.Render("Thinking..."))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg model.Message, width int) string {
	stamp := m.theme.Timestamp.Render(msg.Timestamp.Local().Format("15:04"))

	if msg.Role == model.RoleUser {
		label := m.theme.UserLabel.Render(msg.Role.DisplayName()) + " " + stamp
		// margin, border and padding
		bubble := m.theme.UserBubble.Width(width - 8).Render(msg.Content)
		return label + "\n" + bubble
	}

	label := m.theme.AssistantLabel.Render(msg.Role.DisplayName()) + " " + stamp
	var body string
	if m.reveal != nil && m.reveal.messageID == msg.ID {
		body = m.reveal.frames[m.reveal.index] + styles.TypingCursor
	} else {
		body = m.markdown.render(msg.Content, m.theme.GlamourStyle(), width-8)
	}
	return label + "\n" + m.theme.AssistantBubble.Width(width-8).Render(body)
}

// =============================================================================
// DIALOGS
// =============================================================================

func (m Model) renderRenameDialog() string {
	title := m.theme.DialogTitle.Render("Rename conversation")
	hint := m.theme.Muted.Render("enter to save, esc to cancel")
	return m.theme.Dialog.Width(m.viewport.Width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.rename.View(), hint))
}

func (m Model) renderDeleteDialog() string {
	title := m.theme.DialogTitle.Render("Delete conversation?")
	name := ""
	for _, c := range m.session.Conversations() {
		if c.ID == m.targetID {
			name = util.TruncateWidth(util.SingleLine(c.Title), m.viewport.Width-8)
			break
		}
	}
	hint := m.theme.Muted.Render("y to delete, n to keep")
	return m.theme.Dialog.Width(m.viewport.Width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, name, hint))
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.status != "" && m.statusErr:
		left = m.theme.ErrorText.Render(m.status)
	case m.status != "":
		left = m.theme.SuccessText.Render(m.status)
	case m.session.Busy():
		left = m.spinner.View() + " " + m.theme.ThinkingText.Render("Waiting for reply")
	}

	bindings := m.keys.ShortHelp()
	if m.focus == FocusSidebar {
		bindings = m.keys.SidebarHelp()
	}
	m.help.Width = m.width - lipgloss.Width(left) - 4
	right := m.help.ShortHelpView(bindings)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// clipLines keeps at most n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
