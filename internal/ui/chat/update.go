// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/responder"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/storage"
)

// =============================================================================
// RESIZE
// =============================================================================

const (
	headerHeight    = 1
	statusBarHeight = 1
	editorLines     = 3
	// editor lines plus the input box border
	editorHeight    = editorLines + 2
	minSidebarWidth = 24
	maxSidebarWidth = 40
)

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.layout()
	m.refreshViewport(true)
	return m, nil
}

// sidebarWidth returns the outer width of the history pane.
func (m Model) sidebarWidth() int {
	w := m.width / 3
	if w < minSidebarWidth {
		w = minSidebarWidth
	}
	if w > maxSidebarWidth {
		w = maxSidebarWidth
	}
	return w
}

// layout sizes the components for the current window.
func (m *Model) layout() {
	mainWidth := m.width - m.sidebarWidth()
	if mainWidth < 20 {
		mainWidth = 20
	}
	bodyHeight := m.height - headerHeight - statusBarHeight
	if bodyHeight < editorHeight+3 {
		bodyHeight = editorHeight + 3
	}

	m.viewport.Width = mainWidth
	m.viewport.Height = bodyHeight - editorHeight
	// box border and padding take four columns
	m.editor.SetWidth(mainWidth - 4)
	m.rename.Width = mainWidth - 12
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits regardless of state.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.dialog != DialogNone {
		return m.handleDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()
	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply()
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.Focus):
		return m.toggleFocus()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}

	if key.Matches(msg, m.keys.Send) {
		return m.submit()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveSelection(1)
	case key.Matches(msg, m.keys.Rename):
		return m.openRename()
	case key.Matches(msg, m.keys.Delete):
		m.dialog = DialogDelete
		m.targetID = m.session.Current().ID
		return m, nil
	case key.Matches(msg, m.keys.Send):
		return m.toggleFocus()
	}
	return m, nil
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.dialog {
	case DialogRename:
		switch msg.Type {
		case tea.KeyEsc:
			return m.closeDialog(), nil
		case tea.KeyEnter:
			return m.applyRename()
		}
		var cmd tea.Cmd
		m.rename, cmd = m.rename.Update(msg)
		return m, cmd

	case DialogDelete:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return m.applyDelete()
		case key.Matches(msg, m.keys.Cancel):
			return m.closeDialog(), nil
		}
	}
	return m, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	_, err := m.session.Submit(m.editor.Value())
	switch {
	case errors.Is(err, session.ErrEmptyPrompt):
		return m, nil
	case errors.Is(err, session.ErrBusy):
		return m.setStatus("Still waiting for the previous reply", true)
	case err != nil:
		return m.setStatus(err.Error(), true)
	}

	m.editor.Reset()
	m.refreshViewport(true)

	cmds := []tea.Cmd{m.session.ReplyCmd(), m.spinner.Tick}
	m, warn := m.storageWarning()
	if warn != nil {
		cmds = append(cmds, warn)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleReply(msg session.ReplyMsg) (tea.Model, tea.Cmd) {
	reply, err := m.session.CompleteReply(msg.ConversationID, msg.Content)
	if err != nil {
		m.logger.Debug().Err(err).Str("conversation", msg.ConversationID).Msg("Reply not delivered")
		m.refreshViewport(true)
		return m, nil
	}

	if m.session.Current().ID != msg.ConversationID {
		m.refreshViewport(false)
		return m, nil
	}

	frames := responder.Reveal(reply.Content, m.revealStep)
	if len(frames) <= 1 {
		m.refreshViewport(true)
		return m, nil
	}
	m.reveal = &reveal{
		conversationID: msg.ConversationID,
		messageID:      reply.ID,
		frames:         frames,
	}
	m.refreshViewport(true)
	return m, revealTick(msg.ConversationID)
}

func (m Model) handleRevealTick(msg revealTickMsg) (tea.Model, tea.Cmd) {
	if m.reveal == nil || m.reveal.conversationID != msg.conversationID {
		return m, nil
	}
	m.reveal.index++
	if m.reveal.index >= len(m.reveal.frames)-1 {
		m.reveal = nil
		m.refreshViewport(true)
		return m, nil
	}
	m.refreshViewport(true)
	return m, revealTick(msg.conversationID)
}

func (m Model) handleStorageChanged(msg StorageChangedMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug().Str("key", msg.Event.Key).Msg("Reloading after external change")
	if msg.Event.Key == storage.ThemeKey && m.prefs != nil {
		if mode := m.prefs.Theme(); mode != m.theme.Mode {
			m.theme = m.newTheme(mode)
			m.applyThemeToComponents()
		}
	}
	m.session.Reload()
	m.refreshViewport(false)
	return m, waitForChange(m.watcher)
}

func (m Model) newChat() (tea.Model, tea.Cmd) {
	m.session.NewConversation()
	m.reveal = nil
	m.focus = FocusEditor
	cmd := m.editor.Focus()
	m.refreshViewport(true)
	return m, cmd
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == FocusEditor {
		m.focus = FocusSidebar
		m.editor.Blur()
		return m, nil
	}
	m.focus = FocusEditor
	cmd := m.editor.Focus()
	return m, cmd
}

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	convs := m.session.Conversations()
	if len(convs) == 0 {
		return m, nil
	}

	idx := indexOf(convs, m.session.Current().ID)
	next := idx + delta
	if idx < 0 {
		next = 0
	}
	if next < 0 || next >= len(convs) {
		return m, nil
	}

	if err := m.session.Select(convs[next].ID); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.reveal = nil
	m.refreshViewport(true)
	return m, nil
}

func (m Model) openRename() (tea.Model, tea.Cmd) {
	current := m.session.Current()
	m.dialog = DialogRename
	m.targetID = current.ID
	m.rename.SetValue(current.Title)
	m.rename.CursorEnd()
	cmd := m.rename.Focus()
	return m, cmd
}

func (m Model) applyRename() (tea.Model, tea.Cmd) {
	id, title := m.targetID, m.rename.Value()
	m = m.closeDialog()

	err := m.session.Rename(id, title)
	switch {
	case errors.Is(err, session.ErrEmptyTitle):
		return m, nil
	case err != nil:
		return m.setStatus("Rename failed: "+err.Error(), true)
	}
	m, warn := m.storageWarning()
	return m, warn
}

func (m Model) applyDelete() (tea.Model, tea.Cmd) {
	id := m.targetID
	m = m.closeDialog()

	if err := m.session.Delete(id); err != nil {
		return m.setStatus("Delete failed: "+err.Error(), true)
	}
	if m.reveal != nil && m.reveal.conversationID == id {
		m.reveal = nil
	}
	m.refreshViewport(true)
	return m.setStatus("Conversation deleted", false)
}

func (m Model) closeDialog() Model {
	m.dialog = DialogNone
	m.targetID = ""
	m.rename.Blur()
	m.rename.Reset()
	return m
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	next := m.theme.Mode.Next()
	if m.prefs != nil {
		m.prefs.SetTheme(next)
	}
	m.theme = m.newTheme(next)
	m.applyThemeToComponents()
	m.refreshViewport(false)
	return m.setStatus("Theme: "+next.String(), false)
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	last, ok := m.session.Current().LastAssistantMessage()
	if !ok {
		return m.setStatus("No reply to copy", true)
	}
	return m, copyCmd(m.clipboard, last.Content)
}

// =============================================================================
// HELPERS
// =============================================================================

// setStatus shows text in the status bar until it expires.
func (m Model) setStatus(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.status = text
	m.statusErr = isErr
	m.statusAt = m.now()
	return m, clearStatusAfter(m.statusAt)
}

// storageWarning surfaces a degraded storage outcome in the status bar.
// It returns a nil command when storage is healthy.
func (m Model) storageWarning() (Model, tea.Cmd) {
	status := m.session.StorageStatus()
	if !status.Outcome.Degraded() {
		return m, nil
	}
	text := "Storage " + strings.ReplaceAll(status.Outcome.String(), "_", " ")
	if status.Outcome == storage.OutcomeWriteFailed {
		text = "Changes could not be saved"
	}
	updated, cmd := m.setStatus(text, true)
	return updated.(Model), cmd
}

func (m *Model) applyThemeToComponents() {
	m.spinner.Style = m.theme.Spinner
	m.help.Styles.ShortKey = m.theme.ShortcutKey
	m.help.Styles.ShortDesc = m.theme.ShortcutDesc
	m.help.Styles.ShortSeparator = m.theme.Muted
}

func indexOf(convs []model.Conversation, id string) int {
	for i, c := range convs {
		if c.ID == id {
			return i
		}
	}
	return -1
}
