// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/kv"
	"github.com/jeranaias/chatdeck/internal/logging"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/storage"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const longReply = "a longer canned reply"

type fixedReply struct{}

func (fixedReply) Reply(string) string  { return longReply }
func (fixedReply) Delay() time.Duration { return 0 }

type harness struct {
	mem     *kv.Memory
	store   *storage.ConversationStore
	session *session.Manager
	copied  []string
	copyErr error
	m       Model
}

func newHarness(t *testing.T, samples bool) *harness {
	t.Helper()

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }

	h := &harness{mem: kv.NewMemory()}

	seq := 0
	opts := []storage.Option{
		storage.WithClock(now),
		storage.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("new-%d", seq)
		}),
	}
	if !samples {
		opts = append(opts, storage.WithSamples(func(time.Time) []model.Conversation {
			return []model.Conversation{}
		}))
	}
	h.store = storage.NewConversationStore(h.mem, opts...)
	h.session = session.NewManager(h.store, fixedReply{}, session.Config{Now: now})

	h.m = New(Deps{
		Session:     h.session,
		Preferences: storage.NewPreferenceStore(h.mem, logging.Nop()),
		Logger:      logging.Nop(),
		NewTheme: func(mode styles.Mode) *styles.Theme {
			return styles.NewThemeFor(io.Discard, mode, true)
		},
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return h.copyErr
		},
		Now: now,
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send feeds msg to the model and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(t tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: t})
}

func (h *harness) key(r rune) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// =============================================================================
// RENDER TESTS
// =============================================================================

func TestView_LoadingUntilSized(t *testing.T) {
	mem := kv.NewMemory()
	store := storage.NewConversationStore(mem)
	m := New(Deps{
		Session: session.NewManager(store, fixedReply{}, session.Config{}),
		NewTheme: func(mode styles.Mode) *styles.Theme {
			return styles.NewThemeFor(io.Discard, mode, true)
		},
	})
	assert.Equal(t, "Loading...", m.View())
}

func TestView_ShowsHistoryAndTranscript(t *testing.T) {
	h := newHarness(t, true)

	view := h.m.View()
	assert.Contains(t, view, appTitle)
	assert.Contains(t, view, "5 conversations")
	assert.Contains(t, view, "API design best practices")
}

func TestView_EmptyConversation(t *testing.T) {
	h := newHarness(t, false)

	assert.Contains(t, h.m.View(), "Start a conversation")
}

// =============================================================================
// PROMPT TESTS
// =============================================================================

func TestSubmit_ReplyIsRevealed(t *testing.T) {
	h := newHarness(t, false)

	h.typeText("hello there")
	cmd := h.press(tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Empty(t, h.m.EditorValue())
	assert.True(t, h.session.Busy())

	current := h.session.Current()
	require.Len(t, current.Messages, 1)
	assert.Equal(t, "hello there", current.Title)

	cmd = h.send(session.ReplyMsg{ConversationID: current.ID, Content: longReply})
	require.NotNil(t, cmd, "reveal should start ticking")
	assert.True(t, h.m.Revealing())
	assert.False(t, h.session.Busy())

	// 21 characters at 6 per frame make 4 frames.
	for i := 0; i < 3; i++ {
		h.send(revealTickMsg{conversationID: current.ID})
	}
	assert.False(t, h.m.Revealing())

	current = h.session.Current()
	require.Len(t, current.Messages, 2)
	assert.Equal(t, longReply, current.Messages[1].Content)
}

func TestSubmit_BlankPromptIgnored(t *testing.T) {
	h := newHarness(t, false)

	h.typeText("   ")
	h.press(tea.KeyEnter)

	assert.False(t, h.session.Busy())
	assert.Empty(t, h.session.Current().Messages)
}

func TestSubmit_WhileBusyShowsStatus(t *testing.T) {
	h := newHarness(t, false)

	h.typeText("first")
	h.press(tea.KeyEnter)
	h.typeText("second")
	h.press(tea.KeyEnter)

	status, isErr := h.m.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "previous reply")
	assert.Equal(t, "second", h.m.EditorValue())
}

func TestReply_ForOtherConversationNotRevealed(t *testing.T) {
	h := newHarness(t, false)

	h.typeText("question")
	h.press(tea.KeyEnter)
	pending := h.session.PendingID()

	h.press(tea.KeyCtrlN)
	require.NotEqual(t, pending, h.session.Current().ID)

	h.send(session.ReplyMsg{ConversationID: pending, Content: longReply})
	assert.False(t, h.m.Revealing())

	conv, ok := h.store.Get(pending)
	require.True(t, ok)
	assert.Len(t, conv.Messages, 2)
}

func TestReply_StaleAfterDeleteNotSavedElsewhere(t *testing.T) {
	h := newHarness(t, false)

	h.typeText("first")
	h.press(tea.KeyEnter)
	first := h.session.PendingID()
	require.NotEmpty(t, first)

	h.press(tea.KeyTab)
	h.key('d')
	h.key('y')
	require.False(t, h.session.Busy())
	h.press(tea.KeyTab)

	h.typeText("second")
	h.press(tea.KeyEnter)
	second := h.session.PendingID()
	require.NotEqual(t, first, second)

	h.send(session.ReplyMsg{ConversationID: first, Content: "stale reply"})
	assert.True(t, h.session.Busy())
	assert.False(t, h.m.Revealing())

	h.send(session.ReplyMsg{ConversationID: second, Content: "real reply"})
	assert.False(t, h.session.Busy())

	conv, ok := h.store.Get(second)
	require.True(t, ok)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "second", conv.Messages[0].Content)
	assert.Equal(t, "real reply", conv.Messages[1].Content)

	_, ok = h.store.Get(first)
	assert.False(t, ok)
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestFocus_Toggles(t *testing.T) {
	h := newHarness(t, true)
	assert.Equal(t, FocusEditor, h.m.Focus())

	h.press(tea.KeyTab)
	assert.Equal(t, FocusSidebar, h.m.Focus())

	h.press(tea.KeyEnter)
	assert.Equal(t, FocusEditor, h.m.Focus())
}

func TestSidebar_MovesSelection(t *testing.T) {
	h := newHarness(t, true)
	require.Equal(t, "static-5", h.session.Current().ID)

	h.press(tea.KeyTab)
	h.press(tea.KeyUp)
	assert.Equal(t, "static-4", h.session.Current().ID)

	h.key('k')
	assert.Equal(t, "static-3", h.session.Current().ID)

	h.key('j')
	assert.Equal(t, "static-4", h.session.Current().ID)
}

func TestSidebar_SelectionStopsAtEdges(t *testing.T) {
	h := newHarness(t, true)

	h.press(tea.KeyTab)
	h.press(tea.KeyDown)
	assert.Equal(t, "static-5", h.session.Current().ID)
}

func TestRenameDialog(t *testing.T) {
	h := newHarness(t, true)

	h.press(tea.KeyTab)
	h.key('r')
	require.Equal(t, DialogRename, h.m.Dialog())

	// "n" types into the title instead of cancelling.
	h.typeText(" now")
	require.Equal(t, DialogRename, h.m.Dialog())
	h.press(tea.KeyEnter)

	assert.Equal(t, DialogNone, h.m.Dialog())
	assert.Equal(t, "API design best practices now", h.session.Current().Title)

	conv, ok := h.store.Get("static-5")
	require.True(t, ok)
	assert.Equal(t, "API design best practices now", conv.Title)
}

func TestRenameDialog_EscCancels(t *testing.T) {
	h := newHarness(t, true)

	h.press(tea.KeyTab)
	h.key('r')
	h.typeText("xyz")
	h.press(tea.KeyEsc)

	assert.Equal(t, DialogNone, h.m.Dialog())
	assert.Equal(t, "API design best practices", h.session.Current().Title)
}

func TestDeleteDialog(t *testing.T) {
	h := newHarness(t, true)

	h.press(tea.KeyTab)
	h.key('d')
	require.Equal(t, DialogDelete, h.m.Dialog())
	assert.Contains(t, h.m.View(), "Delete conversation?")

	h.key('y')
	assert.Equal(t, DialogNone, h.m.Dialog())

	for _, c := range h.store.LoadAll() {
		assert.NotEqual(t, "static-5", c.ID)
	}
	assert.NotEqual(t, "static-5", h.session.Current().ID)
}

func TestDeleteDialog_NKeeps(t *testing.T) {
	h := newHarness(t, true)

	h.press(tea.KeyTab)
	h.key('d')
	h.key('n')

	assert.Equal(t, DialogNone, h.m.Dialog())
	assert.Len(t, h.session.Conversations(), 5)
}

func TestNewChat(t *testing.T) {
	h := newHarness(t, true)

	h.press(tea.KeyTab)
	h.press(tea.KeyCtrlN)

	assert.Equal(t, "new-1", h.session.Current().ID)
	assert.Equal(t, FocusEditor, h.m.Focus())
	assert.Len(t, h.session.Conversations(), 6)
}

func TestStorageChanged_Reloads(t *testing.T) {
	h := newHarness(t, true)

	external := model.NewConversation("from elsewhere", time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC))
	external.ID = "external"
	h.store.Save(external)

	cmd := h.send(StorageChangedMsg{})
	assert.Nil(t, cmd, "no watcher means nothing to wait on")
	assert.Len(t, h.session.Conversations(), 6)
	assert.Contains(t, h.m.View(), "from elsewhere")
}

// =============================================================================
// THEME AND CLIPBOARD TESTS
// =============================================================================

func TestThemeToggle_PersistsPreference(t *testing.T) {
	h := newHarness(t, true)
	require.Equal(t, styles.ModeSystem, h.m.Theme().Mode)

	h.press(tea.KeyCtrlT)
	assert.Equal(t, styles.ModeDark, h.m.Theme().Mode)

	raw, ok, err := h.mem.Get(storage.ThemeKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", raw)

	h.press(tea.KeyCtrlT)
	assert.Equal(t, styles.ModeLight, h.m.Theme().Mode)
	assert.False(t, h.m.Theme().IsDark)
}

func TestThemeLoadedFromPreference(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(storage.ThemeKey, "light"))

	m := New(Deps{
		Session:     session.NewManager(storage.NewConversationStore(mem), fixedReply{}, session.Config{}),
		Preferences: storage.NewPreferenceStore(mem, logging.Nop()),
		NewTheme: func(mode styles.Mode) *styles.Theme {
			return styles.NewThemeFor(io.Discard, mode, true)
		},
	})
	assert.Equal(t, styles.ModeLight, m.Theme().Mode)
}

func TestCopy_LastReply(t *testing.T) {
	h := newHarness(t, true)

	cmd := h.press(tea.KeyCtrlY)
	require.NotNil(t, cmd)
	h.send(cmd())

	last, ok := h.session.Current().LastAssistantMessage()
	require.True(t, ok)
	assert.Equal(t, []string{last.Content}, h.copied)

	status, isErr := h.m.Status()
	assert.False(t, isErr)
	assert.Equal(t, "Copied reply to clipboard", status)
}

func TestCopy_Failure(t *testing.T) {
	h := newHarness(t, true)
	h.copyErr = errors.New("no clipboard")

	cmd := h.press(tea.KeyCtrlY)
	h.send(cmd())

	status, isErr := h.m.Status()
	assert.True(t, isErr)
	assert.Contains(t, status, "no clipboard")
}

func TestCopy_NothingToCopy(t *testing.T) {
	h := newHarness(t, false)

	h.press(tea.KeyCtrlY)

	assert.Empty(t, h.copied)
	status, isErr := h.m.Status()
	assert.True(t, isErr)
	assert.Equal(t, "No reply to copy", status)
}

func TestStatus_ExpiresOnlyForMatchingStamp(t *testing.T) {
	h := newHarness(t, false)
	h.press(tea.KeyCtrlY)

	h.send(clearStatusMsg{set: time.Time{}})
	status, _ := h.m.Status()
	assert.NotEmpty(t, status)

	h.send(clearStatusMsg{set: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})
	status, _ = h.m.Status()
	assert.Empty(t, status)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, false)

	cmd := h.press(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
