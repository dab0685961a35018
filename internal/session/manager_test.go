// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/kv"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/responder"
	"github.com/jeranaias/chatdeck/internal/storage"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fixedReply struct {
	text  string
	delay time.Duration
}

func (f fixedReply) Reply(string) string { return f.text }
func (f fixedReply) Delay() time.Duration { return f.delay }

type harness struct {
	mgr   *Manager
	store *storage.ConversationStore
	mem   *kv.Memory
	clock time.Time
}

func newHarness(t *testing.T, samples bool) *harness {
	t.Helper()

	h := &harness{
		mem:   kv.NewMemory(),
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return h.clock }

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
	h.mgr = NewManager(h.store, fixedReply{text: "canned"}, Config{Now: now})
	return h
}

func (h *harness) tick(d time.Duration) {
	h.clock = h.clock.Add(d)
}

// =============================================================================
// START TESTS
// =============================================================================

func TestStart_SelectsMostRecent(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	assert.Len(t, h.mgr.Conversations(), 5)
	assert.Equal(t, "static-5", h.mgr.Current().ID)
}

func TestStart_EmptyCollectionCreatesConversation(t *testing.T) {
	h := newHarness(t, false)
	h.mgr.Start()

	current := h.mgr.Current()
	assert.Equal(t, "new-1", current.ID)
	assert.Equal(t, model.DefaultTitle, current.Title)

	convs := h.mgr.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, "new-1", convs[0].ID, "new conversation is persisted")
}

// =============================================================================
// SUBMIT AND REPLY TESTS
// =============================================================================

func TestSubmit_FirstMessageSetsTitle(t *testing.T) {
	h := newHarness(t, false)
	h.mgr.Start()

	long := strings.Repeat("x", 60)
	msg, err := h.mgr.Submit("  " + long + "  ")
	require.NoError(t, err)

	assert.Equal(t, model.RoleUser, msg.Role)
	assert.Equal(t, long, msg.Content)
	assert.True(t, h.mgr.Busy())
	assert.Equal(t, "new-1", h.mgr.PendingID())

	stored, ok := h.store.Get("new-1")
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("x", 50)+"...", stored.Title)
	assert.Len(t, stored.Messages, 1)
}

func TestSubmit_LaterMessagesKeepTitle(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()
	before := h.mgr.Current().Title

	_, err := h.mgr.Submit("another question")
	require.NoError(t, err)

	assert.Equal(t, before, h.mgr.Current().Title)
}

func TestSubmit_Rejections(t *testing.T) {
	h := newHarness(t, false)
	h.mgr.Start()

	_, err := h.mgr.Submit("   \n\t")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = h.mgr.Submit("first")
	require.NoError(t, err)

	_, err = h.mgr.Submit("second")
	assert.ErrorIs(t, err, ErrBusy)
}

func TestSubmit_StartsLazily(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.mgr.Submit("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", h.mgr.Current().Title)
}

func TestCompleteReply(t *testing.T) {
	h := newHarness(t, false)
	h.mgr.Start()

	_, err := h.mgr.Submit("hello")
	require.NoError(t, err)
	asking := h.mgr.PendingID()

	h.tick(2 * time.Second)
	reply, err := h.mgr.CompleteReply(asking, "hi there")
	require.NoError(t, err)

	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.False(t, h.mgr.Busy())
	assert.Empty(t, h.mgr.PendingID())

	current := h.mgr.Current()
	require.Len(t, current.Messages, 2)
	assert.Equal(t, "hi there", current.Messages[1].Content)
	assert.Equal(t, h.clock, current.UpdatedAt)

	stored, _ := h.store.Get(current.ID)
	assert.Len(t, stored.Messages, 2)

	_, err = h.mgr.CompleteReply(asking, "again")
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestCompleteReply_AfterSwitchingConversation(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	_, err := h.mgr.Submit("question for static-5")
	require.NoError(t, err)
	require.NoError(t, h.mgr.Select("static-1"))

	_, err = h.mgr.CompleteReply("static-5", "late answer")
	require.NoError(t, err)

	assert.Equal(t, "static-1", h.mgr.Current().ID, "selection is not changed by the reply")
	stored, _ := h.store.Get("static-5")
	last, _ := stored.LastMessage()
	assert.Equal(t, "late answer", last.Content)
}

func TestCompleteReply_ConversationDeletedMeanwhile(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	_, err := h.mgr.Submit("doomed")
	require.NoError(t, err)
	require.NoError(t, h.mgr.Select("static-1"))

	// Another writer removes it.
	h.store.Delete("static-5")
	h.mgr.Reload()

	_, err = h.mgr.CompleteReply("static-5", "nobody listens")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, h.mgr.Busy())
	_, ok := h.store.Get("static-5")
	assert.False(t, ok, "reply must not resurrect a deleted conversation")
}

func TestCompleteReply_StaleReplyAfterDeleteAndNewPrompt(t *testing.T) {
	h := newHarness(t, false)
	h.mgr.Start()
	first := h.mgr.Current().ID

	_, err := h.mgr.Submit("first")
	require.NoError(t, err)
	require.NoError(t, h.mgr.Delete(first))
	assert.False(t, h.mgr.Busy(), "deleting the asking conversation drops its pending reply")

	second := h.mgr.Current().ID
	require.NotEqual(t, first, second)
	_, err = h.mgr.Submit("second")
	require.NoError(t, err)

	_, err = h.mgr.CompleteReply(first, "stale reply")
	assert.ErrorIs(t, err, ErrNoPending)
	assert.True(t, h.mgr.Busy(), "the real reply is still expected")

	reply, err := h.mgr.CompleteReply(second, "real reply")
	require.NoError(t, err)
	assert.Equal(t, "real reply", reply.Content)

	stored, ok := h.store.Get(second)
	require.True(t, ok)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, "second", stored.Messages[0].Content)
	assert.Equal(t, "real reply", stored.Messages[1].Content)
}

func TestRespond(t *testing.T) {
	h := newHarness(t, false)
	h.mgr.Start()

	_, err := h.mgr.Respond()
	assert.ErrorIs(t, err, ErrNoPending)

	_, err = h.mgr.Submit("hello")
	require.NoError(t, err)

	reply, err := h.mgr.Respond()
	require.NoError(t, err)
	assert.Equal(t, "canned", reply.Content)
}

func TestRespond_WithCannedResponder(t *testing.T) {
	h := newHarness(t, false)
	h.mgr = NewManager(h.store, responder.NewCanned(responder.WithSeed(7), responder.WithDelay(0)), Config{})
	h.mgr.Start()

	_, err := h.mgr.Submit("hello")
	require.NoError(t, err)
	reply, err := h.mgr.Respond()
	require.NoError(t, err)
	assert.Contains(t, responder.CannedReplies, reply.Content)
}

func TestReplyCmd(t *testing.T) {
	h := newHarness(t, false)
	h.mgr.Start()

	assert.Nil(t, h.mgr.ReplyCmd(), "nothing pending")

	_, err := h.mgr.Submit("hello")
	require.NoError(t, err)

	cmd := h.mgr.ReplyCmd()
	require.NotNil(t, cmd)

	msg, ok := cmd().(ReplyMsg)
	require.True(t, ok)
	assert.Equal(t, "new-1", msg.ConversationID)
	assert.Equal(t, "canned", msg.Content)
}

func TestReplyDelay(t *testing.T) {
	store := storage.NewConversationStore(kv.NewMemory())
	mgr := NewManager(store, fixedReply{delay: 250 * time.Millisecond}, Config{})
	assert.Equal(t, 250*time.Millisecond, mgr.ReplyDelay())
}

// =============================================================================
// SELECTION, RENAME AND DELETE TESTS
// =============================================================================

func TestSelect(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	require.NoError(t, h.mgr.Select("static-2"))
	assert.Equal(t, "static-2", h.mgr.Current().ID)

	assert.ErrorIs(t, h.mgr.Select("missing"), ErrNotFound)
	assert.Equal(t, "static-2", h.mgr.Current().ID)
}

func TestNewConversation(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	conv := h.mgr.NewConversation()

	assert.Equal(t, conv.ID, h.mgr.Current().ID)
	convs := h.mgr.Conversations()
	require.Len(t, convs, 6)
	assert.Equal(t, conv.ID, convs[0].ID, "new conversations go first")
}

func TestRename(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	require.NoError(t, h.mgr.Rename("static-5", "  REST notes  "))
	assert.Equal(t, "REST notes", h.mgr.Current().Title)

	stored, _ := h.store.Get("static-5")
	assert.Equal(t, "REST notes", stored.Title)

	assert.ErrorIs(t, h.mgr.Rename("static-5", "   "), ErrEmptyTitle)
	assert.ErrorIs(t, h.mgr.Rename("missing", "x"), ErrNotFound)
}

func TestDelete(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	require.NoError(t, h.mgr.Delete("static-1"))
	assert.Len(t, h.mgr.Conversations(), 4)
	assert.Equal(t, "static-5", h.mgr.Current().ID)

	assert.ErrorIs(t, h.mgr.Delete("static-1"), ErrNotFound)
}

func TestDelete_CurrentStartsNew(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	_, err := h.mgr.Submit("pending")
	require.NoError(t, err)

	require.NoError(t, h.mgr.Delete("static-5"))

	current := h.mgr.Current()
	assert.Equal(t, "new-1", current.ID)
	assert.True(t, current.IsEmpty())
	assert.False(t, h.mgr.Busy(), "pending reply for a deleted conversation is dropped")
}

func TestReload_PicksUpExternalChanges(t *testing.T) {
	h := newHarness(t, true)
	h.mgr.Start()

	other := storage.NewConversationStore(h.mem)
	other.UpdateTitle("static-5", "Edited elsewhere")

	assert.NotEqual(t, "Edited elsewhere", h.mgr.Current().Title)
	h.mgr.Reload()
	assert.Equal(t, "Edited elsewhere", h.mgr.Current().Title)
}
