// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives a chat session on top of the conversation store.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/responder"
	"github.com/jeranaias/chatdeck/internal/storage"
)

var (
	// ErrNotFound is returned when a conversation ID is unknown.
	ErrNotFound = errors.New("conversation not found")
	// ErrEmptyPrompt is returned when a prompt is blank.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrBusy is returned when a prompt arrives while a reply is pending.
	ErrBusy = errors.New("a reply is still pending")
	// ErrNoPending is returned when a reply arrives with nothing to answer.
	ErrNoPending = errors.New("no reply is pending")
	// ErrEmptyTitle is returned when a rename would leave a blank title.
	ErrEmptyTitle = errors.New("title is empty")
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager holds the state of one chat session: the loaded collection, the
// selected conversation and whether a reply is pending.
//
// The store pushes no notifications, so the manager reloads the collection
// after every mutation it makes.
type Manager struct {
	mu sync.Mutex

	store     *storage.ConversationStore
	responder responder.Responder
	logger    zerolog.Logger
	now       func() time.Time

	conversations []model.Conversation
	current       model.Conversation
	started       bool

	// Pending reply tracking
	busy          bool
	pendingID     string
	pendingPrompt string
}

// Config holds optional collaborators for the manager.
type Config struct {
	Logger zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewManager creates a session manager. Call Start before use.
func NewManager(store *storage.ConversationStore, resp responder.Responder, cfg Config) *Manager {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:     store,
		responder: resp,
		logger:    cfg.Logger.With().Str("component", "session").Logger(),
		now:       now,
	}
}

// Start loads the collection and selects the most recently updated
// conversation, or creates one when the collection is empty.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start()
}

func (m *Manager) start() {
	m.started = true
	m.refresh()

	if recent, ok := storage.MostRecent(m.conversations); ok {
		m.current = recent
		return
	}
	m.newConversation()
}

func (m *Manager) ensureStarted() {
	if !m.started {
		m.start()
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// Conversations returns the loaded collection in stored order.
func (m *Manager) Conversations() []model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Conversation, len(m.conversations))
	copy(out, m.conversations)
	return out
}

// Current returns the selected conversation.
func (m *Manager) Current() model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// Busy reports whether a reply is pending.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// ReplyDelay returns how long the responder takes to answer.
func (m *Manager) ReplyDelay() time.Duration {
	return m.responder.Delay()
}

// PendingID returns the conversation awaiting a reply, if any.
func (m *Manager) PendingID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingID
}

// StorageStatus returns the outcome of the store's last operation.
func (m *Manager) StorageStatus() storage.Status {
	return m.store.LastStatus()
}

// Reload re-reads the collection and refreshes the selected conversation
// from it. Used when another writer may have changed the medium.
func (m *Manager) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refresh()
	if c, ok := m.find(m.current.ID); ok {
		m.current = c
	}
}

// refresh reloads the collection without touching the selection, so an
// unpersisted edit to the current conversation survives a failed save.
func (m *Manager) refresh() {
	m.conversations = m.store.LoadAll()
}

func (m *Manager) find(id string) (model.Conversation, bool) {
	for _, c := range m.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// =============================================================================
// CONVERSATION ACTIONS
// =============================================================================

// NewConversation creates, saves and selects an empty conversation.
func (m *Manager) NewConversation() model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	return m.newConversation()
}

func (m *Manager) newConversation() model.Conversation {
	conv := m.store.CreateNew("")
	m.store.Save(conv)
	m.current = conv
	m.refresh()
	m.logger.Debug().Str("conversation", conv.ID).Msg("New conversation")
	return conv.Clone()
}

// Select makes the conversation with the given ID current.
func (m *Manager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStarted()

	c, ok := m.find(id)
	if !ok {
		return ErrNotFound
	}
	m.current = c
	return nil
}

// Rename sets the title of a conversation. Surrounding whitespace is
// trimmed and a blank result is rejected.
func (m *Manager) Rename(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStarted()

	if _, ok := m.find(id); !ok {
		return ErrNotFound
	}
	m.store.UpdateTitle(id, title)
	if m.current.ID == id {
		m.current.SetTitle(title, m.now())
	}
	m.refresh()
	return nil
}

// Delete removes a conversation. Deleting the current conversation starts
// a new one.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStarted()

	if _, ok := m.find(id); !ok {
		return ErrNotFound
	}
	m.store.Delete(id)
	m.refresh()

	if m.pendingID == id {
		m.clearPending()
	}
	if m.current.ID == id {
		m.newConversation()
	}
	return nil
}

// =============================================================================
// PROMPTS AND REPLIES
// =============================================================================

// Submit appends a user message to the current conversation and marks a
// reply as pending. The first message of a conversation also sets its title.
func (m *Manager) Submit(prompt string) (model.Message, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return model.Message{}, ErrEmptyPrompt
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureStarted()

	if m.busy {
		return model.Message{}, ErrBusy
	}

	msg := model.NewMessageAt(model.RoleUser, prompt, m.now())
	if m.current.IsEmpty() {
		m.current.Title = model.DeriveTitle(prompt)
	}
	m.current.AddMessage(msg)
	m.store.Save(m.current)
	m.refresh()

	m.busy = true
	m.pendingID = m.current.ID
	m.pendingPrompt = prompt
	return msg, nil
}

// CompleteReply appends reply as an assistant message to conversation id,
// which must be the one waiting for a reply, and clears the pending state.
// A reply for anything else is stale and returns ErrNoPending.
func (m *Manager) CompleteReply(id, reply string) (model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completeReply(id, reply)
}

func (m *Manager) completeReply(id, reply string) (model.Message, error) {
	if !m.busy || id != m.pendingID {
		return model.Message{}, ErrNoPending
	}
	m.clearPending()

	conv := m.current
	if conv.ID != id {
		var ok bool
		if conv, ok = m.find(id); !ok {
			m.logger.Warn().Str("conversation", id).Msg("Dropping reply for deleted conversation")
			return model.Message{}, ErrNotFound
		}
	}

	msg := model.NewMessageAt(model.RoleAssistant, reply, m.now())
	conv.AddMessage(msg)
	m.store.Save(conv)
	if m.current.ID == id {
		m.current = conv
	}
	m.refresh()
	return msg, nil
}

// Respond asks the responder for a reply to the pending prompt and
// completes it immediately.
func (m *Manager) Respond() (model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.busy {
		return model.Message{}, ErrNoPending
	}
	return m.completeReply(m.pendingID, m.responder.Reply(m.pendingPrompt))
}

func (m *Manager) clearPending() {
	m.busy = false
	m.pendingID = ""
	m.pendingPrompt = ""
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ReplyMsg carries a generated reply once the responder's delay elapsed.
type ReplyMsg struct {
	ConversationID string
	Content        string
}

// ReplyCmd returns a command that waits for the responder's delay and then
// produces a ReplyMsg for the pending prompt. It returns nil when nothing is
// pending.
func (m *Manager) ReplyCmd() tea.Cmd {
	m.mu.Lock()
	if !m.busy {
		m.mu.Unlock()
		return nil
	}
	id, prompt := m.pendingID, m.pendingPrompt
	m.mu.Unlock()

	resp := m.responder
	return tea.Tick(resp.Delay(), func(time.Time) tea.Msg {
		return ReplyMsg{ConversationID: id, Content: resp.Reply(prompt)}
	})
}
