// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/chatdeck/internal/util"
)

const (
	// DefaultTitle is used for conversations created without a first message.
	DefaultTitle = "New Chat"

	// MaxTitleLength is the number of characters kept when deriving a title.
	MaxTitleLength = 50

	// PreviewLength is the number of characters shown in history previews.
	PreviewLength = 80

	emptyPreview = "No messages yet"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a titled, ordered sequence of messages.
//
// The JSON field names match the persisted layout, so blobs written by
// earlier versions load unchanged.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewConversation creates an empty conversation titled from firstMessage.
func NewConversation(firstMessage string, now time.Time) Conversation {
	return Conversation{
		ID:        generateConversationID(),
		Title:     DeriveTitle(firstMessage),
		Messages:  make([]Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle builds a conversation title from the first user message.
// Inputs longer than MaxTitleLength characters are cut and get "...".
func DeriveTitle(first string) string {
	if first == "" {
		return DefaultTitle
	}
	return util.TruncateAppend(norm.NFC.String(first), MaxTitleLength)
}

// =============================================================================
// MUTATION
// =============================================================================

// AddMessage appends a message and refreshes UpdatedAt.
func (c *Conversation) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.touch(msg.Timestamp)
}

// SetTitle renames the conversation and refreshes UpdatedAt.
func (c *Conversation) SetTitle(title string, now time.Time) {
	c.Title = title
	c.touch(now)
}

// touch moves UpdatedAt forward, never behind CreatedAt.
func (c *Conversation) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	if now.Before(c.CreatedAt) {
		now = c.CreatedAt
	}
	c.UpdatedAt = now
}

// =============================================================================
// ACCESSORS
// =============================================================================

// LastMessage returns the most recent message and whether one exists.
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastAssistantMessage returns the most recent assistant message.
func (c Conversation) LastAssistantMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// MessageCount returns the number of messages in the conversation.
func (c Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns the last message truncated for history listings.
func (c Conversation) Preview() string {
	last, ok := c.LastMessage()
	if !ok {
		return emptyPreview
	}
	return last.Preview(PreviewLength)
}

// Clone creates a deep copy of the conversation.
func (c Conversation) Clone() Conversation {
	clone := c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return clone
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	return uuid.NewString()
}
