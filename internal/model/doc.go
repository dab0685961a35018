// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: a titled, ordered sequence of messages with timestamps
//   - Message: a single turn tagged with a role and text content
//   - Role: message role enumeration (user, assistant)
//
// Messages are append-only: a conversation only grows, and only whole
// conversations are ever removed (see package storage).
//
// # Usage
//
//	conv := model.NewConversation("", time.Now())
//	conv.AddMessage(model.NewUserMessage("Hello!"))
//	fmt.Println(conv.Title, conv.Preview())
package model
