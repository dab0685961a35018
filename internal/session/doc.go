// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives a chat session on top of the conversation store.
//
// The Manager is UI-agnostic: the TUI, the one-shot CLI commands and the
// REPL all use it. It keeps the loaded collection and the selected
// conversation, and tracks the single reply that may be pending.
//
// # Usage
//
//	mgr := session.NewManager(store, responder.NewCanned(), session.Config{Logger: logger})
//	mgr.Start()
//	if _, err := mgr.Submit("Hello!"); err != nil {
//	    return err
//	}
//	reply, err := mgr.Respond()
//
// Inside Bubble Tea, ReplyCmd waits for the responder's delay and produces a
// ReplyMsg; pass its ConversationID and Content to CompleteReply.
package session
