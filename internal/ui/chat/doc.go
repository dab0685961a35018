// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat screen.
//
// The screen has three parts: a history sidebar listing every stored
// conversation, the transcript of the selected conversation, and a prompt
// editor. All state changes go through a session.Manager; the model only
// renders it and turns keys into session calls.
//
// # Keys
//
//   - enter: send the prompt (alt+enter inserts a newline)
//   - tab: move focus between editor and history
//   - up/down, r, d: select, rename and delete in the history
//   - ctrl+n: new conversation
//   - ctrl+t: cycle the theme (dark, light, system)
//   - ctrl+y: copy the last reply
//   - esc or ctrl+c: quit
//
// Replies are typed out frame by frame once they arrive. When a watcher is
// supplied the history reloads whenever another process rewrites storage.
package chat
