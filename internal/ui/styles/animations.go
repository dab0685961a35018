// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// ThinkingSpinner is shown while a reply is pending. ASCII only.
var ThinkingSpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// DotsSpinner is the classic three-dot animation.
var DotsSpinner = spinner.Spinner{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    time.Second / 6,
}

// =============================================================================
// TYPING ANIMATION
// =============================================================================

// TypingCursor is appended to a reply while it is being revealed.
const TypingCursor = "_"

// RevealInterval is the delay between reveal steps.
var RevealInterval = 30 * time.Millisecond
