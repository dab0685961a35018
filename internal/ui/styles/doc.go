// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for chatdeck.

# Theme Modes (mode.go)

The user picks dark, light or system. System mode asks the terminal for its
background through termenv. Mode.Next cycles the three for the toggle key.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values. A Theme owns its own
lipgloss.Renderer with the background forced to match the mode, so the same
palette serves both themes.

  - Purple - assistant messages, selection accents
  - Cyan - user messages, focus rings
  - Emerald - success
  - Amber - pending replies, dialogs
  - Rose - errors, delete prompts

# Theme (theme.go)

	theme := styles.NewTheme(styles.ModeSystem)
	fmt.Println(theme.HeaderTitle.Render("chatdeck"))

GlamourStyle returns the matching glamour standard style name for markdown
rendering of assistant replies.

# Animations (animations.go)

Spinner definitions for bubbles/spinner and the typing reveal timing.
*/
package styles
