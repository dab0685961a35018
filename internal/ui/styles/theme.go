// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"

	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// Styles are built on a private renderer whose background follows Mode,
// so switching theme never touches lipgloss's global state.
type Theme struct {
	Mode     Mode
	IsDark   bool
	Renderer *lipgloss.Renderer

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// HISTORY SIDEBAR STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarFocused      lipgloss.Style
	SidebarHeading      lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	SidebarItemTitle    lipgloss.Style
	SidebarItemMeta     lipgloss.Style
	SidebarItemPreview  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Timestamp       lipgloss.Style
	EmptyState      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	Dialog         lipgloss.Style
	DialogTitle    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
	Muted       lipgloss.Style
}

// NewTheme creates a theme for mode rendering to stdout. ModeSystem asks
// the terminal for its background color.
func NewTheme(mode Mode) *Theme {
	systemDark := true
	if mode == ModeSystem || !mode.Valid() {
		systemDark = termenv.HasDarkBackground()
	}
	return NewThemeFor(os.Stdout, mode, systemDark)
}

// NewThemeFor creates a theme rendering to w. systemDark stands in for
// terminal detection when mode is ModeSystem.
func NewThemeFor(w io.Writer, mode Mode, systemDark bool) *Theme {
	if !mode.Valid() {
		mode = DefaultMode
	}

	r := lipgloss.NewRenderer(w)
	isDark := mode.IsDark(systemDark)
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:     mode,
		IsDark:   isDark,
		Renderer: r,
	}
	t.initStyles()
	return t
}

// GlamourStyle returns the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return glamourstyles.DarkStyle
	}
	return glamourstyles.LightStyle
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	r := t.Renderer

	// Header
	t.Header = r.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = r.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = r.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// History sidebar
	t.Sidebar = r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.SidebarFocused = t.Sidebar.
		BorderForeground(Cyan)

	t.SidebarHeading = r.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		MarginBottom(1)

	t.SidebarItem = r.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay)

	t.SidebarItemSelected = t.SidebarItem.
		Background(SelectionBg).
		BorderForeground(Purple)

	t.SidebarItemTitle = r.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.SidebarItemMeta = r.NewStyle().
		Foreground(TextMuted)

	t.SidebarItemPreview = r.NewStyle().
		Foreground(TextSecondary)

	// Messages
	t.UserLabel = r.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.AssistantLabel = r.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.UserBubble = r.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = r.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.Timestamp = r.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.EmptyState = r.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	// Input area
	t.InputContainer = r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.InputFocused = t.InputContainer.
		BorderForeground(Cyan)

	t.Dialog = r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 1)

	t.DialogTitle = r.NewStyle().
		Bold(true).
		Foreground(Amber)

	// Status bar
	t.StatusBar = r.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = r.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = r.NewStyle().
		Foreground(TextMuted)

	t.Spinner = r.NewStyle().
		Foreground(Purple)

	t.ThinkingText = r.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Feedback
	t.ErrorText = r.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.SuccessText = r.NewStyle().
		Foreground(Emerald)

	t.Muted = r.NewStyle().
		Foreground(TextMuted)
}
