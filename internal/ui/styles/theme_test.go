// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// MODE TESTS
// =============================================================================

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"dark", ModeDark, false},
		{"LIGHT", ModeLight, false},
		{" system ", ModeSystem, false},
		{"", "", true},
		{"solarized", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestModeNextCycles(t *testing.T) {
	m := ModeDark
	seen := []Mode{m}
	for i := 0; i < 3; i++ {
		m = m.Next()
		seen = append(seen, m)
	}

	want := []Mode{ModeDark, ModeLight, ModeSystem, ModeDark}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", seen, want)
		}
	}

	if Mode("bogus").Next() != ModeDark {
		t.Error("unknown mode should cycle back to dark")
	}
}

func TestModeIsDark(t *testing.T) {
	if !ModeDark.IsDark(false) {
		t.Error("dark mode ignores system background")
	}
	if ModeLight.IsDark(true) {
		t.Error("light mode ignores system background")
	}
	if !ModeSystem.IsDark(true) || ModeSystem.IsDark(false) {
		t.Error("system mode follows system background")
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewThemeFor(t *testing.T) {
	dark := NewThemeFor(io.Discard, ModeDark, false)
	if !dark.IsDark || dark.Mode != ModeDark {
		t.Errorf("dark theme = mode %q dark %v", dark.Mode, dark.IsDark)
	}
	if !dark.Renderer.HasDarkBackground() {
		t.Error("renderer background should follow mode")
	}

	light := NewThemeFor(io.Discard, ModeLight, true)
	if light.IsDark {
		t.Error("light theme should not be dark")
	}
	if light.Renderer.HasDarkBackground() {
		t.Error("light renderer should report a light background")
	}

	system := NewThemeFor(io.Discard, ModeSystem, false)
	if system.IsDark {
		t.Error("system theme should follow the detected light background")
	}
}

func TestNewThemeFor_InvalidModeFallsBack(t *testing.T) {
	theme := NewThemeFor(io.Discard, Mode("neon"), true)
	if theme.Mode != DefaultMode {
		t.Errorf("Mode = %q, want %q", theme.Mode, DefaultMode)
	}
}

func TestGlamourStyle(t *testing.T) {
	if got := NewThemeFor(io.Discard, ModeDark, false).GlamourStyle(); got != "dark" {
		t.Errorf("dark GlamourStyle = %q", got)
	}
	if got := NewThemeFor(io.Discard, ModeLight, false).GlamourStyle(); got != "light" {
		t.Errorf("light GlamourStyle = %q", got)
	}
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewThemeFor(io.Discard, ModeDark, true)

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"Sidebar", theme.Sidebar},
		{"SidebarItemSelected", theme.SidebarItemSelected},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"Dialog", theme.Dialog},
	}

	for _, s := range styles {
		if rendered := s.style.Render("test"); !strings.Contains(rendered, "test") {
			t.Errorf("%s style lost its content: %q", s.name, rendered)
		}
	}
}

func TestBorderedStylesAddFrame(t *testing.T) {
	theme := NewThemeFor(io.Discard, ModeLight, false)

	if theme.Sidebar.GetHorizontalFrameSize() == 0 {
		t.Error("sidebar should have a border frame")
	}
	if theme.InputFocused.GetHorizontalFrameSize() != theme.InputContainer.GetHorizontalFrameSize() {
		t.Error("focus should change color, not size")
	}
}

// =============================================================================
// ANIMATION TESTS
// =============================================================================

func TestSpinners(t *testing.T) {
	for name, s := range map[string]int{
		"ThinkingSpinner": len(ThinkingSpinner.Frames),
		"DotsSpinner":     len(DotsSpinner.Frames),
	} {
		if s == 0 {
			t.Errorf("%s has no frames", name)
		}
	}
	if ThinkingSpinner.FPS <= 0 {
		t.Error("ThinkingSpinner needs a positive frame interval")
	}
}
