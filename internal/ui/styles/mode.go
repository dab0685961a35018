// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"
)

// Mode is the user's theme preference.
type Mode string

const (
	ModeDark   Mode = "dark"
	ModeLight  Mode = "light"
	ModeSystem Mode = "system"
)

// DefaultMode is used when no preference is stored.
const DefaultMode = ModeSystem

// Modes lists the accepted values in toggle order.
var Modes = []Mode{ModeDark, ModeLight, ModeSystem}

// ParseMode converts a string to a Mode, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown theme %q (want dark, light or system)", s)
	}
	return m, nil
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeDark, ModeLight, ModeSystem:
		return true
	}
	return false
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Next cycles dark -> light -> system -> dark.
func (m Mode) Next() Mode {
	switch m {
	case ModeDark:
		return ModeLight
	case ModeLight:
		return ModeSystem
	default:
		return ModeDark
	}
}

// IsDark resolves the mode to a background. systemDark is consulted only
// for ModeSystem.
func (m Mode) IsDark(systemDark bool) bool {
	switch m {
	case ModeDark:
		return true
	case ModeLight:
		return false
	default:
		return systemDark
	}
}
