// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for chatdeck.
package util

import (
	"strconv"
	"time"
)

// DateLayout is used for timestamps older than a week.
const DateLayout = "2006-01-02"

// FormatRelativeTime renders t relative to now the way the history list
// shows it: "Just now", "5m ago", "3h ago", "2d ago", then a plain date.
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return strconv.Itoa(minutes) + "m ago"
	case hours < 24:
		return strconv.Itoa(hours) + "h ago"
	case days < 7:
		return strconv.Itoa(days) + "d ago"
	default:
		return t.Local().Format(DateLayout)
	}
}

// Pluralize returns "1 message", "2 messages" and so on.
func Pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
