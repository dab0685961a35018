// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/util"
)

// =============================================================================
// SEARCH AND ORDERING
// =============================================================================

// Search returns conversations whose title or any message contains query,
// case-insensitively, in stored order. An empty query matches everything.
func (s *ConversationStore) Search(query string) []model.Conversation {
	return Filter(s.LoadAll(), query)
}

// Filter applies Search's matching rule to an already loaded collection.
func Filter(convs []model.Conversation, query string) []model.Conversation {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return convs
	}

	results := make([]model.Conversation, 0)
	for _, conv := range convs {
		if matches(conv, query) {
			results = append(results, conv)
		}
	}
	return results
}

func matches(conv model.Conversation, query string) bool {
	if strings.Contains(strings.ToLower(conv.Title), query) {
		return true
	}
	for _, msg := range conv.Messages {
		if strings.Contains(strings.ToLower(msg.Content), query) {
			return true
		}
	}
	return false
}

// SortByRecent returns a copy of convs ordered by UpdatedAt, newest first.
// Stored order breaks ties.
func SortByRecent(convs []model.Conversation) []model.Conversation {
	sorted := make([]model.Conversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	return sorted
}

// MostRecent returns the most recently updated conversation.
func MostRecent(convs []model.Conversation) (model.Conversation, bool) {
	if len(convs) == 0 {
		return model.Conversation{}, false
	}
	return SortByRecent(convs)[0], true
}

// =============================================================================
// LIST FORMATTING
// =============================================================================

const (
	listIDWidth      = 38
	listTitleWidth   = 40
	listUpdatedWidth = 12
	listCountWidth   = 6
)

// FormatList renders conversations as a plain-text table for the CLI.
func FormatList(convs []model.Conversation, now time.Time) string {
	if len(convs) == 0 {
		return "No conversations found.\n"
	}

	rule := strings.Repeat("-", listIDWidth+listTitleWidth+listUpdatedWidth+listCountWidth+3) + "\n"

	var sb strings.Builder
	sb.WriteString(util.PadRight("ID", listIDWidth) + " " +
		util.PadRight("Title", listTitleWidth) + " " +
		util.PadRight("Updated", listUpdatedWidth) + " " +
		"Msgs\n")
	sb.WriteString(rule)

	for _, c := range convs {
		sb.WriteString(util.PadRight(util.TruncateWidth(c.ID, listIDWidth), listIDWidth) + " " +
			util.PadRight(util.TruncateWidth(util.SingleLine(c.Title), listTitleWidth), listTitleWidth) + " " +
			util.PadRight(util.FormatRelativeTime(c.UpdatedAt, now), listUpdatedWidth) + " " +
			strconv.Itoa(c.MessageCount()) + "\n")
	}

	sb.WriteString(rule)
	sb.WriteString(util.Pluralize(len(convs), "conversation") + "\n")
	return sb.String()
}
