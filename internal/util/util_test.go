// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("test data"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "updated" {
		t.Errorf("Content not updated: got %q", string(content))
	}
}

func TestAtomicWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 3; i++ {
		if err := AtomicWriteFile(filepath.Join(dir, "blob.json"), []byte("[]"), 0644); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestAtomicWriteFileWithDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newdir", "test.txt")

	if err := AtomicWriteFileWithDir(path, []byte("test"), 0600, 0700); err != nil {
		t.Fatalf("AtomicWriteFileWithDir failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateAppend(t *testing.T) {
	testCases := []struct {
		input    string
		max      int
		expected string
	}{
		{"short", 50, "short"},
		{strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{strings.Repeat("a", 51), 50, strings.Repeat("a", 50) + "..."},
		{"日本語テキスト", 3, "日本語..."},
		{"anything", 0, ""},
	}

	for _, tc := range testCases {
		if got := TruncateAppend(tc.input, tc.max); got != tc.expected {
			t.Errorf("TruncateAppend(%q, %d) = %q, want %q", tc.input, tc.max, got, tc.expected)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	testCases := []struct {
		input    string
		max      int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"héllo wörld", 8, "héllo..."},
	}

	for _, tc := range testCases {
		if got := TruncateRunes(tc.input, tc.max); got != tc.expected {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.max, got, tc.expected)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	if got := TruncateWidth("hello", 10); got != "hello" {
		t.Errorf("TruncateWidth fitting = %q, want %q", got, "hello")
	}
	if got := TruncateWidth("hello world", 8); got != "hello..." {
		t.Errorf("TruncateWidth ascii = %q, want %q", got, "hello...")
	}
	got := TruncateWidth("日本語テキスト", 7)
	if StringWidth(got) > 7 {
		t.Errorf("TruncateWidth CJK width = %d, want <= 7 (%q)", StringWidth(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("TruncateWidth CJK = %q, want ellipsis suffix", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q, want %q", got, "ab   ")
	}
	if got := PadRight("abcdef", 3); got != "abcdef" {
		t.Errorf("PadRight longer = %q, want unchanged", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("a\r\nb\tc"); got != "a b c" {
		t.Errorf("SingleLine = %q, want %q", got, "a b c")
	}
}

// =============================================================================
// TIME TESTS
// =============================================================================

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

	testCases := []struct {
		ago      time.Duration
		expected string
	}{
		{0, "Just now"},
		{30 * time.Second, "Just now"},
		{time.Minute, "1m ago"},
		{59 * time.Minute, "59m ago"},
		{time.Hour, "1h ago"},
		{23 * time.Hour, "23h ago"},
		{24 * time.Hour, "1d ago"},
		{6 * 24 * time.Hour, "6d ago"},
		{7 * 24 * time.Hour, "2025-06-08"},
	}

	for _, tc := range testCases {
		if got := FormatRelativeTime(now.Add(-tc.ago), now); got != tc.expected {
			t.Errorf("FormatRelativeTime(-%v) = %q, want %q", tc.ago, got, tc.expected)
		}
	}
}

func TestPluralize(t *testing.T) {
	if got := Pluralize(1, "message"); got != "1 message" {
		t.Errorf("Pluralize(1) = %q", got)
	}
	if got := Pluralize(0, "message"); got != "0 messages" {
		t.Errorf("Pluralize(0) = %q", got)
	}
	if got := Pluralize(4, "conversation"); got != "4 conversations" {
		t.Errorf("Pluralize(4) = %q", got)
	}
}
