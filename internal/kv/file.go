// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/chatdeck/internal/util"
)

// File stores each key as its own file in a directory.
type File struct {
	dir string
}

// NewFile creates a file-backed store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("file storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory holding the key files.
func (f *File) Dir() string {
	return f.dir
}

// Path returns the file that holds key.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, FileName(key))
}

// Get reads the file for key.
func (f *File) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Set replaces the file for key.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (f *File) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return util.AtomicWriteFile(f.Path(key), []byte(value), 0644)
}

// Remove deletes the file for key. Removing an absent key is not an error.
func (f *File) Remove(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := os.Remove(f.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op; files are not held open.
func (f *File) Close() error {
	return nil
}

// FileName maps a key onto a safe file name.
func FileName(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String() + ".json"
}
