// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/kv"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitStorageError indicates the storage medium could not be used
	ExitStorageError = 5
	// ExitNotFoundError indicates a conversation was not found
	ExitNotFoundError = 7
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotWritten is returned when the store could not persist a change.
	ErrNotWritten = errors.New("changes could not be saved")

	// ErrNotTerminal is returned when the TUI is started without a terminal.
	ErrNotTerminal = errors.New("stdout is not a terminal")
)

// UsageError reports invalid arguments or flag values.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, a ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, a...)}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	var invalid config.ValidateErrors
	switch {
	case errors.As(err, &usage), errors.Is(err, session.ErrEmptyTitle), errors.Is(err, session.ErrEmptyPrompt):
		return ExitUsageError
	case errors.As(err, &invalid):
		return ExitConfigError
	case errors.Is(err, session.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, ErrNotWritten), errors.Is(err, kv.ErrUnknownBackend), errors.Is(err, storage.ErrNoStorage):
		return ExitStorageError
	default:
		return ExitGeneralError
	}
}

// checkWritten turns a failed write recorded by the store into an error.
func checkWritten(store *storage.ConversationStore) error {
	status := store.LastStatus()
	if status.Outcome != storage.OutcomeWriteFailed {
		return nil
	}
	if status.Err != nil {
		return fmt.Errorf("%w: %v", ErrNotWritten, status.Err)
	}
	return ErrNotWritten
}
