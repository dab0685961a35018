// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import "time"

// Op names a store operation.
type Op string

const (
	OpLoad        Op = "load"
	OpSave        Op = "save"
	OpDelete      Op = "delete"
	OpUpdateTitle Op = "update_title"
)

// Outcome describes which path an operation took.
type Outcome int

const (
	// OutcomeOK means the operation read and wrote what it intended.
	OutcomeOK Outcome = iota
	// OutcomeNotFound means the target ID was absent and nothing changed.
	OutcomeNotFound
	// OutcomeSeeded means the key was absent and the samples were written.
	OutcomeSeeded
	// OutcomeFallback means stored data could not be read or decoded and
	// the samples were used in its place.
	OutcomeFallback
	// OutcomeWriteFailed means the medium rejected a write.
	OutcomeWriteFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeSeeded:
		return "seeded"
	case OutcomeFallback:
		return "fallback"
	case OutcomeWriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}

// Degraded reports whether data may have been lost or not persisted.
func (o Outcome) Degraded() bool {
	return o == OutcomeFallback || o == OutcomeWriteFailed
}

// Status is the record of one store operation.
type Status struct {
	Op      Op
	Outcome Outcome
	Err     error
	At      time.Time
}

// worse returns the more severe of two outcomes.
func worse(a, b Outcome) Outcome {
	if b > a {
		return b
	}
	return a
}
