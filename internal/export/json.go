// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/chatdeck/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations as indented JSON in the stored layout.
// The output always carries the complete conversation and ignores Options,
// so an export can be merged back into a conversation list unchanged.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter. opts is accepted for
// symmetry with the other exporters.
func NewJSONExporter(_ *Options) *JSONExporter {
	return &JSONExporter{}
}

// Export converts a conversation to JSON format.
func (e *JSONExporter) Export(conv model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}
	if conv.Messages == nil {
		conv.Messages = []model.Message{}
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
