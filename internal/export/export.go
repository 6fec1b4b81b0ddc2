// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to files.
package export

import (
	"errors"
	"fmt"

	"github.com/jeranaias/terchat/internal/model"
	"github.com/jeranaias/terchat/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts an ordered message log to a file format.
type Exporter interface {
	// Export renders the messages and returns the file content.
	Export(messages []model.Message) ([]byte, error)

	// FileExtension returns the conventional extension (e.g. ".txt").
	FileExtension() string
}

// DefaultFilePerm is the mode used for transcript files.
// SECURITY: Transcripts may hold sensitive prompts, so owner read/write only.
const DefaultFilePerm = 0600

// ErrNoPath is returned when an export is requested without a destination.
var ErrNoPath = errors.New("export path is empty")

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders messages with exporter and replaces the file at path.
// Any existing file is overwritten atomically.
func ExportToFile(path string, messages []model.Message, exporter Exporter) error {
	if path == "" {
		return ErrNoPath
	}

	content, err := exporter.Export(messages)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := util.AtomicWriteFile(path, content, DefaultFilePerm); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// SaveText writes messages to path in the plain `role: content` format.
func SaveText(path string, messages []model.Message) error {
	return ExportToFile(path, messages, NewTextExporter())
}
