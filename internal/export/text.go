// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"

	"github.com/jeranaias/terchat/internal/model"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter writes one `<role>: <content>` line per message.
//
// NOTE: Content is written as-is. A message containing newlines spans several
// lines of output and cannot be told apart from separate messages when read
// back. The format is kept for compatibility with existing transcripts.
type TextExporter struct{}

// NewTextExporter creates a plain text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export renders the messages in order.
func (e *TextExporter) Export(messages []model.Message) ([]byte, error) {
	var buf bytes.Buffer
	for _, msg := range messages {
		buf.WriteString(msg.Role.String())
		buf.WriteString(": ")
		buf.WriteString(msg.Content)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for plain text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}
