// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the conversation transcript for the /save command.
//
// # Key Types
//
//   - Exporter: Renders a message log to bytes
//   - TextExporter: One `role: content` line per message
//
// # Usage
//
//	err := export.SaveText("chat_history.txt", store.Snapshot())
//
// Files are replaced atomically with mode 0600.
package export
