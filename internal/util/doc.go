// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across terchat.
//
// # Key Functions
//
//   - AtomicWriteFile: Crash-safe file replacement with fsync
//
// # Usage
//
//	err := util.AtomicWriteFile("chat_history.txt", data, 0600)
package util
