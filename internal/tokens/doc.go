// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tokens counts the tokens of a completed reply.
//
// TiktokenCounter uses the BPE ranks embedded by tiktoken-go-loader, so no
// network access is needed. EstimateCounter is the fallback when no encoding
// is available for the configured model.
package tokens
