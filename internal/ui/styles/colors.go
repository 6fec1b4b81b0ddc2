// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles maps the semantic tags of the history pane to terminal colors.
// Colors are the basic ANSI palette so they render on any color terminal.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Green - Informational lines, banners, confirmations
var Green = lipgloss.ANSIColor(2)

// Cyan - Echo of the user's own input
var Cyan = lipgloss.ANSIColor(6)

// Yellow - Metrics such as token counts, usage hints
var Yellow = lipgloss.ANSIColor(3)

// Red - Errors
var Red = lipgloss.ANSIColor(1)
