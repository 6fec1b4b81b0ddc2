// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the history pane's semantic tags.
//
// # Tags
//
//   - TagInfo: green, banners and confirmations
//   - TagUser: cyan, the "You: ..." echo
//   - TagMetric: yellow, token counts and hints
//   - TagError: red, failures
//   - TagPlain: no styling, streamed assistant text
//
// # Usage
//
//	p := styles.NewPalette(lipgloss.NewRenderer(os.Stdout))
//	fmt.Print(p.Render(styles.TagInfo, "Context reset.\n"))
package styles
