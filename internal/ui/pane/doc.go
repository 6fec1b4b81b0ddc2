// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pane splits the terminal into a scrolling history pane and a
// three-row input pane.
//
// # Key Types
//
//   - Renderer: Owns both panes; AppendHistory and ReadInputLine
//   - Layout, Region: Pane rectangles with pane-relative cursors
//   - LineReader: Blocking line input, backed by peterh/liner
//
// # Errors
//
//   - SizeError: Terminal below 5 rows or 20 columns at startup
//   - RenderError: A terminal write failed
//   - InputError: Input line was truncated or repaired; still usable
//   - ErrInterrupted: Ctrl+C at the prompt
//
// # Usage
//
//	r, err := pane.New(os.Stdout, pane.NewLinerReader(), pane.Options{
//	    Palette: styles.NewPalette(lipgloss.NewRenderer(os.Stdout)),
//	    EchoFD:  int(os.Stdin.Fd()),
//	})
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	r.AppendHistory("Welcome!\n", styles.TagInfo)
//	line, err := r.ReadInputLine("You: ")
package pane
