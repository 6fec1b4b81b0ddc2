// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

import (
	"errors"
	"fmt"
)

// Minimum terminal size for the two-pane layout.
const (
	MinRows = 5
	MinCols = 20
)

// ErrInterrupted is returned by ReadInputLine when the user pressed Ctrl+C
// at the prompt.
var ErrInterrupted = errors.New("input interrupted")

// SizeError reports a terminal too small for the layout.
type SizeError struct {
	Rows, Cols int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("terminal too small: %dx%d, need at least %dx%d",
		e.Cols, e.Rows, MinCols, MinRows)
}

// RenderError reports a failed terminal write or redraw.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// InputError reports an input line that was repaired or truncated. The line
// returned alongside it is still usable.
type InputError struct {
	Limit     int
	Got       int
	Truncated bool
	Repaired  bool
}

func (e *InputError) Error() string {
	switch {
	case e.Truncated && e.Repaired:
		return fmt.Sprintf("input had invalid UTF-8 and was truncated to %d characters (got %d)", e.Limit, e.Got)
	case e.Truncated:
		return fmt.Sprintf("input truncated to %d characters (got %d)", e.Limit, e.Got)
	default:
		return "input contained invalid UTF-8 and was repaired"
	}
}
