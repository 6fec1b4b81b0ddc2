// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

// InputHeight is the number of rows reserved for the input pane.
const InputHeight = 3

// Region is a rectangle of the terminal plus a cursor relative to its origin.
// Top and Left are zero-based screen coordinates.
type Region struct {
	Top, Left     int
	Height, Width int
	Row, Col      int
	Scrolls       bool
}

// Bottom returns the last screen row of the region.
func (r Region) Bottom() int {
	return r.Top + r.Height - 1
}

// Overlaps reports whether two regions share any cell.
func (r Region) Overlaps(o Region) bool {
	return r.Top <= o.Bottom() && o.Top <= r.Bottom() &&
		r.Left < o.Left+o.Width && o.Left < r.Left+r.Width
}

// ScreenPos converts the region cursor to a one-based terminal position.
func (r Region) ScreenPos() (row, col int) {
	return r.Top + r.Row + 1, r.Left + r.Col + 1
}

// Layout splits the terminal into a scrolling history pane above a
// fixed input pane.
type Layout struct {
	Rows, Cols int
	History    Region
	Input      Region
}

// NewLayout computes the layout for a rows x cols terminal.
func NewLayout(rows, cols int) (Layout, error) {
	if rows < MinRows || cols < MinCols {
		return Layout{}, &SizeError{Rows: rows, Cols: cols}
	}
	return Layout{
		Rows: rows,
		Cols: cols,
		History: Region{
			Top:     0,
			Height:  rows - InputHeight,
			Width:   cols,
			Scrolls: true,
		},
		Input: Region{
			Top:    rows - InputHeight,
			Height: InputHeight,
			Width:  cols,
		},
	}, nil
}
