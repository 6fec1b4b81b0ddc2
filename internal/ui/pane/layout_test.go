// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	l, err := NewLayout(24, 80)
	require.NoError(t, err)

	assert.Equal(t, Region{Top: 0, Height: 21, Width: 80, Scrolls: true}, l.History)
	assert.Equal(t, Region{Top: 21, Height: 3, Width: 80}, l.Input)
	assert.False(t, l.History.Overlaps(l.Input))
	assert.LessOrEqual(t, l.History.Height+l.Input.Height, l.Rows)
}

func TestNewLayout_Minimum(t *testing.T) {
	l, err := NewLayout(MinRows, MinCols)
	require.NoError(t, err)
	assert.Equal(t, 2, l.History.Height)
	assert.Equal(t, 2, l.Input.Top)
}

func TestNewLayout_TooSmall(t *testing.T) {
	tests := []struct {
		rows, cols int
	}{
		{4, 80},
		{24, 19},
		{0, 0},
	}
	for _, tt := range tests {
		_, err := NewLayout(tt.rows, tt.cols)
		var sizeErr *SizeError
		require.ErrorAs(t, err, &sizeErr)
		assert.Equal(t, tt.rows, sizeErr.Rows)
		assert.Equal(t, tt.cols, sizeErr.Cols)
	}
}

func TestRegion_Overlaps(t *testing.T) {
	a := Region{Top: 0, Height: 5, Width: 10}
	assert.True(t, a.Overlaps(Region{Top: 4, Height: 2, Width: 10}))
	assert.False(t, a.Overlaps(Region{Top: 5, Height: 2, Width: 10}))
	assert.False(t, a.Overlaps(Region{Top: 0, Left: 10, Height: 5, Width: 3}))
}

func TestRegion_ScreenPos(t *testing.T) {
	r := Region{Top: 21, Left: 0, Row: 0, Col: 4}
	row, col := r.ScreenPos()
	assert.Equal(t, 22, row)
	assert.Equal(t, 5, col)
}
