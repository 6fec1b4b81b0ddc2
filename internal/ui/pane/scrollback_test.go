// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/terchat/internal/ui/styles"
)

func TestScrollback_MergesSameTag(t *testing.T) {
	s := newScrollback(1024)
	s.add("AI: ", styles.TagPlain)
	s.add("Hel", styles.TagPlain)
	s.add("lo\n", styles.TagPlain)
	s.add("Tokens used: 2\n", styles.TagMetric)
	s.add("", styles.TagError)

	assert.Len(t, s.segments, 2)
	assert.Equal(t, "AI: Hello\nTokens used: 2\n", s.String())
}

func TestScrollback_TrimsOldestAtLineBoundary(t *testing.T) {
	s := newScrollback(20)
	s.add("line one\n", styles.TagInfo)
	s.add("line two\n", styles.TagUser)
	s.add("line three\n", styles.TagInfo)

	assert.LessOrEqual(t, s.size, 20)
	assert.Equal(t, "line two\nline three\n", s.String())
}

func TestScrollback_CutsInsideSegment(t *testing.T) {
	s := newScrollback(12)
	s.add("aaaa\nbbbb\ncccc\n", styles.TagPlain)

	assert.Equal(t, "bbbb\ncccc\n", s.String())
	assert.Equal(t, len(s.String()), s.size)
}

func TestScrollback_KeepsTailOfLongLine(t *testing.T) {
	s := newScrollback(16)
	s.add("AI: ", styles.TagPlain)
	s.add(strings.Repeat("x", 20), styles.TagPlain)

	assert.Equal(t, strings.Repeat("x", 16), s.String())
	assert.Equal(t, 16, s.size)

	s.add("y", styles.TagPlain)
	assert.Equal(t, strings.Repeat("x", 15)+"y", s.String())
}

func TestScrollback_KeepsTailOfLongFinishedLine(t *testing.T) {
	s := newScrollback(8)
	s.add("AI: abcdefgh\n", styles.TagPlain)

	assert.Equal(t, "bcdefgh\n", s.String())
}

func TestScrollback_LongLineCutsAtRuneBoundary(t *testing.T) {
	s := newScrollback(7)
	s.add("ааааа", styles.TagPlain) // 5 two-byte runes

	assert.Equal(t, "ааа", s.String())
	assert.Equal(t, 6, s.size)
	assert.Equal(t, len(s.String()), s.size)
}

func TestScrollback_DropsOlderSegmentsForLongLine(t *testing.T) {
	s := newScrollback(10)
	s.add("You: hi\n", styles.TagUser)
	s.add(strings.Repeat("z", 12), styles.TagPlain)

	require.Len(t, s.segments, 1)
	assert.Equal(t, strings.Repeat("z", 10), s.String())
}
