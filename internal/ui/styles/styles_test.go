// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func colorPalette() *Palette {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.ANSI)
	return NewPalette(r)
}

func TestTag_Colors(t *testing.T) {
	assert.Equal(t, Green, TagInfo.Color())
	assert.Equal(t, Cyan, TagUser.Color())
	assert.Equal(t, Yellow, TagMetric.Color())
	assert.Equal(t, Red, TagError.Color())
	assert.Nil(t, TagPlain.Color())
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "metric", TagMetric.String())
	assert.Equal(t, "Tag(42)", Tag(42).String())
}

func TestPalette_AsciiProfileIsPlain(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	p := NewPalette(r)

	for _, tag := range []Tag{TagPlain, TagInfo, TagUser, TagMetric, TagError} {
		assert.Equal(t, "You: hi\n", p.Render(tag, "You: hi\n"), tag.String())
	}
}

func TestPalette_ColorsAreDistinct(t *testing.T) {
	p := colorPalette()

	seen := map[string]Tag{}
	for _, tag := range []Tag{TagInfo, TagUser, TagMetric, TagError} {
		out := p.Render(tag, "x")
		assert.Contains(t, out, "\x1b[")
		if prev, dup := seen[out]; dup {
			t.Errorf("%s and %s render identically", prev, tag)
		}
		seen[out] = tag
	}
}

func TestPalette_PreservesNewlines(t *testing.T) {
	p := colorPalette()

	out := p.Render(TagError, "one\n\ntwo\n")
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.NotContains(t, out, "one ", "no padding may be added")
}

func TestPalette_PlainUntouched(t *testing.T) {
	p := colorPalette()
	assert.Equal(t, "  raw\ttext  ", p.Render(TagPlain, "  raw\ttext  "))
}
