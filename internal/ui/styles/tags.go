// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// TAGS
// =============================================================================

// Tag is the semantic style of a piece of history text. The four colored
// tags are mutually exclusive; TagPlain writes text unstyled.
type Tag int

const (
	TagPlain Tag = iota
	TagInfo
	TagUser
	TagMetric
	TagError
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagPlain:
		return "plain"
	case TagInfo:
		return "info"
	case TagUser:
		return "user"
	case TagMetric:
		return "metric"
	case TagError:
		return "error"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Color returns the fixed color of a tag, or nil for TagPlain.
func (t Tag) Color() lipgloss.TerminalColor {
	switch t {
	case TagInfo:
		return Green
	case TagUser:
		return Cyan
	case TagMetric:
		return Yellow
	case TagError:
		return Red
	default:
		return nil
	}
}

// =============================================================================
// PALETTE
// =============================================================================

// Palette renders tagged text for one output. The renderer decides the color
// profile, so a palette bound to a non-TTY writer emits plain text.
type Palette struct {
	styles map[Tag]lipgloss.Style
}

// NewPalette builds the tag styles on r. A nil r uses the default renderer.
func NewPalette(r *lipgloss.Renderer) *Palette {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p := &Palette{styles: make(map[Tag]lipgloss.Style, 4)}
	for _, t := range []Tag{TagInfo, TagUser, TagMetric, TagError} {
		p.styles[t] = r.NewStyle().Foreground(t.Color())
	}
	return p
}

// Render applies the style of tag to text. Newlines are preserved exactly;
// each line segment is styled on its own so no padding or reflow is added.
func (p *Palette) Render(tag Tag, text string) string {
	style, ok := p.styles[tag]
	if !ok || text == "" {
		return text
	}

	segments := strings.Split(text, "\n")
	for i, seg := range segments {
		if seg != "" {
			segments[i] = style.Render(seg)
		}
	}
	return strings.Join(segments, "\n")
}
