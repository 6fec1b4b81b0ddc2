// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

import (
	"strings"
	"unicode/utf8"

	"github.com/jeranaias/terchat/internal/ui/styles"
)

// DefaultScrollbackBytes bounds the history kept for redraws after a resize.
const DefaultScrollbackBytes = 64 * 1024

type segment struct {
	tag  styles.Tag
	text *strings.Builder
}

// scrollback keeps the tail of everything appended to the history pane.
// Consecutive appends with the same tag share one segment, so a streamed
// reply costs one entry rather than one per delta.
type scrollback struct {
	segments []segment
	size     int
	limit    int
}

func newScrollback(limit int) *scrollback {
	if limit <= 0 {
		limit = DefaultScrollbackBytes
	}
	return &scrollback{limit: limit}
}

func (s *scrollback) add(text string, tag styles.Tag) {
	if text == "" {
		return
	}
	if n := len(s.segments); n > 0 && s.segments[n-1].tag == tag {
		s.segments[n-1].text.WriteString(text)
	} else {
		b := &strings.Builder{}
		b.WriteString(text)
		s.segments = append(s.segments, segment{tag: tag, text: b})
	}
	s.size += len(text)
	s.trim()
}

// trim drops the oldest text until the buffer fits its limit. A partially
// dropped segment is cut after a newline so replay starts on a fresh line.
// When no newline follows the excess, the cut falls on the next rune
// boundary and the newest bytes are kept.
func (s *scrollback) trim() {
	for s.size > s.limit && len(s.segments) > 0 {
		excess := s.size - s.limit
		head := s.segments[0].text.String()

		if excess >= len(head) {
			s.segments = s.segments[1:]
			s.size -= len(head)
			continue
		}

		cut := -1
		if i := strings.IndexByte(head[excess:], '\n'); i >= 0 {
			cut = excess + i + 1
		}
		if cut < 0 || (cut == len(head) && len(s.segments) == 1) {
			cut = excess
			for cut < len(head) && !utf8.RuneStart(head[cut]) {
				cut++
			}
		}
		if cut >= len(head) {
			s.segments = s.segments[1:]
			s.size -= len(head)
			continue
		}

		b := &strings.Builder{}
		b.WriteString(head[cut:])
		s.segments[0].text = b
		s.size -= cut
	}
}

func (s *scrollback) each(fn func(text string, tag styles.Tag)) {
	for _, seg := range s.segments {
		fn(seg.text.String(), seg.tag)
	}
}

// String returns the raw text of the buffer without styling.
func (s *scrollback) String() string {
	var b strings.Builder
	s.each(func(text string, _ styles.Tag) { b.WriteString(text) })
	return b.String()
}
