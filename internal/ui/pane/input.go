// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/peterh/liner"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxInputChars bounds a single input line.
const DefaultMaxInputChars = 100

// LineReader performs one blocking line read. It returns ErrInterrupted on
// Ctrl+C and io.EOF on Ctrl+D or end of input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// =============================================================================
// LINER
// =============================================================================

// LinerReader reads lines with peterh/liner, giving line editing and
// in-session history on terminals that support it.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader creates a reader on the process's stdin.
func NewLinerReader() *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetMultiLineMode(false)
	return &LinerReader{state: state}
}

// ReadLine prompts and reads one line.
func (l *LinerReader) ReadLine(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrInterrupted
		}
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		l.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal mode liner found at startup.
func (l *LinerReader) Close() error {
	return l.state.Close()
}

// =============================================================================
// SANITIZING
// =============================================================================

// sanitizeInput repairs invalid UTF-8, NFC-normalizes, trims, and bounds the
// line to limit characters. The returned error, if any, is an *InputError
// and the returned line is still usable.
func sanitizeInput(line string, limit int) (string, error) {
	repaired := !utf8.ValidString(line)
	if repaired {
		line = strings.ToValidUTF8(line, "\uFFFD")
	}
	line = strings.TrimSpace(norm.NFC.String(line))

	got := utf8.RuneCountInString(line)
	truncated := limit > 0 && got > limit
	if truncated {
		line = strings.TrimSpace(truncateRunes(line, limit))
	}

	if !repaired && !truncated {
		return line, nil
	}
	return line, &InputError{Limit: limit, Got: got, Truncated: truncated, Repaired: repaired}
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
