// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// Kind classifies a line of input.
type Kind int

const (
	// KindEmpty is a blank line.
	KindEmpty Kind = iota
	// KindCommand is a registered command.
	KindCommand
	// KindMessage is text for the assistant.
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindCommand:
		return "command"
	case KindMessage:
		return "message"
	default:
		return "unknown"
	}
}

// ParseResult is the classification of one input line.
type ParseResult struct {
	Kind Kind

	// Command is set for KindCommand.
	Command *Command

	// Text is the trimmed line.
	Text string
}

// =============================================================================
// PARSER
// =============================================================================

// Parser classifies input lines against a registry.
type Parser struct {
	registry *Registry
}

// NewParser creates a parser over registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse classifies input. A command matches only when the whole trimmed line
// equals its name or an alias, ignoring case: "/save now" and "/unknown"
// are messages.
func (p *Parser) Parse(input string) ParseResult {
	text := strings.TrimSpace(input)
	if text == "" {
		return ParseResult{Kind: KindEmpty}
	}
	if cmd := p.registry.Get(text); cmd != nil {
		return ParseResult{Kind: KindCommand, Command: cmd, Text: text}
	}
	return ParseResult{Kind: KindMessage, Text: text}
}

// IsSlashWord reports whether input looks like a command, a single word
// starting with "/".
func IsSlashWord(input string) bool {
	input = strings.TrimSpace(input)
	return strings.HasPrefix(input, "/") && !strings.ContainsAny(input, " \t")
}
