// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript holds the ordered message log of a chat session.
//
// The Store is the single source of truth for the context sent to the model.
// Index 0 is always the system message given at construction; Reset truncates
// back to it and nothing ever removes it.
//
// A Store is owned by the interactive loop and is not safe for concurrent use.
package transcript

import (
	"github.com/jeranaias/terchat/internal/model"
)

// Store is an append-only conversation log anchored by a system message.
type Store struct {
	messages []model.Message
}

// New creates a store holding only the given system prompt.
func New(systemPrompt string) *Store {
	return &Store{
		messages: []model.Message{model.NewSystemMessage(systemPrompt)},
	}
}

// Append adds msg to the end of the log. Order is preserved and duplicates
// are kept.
func (s *Store) Append(msg model.Message) {
	s.messages = append(s.messages, msg)
}

// Reset drops every message after the leading system message.
func (s *Store) Reset() {
	// Clear the tail so dropped contents can be collected.
	clear(s.messages[1:])
	s.messages = s.messages[:1]
}

// Snapshot returns a copy of the log in order. Callers may keep or modify
// the returned slice without affecting the store.
func (s *Store) Snapshot() []model.Message {
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages, including the system message.
func (s *Store) Len() int {
	return len(s.messages)
}

// System returns the leading system message.
func (s *Store) System() model.Message {
	return s.messages[0]
}

// Last returns the most recent message.
func (s *Store) Last() model.Message {
	return s.messages[len(s.messages)-1]
}
