// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands routes input lines to chat turns or control commands.
//
// A line is a command only when the whole trimmed line matches a registered
// token, ignoring case:
//
//   - exit, quit: say goodbye and stop
//   - /reset: drop everything but the system prompt
//   - /help: list the commands
//   - /save: write the transcript file
//
// Anything else, including unknown "/words", is sent to the assistant.
// Blank lines are ignored.
//
// # Usage
//
//	router := commands.New(renderer, session, store, commands.Options{
//	    TranscriptPath: cfg.TranscriptPath,
//	    Canceller:      canceller,
//	})
//	err := router.Run(ctx)
package commands
