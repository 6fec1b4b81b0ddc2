// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives one request/response exchange with the model.
//
// Session.Send appends the user message, streams the reply into the history
// pane delta by delta, and appends the assistant message only when the
// stream reached its end sentinel with a non-empty reply. Transport and
// protocol failures are rendered and end the turn; they are not returned.
//
// # Key Types
//
//   - Session: One conversation's request/stream/render cycle
//   - Result: Outcome, reply and token count of a turn
//   - TurnCanceller: Cancels the in-flight turn from a signal goroutine
package chat
