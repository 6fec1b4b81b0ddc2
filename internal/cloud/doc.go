// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud streams chat completions from OpenRouter.
//
// # Key Types
//
//   - OpenRouterClient: Opens a streaming completion over HTTPS
//   - Stream: An open response body plus its Decoder
//   - Decoder: Turns SSE lines into Delta, Done and Error events
//   - TransportError, ProtocolError: Failures surfaced to the chat session
//
// # Usage
//
//	client := cloud.NewOpenRouterClient(apiKey).WithModel(model)
//	stream, err := client.ChatStream(ctx, cloud.MessagesFromModel(store.Snapshot()))
//	if err != nil {
//	    return err
//	}
//	for ev := range stream.Events() {
//	    switch ev.Kind {
//	    case cloud.EventDelta:
//	        fmt.Print(ev.Text)
//	    case cloud.EventError:
//	        return ev.Err
//	    }
//	}
//
// # Security
//
// API keys are never logged, only a SHA-256 fingerprint. All requests use
// TLS 1.2+.
package cloud
