// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversation messages.
//
// # Key Types
//
//   - Role: Message role enumeration (system, user, assistant)
//   - Message: Single immutable message with role and content
//
// # Usage
//
//	msg := model.NewUserMessage("Hello!")
//	fmt.Println(msg.Role.DisplayName(), msg.Content)
package model
