// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnCanceller_CancelsActiveTurn(t *testing.T) {
	tc := NewTurnCanceller()
	ctx, end := tc.Begin(context.Background())
	defer end()

	assert.True(t, tc.Cancel())
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, tc.Cancel(), "second cancel is a no-op")
}

func TestTurnCanceller_IdleBetweenTurns(t *testing.T) {
	tc := NewTurnCanceller()
	assert.False(t, tc.Cancel())

	ctx, end := tc.Begin(context.Background())
	end()
	assert.ErrorIs(t, ctx.Err(), context.Canceled, "end releases the context")
	assert.False(t, tc.Cancel())
}

func TestTurnCanceller_ConcurrentCancel(t *testing.T) {
	tc := NewTurnCanceller()
	ctx, end := tc.Begin(context.Background())
	defer end()

	done := make(chan bool)
	go func() { done <- tc.Cancel() }()

	assert.True(t, <-done)
	<-ctx.Done()
}
