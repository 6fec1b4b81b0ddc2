// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// TurnCanceller holds the cancel function of the turn in flight so a signal
// handler goroutine can abort it. The turn itself runs on the main goroutine.
type TurnCanceller struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// NewTurnCanceller creates an idle canceller.
func NewTurnCanceller() *TurnCanceller {
	return &TurnCanceller{}
}

// Begin derives the context for a new turn. The returned end function must
// be called when the turn finishes; it releases the context.
func (tc *TurnCanceller) Begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	tc.mu.Lock()
	tc.cancelFunc = cancel
	tc.mu.Unlock()

	return ctx, func() {
		tc.mu.Lock()
		tc.cancelFunc = nil
		tc.mu.Unlock()
		cancel()
	}
}

// Cancel aborts the turn in flight. It reports false when no turn is running.
func (tc *TurnCanceller) Cancel() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.cancelFunc == nil {
		return false
	}
	tc.cancelFunc()
	tc.cancelFunc = nil
	return true
}
