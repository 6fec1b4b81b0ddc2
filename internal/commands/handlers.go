// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeranaias/terchat/internal/ui/styles"
)

// Lines written by the built-in commands.
const (
	FarewellText = "Goodbye!"
	ResetText    = "Conversation history cleared."
)

func handleExit(_ context.Context, r *Router) (State, error) {
	return StateExited, r.say(FarewellText, styles.TagInfo)
}

func handleReset(_ context.Context, r *Router) (State, error) {
	r.store.Reset()
	r.logger.Debug("transcript reset", zap.Int("messages", r.store.Len()))
	return StateAwait, r.say(ResetText, styles.TagInfo)
}

func handleHelp(_ context.Context, r *Router) (State, error) {
	return StateAwait, r.say(r.registry.HelpLine(), styles.TagMetric)
}

// handleSave overwrites the transcript file. A write failure is shown and
// the loop continues.
func handleSave(_ context.Context, r *Router) (State, error) {
	msgs := r.store.Snapshot()
	if err := r.save(r.transcriptPath, msgs); err != nil {
		r.logger.Warn("save transcript", zap.String("path", r.transcriptPath), zap.Error(err))
		return StateAwait, r.say("Error: save transcript: "+err.Error(), styles.TagError)
	}
	r.logger.Info("transcript saved", zap.String("path", r.transcriptPath), zap.Int("messages", len(msgs)))
	return StateAwait, r.say(fmt.Sprintf("History saved to %s.", r.transcriptPath), styles.TagInfo)
}
