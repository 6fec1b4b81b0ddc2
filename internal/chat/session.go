// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/terchat/internal/cloud"
	"github.com/jeranaias/terchat/internal/model"
	"github.com/jeranaias/terchat/internal/tokens"
	"github.com/jeranaias/terchat/internal/transcript"
	"github.com/jeranaias/terchat/internal/ui/styles"
)

// Notices written when a reply does not complete.
const (
	IncompleteNotice = "stream ended before completion"
	CancelledNotice  = "Request cancelled."
)

// ReplyPrefix starts every streamed reply in the history pane.
var ReplyPrefix = model.RoleAssistant.Label()

// =============================================================================
// COLLABORATORS
// =============================================================================

// Renderer is the history side of the terminal.
type Renderer interface {
	AppendHistory(text string, tag styles.Tag) error
}

// Completer opens a streaming completion for the given context.
type Completer interface {
	ChatStream(ctx context.Context, messages []cloud.ChatMessage) (*cloud.Stream, error)
}

// =============================================================================
// RESULT
// =============================================================================

// Outcome classifies how a turn ended.
type Outcome int

const (
	// OutcomeReplied means Done arrived with a non-empty reply.
	OutcomeReplied Outcome = iota
	// OutcomeEmpty means Done arrived but no text was streamed.
	OutcomeEmpty
	// OutcomeFailed means a transport or protocol error ended the turn.
	OutcomeFailed
	// OutcomeIncomplete means the stream ended without Done.
	OutcomeIncomplete
	// OutcomeCancelled means the user aborted the turn.
	OutcomeCancelled
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeReplied:
		return "replied"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes one turn. Reply and Tokens are set only for
// OutcomeReplied; Err is set for OutcomeFailed and OutcomeCancelled.
type Result struct {
	Outcome  Outcome
	Reply    string
	Tokens   int
	Err      error
	Duration time.Duration
}

// =============================================================================
// SESSION
// =============================================================================

// Session runs request/response turns against one client and renderer.
type Session struct {
	client  Completer
	render  Renderer
	counter tokens.Counter
	logger  *zap.Logger
}

// NewSession creates a session. A nil counter uses tokens.EstimateCounter
// and a nil logger discards.
func NewSession(client Completer, render Renderer, counter tokens.Counter, logger *zap.Logger) *Session {
	if counter == nil {
		counter = tokens.EstimateCounter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		client:  client,
		render:  render,
		counter: counter,
		logger:  logger,
	}
}

// Send runs one turn: it appends prompt as a user message, streams the reply
// with the whole transcript as context, and appends the assistant message
// on a complete non-empty reply. The token count of the reply is rendered as
// a metric line.
//
// Transport and protocol failures are rendered and reported in Result. The
// returned error is non-nil only when the renderer failed.
func (s *Session) Send(ctx context.Context, store *transcript.Store, prompt string) (Result, error) {
	start := time.Now()
	store.Append(model.NewUserMessage(prompt))

	res, err := s.exchange(ctx, store)
	res.Duration = time.Since(start)

	fields := []zap.Field{
		zap.String("outcome", res.Outcome.String()),
		zap.Int("messages", store.Len()),
		zap.Duration("duration", res.Duration),
	}
	if res.Outcome == OutcomeReplied {
		fields = append(fields, zap.Int("tokens", res.Tokens), zap.Int("reply_bytes", len(res.Reply)))
	}
	if res.Err != nil {
		fields = append(fields, zap.NamedError("turn_error", res.Err))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Info("turn finished", fields...)

	return res, err
}

func (s *Session) exchange(ctx context.Context, store *transcript.Store) (Result, error) {
	stream, err := s.client.ChatStream(ctx, cloud.MessagesFromModel(store.Snapshot()))
	if err != nil {
		return s.fail(ctx, err)
	}
	defer stream.Close()

	if err := s.render.AppendHistory(ReplyPrefix, styles.TagPlain); err != nil {
		return Result{Outcome: OutcomeFailed}, err
	}

	var (
		reply   strings.Builder
		done    bool
		turnErr error
	)
events:
	for ev := range stream.Events() {
		switch ev.Kind {
		case cloud.EventDelta:
			reply.WriteString(ev.Text)
			if ev.Text == "" {
				continue
			}
			if err := s.render.AppendHistory(ev.Text, styles.TagPlain); err != nil {
				return Result{Outcome: OutcomeFailed}, err
			}
		case cloud.EventDone:
			done = true
			break events
		case cloud.EventError:
			turnErr = ev.Err
			break events
		}
	}

	if err := s.render.AppendHistory("\n", styles.TagPlain); err != nil {
		return Result{Outcome: OutcomeFailed}, err
	}

	switch {
	case turnErr != nil:
		return s.fail(ctx, turnErr)
	case !done:
		if ctx.Err() != nil {
			return s.fail(ctx, ctx.Err())
		}
		return Result{Outcome: OutcomeIncomplete}, s.render.AppendHistory(IncompleteNotice+"\n", styles.TagError)
	case reply.Len() == 0:
		return Result{Outcome: OutcomeEmpty}, nil
	}

	text := reply.String()
	store.Append(model.NewAssistantMessage(text))

	n := s.counter.Count(text)
	if n < 0 {
		n = 0
	}
	res := Result{Outcome: OutcomeReplied, Reply: text, Tokens: n}
	return res, s.render.AppendHistory(fmt.Sprintf("Tokens used: %d\n", n), styles.TagMetric)
}

// fail renders a turn-ending error and classifies it.
func (s *Session) fail(ctx context.Context, err error) (Result, error) {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return Result{Outcome: OutcomeCancelled, Err: err},
			s.render.AppendHistory(CancelledNotice+"\n", styles.TagError)
	}
	return Result{Outcome: OutcomeFailed, Err: err},
		s.render.AppendHistory(ErrorLine(err), styles.TagError)
}

// AuthHint follows an HTTP error line when the server rejected the key.
const AuthHint = "Check OPENROUTER_API_KEY or cloud.openrouter_key in ~/.terchat/config.toml."

// ErrorLine formats err as history text. HTTP status failures are shown as
// they are, with AuthHint on a second line for 401 and 403; everything else
// is prefixed with "Error: ".
func ErrorLine(err error) string {
	var perr *cloud.ProtocolError
	if errors.As(err, &perr) && perr.StatusCode != 0 {
		if perr.IsAuthFailure() {
			return perr.Error() + "\n" + AuthHint + "\n"
		}
		return perr.Error() + "\n"
	}
	return "Error: " + err.Error() + "\n"
}
