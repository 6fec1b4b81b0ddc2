// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/jeranaias/terchat/internal/chat"
	"github.com/jeranaias/terchat/internal/export"
	"github.com/jeranaias/terchat/internal/model"
	"github.com/jeranaias/terchat/internal/transcript"
	"github.com/jeranaias/terchat/internal/ui/pane"
	"github.com/jeranaias/terchat/internal/ui/styles"
)

// DefaultTranscriptPath is where /save writes when Options leaves it empty.
const DefaultTranscriptPath = "chat_history.txt"

// Prompt labels the input pane and the echo of each line sent.
var Prompt = model.RoleUser.Label()

// Terminal is the part of the renderer the router drives.
type Terminal interface {
	AppendHistory(text string, tag styles.Tag) error
	ReadInputLine(prompt string) (string, error)
}

// Sender runs one chat turn.
type Sender interface {
	Send(ctx context.Context, store *transcript.Store, prompt string) (chat.Result, error)
}

// SaveFunc writes messages to path.
type SaveFunc func(path string, messages []model.Message) error

// Options configures a Router.
type Options struct {
	// TranscriptPath is where /save writes. Defaults to DefaultTranscriptPath.
	TranscriptPath string

	// Save writes the transcript. Defaults to export.SaveText.
	Save SaveFunc

	// Canceller scopes each turn so an interrupt can abort it. Optional.
	Canceller *chat.TurnCanceller

	Registry *Registry
	Logger   *zap.Logger
}

// Router reads lines from the terminal and dispatches them until the user
// leaves. It is a two-state machine: awaiting input, or exited.
type Router struct {
	term     Terminal
	session  Sender
	store    *transcript.Store
	registry *Registry
	parser   *Parser
	cancel   *chat.TurnCanceller
	logger   *zap.Logger

	transcriptPath string
	save           SaveFunc
}

// New creates a router.
func New(term Terminal, session Sender, store *transcript.Store, opts Options) *Router {
	if opts.TranscriptPath == "" {
		opts.TranscriptPath = DefaultTranscriptPath
	}
	if opts.Save == nil {
		opts.Save = export.SaveText
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Router{
		term:           term,
		session:        session,
		store:          store,
		registry:       opts.Registry,
		parser:         NewParser(opts.Registry),
		cancel:         opts.Canceller,
		logger:         opts.Logger,
		transcriptPath: opts.TranscriptPath,
		save:           opts.Save,
	}
}

// Run loops until exit, end of input, an interrupt at the prompt, or ctx is
// done. It returns nil on a normal exit. A non-nil error means the terminal
// could no longer be used.
func (r *Router) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return r.recoverRender(r.say(FarewellText, styles.TagInfo))
		}

		line, err := r.term.ReadInputLine(Prompt)
		var (
			inputErr  *pane.InputError
			renderErr *pane.RenderError
		)
		switch {
		case err == nil:
		case errors.As(err, &renderErr):
			if err := r.recoverRender(err); err != nil {
				return err
			}
			continue
		case errors.As(err, &inputErr):
			r.logger.Debug("input adjusted", zap.Error(err))
			if err := r.recoverRender(r.say(err.Error(), styles.TagError)); err != nil {
				return err
			}
		case errors.Is(err, pane.ErrInterrupted), errors.Is(err, io.EOF):
			r.logger.Debug("input closed", zap.Error(err))
			return r.recoverRender(r.say(FarewellText, styles.TagInfo))
		default:
			return err
		}

		state, err := r.Handle(ctx, line)
		if err := r.recoverRender(err); err != nil {
			return err
		}
		if state == StateExited {
			return nil
		}
	}
}

// Handle processes one line and reports the next state. Non-empty lines are
// echoed to history first. The error is non-nil only when the terminal
// failed.
func (r *Router) Handle(ctx context.Context, line string) (State, error) {
	res := r.parser.Parse(line)
	if res.Kind == KindEmpty {
		return StateAwait, nil
	}

	if err := r.say(Prompt+res.Text, styles.TagUser); err != nil {
		return StateAwait, err
	}

	if res.Kind == KindCommand {
		r.logger.Debug("command",
			zap.String("name", res.Command.Name),
			zap.String("description", res.Command.Description))
		return res.Command.Handler(ctx, r)
	}

	if IsSlashWord(res.Text) {
		r.logger.Debug("unrecognized command sent as message", zap.String("text", res.Text))
	}
	return StateAwait, r.send(ctx, res.Text)
}

func (r *Router) send(ctx context.Context, text string) error {
	if r.cancel != nil {
		var end func()
		ctx, end = r.cancel.Begin(ctx)
		defer end()
	}
	_, err := r.session.Send(ctx, r.store, text)
	return err
}

// recoverRender gives a failed render one best-effort attempt to show
// itself in history. It returns err when that attempt also fails.
func (r *Router) recoverRender(err error) error {
	if err == nil {
		return nil
	}
	r.logger.Error("render failed", zap.Error(err))
	if r.say("Error: "+err.Error(), styles.TagError) != nil {
		return err
	}
	return nil
}

// say appends text as one history line.
func (r *Router) say(text string, tag styles.Tag) error {
	return r.term.AppendHistory(text+"\n", tag)
}
