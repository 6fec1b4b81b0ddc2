// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/terchat/internal/chat"
	"github.com/jeranaias/terchat/internal/cloud"
	"github.com/jeranaias/terchat/internal/commands"
	"github.com/jeranaias/terchat/internal/config"
	"github.com/jeranaias/terchat/internal/logging"
	"github.com/jeranaias/terchat/internal/tokens"
	"github.com/jeranaias/terchat/internal/transcript"
	"github.com/jeranaias/terchat/internal/ui/pane"
	"github.com/jeranaias/terchat/internal/ui/styles"
)

// Lines shown when the chat screen opens.
const (
	WelcomeText = "Welcome to AI chat!"
	HintText    = "Type 'exit' to quit, '/help' for commands."
)

// Streams are the process's standard files.
type Streams struct {
	In  *os.File
	Out *os.File
	Err io.Writer
}

// StdStreams returns stdin, stdout and stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// =============================================================================
// STARTUP
// =============================================================================

// Start loads the configuration, opens the log, resolves the API key and
// runs the chat until the user leaves. Errors are *StartupError; pass them
// to ExitCode.
func Start(ctx context.Context, std Streams) error {
	cfg, err := config.Load()
	if err != nil {
		return &StartupError{Code: ExitConfigError, Stage: "load config", Err: err}
	}

	logger, closeLog, err := logging.New(logging.Options{
		Path:      logPath(cfg),
		Level:     cfg.Log.Level,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return &StartupError{Code: ExitConfigError, Stage: "open log", Err: err}
	}
	defer closeLog()

	if cfg.Cloud.OpenRouterKey == "" {
		key, err := PromptAPIKey(std.In, std.Out, IsTTY())
		if err != nil {
			return &StartupError{Code: ExitAuthError, Stage: "read API key", Err: err}
		}
		cfg.Cloud.OpenRouterKey = key
	}
	if !cloud.ValidateAPIKey(cfg.Cloud.OpenRouterKey) {
		logger.Warn("API key does not look like an OpenRouter key",
			zap.String("key_fingerprint", cloud.Fingerprint(cfg.Cloud.OpenRouterKey)))
	}

	return Chat(ctx, cfg, logger, std)
}

func logPath(cfg *config.Config) string {
	if cfg.LogDisabled() {
		return logging.Off
	}
	return cfg.Log.Path
}

// NewClient builds the OpenRouter client described by cfg.
func NewClient(cfg *config.Config, logger *zap.Logger) *cloud.OpenRouterClient {
	return cloud.NewOpenRouterClient(cfg.Cloud.OpenRouterKey).
		WithBaseURL(cfg.Cloud.BaseURL).
		WithModel(cfg.Model).
		WithSiteURL(cfg.Cloud.SiteURL).
		WithSiteName(cfg.Cloud.SiteName).
		WithLogger(logger)
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

// Chat takes over the terminal and runs the read/send loop. Only failures
// to start are returned. A terminal that breaks mid-session ends the loop
// with a message on stderr and a nil error.
func Chat(ctx context.Context, cfg *config.Config, logger *zap.Logger, std Streams) error {
	if !isTerminalFile(std.Out) {
		return &StartupError{
			Code:  ExitTerminalError,
			Stage: "start chat",
			Err:   &TTYRequiredError{Operation: "draw the chat screen"},
		}
	}

	client := NewClient(cfg, logger)
	logger = logger.With(zap.String("model", client.Model()))
	logger.Info("session started", zap.String("key_fingerprint", client.KeyFingerprint()))

	counter, err := tokens.New(cfg.Tokens.EncodingModel)
	if err != nil {
		logger.Warn("tokenizer unavailable, estimating", zap.Error(err))
	}

	renderer := lipgloss.NewRenderer(std.Out)
	renderer.SetColorProfile(ColorProfile())
	screen, err := pane.New(std.Out, pane.NewLinerReader(), pane.Options{
		Palette:         styles.NewPalette(renderer),
		Size:            pane.TerminalSize(int(std.Out.Fd())),
		EchoFD:          int(std.In.Fd()),
		MaxInputChars:   cfg.MaxInputChars,
		ScrollbackBytes: cfg.UI.ScrollbackBytes,
		AltScreen:       cfg.UI.AltScreen,
		Logger:          logger,
	})
	if err != nil {
		code := ExitGeneralError
		var sizeErr *pane.SizeError
		if errors.As(err, &sizeErr) {
			code = ExitTerminalError
		}
		return &StartupError{Code: code, Stage: "start chat", Err: err}
	}

	canceller := chat.NewTurnCanceller()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	stopInterrupts := cancelOnInterrupt(canceller, logger)
	defer stopInterrupts()

	runErr := runLoop(ctx, screen, cfg, chat.NewSession(client, screen, counter, logger), canceller, logger)
	closeErr := screen.Close()

	if err := errors.Join(runErr, closeErr); err != nil {
		logger.Error("chat ended abnormally", zap.Error(err))
		fmt.Fprintf(std.Err, "terchat: %v\n", err)
	}
	logger.Info("session ended")
	return nil
}

func runLoop(ctx context.Context, screen *pane.Renderer, cfg *config.Config, session *chat.Session, canceller *chat.TurnCanceller, logger *zap.Logger) error {
	if err := screen.AppendHistory(WelcomeText+"\n", styles.TagInfo); err != nil {
		return err
	}
	if err := screen.AppendHistory(HintText+"\n", styles.TagMetric); err != nil {
		return err
	}

	router := commands.New(screen, session, transcript.New(cfg.SystemPrompt), commands.Options{
		TranscriptPath: cfg.TranscriptPath,
		Canceller:      canceller,
		Logger:         logger,
	})
	return router.Run(ctx)
}

// cancelOnInterrupt turns SIGINT into a cancel of the turn in flight. At
// the prompt the line reader sees Ctrl+C itself, so no signal arrives.
func cancelOnInterrupt(canceller *chat.TurnCanceller, logger *zap.Logger) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, os.Interrupt)

	go func() {
		for {
			select {
			case <-sigCh:
				if canceller.Cancel() {
					logger.Info("turn cancelled by interrupt")
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
