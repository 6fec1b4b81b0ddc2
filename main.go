// terchat - a two-pane terminal chat client for OpenRouter.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/terchat/internal/cli"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terchat",
		Short: "Chat with an OpenRouter model in the terminal",
		Long: `terchat opens a two-pane chat screen: history on top, input below.

Type a message and press Enter to stream a reply. Commands:
  /reset   clear the conversation
  /help    list commands
  /save    write the transcript to chat_history.txt
  exit     leave (also quit, Ctrl+C or Ctrl+D at the prompt)

The API key is read from OPENROUTER_API_KEY, .env or ~/.terchat/config.toml,
and asked for once when none is set.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &cli.StartupError{Code: cli.ExitUsageError, Stage: "parse arguments", Err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Start(cmd.Context(), cli.StdStreams())
		},
	}
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
