// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires terchat together and owns process startup.
//
// Start loads configuration, opens the log file, asks for the API key when
// none is configured, then hands the terminal to the chat screen. Only
// startup failures come back as errors; ExitCode maps them to exit codes:
//
//	ExitConfigError    bad config file, .env or log path
//	ExitAuthError      no API key entered
//	ExitTerminalError  stdout is not a terminal, or it is too small
//
// During a session SIGINT cancels the reply being streamed, while SIGTERM
// and SIGHUP end the session.
package cli
