// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/terchat/internal/config"
	"github.com/jeranaias/terchat/internal/ui/pane"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates a missing or rejected API key
	ExitAuthError = 4
	// ExitTerminalError indicates the terminal cannot host the chat screen
	ExitTerminalError = 9
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// StartupError is a failure before the chat loop starts.
type StartupError struct {
	Code  int    // process exit code
	Stage string // e.g. "load config"
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// ErrNoAPIKey means no credential was configured or entered.
var ErrNoAPIKey = errors.New("no OpenRouter API key provided")

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var startup *StartupError
	if errors.As(err, &startup) {
		return startup.Code
	}

	var (
		verrs   config.ValidateErrors
		sizeErr *pane.SizeError
	)
	switch {
	case errors.As(err, &verrs):
		return ExitConfigError
	case errors.Is(err, ErrNoAPIKey):
		return ExitAuthError
	case errors.As(err, &sizeErr):
		return ExitTerminalError
	}
	return ExitGeneralError
}
