// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func isTerminalFile(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// TTYRequiredError is returned when the chat screen has no terminal to draw on.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation != "" {
		return "not a terminal; cannot " + e.Operation
	}
	return "not a terminal"
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

// ColorsEnabled reports whether colored output should be used. NO_COLOR
// disables color (https://no-color.org/), FORCE_COLOR enables it, and
// otherwise color follows whether stdout is a terminal.
func ColorsEnabled(getenv func(string) string, stdoutTTY bool) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("FORCE_COLOR") != "" {
		return true
	}
	return stdoutTTY
}

// ColorProfile returns the termenv profile for stdout.
func ColorProfile() termenv.Profile {
	if !ColorsEnabled(os.Getenv, IsStdoutTTY()) {
		return termenv.Ascii
	}
	profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
	if profile == termenv.Ascii {
		// FORCE_COLOR on a pipe: the four tag colors are plain ANSI.
		return termenv.ANSI
	}
	return profile
}
