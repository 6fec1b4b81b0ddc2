// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

// echoControl switches terminal echo. Only the ECHO flag is touched, so
// signal keys and output processing keep working while echo is off.
type echoControl interface {
	setEcho(on bool) error
	restore() error
}

type nopEcho struct{}

func (nopEcho) setEcho(bool) error { return nil }
func (nopEcho) restore() error     { return nil }
