// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// State is where the router is after handling one line.
type State int

const (
	// StateAwait means the router wants another line.
	StateAwait State = iota
	// StateExited is terminal.
	StateExited
)

// Handler executes a command against the router.
type Handler func(ctx context.Context, r *Router) (State, error)

// Command is a control word recognized on a line of its own.
type Command struct {
	// Name is the primary token, lower case (e.g. "/help").
	Name string

	// Aliases are alternative tokens (e.g. "quit").
	Aliases []string

	// Description is logged when the command runs.
	Description string

	// Handler runs the command.
	Handler Handler

	// Hidden commands are left out of the help line.
	Hidden bool
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the recognized commands. Lookups are case-insensitive.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
}

// NewRegistry creates a registry with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds cmd, replacing any command with the same name.
func (r *Registry) Register(cmd *Command) {
	name := strings.ToLower(cmd.Name)
	if _, ok := r.commands[name]; !ok {
		r.order = append(r.order, cmd)
	} else {
		for i, c := range r.order {
			if strings.EqualFold(c.Name, name) {
				r.order[i] = cmd
			}
		}
	}
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[strings.ToLower(alias)] = cmd
	}
}

// Get retrieves a command by name or alias, ignoring case.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns the commands in registration order.
func (r *Registry) All() []*Command {
	return append([]*Command(nil), r.order...)
}

// HelpLine lists the visible commands, e.g. "Commands: /reset, /help".
func (r *Registry) HelpLine() string {
	names := make([]string, 0, len(r.order))
	for _, cmd := range r.All() {
		if !cmd.Hidden {
			names = append(names, cmd.Name)
		}
	}
	return "Commands: " + strings.Join(names, ", ")
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/reset",
		Description: "Clear the conversation, keeping the system prompt",
		Handler:     handleReset,
	})

	r.Register(&Command{
		Name:        "/help",
		Description: "List commands",
		Handler:     handleHelp,
	})

	r.Register(&Command{
		Name:        "/save",
		Description: "Write the transcript to a file",
		Handler:     handleSave,
	})

	r.Register(&Command{
		Name:        "exit",
		Aliases:     []string{"quit"},
		Description: "Leave the chat",
		Handler:     handleExit,
	})
}
