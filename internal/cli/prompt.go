// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/terchat/internal/ui/styles"
)

// =============================================================================
// CREDENTIAL PROMPT
// =============================================================================

const keyPromptLabel = "OpenRouter API key: "

// keyPrompt is a one-field form with masked input.
type keyPrompt struct {
	input   textinput.Model
	value   string
	done    bool
	aborted bool
}

func newKeyPrompt() keyPrompt {
	ti := textinput.New()
	ti.Prompt = keyPromptLabel
	ti.Placeholder = "sk-or-..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	ti.Focus()
	return keyPrompt{input: ti}
}

func (m keyPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (m keyPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			if m.value == "" {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m keyPrompt) View() string {
	if m.done || m.aborted {
		return ""
	}
	hint := lipgloss.NewStyle().Foreground(styles.Yellow).
		Render("No API key configured. Set OPENROUTER_API_KEY to skip this prompt.")
	return hint + "\n\n" + m.input.View() + "\n\n(enter to confirm, esc to cancel)\n"
}

// PromptAPIKey asks for the API key once. On a terminal the input is
// masked; otherwise one line is read from in. An empty answer or a cancel
// returns ErrNoAPIKey.
func PromptAPIKey(in io.Reader, out io.Writer, tty bool) (string, error) {
	if !tty {
		return readKeyLine(in, out)
	}

	final, err := tea.NewProgram(newKeyPrompt(), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", fmt.Errorf("credential prompt: %w", err)
	}
	m, ok := final.(keyPrompt)
	if !ok || !m.done {
		return "", ErrNoAPIKey
	}
	return m.value, nil
}

func readKeyLine(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, keyPromptLabel)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("credential prompt: %w", err)
	}
	fmt.Fprintln(out)

	key := strings.TrimSpace(line)
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}
