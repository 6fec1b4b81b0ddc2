// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pane

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeranaias/terchat/internal/ui/styles"
)

const tabWidth = 8

// SizeFunc reports the terminal size as columns, rows.
type SizeFunc func() (cols, rows int, err error)

// TerminalSize returns a SizeFunc for the terminal on fd.
func TerminalSize(fd int) SizeFunc {
	return func() (int, int, error) {
		return term.GetSize(fd)
	}
}

// Options configures a Renderer.
type Options struct {
	// Palette styles tagged history text. Nil means no styling.
	Palette *styles.Palette

	// Size reports the terminal size. Defaults to stdout's size.
	Size SizeFunc

	// EchoFD is the terminal whose echo is turned off between reads.
	// A negative value or a non-terminal disables echo control.
	EchoFD int

	// MaxInputChars bounds an input line. Defaults to DefaultMaxInputChars.
	MaxInputChars int

	// ScrollbackBytes bounds the history kept for redraws.
	ScrollbackBytes int

	// AltScreen switches to the alternate screen for the renderer's lifetime.
	AltScreen bool

	Logger *zap.Logger
}

// Renderer owns two regions of one terminal: a scrolling history pane and a
// three-row input pane below it. History writes never move into the input
// pane; the terminal's scroll region is restricted to the history rows.
//
// A Renderer is used from a single goroutine.
type Renderer struct {
	w       io.Writer
	buf     bytes.Buffer
	seq     *termenv.Output
	in      LineReader
	palette *styles.Palette
	size    SizeFunc
	echo    echoControl
	logger  *zap.Logger

	layout    Layout
	suspended bool
	history   *scrollback
	maxInput  int
	altScreen bool
	closed    bool
}

// New checks the terminal size, takes over the screen and returns a
// Renderer. A terminal below MinRows x MinCols fails with *SizeError before
// anything is written.
func New(w io.Writer, in LineReader, opts Options) (*Renderer, error) {
	if opts.Size == nil {
		opts.Size = TerminalSize(int(os.Stdout.Fd()))
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cols, rows, err := opts.Size()
	if err != nil {
		return nil, &RenderError{Op: "query size", Err: err}
	}
	layout, err := NewLayout(rows, cols)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		w:         w,
		in:        in,
		palette:   opts.Palette,
		size:      opts.Size,
		echo:      nopEcho{},
		logger:    opts.Logger,
		layout:    layout,
		history:   newScrollback(opts.ScrollbackBytes),
		maxInput:  opts.MaxInputChars,
		altScreen: opts.AltScreen,
	}
	r.seq = termenv.NewOutput(&r.buf, termenv.WithProfile(termenv.Ascii))

	if opts.EchoFD >= 0 && term.IsTerminal(opts.EchoFD) {
		if ec, err := newEchoControl(opts.EchoFD); err == nil {
			r.echo = ec
		} else {
			r.logger.Warn("echo control unavailable", zap.Error(err))
		}
	}

	if r.altScreen {
		r.seq.AltScreen()
	}
	if err := r.redraw(); err != nil {
		return nil, err
	}
	if err := r.echo.setEcho(false); err != nil {
		r.logger.Warn("disable echo", zap.Error(err))
	}
	return r, nil
}

// Layout returns the current layout.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// AppendHistory writes text at the history cursor, wrapping at the pane
// width and scrolling the pane when the text passes its last row. Text is
// written as given; tag selects its color.
func (r *Renderer) AppendHistory(text string, tag styles.Tag) error {
	r.history.add(text, tag)

	redrawn, err := r.syncSize()
	if err != nil || redrawn || r.suspended {
		// A redraw replays the scrollback, which already holds text.
		return err
	}

	r.buf.Reset()
	r.moveTo(r.layout.History)
	r.writeWrapped(text, tag)
	return r.flush("append history")
}

// ReadInputLine clears the input pane, draws prompt, and blocks for one line
// with echo on. Echo is off again when it returns. The line is trimmed and
// bounded; if it had to be repaired or truncated the usable line is returned
// together with an *InputError.
func (r *Renderer) ReadInputLine(prompt string) (string, error) {
	if _, err := r.syncSize(); err != nil {
		return "", err
	}

	if !r.suspended {
		r.buf.Reset()
		r.clearInput()
		in := r.layout.Input
		in.Row, in.Col = 0, 0
		r.moveTo(in)
		r.buf.WriteString(prompt)
		// The reader redraws the prompt itself from column 0.
		r.moveTo(in)
		if err := r.flush("draw prompt"); err != nil {
			return "", err
		}
	}

	if err := r.echo.setEcho(true); err != nil {
		r.logger.Warn("enable echo", zap.Error(err))
	}
	line, err := r.in.ReadLine(prompt)
	if echoErr := r.echo.setEcho(false); echoErr != nil {
		r.logger.Warn("disable echo", zap.Error(echoErr))
	}
	if err != nil {
		if errors.Is(err, ErrInterrupted) || errors.Is(err, io.EOF) {
			return "", err
		}
		return "", fmt.Errorf("read input: %w", err)
	}

	return sanitizeInput(line, r.maxInput)
}

// Close restores the scroll region, screen and echo, and closes the reader.
// It is safe to call more than once.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	r.buf.Reset()
	if !r.suspended {
		r.seq.ChangeScrollingRegion(1, r.layout.Rows)
		r.clearInput()
	}
	if r.altScreen {
		r.seq.ExitAltScreen()
	}
	r.seq.ShowCursor()
	errs := []error{r.flush("restore screen"), r.echo.restore()}
	if r.in != nil {
		errs = append(errs, r.in.Close())
	}
	return errors.Join(errs...)
}

// syncSize re-reads the terminal size and relays out on change. It reports
// whether the screen was redrawn. A terminal shrunk below the minimum
// suspends drawing until it grows again.
func (r *Renderer) syncSize() (bool, error) {
	cols, rows, err := r.size()
	if err != nil {
		return false, &RenderError{Op: "query size", Err: err}
	}
	if rows == r.layout.Rows && cols == r.layout.Cols {
		return false, nil
	}

	layout, err := NewLayout(rows, cols)
	if err != nil {
		r.logger.Warn("terminal below minimum size", zap.Int("rows", rows), zap.Int("cols", cols))
		r.layout = Layout{Rows: rows, Cols: cols}
		r.suspended = true
		return false, nil
	}

	r.logger.Debug("terminal resized", zap.Int("rows", rows), zap.Int("cols", cols))
	r.layout = layout
	r.suspended = false
	return true, r.redraw()
}

// redraw clears the screen, sets the scroll region and replays scrollback.
func (r *Renderer) redraw() error {
	hist := &r.layout.History
	hist.Row, hist.Col = 0, 0

	r.seq.ChangeScrollingRegion(hist.Top+1, hist.Bottom()+1)
	r.seq.ClearScreen()
	r.moveTo(*hist)
	r.history.each(func(text string, tag styles.Tag) {
		r.writeWrapped(text, tag)
	})
	return r.flush("redraw")
}

// writeWrapped renders text into the history pane at its cursor. Lines
// break explicitly at the pane width; a break on the last row scrolls the
// region. Control characters other than newline and tab are not written.
func (r *Renderer) writeWrapped(text string, tag styles.Tag) {
	hist := &r.layout.History
	var run strings.Builder

	flushRun := func() {
		if run.Len() == 0 {
			return
		}
		if r.palette != nil {
			r.buf.WriteString(r.palette.Render(tag, run.String()))
		} else {
			r.buf.WriteString(run.String())
		}
		run.Reset()
	}
	newline := func() {
		flushRun()
		r.buf.WriteString("\r\n")
		hist.Col = 0
		if hist.Row < hist.Height-1 {
			hist.Row++
		}
	}

	for _, ch := range text {
		switch {
		case ch == '\n':
			newline()
		case ch == '\t':
			n := tabWidth - hist.Col%tabWidth
			if hist.Col+n > hist.Width {
				n = hist.Width - hist.Col
			}
			run.WriteString(strings.Repeat(" ", n))
			hist.Col += n
		case unicode.IsControl(ch):
			continue
		default:
			w := runewidth.RuneWidth(ch)
			if hist.Col+w > hist.Width {
				newline()
			}
			run.WriteRune(ch)
			hist.Col += w
		}
	}
	flushRun()
}

// clearInput blanks every row of the input pane.
func (r *Renderer) clearInput() {
	in := r.layout.Input
	for row := 0; row < in.Height; row++ {
		r.seq.MoveCursor(in.Top+row+1, in.Left+1)
		r.seq.ClearLine()
	}
}

func (r *Renderer) moveTo(reg Region) {
	row, col := reg.ScreenPos()
	r.seq.MoveCursor(row, col)
}

// flush writes the composed buffer in one call.
func (r *Renderer) flush(op string) error {
	if r.buf.Len() == 0 {
		return nil
	}
	_, err := r.w.Write(r.buf.Bytes())
	r.buf.Reset()
	if err != nil {
		return &RenderError{Op: op, Err: err}
	}
	return nil
}
