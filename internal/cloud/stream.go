// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"
	"unicode"
)

// STREAMING: Line-oriented SSE decoding, one event per record

// =============================================================================
// STREAMING CONSTANTS
// =============================================================================

const (
	// MaxLineSize is the maximum allowed size of a single stream line (1MB).
	MaxLineSize = 1024 * 1024

	dataPrefix   = "data: "
	doneSentinel = "data: [DONE]"
)

// =============================================================================
// STREAM EVENTS
// =============================================================================

// EventKind identifies the variant of a stream Event.
type EventKind int

const (
	// EventDelta carries an incremental piece of the reply.
	EventDelta EventKind = iota
	// EventDone marks the end-of-stream sentinel.
	EventDone
	// EventError carries a failure that ends the stream.
	EventError
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventDelta:
		return "delta"
	case EventDone:
		return "done"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one decoded stream record. Text is set for EventDelta and may be
// empty; Err is set for EventError.
type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// DeltaEvent returns a delta event carrying text.
func DeltaEvent(text string) Event {
	return Event{Kind: EventDelta, Text: text}
}

// DoneEvent returns the end-of-stream event.
func DoneEvent() Event {
	return Event{Kind: EventDone}
}

// ErrorEvent returns an error event wrapping err.
func ErrorEvent(err error) Event {
	return Event{Kind: EventError, Err: err}
}

// Message returns the error description of an EventError, or "".
func (e Event) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// StreamChunk represents a single `data:` record of the OpenRouter stream.
type StreamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

// GetContent returns the content from the first choice's delta.
func (c *StreamChunk) GetContent() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// apiError is the error object OpenRouter sends in error bodies and, for
// upstream failures, inside a stream record. The code is a number or a string
// depending on the provider.
type apiError struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
}

func (e *apiError) code() string {
	return strings.Trim(string(e.Code), `"`)
}

// =============================================================================
// DECODER
// =============================================================================

// Decoder turns the lines of a streaming response body into Events.
//
// The event sequence is finite and cannot be restarted. It ends after Done,
// after the first Error, or when the body is exhausted. Exhaustion without
// Done is reported by Next returning false and must be treated by the
// caller as an abnormal end of turn.
type Decoder struct {
	scanner  *bufio.Scanner
	finished bool
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Decoder{scanner: scanner}
}

// Next returns the next event. It returns false once the sequence has ended.
func (d *Decoder) Next() (Event, bool) {
	if d.finished {
		return Event{}, false
	}

	for d.scanner.Scan() {
		line := strings.TrimRightFunc(d.scanner.Text(), unicode.IsSpace)

		// Blank keep-alives and SSE comments such as ": OPENROUTER PROCESSING"
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if line == doneSentinel {
			d.finished = true
			return DoneEvent(), true
		}

		payload, ok := strings.CutPrefix(line, dataPrefix)
		if !ok {
			// event:, id:, retry: fields carry nothing we use
			continue
		}

		ev := decodeChunk(payload)
		if ev.Kind == EventError {
			d.finished = true
		}
		return ev, true
	}

	d.finished = true
	if err := d.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return ErrorEvent(&ProtocolError{
				Message: fmt.Sprintf("stream line exceeds %d bytes", MaxLineSize),
			}), true
		}
		return ErrorEvent(&TransportError{Op: "read stream", Err: err}), true
	}
	return Event{}, false
}

// All returns the remaining events as an iterator.
func (d *Decoder) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := d.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// decodeChunk parses the payload of one `data: ` line.
func decodeChunk(payload string) Event {
	if !strings.HasPrefix(strings.TrimLeftFunc(payload, unicode.IsSpace), "{") {
		return ErrorEvent(&ProtocolError{Err: fmt.Errorf("payload is not an object: %.40q", payload)})
	}
	var chunk StreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return ErrorEvent(&ProtocolError{Err: err})
	}
	if chunk.Error != nil && chunk.Error.Message != "" {
		return ErrorEvent(&ProtocolError{
			Code:    chunk.Error.code(),
			Message: chunk.Error.Message,
		})
	}
	return DeltaEvent(chunk.GetContent())
}

// =============================================================================
// STREAM
// =============================================================================

// Stream is an open streaming response. It owns the response body, which is
// released by Close or when iteration over Events ends.
type Stream struct {
	body      io.ReadCloser
	decoder   *Decoder
	closeOnce sync.Once
	closeErr  error
}

// NewStream wraps a response body.
func NewStream(body io.ReadCloser) *Stream {
	return &Stream{
		body:    body,
		decoder: NewDecoder(body),
	}
}

// Events iterates the remaining events. The body is closed when the loop
// ends, including on an early break.
func (s *Stream) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		defer s.Close()
		for ev := range s.decoder.All() {
			if !yield(ev) {
				return
			}
		}
	}
}

// Close releases the response body. It is safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
