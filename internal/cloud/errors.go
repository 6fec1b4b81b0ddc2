// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrNotConfigured indicates the API key is not set.
var ErrNotConfigured = errors.New("OpenRouter API key not configured")

// TransportError reports a failure below the HTTP layer: DNS, connection,
// TLS, timeout, or a broken body read while streaming.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a response the client cannot accept: a non-200
// status before streaming starts, or a stream record that fails to decode
// or carries an API error.
//
// StatusCode is zero for errors raised mid-stream.
type ProtocolError struct {
	StatusCode int
	Reason     string
	Code       string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	switch {
	case e.StatusCode != 0:
		s := fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Reason)
		if e.Message != "" {
			s += ": " + e.Message
		}
		return s
	case e.Err != nil:
		return fmt.Sprintf("malformed stream chunk: %v", e.Err)
	case e.Code != "":
		return fmt.Sprintf("stream error [%s]: %s", e.Code, e.Message)
	default:
		return "stream error: " + e.Message
	}
}

// Unwrap returns the decode error, if any.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// IsAuthFailure reports whether the server rejected the credential.
func (e *ProtocolError) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// statusReason extracts the reason phrase from an HTTP status line such as
// "404 Not Found", falling back to the standard text for the code.
func statusReason(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}
