// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/terchat/internal/model"
)

const testKey = "sk-or-test-abcdefghijklmnopqrstuvwxyz0123456789"

func newTestClient(url string) *OpenRouterClient {
	return NewOpenRouterClient(testKey).
		WithBaseURL(url).
		WithHTTPClient(http.DefaultClient)
}

// sseHandler writes the given lines as an event stream.
func sseHandler(t *testing.T, seen *ChatRequest, header *http.Header, ls ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if header != nil {
			*header = r.Header.Clone()
		}
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, l := range ls {
			fmt.Fprintf(w, "%s\n", l)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

func TestChatStream_RequestShape(t *testing.T) {
	var req ChatRequest
	var header http.Header
	server := httptest.NewServer(sseHandler(t, &req, &header, `data: [DONE]`))
	defer server.Close()

	client := newTestClient(server.URL + "/").
		WithModel("test/model").
		WithSiteURL("https://example.com").
		WithSiteName("Ter Chat")

	msgs := MessagesFromModel([]model.Message{
		model.NewSystemMessage("sys"),
		model.NewUserMessage("hello"),
		model.NewUserMessage("hello"),
	})
	stream, err := client.ChatStream(context.Background(), msgs)
	require.NoError(t, err)
	defer stream.Close()

	for range stream.Events() {
	}

	assert.Equal(t, "test/model", req.Model)
	assert.True(t, req.Stream)
	assert.Equal(t, msgs, req.Messages)

	assert.Equal(t, "Bearer "+testKey, header.Get("Authorization"))
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Equal(t, "https://example.com", header.Get("HTTP-Referer"))
	assert.Equal(t, "Ter Chat", header.Get("X-Title"))
}

func TestChatStream_StreamsDeltas(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, nil, nil,
		`data: {"choices":[{"delta":{"content":"He"}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":"llo"}}]}`,
		`data: [DONE]`,
	))
	defer server.Close()

	stream, err := newTestClient(server.URL).ChatStream(context.Background(),
		[]ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	var kinds []EventKind
	var reply strings.Builder
	for ev := range stream.Events() {
		kinds = append(kinds, ev.Kind)
		reply.WriteString(ev.Text)
	}
	assert.Equal(t, []EventKind{EventDelta, EventDelta, EventDone}, kinds)
	assert.Equal(t, "Hello", reply.String())
}

func TestChatStream_NonOKStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantString string
	}{
		{
			name:       "plain body",
			status:     http.StatusServiceUnavailable,
			body:       "busy",
			wantString: "HTTP error: 503 Service Unavailable",
		},
		{
			name:       "api error body",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"code":401,"message":"No auth credentials found"}}`,
			wantMsg:    "No auth credentials found",
			wantString: "HTTP error: 401 Unauthorized: No auth credentials found",
		},
		{
			name:       "string code",
			status:     http.StatusTooManyRequests,
			body:       `{"error":{"code":"rate_limited","message":"slow down"}}`,
			wantMsg:    "slow down",
			wantString: "HTTP error: 429 Too Many Requests: slow down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			stream, err := newTestClient(server.URL).ChatStream(context.Background(), nil)
			require.Nil(t, stream)

			var perr *ProtocolError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.status, perr.StatusCode)
			assert.Equal(t, tt.wantMsg, perr.Message)
			assert.Equal(t, tt.wantString, perr.Error())
		})
	}
}

func TestChatStream_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ChatStream(context.Background(), nil)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.IsAuthFailure())
}

func TestChatStream_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url).ChatStream(context.Background(), nil)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Error(), "POST /chat/completions")
}

func TestChatStream_CanceledContext(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, nil, nil, `data: [DONE]`))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).ChatStream(ctx, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestChatStream_NotConfigured(t *testing.T) {
	_, err := NewOpenRouterClient("   ").ChatStream(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewOpenRouterClient_Defaults(t *testing.T) {
	c := NewOpenRouterClient(testKey)
	assert.Equal(t, DefaultModel, c.Model())
	assert.True(t, c.IsConfigured())

	c.WithModel("")
	assert.Equal(t, DefaultModel, c.Model(), "empty model keeps the default")
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "none", Fingerprint(""))

	fp := Fingerprint(testKey)
	assert.Len(t, fp, 8)
	assert.Equal(t, fp, NewOpenRouterClient(testKey).KeyFingerprint())
}

func TestValidateAPIKey(t *testing.T) {
	assert.True(t, ValidateAPIKey(testKey))
	assert.False(t, ValidateAPIKey("sk-or-short"))
	assert.False(t, ValidateAPIKey("sk-proj-abcdefghijklmnopqrstuvwxyz0123456789"))
}

func TestMessagesFromModel(t *testing.T) {
	got := MessagesFromModel([]model.Message{
		model.NewSystemMessage("s"),
		model.NewUserMessage("u"),
		model.NewAssistantMessage("a"),
	})
	assert.Equal(t, []ChatMessage{
		{Role: "system", Content: "s"},
		{Role: "user", Content: "u"},
		{Role: "assistant", Content: "a"},
	}, got)
}
